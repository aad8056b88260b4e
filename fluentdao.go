// Package fluentdao; MySQL tablolarına şema güdümlü erişim sağlar.
//
// Yazar: Ahmet ALTUN
// Github: github.com/biyonik
// LinkedIn: linkedin.com/in/biyonik
// Email: ahmet.altun60@gmail.com
package fluentdao

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/biyonik/go-fluent-dao/schema/redisstore"
)

// Version, go-fluent-dao kütüphanesinin mevcut sürümünü belirtir.
const Version = "0.2.0"

// Connect, Config ile bir MySQL bağlantı havuzu açar, havuz ayarlarını uygular
// ve bağlantıyı doğrular.
//
// Sunucuya ulaşılamazsa dönen hata SchemaError'dır; katalog yüklenemeden
// hiçbir tabloya erişilemez.
func Connect(ctx context.Context, cfg *Config) (*sql.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	connector, err := mysql.NewConnector(cfg.MySQL())
	if err != nil {
		return nil, &ConfigurationError{Field: "dsn", Reason: err.Error()}
	}
	db := sql.OpenDB(connector)

	// Bağlantı havuz ayarlarını uygula
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &SchemaError{Err: WrapError("ping "+cfg.Database, err)}
	}
	return db, nil
}

// Open, bağlanır, Config.Tables ile sınırlanmış (boşsa tüm) tabloların
// kataloğunu yükler ve kullanıma hazır bir Accessor döndürür. Close, açılan
// bağlantıyı (ve varsa Redis istemcisini) kapatır.
//
// Config'ten gelen gramer ve debug ayarları, opts ile ezilebilir.
func Open(ctx context.Context, cfg *Config, opts ...Option) (*Accessor, error) {
	db, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	closers := closeAll{db}

	base := []Option{WithGrammar(cfg.Grammar()), WithDebug(cfg.Debug)}
	if cfg.Redis.Enabled {
		rc := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		closers = append(closers, rc)

		var storeOpts []redisstore.Option
		if cfg.Redis.Prefix != "" {
			storeOpts = append(storeOpts, redisstore.WithPrefix(cfg.Redis.Prefix))
		}
		if cfg.Redis.TTL > 0 {
			storeOpts = append(storeOpts, redisstore.WithTTL(cfg.Redis.TTL))
		}
		base = append(base, WithSnapshotStore(redisstore.New(rc, storeOpts...)))
	}

	a, err := Reflect(ctx, db, cfg.Database, cfg.Tables, append(base, opts...)...)
	if err != nil {
		_ = closers.Close()
		return nil, err
	}
	a.closer = closers
	return a, nil
}

// closeAll closes every closer and joins their errors.
type closeAll []interface{ Close() error }

func (c closeAll) Close() error {
	var errs []error
	for _, cl := range c {
		if err := cl.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
