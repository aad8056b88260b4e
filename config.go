package fluentdao

import (
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/biyonik/go-fluent-dao/dialect"
	"github.com/biyonik/go-fluent-dao/internal/validation"
	"github.com/biyonik/go-fluent-dao/schema/redisstore"
)

// Config, veritabanı bağlantısının DNA'sını oluşturan yapılandırma şemasıdır.
//
// Host, User, Password ve Database zorunludur. Tables boş bırakılırsa şemadaki
// tüm tablolar yansıtılır; dolu ise yalnızca adı verilen tablolar yüklenir.
type Config struct {
	Host      string   `koanf:"host"`
	Port      int      `koanf:"port"`
	User      string   `koanf:"user"`
	Password  string   `koanf:"password"`
	Database  string   `koanf:"database"`
	Charset   string   `koanf:"charset"`
	Collation string   `koanf:"collation"`
	Tables    []string `koanf:"tables"`

	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout"`

	// RenderMode is "literal" (default) or "bound".
	RenderMode string `koanf:"render_mode"`
	Debug      bool   `koanf:"debug"`

	Redis RedisConfig `koanf:"redis"`
}

// RedisConfig enables the catalog snapshot cache.
type RedisConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	Prefix   string        `koanf:"prefix"`
	TTL      time.Duration `koanf:"ttl"`
}

// DefaultConfig, bağlantı bilgileri dışındaki her alanı makul varsayılanlarla doldurur.
func DefaultConfig() *Config {
	return &Config{
		Host:            "localhost",
		Port:            3306,
		Charset:         "utf8mb4",
		Collation:       "utf8mb4_unicode_ci",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
		ConnectTimeout:  10 * time.Second,
		RenderMode:      dialect.Literal.String(),
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: redisstore.DefaultPrefix,
			TTL:    redisstore.DefaultTTL,
		},
	}
}

// Validate, zorunlu alanları ve tablo adlarını kontrol eder.
func (c *Config) Validate() error {
	if c == nil {
		return &ConfigurationError{Reason: "nil config"}
	}
	required := []struct {
		field, value string
	}{
		{"host", c.Host},
		{"user", c.User},
		{"password", c.Password},
		{"database", c.Database},
	}
	for _, r := range required {
		if r.value == "" {
			return &ConfigurationError{Field: r.field, Reason: "is required"}
		}
	}
	if c.Port <= 0 || c.Port > 65535 {
		return &ConfigurationError{Field: "port", Reason: "must be between 1 and 65535, got " + strconv.Itoa(c.Port)}
	}
	if err := validation.ValidateIdentifier(c.Database); err != nil {
		return &ConfigurationError{Field: "database", Reason: err.Error()}
	}
	for _, t := range c.Tables {
		if err := validation.ValidateTable(t); err != nil {
			return &ConfigurationError{Field: "tables", Reason: err.Error()}
		}
	}
	if _, err := dialect.ParseRenderMode(c.RenderMode); err != nil {
		return &ConfigurationError{Field: "render_mode", Reason: err.Error()}
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return &ConfigurationError{Field: "redis.addr", Reason: "is required when the snapshot cache is enabled"}
	}
	return nil
}

// Grammar returns the MySQL grammar for the configured render mode.
func (c *Config) Grammar() dialect.Grammar {
	mode, err := dialect.ParseRenderMode(c.RenderMode)
	if err != nil {
		mode = dialect.Literal
	}
	return dialect.NewMySQLGrammar(mode)
}

// MySQL, go-sql-driver/mysql için sürücü yapılandırmasını oluşturur.
// parseTime her zaman açıktır, böylece DATETIME kolonları time.Time olarak gelir.
func (c *Config) MySQL() *mysql.Config {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	mc.DBName = c.Database
	mc.ParseTime = true
	mc.Collation = c.Collation
	if c.Charset != "" {
		mc.Params = map[string]string{"charset": c.Charset}
	}
	if c.ConnectTimeout > 0 {
		mc.Timeout = c.ConnectTimeout
	}
	return mc
}

// DSN (Data Source Name), sürücünün anlayacağı bağlantı dizesidir.
func (c *Config) DSN() string {
	return c.MySQL().FormatDSN()
}
