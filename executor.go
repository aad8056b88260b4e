package fluentdao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/biyonik/go-fluent-dao/dialect"
)

/*
=======================================================================================================================
  EXECUTOR – derlenmiş ifadeleri veritabanına taşıyan katman

  Okuma ifadeleri doğrudan bağlantı havuzunda çalışır. Her değiştirme ifadesi (INSERT, UPDATE, DELETE)
  kendi tek-ifadelik transaction'ı içinde çalışır: başarıda commit, hatada rollback. Yeniden deneme yapılmaz;
  sürücü hatası ifade metni ve argümanlarıyla birlikte ExecutionError olarak döner.

  @author    Ahmet ALTUN
  @github    github.com/biyonik
=======================================================================================================================
*/

// QueryExecutor arayüzü; *sql.DB ve *sql.Conn yapılarının ortak olarak sağladığı temel veritabanı
// fonksiyonlarını soyutlar. BeginTx, değiştirme ifadelerinin tek-ifadelik transaction'ı için gereklidir.
type QueryExecutor interface {

	// QueryContext -> Birden fazla satır döndürebilen SELECT sorguları için çağrılır.
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)

	// ExecContext -> Sonuç satırı döndürmeyen komutlar için çalıştırma yöntemidir.
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)

	// BeginTx -> Değiştirme ifadeleri için transaction açar.
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Compile-time kontrolü.
var (
	_ QueryExecutor = (*sql.DB)(nil)
	_ QueryExecutor = (*sql.Conn)(nil)
)

// executor, bir QueryExecutor üzerinde ifadeleri çalıştırır ve loglar.
type executor struct {
	db      QueryExecutor
	scanner Scanner
	logger  Logger
	debug   bool
}

// query, bir okuma ifadesini çalıştırır ve ham satırları döndürür.
func (e *executor) query(ctx context.Context, stmt dialect.Statement) ([][]any, error) {
	start := time.Now()
	rows, err := e.db.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		e.log(stmt, time.Since(start), err)
		return nil, NewExecutionError("query", stmt.SQL, stmt.Args, err)
	}

	_, values, err := e.scanner.ScanRows(rows)
	e.log(stmt, time.Since(start), err)
	if err != nil {
		return nil, NewExecutionError("query", stmt.SQL, stmt.Args, err)
	}
	return values, nil
}

// update, bir değiştirme ifadesini tek-ifadelik transaction içinde çalıştırır ve
// etkilenen satır sayısını döndürür.
func (e *executor) update(ctx context.Context, stmt dialect.Statement) (n int64, err error) {
	start := time.Now()
	defer func() { e.log(stmt, time.Since(start), err) }()

	sqlTx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, NewExecutionError("begin transaction", stmt.SQL, stmt.Args, err)
	}
	tx := newTransaction(sqlTx)

	// Panic güvenliği → rollback yapılır ve panic yeniden fırlatılır.
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	res, err := tx.ExecContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return 0, NewExecutionError("exec", stmt.SQL, stmt.Args, err)
	}

	n, err = res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return 0, NewExecutionError("rows affected", stmt.SQL, stmt.Args, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, NewExecutionError("commit", stmt.SQL, stmt.Args, err)
	}
	return n, nil
}

// log, hatalı ifadeleri her zaman, başarılı ifadeleri yalnızca debug modunda yazar.
func (e *executor) log(stmt dialect.Statement, d time.Duration, err error) {
	if err == nil && !e.debug {
		return
	}
	e.logger.Log(stmt.SQL, stmt.Args, d, err)
}
