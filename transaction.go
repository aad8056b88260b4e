package fluentdao

import (
	"context"
	"database/sql"
	"errors"
	"sync"
)

// transaction, tek bir değiştirme ifadesini çevreleyen *sql.Tx sarmalayıcısıdır.
//
// Commit tek seferliktir; Rollback idempotent'tir ve Commit sonrasında
// çağrılması sessizce yok sayılır. Bu sayede çağıran taraf "defer Rollback"
// kalıbını güvenle kullanabilir.
type transaction struct {
	tx *sql.Tx

	mu     sync.Mutex
	closed bool
}

func newTransaction(tx *sql.Tx) *transaction {
	return &transaction{tx: tx}
}

// ExecContext runs one statement inside the transaction.
func (t *transaction) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil, ErrTxAlreadyClosed
	}
	t.mu.Unlock()

	return t.tx.ExecContext(ctx, query, args...)
}

// Commit, işlemi onaylar. İkinci çağrı ErrTxAlreadyClosed döndürür.
func (t *transaction) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTxAlreadyClosed
	}

	t.closed = true
	if err := t.tx.Commit(); err != nil {
		return WrapError("commit transaction", err)
	}
	return nil
}

// Rollback, işlemi geri alır. Kapanmış bir işlemde nil döner.
func (t *transaction) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}

	t.closed = true
	if err := t.tx.Rollback(); err != nil {
		if errors.Is(err, sql.ErrTxDone) {
			return nil
		}
		return WrapError("rollback transaction", err)
	}
	return nil
}
