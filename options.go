package fluentdao

import (
	"github.com/biyonik/go-fluent-dao/dialect"
	"github.com/biyonik/go-fluent-dao/schema"
)

// -----------------------------------------------------------------------------
//  Bu dosya; Accessor'ın davranışını kurulum anında şekillendiren *Option*
//  fonksiyonlarını içerir. Her With* fonksiyonu tek bir ayarı değiştirir ve
//  New veya Open çağrısına eklenir.
//
//  -- @author   Ahmet ALTUN
//  -- @github   github.com/biyonik
// -----------------------------------------------------------------------------

// Option, bir *Accessor örneği üzerinde çalışan yapılandırma fonksiyonlarının
// temel imzasıdır.
type Option func(*Accessor)

// WithGrammar, ifadelerin derlenmesinde kullanılacak grameri değiştirir.
// Varsayılan olarak Literal modda MySQLGrammar kullanılır.
//
// Örnek:
//
//	acc, err := fluentdao.New(db, catalog, fluentdao.WithGrammar(dialect.NewMySQLGrammar(dialect.Bound)))
func WithGrammar(g dialect.Grammar) Option {
	return func(a *Accessor) {
		a.grammar = g
	}
}

// WithRenderMode, MySQL gramerini verilen modla kurar.
func WithRenderMode(mode dialect.RenderMode) Option {
	return func(a *Accessor) {
		a.grammar = dialect.NewMySQLGrammar(mode)
	}
}

// WithScanner, sonuç satırlarını okuyan bileşeni değiştirir.
func WithScanner(s Scanner) Option {
	return func(a *Accessor) {
		a.scanner = s
	}
}

// WithDebug, debug modunu açar. Debug açıkken başarılı ifadeler de loglanır;
// kapalıyken yalnızca hatalar Logger'a gider.
func WithDebug(enabled bool) Option {
	return func(a *Accessor) {
		a.debug = enabled
	}
}

// WithLogger, özel bir logger tanımlamaya yarar.
//
// Örnek:
//
//	acc, err := fluentdao.Open(ctx, cfg,
//	    fluentdao.WithDebug(true),
//	    fluentdao.WithLogger(fluentdao.NewSlogLogger(slog.Default())),
//	)
func WithLogger(logger Logger) Option {
	return func(a *Accessor) {
		a.logger = logger
	}
}

// WithSnapshotStore, Open sırasında şema kataloğunun okunup yazılacağı önbelleği belirler.
func WithSnapshotStore(store schema.SnapshotStore) Option {
	return func(a *Accessor) {
		a.store = store
	}
}

// applyOptions, verilen bütün Option'ları sırayla işler ve eksik alanları
// varsayılanlarla doldurur.
func applyOptions(a *Accessor, opts []Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	if a.grammar == nil {
		a.grammar = dialect.MySQL()
	}
	if a.scanner == nil {
		a.scanner = NewDefaultScanner()
	}
	if a.logger == nil {
		a.logger = NopLogger{}
	}
}
