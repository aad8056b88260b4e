package fluentdao

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Logger, sistemin kara kutusudur.
//
// Çalışan SQL ifadelerini, parametreleri, sürelerini ve olası hataları izlemek
// için kullanılır. Geliştirici kendi logger'ını WithLogger ile enjekte edebilir.
type Logger interface {
	Log(query string, args []any, duration time.Duration, err error)
}

// DatabaseLogger, kayıtlarına veritabanı adını ekleyebilen bir Logger'dır.
// Accessor kurulurken logger WithDatabase ile katalogun veritabanına bağlanır;
// böylece her ifade kaydı hangi veritabanında çalıştığını taşır.
type DatabaseLogger interface {
	Logger
	WithDatabase(database string) Logger
}

func withDatabase(l Logger, database string) Logger {
	if dl, ok := l.(DatabaseLogger); ok && database != "" {
		return dl.WithDatabase(database)
	}
	return l
}

// NopLogger (No-Operation Logger), "sessiz mod" için kullanılan bir logger uygulamasıdır.
type NopLogger struct{}

// Log, gelen tüm veriyi yok sayar.
func (NopLogger) Log(string, []any, time.Duration, error) {}

// SlogLogger, Logger arayüzünü log/slog üzerine taşır.
// Başarılı ifadeler Debug, hatalar Error seviyesinde yazılır.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger, verilen slog.Logger'ı sarar. Nil verilirse hiçbir şey yazılmaz.
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SlogLogger{logger: logger}
}

// Log implements Logger.
func (l *SlogLogger) Log(query string, args []any, duration time.Duration, err error) {
	attrs := []slog.Attr{slog.String("sql", query)}
	if len(args) > 0 {
		attrs = append(attrs, slog.Any("args", args))
	}
	if duration > 0 {
		attrs = append(attrs, slog.Duration("duration", duration))
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		l.logger.LogAttrs(context.Background(), slog.LevelError, "statement failed", attrs...)
		return
	}
	l.logger.LogAttrs(context.Background(), slog.LevelDebug, "statement", attrs...)
}

// WithDatabase implements DatabaseLogger.
func (l *SlogLogger) WithDatabase(database string) Logger {
	return &SlogLogger{logger: l.logger.With(slog.String("database", database))}
}
