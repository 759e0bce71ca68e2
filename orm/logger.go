package orm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SlowThreshold is the statement duration above which a warning is logged.
const SlowThreshold = 200 * time.Millisecond

// Logger adapts GORM logging to slog. Statements are logged only when
// showSQL is set; failures and slow statements are always reported.
type Logger struct {
	log       *slog.Logger
	level     logger.LogLevel
	showSQL   bool
	formatSQL bool
}

var _ logger.Interface = (*Logger)(nil)

// NewLogger returns a GORM logger writing to log, or to slog.Default when log is nil.
func NewLogger(log *slog.Logger, showSQL, formatSQL bool) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{
		log:       log,
		level:     logger.Warn,
		showSQL:   showSQL,
		formatSQL: formatSQL,
	}
}

func (l *Logger) LogMode(level logger.LogLevel) logger.Interface {
	c := *l
	c.level = level
	return &c
}

func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= logger.Info {
		l.log.InfoContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= logger.Warn {
		l.log.WarnContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= logger.Error {
		l.log.ErrorContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *Logger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		l.log.ErrorContext(ctx, "sql failed", "sql", l.render(sql), "rows", rows, "elapsed", elapsed, "error", err)
	case elapsed > SlowThreshold && l.level >= logger.Warn:
		sql, rows := fc()
		l.log.WarnContext(ctx, "slow sql", "sql", l.render(sql), "rows", rows, "elapsed", elapsed)
	case l.showSQL:
		sql, rows := fc()
		l.log.InfoContext(ctx, "sql", "sql", l.render(sql), "rows", rows, "elapsed", elapsed)
	}
}

func (l *Logger) render(sql string) string {
	if l.formatSQL {
		return FormatSQL(sql)
	}
	return sql
}

// clauseKeywords start a new line in formatted SQL. Longer keywords come
// first so "LEFT JOIN" wins over "JOIN".
var clauseKeywords = []string{
	"INNER JOIN", "LEFT JOIN", "RIGHT JOIN", "ON CONFLICT",
	"GROUP BY", "ORDER BY",
	"FROM", "WHERE", "HAVING", "LIMIT", "OFFSET",
	"VALUES", "SET", "RETURNING", "JOIN",
}

// FormatSQL breaks a statement across lines before each major clause.
// Quoted strings and identifiers are left untouched.
func FormatSQL(sql string) string {
	var b strings.Builder
	b.Grow(len(sql) + 16)

	var quote byte
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		if quote != 0 {
			b.WriteByte(c)
			if c == quote {
				quote = 0
			}
			continue
		}

		switch c {
		case '\'', '"', '`':
			quote = c
		case ' ':
			if kw := clauseAt(sql[i+1:]); kw != "" {
				b.WriteByte('\n')
				b.WriteString(sql[i+1 : i+1+len(kw)])
				i += len(kw)
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

func clauseAt(s string) string {
	for _, kw := range clauseKeywords {
		if len(s) < len(kw) || !strings.EqualFold(s[:len(kw)], kw) {
			continue
		}
		if len(s) == len(kw) || s[len(kw)] == ' ' || s[len(kw)] == '(' {
			return kw
		}
	}
	return ""
}
