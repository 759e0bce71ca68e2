package orm_test

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/enlightendev/dataconfig"
	"github.com/enlightendev/dataconfig/datasource"
	"github.com/enlightendev/dataconfig/orm"
	"github.com/enlightendev/dataconfig/translate"
)

type author struct {
	ID    uint   `gorm:"primaryKey"`
	Name  string `gorm:"uniqueIndex;not null"`
	Books []book `gorm:"constraint:OnDelete:CASCADE"`
}

type book struct {
	ID       uint `gorm:"primaryKey"`
	AuthorID uint `gorm:"not null"`
	Title    string
}

func testEntities() dataconfig.EntitySet {
	return dataconfig.EntitySet{
		Package: "example.test/library",
		Models:  []any{&author{}, &book{}},
	}
}

// sqliteURL returns a JDBC-style URL for a fresh database file with foreign keys on.
func sqliteURL(t *testing.T) string {
	t.Helper()
	return "jdbc:sqlite:file:" + filepath.Join(t.TempDir(), "library.db") + "?_pragma=foreign_keys(1)"
}

func sqliteSource(url string) *datasource.DataSource {
	return datasource.New(dataconfig.ConnectionParams{Driver: "org.sqlite.JDBC", URL: url})
}

func vendorProps(kv ...string) dataconfig.VendorProperties {
	m := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return dataconfig.NewVendorProperties(m)
}

func newFactory(t *testing.T, url string, props dataconfig.VendorProperties, opts ...orm.Option) *orm.EntityManagerFactory {
	t.Helper()

	opts = append([]orm.Option{orm.WithExceptionTranslation(translate.New())}, opts...)
	f := orm.New(sqliteSource(url), testEntities(), orm.GormVendorAdapter{}, props, opts...)
	t.Cleanup(func() { _ = f.Close(t.Context()) })
	return f
}

// syncBuffer is a bytes.Buffer safe for concurrent log writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func bufferLogger() (*slog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}
