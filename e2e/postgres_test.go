package e2e_test

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/enlightendev/dataconfig"
	"github.com/enlightendev/dataconfig/domain"
	"github.com/enlightendev/dataconfig/repository"
	"github.com/enlightendev/dataconfig/wiring"
)

var (
	testPool     *pgxpool.Pool
	testPoolOnce sync.Once
	testCleanup  func()
	testURL      *url.URL
)

// getSharedPostgres starts one PostgreSQL container for all E2E tests and
// returns an admin pool plus the server URL without credentials.
func getSharedPostgres(t *testing.T) (*pgxpool.Pool, *url.URL) {
	t.Helper()

	testPoolOnce.Do(func() {
		ctx := context.Background()

		pgContainer, err := pgcontainer.Run(ctx,
			"postgres:18-alpine",
			pgcontainer.WithDatabase("testdb"),
			pgcontainer.WithUsername("testuser"),
			pgcontainer.WithPassword("testpass"),
			pgcontainer.BasicWaitStrategies(),
		)
		if err != nil {
			t.Fatalf("failed to start postgres container: %v", err)
		}

		testCleanup = func() {
			if testPool != nil {
				testPool.Close()
			}
			if err := testcontainers.TerminateContainer(pgContainer); err != nil {
				t.Logf("failed to terminate container: %s", err)
			}
		}

		connectionStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			testCleanup()
			t.Fatalf("failed to get connection string: %v", err)
		}

		pool, err := pgxpool.New(ctx, connectionStr)
		if err != nil {
			testCleanup()
			t.Fatalf("could not connect to database: %v", err)
		}

		u, err := url.Parse(connectionStr)
		if err != nil {
			testCleanup()
			t.Fatalf("parse connection string: %v", err)
		}
		u.User = nil

		testPool = pool
		testURL = u
	})

	if testPool == nil {
		t.Fatal("postgres container unavailable")
	}
	return testPool, testURL
}

// createDatabase creates a fresh database and returns its JDBC-style URL.
func createDatabase(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	pool, base := getSharedPostgres(t)

	name := "e2e_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	_, err := pool.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{name}.Sanitize())
	require.NoError(t, err, "create database")

	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), "DROP DATABASE IF EXISTS "+pgx.Identifier{name}.Sanitize()+" WITH (FORCE)")
	})

	u := *base
	u.Scheme = "postgresql"
	u.Path = "/" + name
	return "jdbc:" + u.String()
}

func postgresSource(driver, jdbcURL, schemaUpdate string) dataconfig.MapSource {
	return dataconfig.MapSource{
		dataconfig.KeyConnectionDriver:   driver,
		dataconfig.KeyConnectionURL:      jdbcURL,
		dataconfig.KeyConnectionUser:     "testuser",
		dataconfig.KeyConnectionPassword: "testpass",
		dataconfig.KeySchemaUpdate:       schemaUpdate,
		dataconfig.KeyDialect:            "org.hibernate.dialect.PostgreSQLDialect",
		dataconfig.KeyUseSQLComments:     "true",
	}
}

// TestE2E_Postgres_Drivers runs the repository flow on both PostgreSQL drivers.
func TestE2E_Postgres_Drivers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	for _, driver := range []string{"org.postgresql.Driver", "pgx", "postgres"} {
		t.Run(driver, func(t *testing.T) {
			ctx := t.Context()

			c := wiring.Build(postgresSource(driver, createDatabase(t), "create-drop"))
			t.Cleanup(func() { _ = c.Close(context.Background()) })

			accounts := repository.New[domain.Account](c.TransactionManager)
			notes := repository.New[domain.Note](c.TransactionManager)

			var accountID string
			err := c.TransactionManager.InTransaction(ctx, func(ctx context.Context) error {
				a := &domain.Account{Email: "ada@example.com", DisplayName: "Ada"}
				if err := accounts.Save(ctx, a); err != nil {
					return err
				}
				accountID = a.ID
				return notes.Save(ctx, &domain.Note{AccountID: a.ID, Title: "first"})
			})
			require.NoError(t, err)

			got, err := accounts.FindByID(ctx, accountID)
			require.NoError(t, err)
			assert.Equal(t, "Ada", got.DisplayName)

			err = accounts.Save(ctx, &domain.Account{Email: "ada@example.com"})
			assert.ErrorIs(t, err, dataconfig.ErrDuplicateKey)

			err = notes.Save(ctx, &domain.Note{AccountID: uuid.NewString(), Title: "orphan"})
			assert.ErrorIs(t, err, dataconfig.ErrIntegrityViolation)

			_, err = accounts.FindByID(ctx, uuid.NewString())
			assert.ErrorIs(t, err, dataconfig.ErrNotFound)

			require.NoError(t, accounts.DeleteByID(ctx, accountID))
			n, err := notes.Count(ctx)
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}

// TestE2E_Postgres_CreateDropOnClose checks that create-drop removes the tables on close.
func TestE2E_Postgres_CreateDropOnClose(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := t.Context()
	jdbcURL := createDatabase(t)

	c := wiring.Build(postgresSource("pgx", jdbcURL, "create-drop"))
	_, err := c.EntityManagerFactory.Open(ctx)
	require.NoError(t, err)
	require.NoError(t, c.Close(ctx))

	check := wiring.Build(postgresSource("pgx", jdbcURL, "validate"))
	t.Cleanup(func() { _ = check.Close(context.Background()) })

	_, err = check.EntityManagerFactory.Open(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing tables")
}

// TestE2E_Postgres_BadCredentials surfaces a resource failure on first use.
func TestE2E_Postgres_BadCredentials(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	src := postgresSource("pgx", createDatabase(t), "validate")
	src[dataconfig.KeyConnectionPassword] = "wrong"

	c := wiring.Build(src)
	t.Cleanup(func() { _ = c.Close(context.Background()) })

	_, err := c.TransactionManager.Begin(t.Context())
	assert.ErrorIs(t, err, dataconfig.ErrResourceFailure)
}

// TestE2E_Postgres_CLI runs the check command against PostgreSQL.
func TestE2E_Postgres_CLI(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	configPath := createConfigFile(t, DBConfig{
		Driver:       "org.postgresql.Driver",
		URL:          createDatabase(t),
		User:         "testuser",
		Password:     "testpass",
		SchemaUpdate: "update",
	})

	out, err := runCLI(t, nil, "check", "--config", configPath)
	require.NoError(t, err, out)
	assert.Contains(t, out, "accounts")

	out, err = runCLI(t, nil, "check", "--config", configPath, "--schema-update", "validate")
	require.NoError(t, err, out)
}
