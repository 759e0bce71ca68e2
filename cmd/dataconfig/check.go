package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/enlightendev/dataconfig/wiring"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Build the persistence graph and run a trivial transaction",
	Long: `Build the entity manager factory, reconcile the schema according to
database.hibernate.schema_update, run SELECT 1 in a transaction and print
the mapped entity tables.

Destructive schema actions (create, create-drop) are refused in production
unless database.allow_destructive_schema is true.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, c, err := buildComponents(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("close persistence components", "error", err)
		}
	}()

	slog.Info("checking database", "env", cfg.Env, "driver", c.DataSource.DriverName())

	return check(ctx, c, cmd.OutOrStdout())
}

func check(ctx context.Context, c *wiring.Components, out io.Writer) error {
	if _, err := c.EntityManagerFactory.Open(ctx); err != nil {
		return fmt.Errorf("open entity manager factory: %w", err)
	}

	err := c.TransactionManager.InTransaction(ctx, func(ctx context.Context) error {
		db, err := c.TransactionManager.Session(ctx)
		if err != nil {
			return err
		}
		var one int
		return db.Raw("SELECT 1").Scan(&one).Error
	})
	if err != nil {
		return fmt.Errorf("run transaction: %w", err)
	}

	fmt.Fprintf(out, "driver:  %s\n", c.DataSource.DriverName())
	fmt.Fprintf(out, "package: %s\n", c.EntityManagerFactory.PackagesToScan()[0])
	fmt.Fprintln(out, "entities:")
	for _, e := range c.EntityManagerFactory.Metamodel() {
		fmt.Fprintf(out, "  %-10s %s (%d columns)\n", e.Name, e.Table, len(e.Columns))
	}
	fmt.Fprintln(out, "OK")
	return nil
}
