// Package dataconfig holds the shared vocabulary of the persistence wiring:
// configuration keys, connection parameters, vendor properties, schema
// actions and the data access failure taxonomy.
//
// The objects themselves live in subpackages:
//
//   - datasource: connection factory opening one physical connection per request
//   - orm: GORM-backed entity manager factory and vendor adapter
//   - tx: transaction manager bound to an entity manager factory
//   - translate: exception translation hook for vendor errors
//   - repository: generic repository over the transaction manager
//   - wiring: composition root building the whole graph in dependency order
//
// # Example Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	c := wiring.Build(cfg)
//	defer c.Close(ctx)
//
//	err = c.TransactionManager.InTransaction(ctx, func(ctx context.Context) error {
//	    return accounts.Save(ctx, &domain.Account{Email: "a@example.com"})
//	})
//
// Nothing touches the database until the first session is requested. Failures
// from a missing property, an unknown driver or an invalid vendor setting are
// reported at that point.
package dataconfig
