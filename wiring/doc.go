// Package wiring is the composition root of the persistence layer.
//
// Build reads the database.* keys from a property source and returns the
// connection factory, vendor properties, entity manager factory, transaction
// manager and exception translation hook, each built exactly once:
//
//	cfg, err := config.Load(files, flags)
//	if err != nil {
//	    return err
//	}
//	c := wiring.Build(cfg, wiring.WithEnvironment(cfg.Env))
//	defer c.Close(ctx)
//
// The entity package is fixed to the domain package.
package wiring
