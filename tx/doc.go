// Package tx provides the transaction manager bound to an entity manager factory.
//
// Transactions are either demarcated explicitly:
//
//	t, err := manager.Begin(ctx)
//	if err != nil {
//	    return err
//	}
//	if err := t.Session().Create(&note).Error; err != nil {
//	    _ = t.Rollback()
//	    return err
//	}
//	return t.Commit()
//
// or declaratively, with the transaction carried by the context:
//
//	err := manager.InTransaction(ctx, func(ctx context.Context) error {
//	    db, err := manager.Session(ctx)
//	    if err != nil {
//	        return err
//	    }
//	    return db.Create(&note).Error
//	})
package tx
