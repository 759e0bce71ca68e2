// Package repository provides generic CRUD repositories running in the
// transaction carried by the context.
//
//	accounts := repository.New[domain.Account](manager)
//
//	err := manager.InTransaction(ctx, func(ctx context.Context) error {
//	    a := &domain.Account{Email: "ada@example.com"}
//	    if err := accounts.Save(ctx, a); err != nil {
//	        return err
//	    }
//	    return notes.Save(ctx, &domain.Note{AccountID: a.ID, Title: "hello"})
//	})
package repository
