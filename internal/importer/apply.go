package importer

import (
	"context"
	"fmt"

	"github.com/stefanorainone/sales-management/internal/db"
	"github.com/stefanorainone/sales-management/internal/repository"
)

// Counts reports how many records of each kind were written.
type Counts struct {
	Users, Clients, Deals, Relationships, Activities, Instructions int
}

// Apply upserts the whole pipeline in one transaction.
func Apply(ctx context.Context, uow db.UnitOfWork, p *Pipeline) (Counts, error) {
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		users := repository.NewSQLiteUserRepo(tx)
		for _, u := range p.Users {
			if err := users.Upsert(ctx, u); err != nil {
				return err
			}
		}
		clients := repository.NewSQLiteClientRepo(tx)
		for _, c := range p.Clients {
			if err := clients.Upsert(ctx, c); err != nil {
				return err
			}
		}
		deals := repository.NewSQLiteDealRepo(tx)
		for _, d := range p.Deals {
			if err := deals.Upsert(ctx, d); err != nil {
				return err
			}
		}
		relationships := repository.NewSQLiteRelationshipRepo(tx)
		for _, r := range p.Relationships {
			if err := relationships.Upsert(ctx, r); err != nil {
				return err
			}
		}
		activities := repository.NewSQLiteActivityRepo(tx)
		for _, a := range p.Activities {
			if err := activities.Upsert(ctx, a); err != nil {
				return err
			}
		}
		instructions := repository.NewSQLiteInstructionRepo(tx)
		for _, in := range p.Instructions {
			if err := instructions.Upsert(ctx, in); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Counts{}, fmt.Errorf("applying seed: %w", err)
	}
	return Counts{
		Users:         len(p.Users),
		Clients:       len(p.Clients),
		Deals:         len(p.Deals),
		Relationships: len(p.Relationships),
		Activities:    len(p.Activities),
		Instructions:  len(p.Instructions),
	}, nil
}
