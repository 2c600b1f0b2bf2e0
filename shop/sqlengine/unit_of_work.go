package sqlengine

import (
	"context"
	"errors"

	"github.com/shoplab/ordershop-go/shop"
	"github.com/shoplab/ordershop-go/shop/sqlengine/internal/adapters"
)

// UnitOfWork is one transaction boundary. All repositories obtained from
// it run on the same transaction; the transaction commits when the
// function passed to ExecuteInTx returns nil and rolls back otherwise.
type UnitOfWork struct {
	store *Store
	tx    adapters.DBTx
}

// ExecuteInTx runs fn inside a single transaction. Any error returned by
// fn (or by the commit) rolls the whole unit of work back, so no partial
// writes survive a failed operation.
func (s *Store) ExecuteInTx(ctx context.Context, fn func(ctx context.Context, uow *UnitOfWork) error) error {
	tx, beginErr := s.db.BeginTx(ctx)
	if beginErr != nil {
		return errors.Join(shop.ErrBeginningTxFailed, beginErr)
	}

	uow := &UnitOfWork{store: s, tx: tx}

	if fnErr := fn(ctx, uow); fnErr != nil {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			s.logWarn(ctx, logMsgRollbackFailed, logAttrError, rollbackErr.Error())
		}

		return fnErr
	}

	if commitErr := tx.Commit(ctx); commitErr != nil {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			s.logWarn(ctx, logMsgRollbackFailed, logAttrError, rollbackErr.Error())
		}

		return errors.Join(shop.ErrCommittingTxFailed, commitErr)
	}

	return nil
}

// Members returns a member repository bound to this transaction.
func (u *UnitOfWork) Members() *MemberRepository {
	return &MemberRepository{store: u.store, session: u.tx}
}

// Items returns an item repository bound to this transaction.
func (u *UnitOfWork) Items() *ItemRepository {
	return &ItemRepository{store: u.store, session: u.tx}
}

// Orders returns an order repository bound to this transaction.
func (u *UnitOfWork) Orders() *OrderRepository {
	return &OrderRepository{store: u.store, session: u.tx}
}

// OrderQueries returns the read-only order report repository bound to
// this transaction.
func (u *UnitOfWork) OrderQueries() *OrderQueryRepository {
	return &OrderQueryRepository{store: u.store, session: u.tx}
}
