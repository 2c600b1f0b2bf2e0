package sqlengine

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"

	"github.com/shoplab/ordershop-go/shop"
	"github.com/shoplab/ordershop-go/shop/sqlengine/internal/adapters"
)

const (
	opSaveMember       = "save_member"
	opFindMember       = "find_member"
	opFindAllMembers   = "find_all_members"
	opFindMemberByName = "find_member_by_name"
)

// MemberRepository persists and materializes Member entities.
//
// Absence is not an error here: FindOne returns a nil member (and a nil
// error) when no row matches, callers must check before use.
type MemberRepository struct {
	store   *Store
	session adapters.DBSession
}

// Save inserts a new member and assigns the generated identity.
func (r *MemberRepository) Save(ctx context.Context, member *shop.Member) error {
	insertStmt := r.store.builder().
		Insert(r.store.table(tableMembers)).
		Rows(goqu.Record{
			colName:    member.Name,
			colCity:    member.Address.City,
			colStreet:  member.Address.Street,
			colZipcode: member.Address.Zipcode,
		})

	id, err := r.store.insertReturningID(ctx, r.session, opSaveMember, insertStmt, colMemberID)
	if err != nil {
		return err
	}

	member.ID = id

	return nil
}

// FindOne returns the member with the given identity, or nil when no
// such member exists.
func (r *MemberRepository) FindOne(ctx context.Context, id int64) (*shop.Member, error) {
	selectStmt := r.memberSelect().Where(goqu.Ex{colMemberID: id})

	members, err := r.queryMembers(ctx, opFindMember, selectStmt)
	if err != nil {
		return nil, err
	}

	if len(members) == 0 {
		return nil, nil
	}

	return members[0], nil
}

// FindAll returns all members ordered by identity.
func (r *MemberRepository) FindAll(ctx context.Context) ([]*shop.Member, error) {
	return r.queryMembers(ctx, opFindAllMembers, r.memberSelect())
}

// FindByName returns all members with exactly the given name; duplicate
// names are legal, so zero or more results are possible.
func (r *MemberRepository) FindByName(ctx context.Context, name string) ([]*shop.Member, error) {
	selectStmt := r.memberSelect().Where(goqu.Ex{colName: name})

	return r.queryMembers(ctx, opFindMemberByName, selectStmt)
}

func (r *MemberRepository) memberSelect() *goqu.SelectDataset {
	return r.store.builder().
		From(r.store.table(tableMembers)).
		Select(colMemberID, colName, colCity, colStreet, colZipcode).
		Order(goqu.I(colMemberID).Asc())
}

func (r *MemberRepository) queryMembers(
	ctx context.Context,
	operation string,
	selectStmt *goqu.SelectDataset,
) ([]*shop.Member, error) {

	sqlQuery, args, toSQLErr := selectStmt.Prepared(true).ToSQL()
	if toSQLErr != nil {
		r.store.logError(ctx, logMsgBuildQueryFailed, toSQLErr, logAttrOperation, operation)
		return nil, errors.Join(shop.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, queryErr := r.store.query(ctx, r.session, operation, sqlQuery, args)
	if queryErr != nil {
		return nil, queryErr
	}
	defer r.store.closeRows(ctx, rows)

	members := make([]*shop.Member, 0)

	for rows.Next() {
		member := &shop.Member{}

		scanErr := rows.Scan(&member.ID, &member.Name, &member.Address.City, &member.Address.Street, &member.Address.Zipcode)
		if scanErr != nil {
			r.store.logError(ctx, logMsgScanRowFailed, scanErr, logAttrOperation, operation)
			return nil, errors.Join(shop.ErrScanningRowFailed, scanErr)
		}

		members = append(members, member)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, errors.Join(shop.ErrQueryingFailed, rowsErr)
	}

	return members, nil
}
