package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/iliyamo/paralympics-iris/internal/model"
)

// RegionRepo encapsulates all database queries related to NOC regions.
type RegionRepo struct {
	db Querier
}

// NewRegionRepo constructs a RegionRepo with the provided DB handle.
func NewRegionRepo(db Querier) *RegionRepo {
	return &RegionRepo{db: db}
}

// List returns all regions ordered by code.
func (r *RegionRepo) List(ctx context.Context) ([]model.Region, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT noc, region, notes FROM region ORDER BY noc")
	if err != nil {
		return nil, errors.Wrap(err, "error listing regions")
	}
	defer rows.Close()

	out := []model.Region{}
	for rows.Next() {
		var (
			reg   model.Region
			notes sql.NullString
		)
		if err := rows.Scan(&reg.NOC, &reg.Region, &notes); err != nil {
			return nil, errors.Wrap(err, "error scanning region")
		}
		reg.Notes = nullString(notes)
		out = append(out, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error listing regions")
	}
	return out, nil
}

// FindByKey fetches the region with the given NOC code. It returns
// ErrNotFound if no row matches.
func (r *RegionRepo) FindByKey(ctx context.Context, noc string) (model.Region, error) {
	var (
		reg   model.Region
		notes sql.NullString
	)
	err := r.db.QueryRowContext(ctx, "SELECT noc, region, notes FROM region WHERE noc = ?", noc).
		Scan(&reg.NOC, &reg.Region, &notes)
	if err != nil {
		return model.Region{}, classify(err, "error finding region")
	}
	reg.Notes = nullString(notes)
	return reg, nil
}

// Insert creates a region. A duplicate code yields ErrConflict.
func (r *RegionRepo) Insert(ctx context.Context, reg model.Region) error {
	_, err := r.db.ExecContext(ctx, "INSERT INTO region (noc, region, notes) VALUES (?, ?, ?)",
		reg.NOC, reg.Region, reg.Notes)
	return classify(err, "error inserting region")
}

// Update overwrites the region name and notes of an existing code.
func (r *RegionRepo) Update(ctx context.Context, reg model.Region) error {
	_, err := r.db.ExecContext(ctx, "UPDATE region SET region = ?, notes = ? WHERE noc = ?",
		reg.Region, reg.Notes, reg.NOC)
	return classify(err, "error updating region")
}

// Delete removes the region. It returns ErrNotFound when nothing was
// deleted and ErrConflict while events still reference the code.
func (r *RegionRepo) Delete(ctx context.Context, noc string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM region WHERE noc = ?", noc)
	if err != nil {
		return classify(err, "error deleting region")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "error deleting region")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullFloat(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}
