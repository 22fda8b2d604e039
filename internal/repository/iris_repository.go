package repository

import (
	"context"

	"github.com/pkg/errors"

	"github.com/iliyamo/paralympics-iris/internal/model"
)

// IrisRepo encapsulates queries over the `iris` measurements table.
type IrisRepo struct {
	db Querier
}

func NewIrisRepo(db Querier) *IrisRepo { return &IrisRepo{db: db} }

// List returns every stored measurement ordered by id.
func (r *IrisRepo) List(ctx context.Context) ([]model.Iris, error) {
	const q = `SELECT id, sepal_length, sepal_width, petal_length, petal_width, species
	           FROM iris ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, "error listing iris")
	}
	defer rows.Close()

	var out []model.Iris
	for rows.Next() {
		var i model.Iris
		if err := rows.Scan(&i.ID, &i.SepalLength, &i.SepalWidth, &i.PetalLength, &i.PetalWidth, &i.Species); err != nil {
			return nil, errors.Wrap(err, "error scanning iris")
		}
		out = append(out, i)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error listing iris")
	}
	return out, nil
}

// Insert stores a measurement and sets its ID.
func (r *IrisRepo) Insert(ctx context.Context, i *model.Iris) error {
	const q = `INSERT INTO iris (sepal_length, sepal_width, petal_length, petal_width, species)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, i.SepalLength, i.SepalWidth, i.PetalLength, i.PetalWidth, i.Species)
	if err != nil {
		return errors.Wrap(err, "error inserting iris")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "error reading iris id")
	}
	i.ID = id
	return nil
}
