package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/iliyamo/paralympics-iris/internal/model"
)

// EventRepo manages persistence for Paralympic games.
type EventRepo struct {
	db Querier
}

// NewEventRepo constructs an EventRepo with the provided DB handle.
func NewEventRepo(db Querier) *EventRepo {
	return &EventRepo{db: db}
}

const eventColumns = `event_id, event_type, year, location, lat, lon, noc, start_date, end_date,
	disabilities_included, events, sports, countries, male, female, participants, highlights`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(s rowScanner) (model.Event, error) {
	var (
		e          model.Event
		lat, lon   sql.NullFloat64
		highlights sql.NullString
	)
	err := s.Scan(&e.EventID, &e.Type, &e.Year, &e.Location, &lat, &lon, &e.NOC, &e.Start, &e.End,
		&e.DisabilitiesIncluded, &e.Events, &e.Sports, &e.Countries, &e.Male, &e.Female,
		&e.Participants, &highlights)
	if err != nil {
		return model.Event{}, err
	}
	e.Lat = nullFloat(lat)
	e.Lon = nullFloat(lon)
	e.Highlights = nullString(highlights)
	return e, nil
}

// List returns all events ordered by year then id.
func (r *EventRepo) List(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+eventColumns+" FROM event ORDER BY year, event_id")
	if err != nil {
		return nil, errors.Wrap(err, "error listing events")
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, errors.Wrap(err, "error scanning event")
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error listing events")
	}
	return out, nil
}

// FindByID fetches one event. It returns ErrNotFound if no row matches.
func (r *EventRepo) FindByID(ctx context.Context, id int64) (model.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM event WHERE event_id = ?", id))
	if err != nil {
		return model.Event{}, classify(err, "error finding event")
	}
	return e, nil
}

// Insert stores e and sets its EventID. An unknown NOC yields ErrConflict.
func (r *EventRepo) Insert(ctx context.Context, e *model.Event) error {
	const q = `INSERT INTO event (event_type, year, location, lat, lon, noc, start_date, end_date,
	           disabilities_included, events, sports, countries, male, female, participants, highlights)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, e.Type, e.Year, e.Location, e.Lat, e.Lon, e.NOC, e.Start, e.End,
		e.DisabilitiesIncluded, e.Events, e.Sports, e.Countries, e.Male, e.Female, e.Participants, e.Highlights)
	if err != nil {
		return classify(err, "error inserting event")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "error reading event id")
	}
	e.EventID = id
	return nil
}

// Update overwrites every column of the event identified by e.EventID.
func (r *EventRepo) Update(ctx context.Context, e model.Event) error {
	const q = `UPDATE event SET event_type = ?, year = ?, location = ?, lat = ?, lon = ?, noc = ?,
	           start_date = ?, end_date = ?, disabilities_included = ?, events = ?, sports = ?,
	           countries = ?, male = ?, female = ?, participants = ?, highlights = ?
	           WHERE event_id = ?`
	_, err := r.db.ExecContext(ctx, q, e.Type, e.Year, e.Location, e.Lat, e.Lon, e.NOC, e.Start, e.End,
		e.DisabilitiesIncluded, e.Events, e.Sports, e.Countries, e.Male, e.Female, e.Participants,
		e.Highlights, e.EventID)
	return classify(err, "error updating event")
}

// Delete removes one event. It returns ErrNotFound when nothing was deleted.
func (r *EventRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM event WHERE event_id = ?", id)
	if err != nil {
		return classify(err, "error deleting event")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "error deleting event")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
