package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/nhood/internal/entity"
)

type locationDB struct {
	ID        int64   `db:"id"`
	Message   string  `db:"message"`
	Latitude  float64 `db:"latitude"`
	Longitude float64 `db:"longitude"`
}

func (l *locationDB) toEntity() *entity.Location {
	return &entity.Location{
		ID:        l.ID,
		Message:   l.Message,
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
	}
}

type LocationRepository struct {
	t table
}

func NewLocationRepository(db *sqlx.DB) *LocationRepository {
	return &LocationRepository{t: table{db: db, name: "locations"}}
}

func (r *LocationRepository) FindAll(ctx context.Context) ([]*entity.Location, error) {
	const op = "adapter.repository.postgres.LocationRepository.FindAll"

	var rows []locationDB

	if err := r.t.findAll(ctx, &rows); err != nil {
		return nil, fmt.Errorf("%s: failed to select from locations table: %w", op, err)
	}

	entries := make([]*entity.Location, 0, len(rows))
	for i := range rows {
		entries = append(entries, rows[i].toEntity())
	}

	return entries, nil
}

func (r *LocationRepository) FindByID(ctx context.Context, id int64) (*entity.Location, error) {
	const op = "adapter.repository.postgres.LocationRepository.FindByID"

	var row locationDB

	if err := r.t.findByID(ctx, &row, id); err != nil {
		return nil, fmt.Errorf("%s: failed to get row from locations table: %w", op, err)
	}

	return row.toEntity(), nil
}

// Save inserts e when it has no id yet and overwrites the row with e's id otherwise.
func (r *LocationRepository) Save(ctx context.Context, e *entity.Location) (*entity.Location, error) {
	const op = "adapter.repository.postgres.LocationRepository.Save"
	const insertQuery = `INSERT INTO locations(message, latitude, longitude) VALUES ($1, $2, $3) RETURNING *`
	const updateQuery = `UPDATE locations SET message = $1, latitude = $2, longitude = $3 WHERE id = $4 RETURNING *`

	var row locationDB

	if e.ID == 0 {
		if err := r.t.get(ctx, &row, insertQuery, e.Message, e.Latitude, e.Longitude); err != nil {
			return nil, fmt.Errorf("%s: failed to insert into locations table: %w", op, err)
		}

		return row.toEntity(), nil
	}

	if err := r.t.get(ctx, &row, updateQuery, e.Message, e.Latitude, e.Longitude, e.ID); err != nil {
		return nil, fmt.Errorf("%s: failed to update locations table row: %w", op, err)
	}

	return row.toEntity(), nil
}

func (r *LocationRepository) Delete(ctx context.Context, e *entity.Location) error {
	const op = "adapter.repository.postgres.LocationRepository.Delete"

	if err := r.t.delete(ctx, e.ID); err != nil {
		return fmt.Errorf("%s: failed to delete from locations table: %w", op, err)
	}

	return nil
}

func (r *LocationRepository) Count(ctx context.Context) (int64, error) {
	const op = "adapter.repository.postgres.LocationRepository.Count"

	n, err := r.t.count(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to count locations table rows: %w", op, err)
	}

	return n, nil
}
