package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/vadimbarashkov/nhood/internal/entity"
)

type dataURLDB struct {
	ID   int64          `db:"id"`
	Keys pq.StringArray `db:"keys"`
	URL  string         `db:"url"`
}

func (d *dataURLDB) toEntity() *entity.DataURL {
	return &entity.DataURL{
		ID:  d.ID,
		Key: []string(d.Keys),
		URL: d.URL,
	}
}

type DataURLRepository struct {
	t table
}

func NewDataURLRepository(db *sqlx.DB) *DataURLRepository {
	return &DataURLRepository{t: table{db: db, name: "data_urls"}}
}

func (r *DataURLRepository) FindAll(ctx context.Context) ([]*entity.DataURL, error) {
	const op = "adapter.repository.postgres.DataURLRepository.FindAll"

	var rows []dataURLDB

	if err := r.t.findAll(ctx, &rows); err != nil {
		return nil, fmt.Errorf("%s: failed to select from data_urls table: %w", op, err)
	}

	entries := make([]*entity.DataURL, 0, len(rows))
	for i := range rows {
		entries = append(entries, rows[i].toEntity())
	}

	return entries, nil
}

func (r *DataURLRepository) FindByID(ctx context.Context, id int64) (*entity.DataURL, error) {
	const op = "adapter.repository.postgres.DataURLRepository.FindByID"

	var row dataURLDB

	if err := r.t.findByID(ctx, &row, id); err != nil {
		return nil, fmt.Errorf("%s: failed to get row from data_urls table: %w", op, err)
	}

	return row.toEntity(), nil
}

// Save inserts e when it has no id yet and overwrites the row with e's id otherwise.
func (r *DataURLRepository) Save(ctx context.Context, e *entity.DataURL) (*entity.DataURL, error) {
	const op = "adapter.repository.postgres.DataURLRepository.Save"
	const insertQuery = `INSERT INTO data_urls(keys, url) VALUES ($1, $2) RETURNING *`
	const updateQuery = `UPDATE data_urls SET keys = $1, url = $2 WHERE id = $3 RETURNING *`

	var row dataURLDB

	keys := pq.StringArray(e.Key)
	if keys == nil {
		keys = pq.StringArray{}
	}

	if e.ID == 0 {
		if err := r.t.get(ctx, &row, insertQuery, keys, e.URL); err != nil {
			return nil, fmt.Errorf("%s: failed to insert into data_urls table: %w", op, err)
		}

		return row.toEntity(), nil
	}

	if err := r.t.get(ctx, &row, updateQuery, keys, e.URL, e.ID); err != nil {
		return nil, fmt.Errorf("%s: failed to update data_urls table row: %w", op, err)
	}

	return row.toEntity(), nil
}

func (r *DataURLRepository) Delete(ctx context.Context, e *entity.DataURL) error {
	const op = "adapter.repository.postgres.DataURLRepository.Delete"

	if err := r.t.delete(ctx, e.ID); err != nil {
		return fmt.Errorf("%s: failed to delete from data_urls table: %w", op, err)
	}

	return nil
}

func (r *DataURLRepository) Count(ctx context.Context) (int64, error) {
	const op = "adapter.repository.postgres.DataURLRepository.Count"

	n, err := r.t.count(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to count data_urls table rows: %w", op, err)
	}

	return n, nil
}
