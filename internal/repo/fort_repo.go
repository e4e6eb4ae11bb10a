package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Raider/internal/domain"
	"github.com/shaiso/Raider/internal/geo"
)

// FortRepo — репозиторий для чтения fort'ов (точек интереса).
//
// Таблицей владеют внешние сканеры; raider только читает её при
// preload и периодическом resync.
type FortRepo struct {
	pool *pgxpool.Pool
}

// NewFortRepo создаёт новый FortRepo.
func NewFortRepo(pool *pgxpool.Pool) *FortRepo {
	return &FortRepo{pool: pool}
}

// ListWithinBounds возвращает forts внутри прямоугольной границы вместе
// с отметками свежести последнего sighting (0, если sightings нет).
func (r *FortRepo) ListWithinBounds(ctx context.Context, b geo.Bounds) ([]domain.Job, error) {
	query := `
		SELECT f.id, f.external_id, f.lat, f.lon, f.name, f.url,
		       COALESCE(s.last_modified, 0), COALESCE(s.updated, 0)
		FROM forts f
		LEFT JOIN LATERAL (
			SELECT last_modified, updated
			FROM fort_sightings
			WHERE fort_id = f.id
			ORDER BY updated DESC
			LIMIT 1
		) s ON true
		WHERE f.lat BETWEEN $1 AND $2
		  AND f.lon BETWEEN $3 AND $4
		ORDER BY f.id ASC
	`
	rows, err := r.pool.Query(ctx, query, b.South, b.North, b.West, b.East)
	if err != nil {
		return nil, fmt.Errorf("list forts within bounds: %w", err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		var job domain.Job
		var name, url *string

		err := rows.Scan(
			&job.ID,
			&job.ExternalID,
			&job.Lat,
			&job.Lon,
			&name,
			&url,
			&job.LastModified,
			&job.Updated,
		)
		if err != nil {
			return nil, fmt.Errorf("scan fort: %w", err)
		}

		if name != nil {
			job.Name = *name
		}
		if url != nil {
			job.URL = *url
		}

		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// GetByID возвращает fort по ID.
func (r *FortRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	query := `
		SELECT f.id, f.external_id, f.lat, f.lon, f.name, f.url,
		       COALESCE(s.last_modified, 0), COALESCE(s.updated, 0)
		FROM forts f
		LEFT JOIN LATERAL (
			SELECT last_modified, updated
			FROM fort_sightings
			WHERE fort_id = f.id
			ORDER BY updated DESC
			LIMIT 1
		) s ON true
		WHERE f.id = $1
	`
	var job domain.Job
	var name, url *string

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&job.ID,
		&job.ExternalID,
		&job.Lat,
		&job.Lon,
		&name,
		&url,
		&job.LastModified,
		&job.Updated,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan fort: %w", err)
	}

	if name != nil {
		job.Name = *name
	}
	if url != nil {
		job.URL = *url
	}

	return &job, nil
}
