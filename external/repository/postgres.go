package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/toller892/paraformer-api-server/internal/repository"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) repository.Repository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) RecordJob(ctx context.Context, job repository.TranscriptionJob) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO transcription_jobs
		 (id, source, language, diarize, status, duration_seconds, text, speaker_count, error_kind, started_at, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		job.ID, job.Source, job.Language, job.Diarize, job.Status, job.DurationSec,
		job.Text, job.SpeakerCount, job.ErrorKind, job.StartedAt, job.FinishedAt)
	return err
}

func (r *PostgresRepository) ListRecentJobs(ctx context.Context, limit int) ([]repository.TranscriptionJob, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, source, language, diarize, status, duration_seconds, text, speaker_count, error_kind, started_at, finished_at, created_at
		 FROM transcription_jobs ORDER BY started_at DESC LIMIT $1`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.TranscriptionJob
	for rows.Next() {
		var j repository.TranscriptionJob
		if err := rows.Scan(&j.ID, &j.Source, &j.Language, &j.Diarize, &j.Status, &j.DurationSec,
			&j.Text, &j.SpeakerCount, &j.ErrorKind, &j.StartedAt, &j.FinishedAt, &j.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, j)
	}
	return list, rows.Err()
}

// NoopRepository is wired when no DATABASE_URL is configured; job history is
// simply not kept.
type NoopRepository struct{}

func NewNoopRepository() repository.Repository { return NoopRepository{} }

func (NoopRepository) RecordJob(ctx context.Context, job repository.TranscriptionJob) error {
	return nil
}

func (NoopRepository) ListRecentJobs(ctx context.Context, limit int) ([]repository.TranscriptionJob, error) {
	return nil, nil
}
