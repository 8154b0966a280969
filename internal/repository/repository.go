package repository

import "context"

type Repository interface {
	RecordJob(ctx context.Context, job TranscriptionJob) error
	ListRecentJobs(ctx context.Context, limit int) ([]TranscriptionJob, error)
}
