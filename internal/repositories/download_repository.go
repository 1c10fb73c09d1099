package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vibedl/internal/models/db_models"
)

type DownloadJobRepository interface {
	Insert(ctx context.Context, job *db_models.DownloadJob) error
	MarkDone(ctx context.Context, jobID uuid.UUID, resultPath string) error
	MarkFailed(ctx context.Context, jobID uuid.UUID, reason string) error
}

type downloadJobRepository struct {
	db *gorm.DB
}

func NewDownloadJobRepository(db *gorm.DB) DownloadJobRepository {
	return &downloadJobRepository{db: db}
}

func (d *downloadJobRepository) Insert(ctx context.Context, job *db_models.DownloadJob) error {
	return d.db.WithContext(ctx).Create(job).Error
}

func (d *downloadJobRepository) MarkDone(ctx context.Context, jobID uuid.UUID, resultPath string) error {
	return d.db.WithContext(ctx).Model(&db_models.DownloadJob{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"status":      db_models.DownloadJobStatusDone,
			"result_path": resultPath,
		}).Error
}

func (d *downloadJobRepository) MarkFailed(ctx context.Context, jobID uuid.UUID, reason string) error {
	return d.db.WithContext(ctx).Model(&db_models.DownloadJob{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"status":      db_models.DownloadJobStatusFailed,
			"fail_reason": reason,
		}).Error
}
