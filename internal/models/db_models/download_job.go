package db_models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type DownloadJobStatus string

const (
	DownloadJobStatusRunning DownloadJobStatus = "running"
	DownloadJobStatusDone    DownloadJobStatus = "done"
	DownloadJobStatusFailed  DownloadJobStatus = "failed"
)

type DownloadJob struct {
	BaseModel
	AccountID  uuid.UUID         `gorm:"index;not null"`
	URLs       pq.StringArray    `gorm:"type:text[]"`
	Status     DownloadJobStatus `gorm:"size:50;index;default:running"`
	ResultPath string
	FailReason string

	Account Account `gorm:"foreignKey:AccountID"`
}
