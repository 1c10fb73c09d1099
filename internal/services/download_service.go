package services

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"vibedl/internal/extract"
	"vibedl/internal/models/db_models"
	"vibedl/internal/models/response_models"
	"vibedl/internal/repositories"
)

type DownloadServiceInterface interface {
	Process(ctx context.Context, accountID uuid.UUID, urls []string) (*response_models.DownloadResponse, error)
}

type DownloadService struct {
	jobRepo   repositories.DownloadJobRepository
	extractor extract.Extractor
	scratch   string
	logger    zerolog.Logger
}

func NewDownloadService(jobRepo repositories.DownloadJobRepository, extractor extract.Extractor, scratchDir string, logger zerolog.Logger) DownloadServiceInterface {
	return &DownloadService{
		jobRepo:   jobRepo,
		extractor: extractor,
		scratch:   scratchDir,
		logger:    logger.With().Str("component", "downloads").Logger(),
	}
}

// Process runs the gated pipeline for one request: record the job, extract
// each URL, package the result. Callers reach this only after the entitlement
// middleware granted access.
//
// The scratch directory is cleared at the start of each request. Two
// concurrent requests can race on it; kept as-is, known issue inherited from
// the original layout (jobs get per-request subdirectories but the cleanup
// sweep is global).
func (d *DownloadService) Process(ctx context.Context, accountID uuid.UUID, urls []string) (*response_models.DownloadResponse, error) {
	job := &db_models.DownloadJob{
		AccountID: accountID,
		URLs:      urls,
		Status:    db_models.DownloadJobStatusRunning,
	}
	if err := d.jobRepo.Insert(ctx, job); err != nil {
		return nil, err
	}

	if err := d.sweepScratch(); err != nil {
		d.logger.Warn().Err(err).Msg("scratch sweep failed")
	}

	jobDir := filepath.Join(d.scratch, job.ID.String())
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		_ = d.jobRepo.MarkFailed(ctx, job.ID, err.Error())
		return nil, err
	}

	var files []string
	for _, url := range urls {
		path, err := d.extractor.ExtractAudio(ctx, url, jobDir)
		if err != nil {
			_ = d.jobRepo.MarkFailed(ctx, job.ID, err.Error())
			return nil, err
		}
		files = append(files, path)
	}

	resultPath := files[0]
	if len(files) > 1 {
		zipPath := filepath.Join(jobDir, "vibe-downloads.zip")
		if err := zipFiles(zipPath, files); err != nil {
			_ = d.jobRepo.MarkFailed(ctx, job.ID, err.Error())
			return nil, err
		}
		resultPath = zipPath
	}

	if err := d.jobRepo.MarkDone(ctx, job.ID, resultPath); err != nil {
		return nil, err
	}

	d.logger.Info().Str("job_id", job.ID.String()).Int("files", len(files)).
		Msg("download job complete")

	return &response_models.DownloadResponse{
		JobID:      job.ID.String(),
		ResultPath: resultPath,
		FileCount:  len(files),
	}, nil
}

func (d *DownloadService) sweepScratch() error {
	entries, err := os.ReadDir(d.scratch)
	if err != nil {
		if os.IsNotExist(err) {
			return os.MkdirAll(d.scratch, 0o755)
		}
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(d.scratch, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func zipFiles(zipPath string, files []string) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return err
	}
	defer out.Close()

	w := zip.NewWriter(out)
	for _, file := range files {
		if err := addToZip(w, file); err != nil {
			w.Close()
			return fmt.Errorf("zip %s: %w", file, err)
		}
	}
	return w.Close()
}

func addToZip(w *zip.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	entry, err := w.Create(filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(entry, f)
	return err
}
