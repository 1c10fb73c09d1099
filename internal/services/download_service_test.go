package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibedl/internal/models/db_models"
)

func mustParse(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

type fakeExtractor struct {
	fail bool
}

func (f *fakeExtractor) ExtractAudio(_ context.Context, url, destDir string) (string, error) {
	if f.fail {
		return "", errors.New("extraction blew up")
	}
	path := filepath.Join(destDir, filepath.Base(url)+".mp3")
	if err := os.WriteFile(path, []byte("mp3"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func TestDownloadSingleURLReturnsFile(t *testing.T) {
	jobs := newFakeDownloadJobRepo()
	svc := NewDownloadService(jobs, &fakeExtractor{}, t.TempDir(), zerolog.Nop())

	resp, err := svc.Process(context.Background(), newFakeAccountRepo().add(&db_models.Account{}).ID,
		[]string{"https://media.example.com/track-one"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.FileCount)
	assert.Equal(t, ".mp3", filepath.Ext(resp.ResultPath))

	job := jobs.jobs[mustParse(t, resp.JobID)]
	assert.Equal(t, db_models.DownloadJobStatusDone, job.Status)
	assert.Equal(t, resp.ResultPath, job.ResultPath)
}

func TestDownloadMultipleURLsReturnsZip(t *testing.T) {
	jobs := newFakeDownloadJobRepo()
	svc := NewDownloadService(jobs, &fakeExtractor{}, t.TempDir(), zerolog.Nop())

	resp, err := svc.Process(context.Background(), newFakeAccountRepo().add(&db_models.Account{}).ID,
		[]string{"https://media.example.com/a", "https://media.example.com/b"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.FileCount)
	assert.Equal(t, ".zip", filepath.Ext(resp.ResultPath))

	info, err := os.Stat(resp.ResultPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestDownloadFailureMarksJobFailed(t *testing.T) {
	jobs := newFakeDownloadJobRepo()
	svc := NewDownloadService(jobs, &fakeExtractor{fail: true}, t.TempDir(), zerolog.Nop())

	_, err := svc.Process(context.Background(), newFakeAccountRepo().add(&db_models.Account{}).ID,
		[]string{"https://media.example.com/broken"})
	require.Error(t, err)

	require.Len(t, jobs.jobs, 1)
	for _, job := range jobs.jobs {
		assert.Equal(t, db_models.DownloadJobStatusFailed, job.Status)
		assert.Contains(t, job.FailReason, "extraction blew up")
	}
}
