package extract

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// Extractor fetches a media URL and produces a transcoded audio file in
// destDir, returning the path of the produced file. The contract is
// deliberately thin: all format negotiation lives in the external tool.
type Extractor interface {
	ExtractAudio(ctx context.Context, url, destDir string) (string, error)
}

type YTDLPExtractor struct {
	binPath string
	logger  zerolog.Logger
}

func NewYTDLPExtractor(binPath string, logger zerolog.Logger) *YTDLPExtractor {
	return &YTDLPExtractor{
		binPath: binPath,
		logger:  logger.With().Str("component", "ytdlp").Logger(),
	}
}

func (y *YTDLPExtractor) ExtractAudio(ctx context.Context, url, destDir string) (string, error) {
	args := []string{
		"--format", "bestaudio/best",
		"--no-playlist",
		"--extract-audio",
		"--audio-format", "mp3",
		"--audio-quality", "192K",
		"--output", destDir + "/%(title)s.%(ext)s",
		"--print", "after_move:filepath",
		"--no-simulate",
		url,
	}

	cmd := exec.CommandContext(ctx, y.binPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	y.logger.Debug().Str("url", url).Msg("starting extraction")

	if err := cmd.Run(); err != nil {
		y.logger.Warn().Err(err).Str("url", url).Str("stderr", stderr.String()).
			Msg("extraction failed")
		return "", fmt.Errorf("extract %s: %w", url, err)
	}

	path := strings.TrimSpace(stdout.String())
	if path == "" {
		return "", fmt.Errorf("extract %s: tool reported no output file", url)
	}

	return path, nil
}
