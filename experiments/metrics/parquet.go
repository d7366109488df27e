package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// EpisodeWriter streams episode records of one training run into a parquet
// file. Rows go to a temporary file that is renamed into place on Close.
type EpisodeWriter struct {
	runID   string
	tmpPath string
	outPath string

	file   *os.File
	writer *parquet.GenericWriter[EpisodeRecord]
	rows   int
}

func NewEpisodeWriter(dir string) (*EpisodeWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create episode dir: %w", err)
	}

	runID := uuid.NewString()
	outPath := filepath.Join(dir, fmt.Sprintf("episodes_%s.parquet", runID))
	tmpPath := outPath + ".tmp"

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open episode file: %w", err)
	}

	w := parquet.NewGenericWriter[EpisodeRecord](
		f,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
	)
	w.SetKeyValueMetadata("schema", "episode_record_v1")
	w.SetKeyValueMetadata("run_id", runID)

	return &EpisodeWriter{
		runID:   runID,
		tmpPath: tmpPath,
		outPath: outPath,
		file:    f,
		writer:  w,
	}, nil
}

func (e *EpisodeWriter) RunID() string   { return e.runID }
func (e *EpisodeWriter) OutPath() string { return e.outPath }
func (e *EpisodeWriter) Rows() int       { return e.rows }

// Write stamps the run ID on each record and appends them.
func (e *EpisodeWriter) Write(records []EpisodeRecord) error {
	if e.writer == nil {
		return fmt.Errorf("episode writer is closed")
	}
	if len(records) == 0 {
		return nil
	}
	rows := make([]EpisodeRecord, len(records))
	for i, r := range records {
		r.RunID = e.runID
		rows[i] = r
	}
	if _, err := e.writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write episode rows: %w", err)
	}
	e.rows += len(rows)
	return nil
}

// Close finalizes the file. An empty run leaves no file behind.
func (e *EpisodeWriter) Close() error {
	if e.writer == nil {
		return nil
	}
	closeErr := e.writer.Close()
	e.writer = nil
	_ = e.file.Sync()
	fileErr := e.file.Close()
	if closeErr != nil {
		return fmt.Errorf("failed to close parquet writer: %w", closeErr)
	}
	if fileErr != nil {
		return fmt.Errorf("failed to close episode file: %w", fileErr)
	}

	if e.rows == 0 {
		_ = os.Remove(e.tmpPath)
		return nil
	}
	if err := os.Rename(e.tmpPath, e.outPath); err != nil {
		return fmt.Errorf("failed to rename episode file: %w", err)
	}
	return nil
}

// ReadEpisodes loads every record of a parquet episode file.
func ReadEpisodes(path string) ([]EpisodeRecord, error) {
	rows, err := parquet.ReadFile[EpisodeRecord](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read episodes: %w", err)
	}
	return rows, nil
}
