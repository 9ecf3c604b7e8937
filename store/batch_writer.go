package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

var errClosed = errors.New("batch writer is closed")

// BatchWriter streams round rows into outDir/tmp and moves the finished
// file into outDir on Finalize.
type BatchWriter struct {
	tmpPath string
	outPath string

	file   *os.File
	writer *parquet.GenericWriter[RoundRow]

	matches int
	rows    int
}

func NewBatchWriter(outDir, prefix string) (*BatchWriter, error) {
	if outDir == "" {
		return nil, fmt.Errorf("outDir is required")
	}
	absOut, err := filepath.Abs(outDir)
	if err != nil {
		absOut = outDir
	}
	tmpDir := filepath.Join(absOut, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return nil, fmt.Errorf("create tmp dir: %w", err)
	}

	name := fmt.Sprintf("%s_%d.parquet", prefix, time.Now().UnixNano())
	tmpPath := filepath.Join(tmpDir, name)

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open tmp parquet: %w", err)
	}
	w := parquet.NewGenericWriter[RoundRow](f,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
	)
	w.SetKeyValueMetadata("schema", roundSchema)

	return &BatchWriter{
		tmpPath: tmpPath,
		outPath: filepath.Join(absOut, name),
		file:    f,
		writer:  w,
	}, nil
}

func (b *BatchWriter) OutPath() string { return b.outPath }
func (b *BatchWriter) Rows() int       { return b.rows }
func (b *BatchWriter) Matches() int    { return b.matches }

// WriteMatch appends the rows of one finished match.
func (b *BatchWriter) WriteMatch(rows []RoundRow) error {
	if b.writer == nil {
		return errClosed
	}
	if len(rows) == 0 {
		return nil
	}
	if _, err := b.writer.Write(rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	b.rows += len(rows)
	b.matches++
	return nil
}

// Finalize closes the file and moves it into place. An empty batch is
// removed and reported with an empty path.
func (b *BatchWriter) Finalize() (string, error) {
	if b.writer == nil {
		return "", nil
	}
	closeErr := b.writer.Close()
	b.writer = nil
	_ = b.file.Sync()
	fileErr := b.file.Close()
	b.file = nil

	if closeErr != nil {
		return "", fmt.Errorf("close parquet writer: %w", closeErr)
	}
	if fileErr != nil {
		return "", fmt.Errorf("close parquet file: %w", fileErr)
	}
	if b.rows == 0 {
		_ = os.Remove(b.tmpPath)
		return "", nil
	}
	if err := os.Rename(b.tmpPath, b.outPath); err != nil {
		return "", fmt.Errorf("rename parquet: %w", err)
	}
	return b.outPath, nil
}
