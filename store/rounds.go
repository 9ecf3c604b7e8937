// Package store archives self-play rounds as parquet files.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

const roundSchema = "round_row_v1"

// RoundRow is one player's view of one round of a match.
//
// Command is what the player issued this round. OppCommand is what the
// player's decider inferred the opponent issued last round, empty when
// inference failed or had nothing to explain.
type RoundRow struct {
	MatchID  string `parquet:"match_id,dict"`
	Seed     int64  `parquet:"seed"`
	Round    int32  `parquet:"round"`
	PlayerID int32  `parquet:"player_id"`

	X            int32 `parquet:"x"`
	Lane         int32 `parquet:"lane"`
	Speed        int32 `parquet:"speed"`
	Damage       int32 `parquet:"damage"`
	Score        int32 `parquet:"score"`
	Boosting     bool  `parquet:"boosting"`
	BoostCounter int32 `parquet:"boost_counter"`
	Boosts       int32 `parquet:"boosts"`
	Oils         int32 `parquet:"oils"`
	Lizards      int32 `parquet:"lizards"`
	Tweets       int32 `parquet:"tweets"`
	EMPs         int32 `parquet:"emps"`

	Command    string `parquet:"command,dict"`
	OppCommand string `parquet:"opp_command,dict,optional"`

	// Winner is the id of the match winner, repeated on every row.
	Winner int32 `parquet:"winner"`
}

func writeOptions() []parquet.WriterOption {
	return []parquet.WriterOption{
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", roundSchema),
	}
}

// WriteRoundsParquet writes rows to outPath through a temp file so readers
// never see a partial file.
func WriteRoundsParquet(outPath string, rows []RoundRow) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows, writeOptions()...); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write parquet: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

func ReadRoundsParquet(path string) ([]RoundRow, error) {
	rows, err := parquet.ReadFile[RoundRow](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet %s: %w", path, err)
	}
	return rows, nil
}
