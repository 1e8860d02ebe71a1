package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type StrategyConfig struct {
	ID       int
	Player   string // strategy name playing the Player side
	Opponent string
}

type GameRecord struct {
	ID     int
	Config int // StrategyConfig.ID
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

// PositionRecord is one row of a dangerous-position or line dump. Board holds
// the multi-line text form of the position.
type PositionRecord struct {
	Ply   int
	Key   uint64
	Move  string
	Score float64
	Round int
	Board string
}

type Writer struct {
	baseDir string
}

// NewWriter creates <root>/<name>/<timestamp> for one experiment run.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405.000Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteStrategyConfigs(configs []StrategyConfig) error {
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Player,
			config.Opponent,
		})
	}
	return w.write("strategy_configs.csv", []string{"id", "player", "opponent"}, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Config),
			record.StartingSide,
			record.Outcome,
			record.Reason,
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
		})
	}
	header := []string{"id", "config", "starting_side", "outcome", "reason", "start_time", "end_time", "duration", "total_moves"}
	return w.write("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Ply),
			record.Side,
			record.Move,
			strconv.Itoa(record.BallRow),
			record.Duration.String(),
		})
	}
	return w.write("move_records.csv", []string{"game", "ply", "side", "move", "ball_row", "duration"}, rows)
}

// WritePositions dumps positions to <name>.csv, e.g. dangerous positions or
// the best forward line.
func (w *Writer) WritePositions(name string, records []PositionRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Ply),
			strconv.FormatUint(record.Key, 16),
			record.Move,
			strconv.FormatFloat(record.Score, 'g', -1, 64),
			strconv.Itoa(record.Round),
			record.Board,
		})
	}
	return w.write(name+".csv", []string{"ply", "key", "move", "score", "round", "board"}, rows)
}

func (w *Writer) WriteSearchMetrics(records []SearchMetric) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.Mode,
			strconv.Itoa(record.Workers),
			record.StartTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.Rounds),
			strconv.Itoa(record.Expanded),
			strconv.Itoa(record.Generated),
			strconv.Itoa(record.Duplicates),
			strconv.Itoa(record.Nodes),
		})
	}
	header := []string{"mode", "workers", "start_time", "duration", "rounds", "expanded", "generated", "duplicates", "nodes"}
	return w.write("search_metrics.csv", header, rows)
}

func (w *Writer) write(file string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", file, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", file, err)
	}
	err = writer.WriteAll(rows)
	if err != nil {
		return fmt.Errorf("failed to write %s rows: %w", file, err)
	}
	return nil
}
