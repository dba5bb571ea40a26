package metrics

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type GameRecord struct {
	ID     int
	Agents [4]int // AgentConfig.ID per seat
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type Setup struct {
	Name      string          `json:"name"`
	Matchups  [][]AgentConfig `json:"matchups"`
	NumDeals  int             `json:"numDeals"` // per matchup
	Seed      uint64          `json:"seed"`
	StartTime time.Time       `json:"startTime"`
	EndTime   time.Time       `json:"endTime"`
	Duration  time.Duration   `json:"duration"`
}

type Writer struct {
	baseDir string
}

// NewWriter stores the results of experiment name below root in a folder named by the
// current timestamp.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339)
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

func (w *Writer) WriteSetup(setup Setup) error {
	path := filepath.Join(w.baseDir, "setup.json")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create setup file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(setup); err != nil {
		return fmt.Errorf("failed to write setup: %w", err)
	}

	return nil
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "goroutines", "samples", "branching_lo", "branching_hi", "hint_pruning", "snapshots", "temperature"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			strconv.Itoa(config.Goroutines),
			strconv.Itoa(config.Samples),
			strconv.Itoa(config.BranchingLo),
			strconv.Itoa(config.BranchingHi),
			strconv.FormatBool(config.HintPruning),
			strconv.FormatBool(config.Snapshots),
			strconv.FormatFloat(config.Temperature, 'f', -1, 64),
		})
	}
	return w.writeCSV("agent_configs.csv", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{
		"id", "agent0", "agent1", "agent2", "agent3", "leader", "declarer", "contract",
		"payout0", "payout1", "payout2", "payout3", "redeals", "start_time", "end_time", "duration", "cards",
	}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		row := []string{strconv.Itoa(record.ID)}
		for _, id := range record.Agents {
			row = append(row, strconv.Itoa(id))
		}
		row = append(row,
			strconv.Itoa(record.Leader),
			strconv.Itoa(record.Declarer),
			record.Contract,
		)
		for _, payout := range record.Payouts {
			row = append(row, strconv.Itoa(payout))
		}
		row = append(row,
			strconv.Itoa(record.Redeals),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.TotalCards),
		)
		rows = append(rows, row)
	}
	return w.writeCSV("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "card", "duration", "nodes", "terminals", "pruned", "cache_hits"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			strconv.Itoa(record.Player),
			record.Card,
			record.Duration.String(),
			strconv.FormatInt(record.Nodes, 10),
			strconv.FormatInt(record.Terminals, 10),
			strconv.FormatInt(record.Pruned, 10),
			strconv.FormatInt(record.CacheHits, 10),
		})
	}
	return w.writeCSV("move_records.csv", header, rows)
}

func (w *Writer) writeCSV(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	err = writer.WriteAll(rows)
	if err != nil {
		return fmt.Errorf("failed to write %s rows: %w", name, err)
	}
	return nil
}
