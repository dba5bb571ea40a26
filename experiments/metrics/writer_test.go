package metrics

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"schafkopf/game"
	"schafkopf/searcher"

	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Start(2)
	c.SetContract(3, "Rufspiel of 3 on Eichel", 1)
	c.AddMove(2, game.NewCard(game.Eichel, game.Koenig), searcher.SearchMetrics{Nodes: 5})
	c.AddMove(3, game.NewCard(game.Eichel, game.Ass), searcher.SearchMetrics{Nodes: 7})

	gameMetric, moves := c.Complete(game.Payouts{20, -20, -20, 20})

	require.Equal(t, 2, gameMetric.Leader)
	require.Equal(t, 3, gameMetric.Declarer)
	require.Equal(t, 1, gameMetric.Redeals)
	require.Equal(t, 2, gameMetric.TotalCards)
	require.Equal(t, game.Payouts{20, -20, -20, 20}, gameMetric.Payouts)
	require.False(t, gameMetric.EndTime.Before(gameMetric.StartTime))
	require.Equal(t, []MoveMetric{
		{Step: 1, Player: 2, Card: "EK", SearchMetrics: searcher.SearchMetrics{Nodes: 5}},
		{Step: 2, Player: 3, Card: "EA", SearchMetrics: searcher.SearchMetrics{Nodes: 7}},
	}, moves)
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "test")
	require.NoError(t, err)

	t.Run("writes the setup as json", func(t *testing.T) {
		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		setup := Setup{
			Name:      "test",
			Matchups:  [][]AgentConfig{{{ID: 1}, {ID: 2}, {ID: 1}, {ID: 2}}},
			NumDeals:  3,
			Seed:      9,
			StartTime: start,
			EndTime:   start.Add(time.Minute),
			Duration:  time.Minute,
		}
		require.NoError(t, w.WriteSetup(setup))

		data, err := os.ReadFile(filepath.Join(w.Dir(), "setup.json"))
		require.NoError(t, err)
		var read Setup
		require.NoError(t, json.Unmarshal(data, &read))
		require.Equal(t, setup, read)
	})

	t.Run("writes one row per agent config", func(t *testing.T) {
		configs := []AgentConfig{
			{ID: 1, Goroutines: 4, Samples: 10, BranchingLo: 1, BranchingHi: 3, HintPruning: true},
			{ID: 2, Goroutines: 8, Samples: 20, Temperature: 2.5},
		}
		require.NoError(t, w.WriteAgentConfigs(configs))

		rows := readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv"))
		require.Len(t, rows, 3)
		require.Equal(t, []string{"1", "4", "10", "1", "3", "true", "false", "0"}, rows[1])
		require.Equal(t, "2.5", rows[2][7])
	})

	t.Run("writes payouts per seat", func(t *testing.T) {
		records := []GameRecord{{
			ID:         1,
			Agents:     [4]int{0, 1, 0, 1},
			GameMetric: GameMetric{Leader: 1, Declarer: 2, Contract: "Rufspiel", Payouts: game.Payouts{-30, 30, 30, -30}, TotalCards: 24},
		}}
		require.NoError(t, w.WriteGameRecords(records))

		rows := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
		require.Len(t, rows, 2)
		require.Len(t, rows[1], len(rows[0]))
		require.Equal(t, []string{"1", "0", "1", "0", "1", "1", "2", "Rufspiel", "-30", "30", "30", "-30"}, rows[1][:12])
		require.Equal(t, "24", rows[1][16])
	})

	t.Run("writes the search metrics of every card", func(t *testing.T) {
		records := []MoveRecord{
			{Game: 1, MoveMetric: MoveMetric{Step: 1, Player: 1, Card: "SO", SearchMetrics: searcher.SearchMetrics{Nodes: 10, Terminals: 4, Pruned: 2, CacheHits: 1}}},
		}
		require.NoError(t, w.WriteMoveRecords(records))

		rows := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
		require.Len(t, rows, 2)
		require.Equal(t, []string{"1", "1", "1", "SO", "0s", "10", "4", "2", "1"}, rows[1])
	})
}
