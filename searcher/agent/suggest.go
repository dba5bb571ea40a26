package agent

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"

	"schafkopf/game"
	"schafkopf/meta"
	"schafkopf/sampler"
	"schafkopf/searcher"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"
)

var (
	ErrNoCards  = errors.New("no legal cards")
	ErrNoWorlds = errors.New("no compatible world")
)

// View is what a player knows when choosing a card.
type View struct {
	Rules  game.Rules
	Stakes game.Stakes
	Player game.Player
	Hand   game.Hand
	Seq    *game.Sequence
}

type Option func(s *Suggester)

// Suggester rates the legal cards of a player by searching many worlds that are
// compatible with what the player knows.
type Suggester struct {
	goroutines     int
	samples        int
	exhaustive     int
	branchingLo    int
	branchingHi    int
	hintPruning    bool
	snapshots      bool
	traceDir       string
	seed           uint64
	seeded         bool
	maxRandomTries int
}

func WithGoroutines(goroutines int) Option {
	return func(s *Suggester) {
		if goroutines > 0 {
			s.goroutines = goroutines
		}
	}
}

func WithSamples(samples int) Option {
	return func(s *Suggester) {
		if samples > 0 {
			s.samples = samples
		}
	}
}

// WithExhaustiveHandSize searches every possible world once the player holds at most
// size cards.
func WithExhaustiveHandSize(size int) Option {
	return func(s *Suggester) {
		if size >= 0 {
			s.exhaustive = size
		}
	}
}

// WithBranching limits random worlds to between lo and hi-1 cards per position.
func WithBranching(lo, hi int) Option {
	return func(s *Suggester) {
		if lo > 0 && hi > lo {
			s.branchingLo, s.branchingHi = lo, hi
		}
	}
}

// WithoutBranching searches random worlds exhaustively.
func WithoutBranching() Option {
	return func(s *Suggester) {
		s.branchingLo, s.branchingHi = 0, 0
	}
}

func WithHintPruning() Option {
	return func(s *Suggester) {
		s.hintPruning = true
	}
}

func WithSnapshotCache() Option {
	return func(s *Suggester) {
		s.snapshots = true
	}
}

// WithTraceDir writes an HTML trace per searched world and card into dir.
func WithTraceDir(dir string) Option {
	return func(s *Suggester) {
		s.traceDir = dir
	}
}

// WithSeed makes sampling and branching reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Suggester) {
		s.seed = seed
		s.seeded = true
	}
}

func NewSuggester(options ...Option) *Suggester {
	s := &Suggester{ // Default values
		goroutines:     meta.GO_ROUTINES,
		samples:        meta.SAMPLES,
		exhaustive:     meta.EXHAUSTIVE_HAND_SIZE,
		branchingLo:    meta.BRANCHING_LO,
		branchingHi:    meta.BRANCHING_HI,
		maxRandomTries: 100,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *Suggester) rng(stream uint64) *rand.Rand {
	if s.seeded {
		return rand.New(rand.NewSource(s.seed + stream))
	}
	return rand.New(rand.NewSource(frand.Uint64n(1 << 63)))
}

// Worlds returns the worlds the suggester searches for view.
func (s *Suggester) Worlds(view View) (iter.Seq[game.World], bool, error) {
	if view.Hand.Len() <= s.exhaustive {
		worlds, err := sampler.AllPossible(view.Seq, view.Hand, view.Player)
		if err != nil {
			return nil, false, err
		}
		return sampler.Filter(worlds, view.Rules, view.Seq), true, nil
	}
	worlds, err := sampler.ForeverRandom(view.Seq, view.Hand, view.Player, s.rng(0))
	if err != nil {
		return nil, false, err
	}
	return s.take(worlds, view), false, nil
}

// take yields up to s.samples compatible worlds and gives up after too many misses.
func (s *Suggester) take(worlds iter.Seq[game.World], view View) iter.Seq[game.World] {
	return func(yield func(game.World) bool) {
		taken, tries := 0, 0
		for world := range worlds {
			if taken == s.samples || tries == s.samples*s.maxRandomTries {
				return
			}
			tries++
			if !sampler.Compatible(&world, view.Rules, view.Seq) {
				continue
			}
			taken++
			if !yield(world) {
				return
			}
		}
	}
}

// Suggest rates every legal card of view's player.
func (s *Suggester) Suggest(ctx context.Context, view View) (Suggestion, error) {
	allowed := view.Rules.AllowedCards(view.Seq, view.Hand)
	if len(allowed) == 0 {
		return Suggestion{}, fmt.Errorf("%s with %s: %w", view.Player, view.Hand, ErrNoCards)
	}
	if len(allowed) == 1 {
		return Suggestion{Cards: []CardStats{{Card: allowed[0]}}}, nil
	}
	worlds, exhaustive, err := s.Worlds(view)
	if err != nil {
		return Suggestion{}, fmt.Errorf("failed to sample worlds: %w", err)
	}
	suggestion, err := s.SuggestIn(ctx, view, worlds, !exhaustive)
	if exhaustive || !errors.Is(err, ErrNoWorlds) {
		return suggestion, err
	}

	// The true world is among all possible ones, so enumerating them always finds one
	log.Warn().Stringer("player", view.Player).Msg("no random world is compatible, enumerating")
	all, err := sampler.AllPossible(view.Seq, view.Hand, view.Player)
	if err != nil {
		return Suggestion{}, fmt.Errorf("failed to enumerate worlds: %w", err)
	}
	return s.SuggestIn(ctx, view, limit(sampler.Filter(all, view.Rules, view.Seq), s.samples), true)
}

func limit(worlds iter.Seq[game.World], n int) iter.Seq[game.World] {
	return func(yield func(game.World) bool) {
		if n <= 0 {
			return
		}
		taken := 0
		for world := range worlds {
			if !yield(world) {
				return
			}
			taken++
			if taken == n {
				return
			}
		}
	}
}

// SuggestIn rates the legal cards of view's player over the given worlds. Every world
// must hold view's hand for view's player.
func (s *Suggester) SuggestIn(ctx context.Context, view View, worlds iter.Seq[game.World], branching bool) (Suggestion, error) {
	allowed := view.Rules.AllowedCards(view.Seq, view.Hand)
	if len(allowed) == 0 {
		return Suggestion{}, fmt.Errorf("%s with %s: %w", view.Player, view.Hand, ErrNoCards)
	}
	collector := searcher.NewMetricsCollector()
	collector.Start()

	var mu sync.Mutex
	results := [][]CardStats{}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.goroutines)
	sample := 0
	for world := range worlds {
		if gctx.Err() != nil {
			break
		}
		i := sample
		sample++
		g.Go(func() error {
			stats, err := s.searchWorld(gctx, view, world, allowed, i, branching, collector)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			results = append(results, stats)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Suggestion{}, err
	}
	if err := ctx.Err(); err != nil {
		return Suggestion{}, err
	}
	if len(results) == 0 {
		return Suggestion{}, fmt.Errorf("%s after %d cards: %w", view.Player, view.Seq.PlayedCount(), ErrNoWorlds)
	}

	suggestion := Suggestion{Cards: reduce(results), Metrics: collector.Complete()}
	log.Debug().
		Int("samples", len(results)).
		Int64("nodes", suggestion.Metrics.Nodes).
		Dur("duration", suggestion.Metrics.Duration).
		Stringer("player", view.Player).
		Msgf("best cards %v", suggestion.BestCards())
	return suggestion, nil
}

// searchWorld explores world once per allowed card, with that card already played.
func (s *Suggester) searchWorld(
	ctx context.Context,
	view View,
	world game.World,
	allowed []game.Card,
	sample int,
	branching bool,
	collector searcher.MetricsCollector,
) ([]CardStats, error) {
	seq := view.Seq.Clone()
	stats := make([]CardStats, len(allowed))
	for i, card := range allowed {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		options := s.explorerOptions(view, sample, branching, collector)
		closeTrace := func() error { return nil }
		if s.traceDir != "" {
			visualizer, closer, err := searcher.NewTraceFactory(s.traceDir, view.Rules, view.Player).Open(sample, card)
			if err != nil {
				return nil, err
			}
			options = append(options, searcher.WithVisualizer(visualizer))
			closeTrace = closer
		}

		world[view.Player].Play(card)
		seq.Play(card, view.Rules)
		explorer := searcher.NewExplorer(view.Rules, searcher.NewMinMax(view.Rules, view.Player, view.Stakes), options...)
		outcome := explorer.Explore(&world, seq)
		seq.Undo()
		world[view.Player].Add(card)

		if err := closeTrace(); err != nil {
			return nil, fmt.Errorf("failed to close trace: %w", err)
		}
		stats[i] = newCardStats(card, outcome.Of(view.Player))
	}
	return stats, nil
}

func (s *Suggester) explorerOptions(view View, sample int, branching bool, collector searcher.MetricsCollector) []searcher.Option {
	options := []searcher.Option{searcher.WithMetrics(collector)}
	if s.hintPruning {
		options = append(options, searcher.WithPruner(searcher.NewHintPruning(view.Rules, view.Player, view.Stakes)))
	}
	if s.snapshots {
		options = append(options, searcher.WithSnapshotCache())
	}
	if branching && s.branchingLo > 0 {
		if s.seeded {
			options = append(options, searcher.WithFilter(searcher.SeededBranchingFactor(s.branchingLo, s.branchingHi, s.rng(uint64(sample)+1))))
		} else {
			options = append(options, searcher.WithFilter(searcher.BranchingFactor(s.branchingLo, s.branchingHi)))
		}
	}
	return options
}
