package searcher

import (
	"fmt"

	"schafkopf/game"

	"golang.org/x/exp/slices"
)

type Option func(e *Explorer)

// Explorer enumerates the continuations of a fully known deal and aggregates their payouts.
type Explorer struct {
	rules      game.Rules
	aggregator Aggregator
	pruner     Pruner
	visualizer Visualizer
	filter     Filter
	snapshots  bool
	metrics    MetricsCollector
}

func WithPruner(pruner Pruner) Option {
	return func(e *Explorer) {
		if _, none := pruner.(NoPruning); pruner != nil && !none {
			e.pruner = pruner
		}
	}
}

func WithVisualizer(visualizer Visualizer) Option {
	return func(e *Explorer) {
		if visualizer != nil {
			e.visualizer = visualizer
		}
	}
}

func WithFilter(filter Filter) Option {
	return func(e *Explorer) {
		if filter != nil {
			e.filter = filter
		}
	}
}

// WithSnapshotCache memoizes positions at trick boundaries if the rules support it.
func WithSnapshotCache() Option {
	return func(e *Explorer) {
		e.snapshots = true
	}
}

func WithMetrics(metrics MetricsCollector) Option {
	return func(e *Explorer) {
		if metrics != nil {
			e.metrics = metrics
		}
	}
}

func NewExplorer(rules game.Rules, aggregator Aggregator, options ...Option) *Explorer {
	e := &Explorer{ // Default values
		rules:      rules,
		aggregator: aggregator,
		metrics:    NewNoMetricsCollector(),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Explore computes the outcome of the position given by world and seq. Both are mutated
// during the search and restored before Explore returns. An Explorer without visualizer
// can explore different worlds concurrently.
func (e *Explorer) Explore(world *game.World, seq *game.Sequence) Outcome {
	world.CheckCompatible(seq)
	s := &search{
		Explorer: e,
		world:    world,
		seq:      seq,
		cache:    game.NewStateCache(seq, world),
	}
	if e.snapshots {
		if equivalence, ok := e.rules.Equivalence(s.cache); ok {
			s.snapshots = newSnapshotCache(equivalence)
		}
	}
	return s.explore()
}

// search is the state of one Explore call.
type search struct {
	*Explorer
	world     *game.World
	seq       *game.Sequence
	cache     *game.StateCache
	snapshots *snapshotCache
	depth     int
}

func (s *search) explore() Outcome {
	s.metrics.AddNode()
	if s.visualizer != nil {
		s.visualizer.Begin(s.seq, s.world)
	}
	outcome := s.node()
	if s.visualizer != nil {
		s.visualizer.End(outcome)
	}
	return outcome
}

func (s *search) node() Outcome {
	if s.world.MaxHandLen() <= 1 {
		return s.forced()
	}
	if s.pruner != nil {
		if outcome, ok := s.pruner.Prune(s.seq, s.world, s.cache); ok {
			s.metrics.AddPruned()
			return outcome
		}
	}
	if s.snapshots == nil || s.depth == 0 || !s.seq.Current().IsEmpty() {
		return s.branch()
	}
	key := s.snapshots.key(s.seq, s.cache)
	if outcome, ok := s.snapshots.get(key); ok {
		s.metrics.AddCacheHit()
		return outcome
	}
	outcome := s.branch()
	s.snapshots.put(key, outcome)
	return outcome
}

// forced plays out the remaining single cards on the ledger only and scores the deal.
func (s *search) forced() Outcome {
	played := 0
	for !s.seq.IsFinished() {
		player := s.seq.Current().Current()
		hand := s.world[player]
		if hand.Len() != 1 {
			panic(fmt.Sprintf("%s holds %d cards in a forced finish", player, hand.Len()))
		}
		s.seq.Play(hand.Cards()[0], s.rules)
		played++
	}
	var outcome Outcome
	if played > 0 {
		r := s.registerLast()
		outcome = s.aggregator.Terminal(s.seq, s.cache)
		s.cache.Unregister(r)
	} else {
		outcome = s.aggregator.Terminal(s.seq, s.cache)
	}
	for ; played > 0; played-- {
		s.seq.Undo()
	}
	s.metrics.AddTerminal()
	return outcome
}

func (s *search) branch() Outcome {
	player := s.seq.Current().Current()
	cards := slices.Clone(s.rules.AllowedCards(s.seq, s.world[player]))
	if s.filter != nil {
		cards = s.filter(s.seq, cards)
	}
	if len(cards) == 0 {
		panic(fmt.Sprintf("no legal card for %s after %d cards", player, s.seq.PlayedCount()))
	}
	var outcome Outcome
	for i, card := range cards {
		child := s.play(player, card)
		if i == 0 {
			outcome = child
		} else {
			outcome = s.aggregator.Combine(player, outcome, child)
		}
	}
	return outcome
}

func (s *search) play(player game.Player, card game.Card) Outcome {
	s.world[player].Play(card)
	s.seq.Play(card, s.rules)
	s.depth++
	var outcome Outcome
	if s.seq.Current().IsEmpty() {
		r := s.registerLast()
		outcome = s.explore()
		s.cache.Unregister(r)
	} else {
		outcome = s.explore()
	}
	s.depth--
	if undone := s.seq.Undo(); undone != card {
		panic(fmt.Sprintf("undo returned %s instead of %s", undone, card))
	}
	s.world[player].Add(card)
	return outcome
}

// registerLast accounts the trick that was just completed to the leader of the new one.
func (s *search) registerLast() game.Registration {
	completed := s.seq.Completed()
	return s.cache.Register(&completed[len(completed)-1], s.seq.Current().Leader())
}
