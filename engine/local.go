package engine

import (
	"context"
	"errors"
	"fmt"

	"schafkopf/experiments/metrics"
	"schafkopf/game"
	"schafkopf/gamemaster"
	"schafkopf/rules"
	"schafkopf/searcher/agent"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"lukechampine.com/frand"
)

var ErrNoContract = errors.New("no player can announce a contract")

type Option func(e *Local)

func WithLength(length game.Length) Option {
	return func(e *Local) {
		e.length = length
	}
}

func WithStakes(stakes game.Stakes) Option {
	return func(e *Local) {
		e.stakes = stakes
	}
}

func WithPayoutParams(params rules.PayoutParams) Option {
	return func(e *Local) {
		e.params = params
	}
}

// WithSeed makes the dealt cards reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Local) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

func WithLeader(leader game.Player) Option {
	return func(e *Local) {
		e.leader = leader
	}
}

// WithRanker lets players pick the called suit they rate best instead of the first one
// they can call.
func WithRanker(ranker *agent.Suggester) Option {
	return func(e *Local) {
		e.ranker = ranker
	}
}

// Local plays deals between four agents in process. The leader moves one seat on after
// every deal.
type Local struct {
	agents [game.NumPlayers]agent.Agent
	length game.Length
	stakes game.Stakes
	params rules.PayoutParams
	rng    *rand.Rand
	leader game.Player
	ranker *agent.Suggester
}

func NewLocal(agents [game.NumPlayers]agent.Agent, options ...Option) *Local {
	for i, a := range agents {
		if a == nil {
			panic(fmt.Sprintf("missing agent for player %d", i))
		}
	}
	e := &Local{ // Default values
		agents: agents,
		length: game.Short,
		params: rules.DefaultPayoutParams(),
	}
	for _, option := range options {
		option(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(frand.Uint64n(1 << 63)))
	}
	return e
}

// Leader is the player who opens the next deal.
func (e *Local) Leader() game.Player {
	return e.leader
}

// Deal shuffles the deck and hands out the cards.
func (e *Local) Deal() game.World {
	deck := e.length.Cards()
	e.rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	n := e.length.CardsPerPlayer()
	var world game.World
	for _, player := range game.Players() {
		world[player] = game.NewHand(deck[int(player)*n : int(player+1)*n]...)
	}
	return world
}

// Contract returns the Rufspiel of the first player from the leader on who can call a
// suit, or false if nobody can.
func (e *Local) Contract(ctx context.Context, world game.World) (*rules.Rufspiel, bool, error) {
	for i := 0; i < game.NumPlayers; i++ {
		player := e.leader.Next(i)
		candidates := []*rules.Rufspiel{}
		for _, suit := range game.Suits() {
			if suit == game.Herz {
				continue
			}
			r := rules.NewRufspiel(player, suit, e.params)
			if r.CanBePlayed(world[player]) {
				candidates = append(candidates, r)
			}
		}
		if len(candidates) == 0 {
			continue
		}
		if e.ranker == nil {
			return candidates[0], true, nil
		}

		best, bestRank := candidates[0], 0.0
		for j, r := range candidates {
			rank, err := e.ranker.RankRules(ctx, r, e.stakes, e.leader, player, world[player])
			if err != nil {
				return nil, false, fmt.Errorf("failed to rank %s: %w", r, err)
			}
			if j == 0 || rank > bestRank {
				best, bestRank = r, rank
			}
		}
		return best, true, nil
	}
	return nil, false, nil
}

func (e *Local) Run(ctx context.Context) (Result, error) {
	collector := metrics.NewCollector()
	collector.Start(e.leader)

	var world game.World
	var contract *rules.Rufspiel
	redeals := 0
	for {
		world = e.Deal()
		r, ok, err := e.Contract(ctx, world)
		if err != nil {
			return Result{}, err
		}
		if ok {
			contract = r
			break
		}
		redeals++
		if redeals == MaxRedeals {
			return Result{}, fmt.Errorf("%d deals in a row: %w", redeals, ErrNoContract)
		}
	}
	collector.SetContract(contract.Declarer(), contract.String(), redeals)
	log.Info().Msgf("player %s leads, %s announces %s", e.leader, contract.Declarer(), contract)

	table, getUpdate := gamemaster.NewTable(contract, e.stakes, world, e.leader)
	for !table.IsOver() {
		player := table.Turn()
		view := agent.View{
			Rules:  contract,
			Stakes: e.stakes,
			Player: player,
			Hand:   table.Hand(player),
			Seq:    table.Sequence(),
		}
		card, searchMetrics, err := e.agents[player].PlayCard(ctx, view)
		if err != nil {
			return Result{}, fmt.Errorf("agent of %s failed: %w", player, err)
		}
		if err := table.Play(player, card); err != nil {
			return Result{}, err
		}
		collector.AddMove(player, card, searchMetrics)

		for u, ok := getUpdate(); ok; u, ok = getUpdate() {
			log.Debug().Stringer("player", u.Player).Stringer("card", u.Card).Msg("card played")
		}
	}

	payouts, err := table.Payouts()
	if err != nil {
		return Result{}, err
	}
	gameMetric, moveMetrics := collector.Complete(payouts)
	log.Info().Dur("duration", gameMetric.Duration).Msgf("deal over with payouts %v", payouts)

	e.leader = e.leader.Next(1)
	return Result{
		Rules:       contract,
		Dealt:       table.Dealt(),
		Seq:         table.Sequence(),
		Payouts:     payouts,
		GameMetric:  gameMetric,
		MoveMetrics: moveMetrics,
	}, nil
}
