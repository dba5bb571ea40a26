package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"schafkopf/analysis"
	"schafkopf/engine"
	"schafkopf/experiments"
	"schafkopf/game"
	"schafkopf/meta"
	"schafkopf/rules"
	"schafkopf/searcher/agent"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"lukechampine.com/frand"
)

const usage = `usage: schafkopf <command> [flags]

commands:
  suggest     rate the legal cards of the player to move
  experiment  play batches of deals between agent configs
  analyze     play deals and look for the cards that cost payout
`

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "suggest":
		err = runSuggest(ctx, os.Args[2:])
	case "experiment":
		err = runExperiment(ctx, os.Args[2:])
	case "analyze":
		err = runAnalyze(ctx, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Msgf("%s failed", os.Args[1])
	}
}

// searchFlags are shared by every command that searches.
type searchFlags struct {
	verbose     *bool
	goroutines  *int
	samples     *int
	branchingLo *int
	branchingHi *int
	prune       *bool
	snapshots   *bool
	seed        *uint64
}

func addSearchFlags(fs *flag.FlagSet) searchFlags {
	return searchFlags{
		verbose:     fs.Bool("verbose", asBool(os.Getenv("SCHAFKOPF_VERBOSE")), "Log at debug level"),
		goroutines:  fs.Int("goroutines", atoiDef(os.Getenv("SCHAFKOPF_GOROUTINES"), meta.GO_ROUTINES), "Number of worlds searched in parallel"),
		samples:     fs.Int("samples", atoiDef(os.Getenv("SCHAFKOPF_SAMPLES"), meta.SAMPLES), "Number of random worlds per suggestion"),
		branchingLo: fs.Int("branching-lo", meta.BRANCHING_LO, "Fewest cards explored per position in random worlds, 0 explores all"),
		branchingHi: fs.Int("branching-hi", meta.BRANCHING_HI, "Bound on the cards explored per position in random worlds"),
		prune:       fs.Bool("prune", false, "Stop searching positions whose payouts are already decided"),
		snapshots:   fs.Bool("snapshots", false, "Reuse results of equivalent positions"),
		seed:        fs.Uint64("seed", uint64(atoiDef(os.Getenv("SCHAFKOPF_SEED"), 0)), "Seed for reproducible runs, 0 seeds randomly"),
	}
}

func (f searchFlags) options() []agent.Option {
	options := []agent.Option{agent.WithGoroutines(*f.goroutines), agent.WithSamples(*f.samples)}
	if *f.branchingLo > 0 {
		options = append(options, agent.WithBranching(*f.branchingLo, *f.branchingHi))
	} else {
		options = append(options, agent.WithoutBranching())
	}
	if *f.prune {
		options = append(options, agent.WithHintPruning())
	}
	if *f.snapshots {
		options = append(options, agent.WithSnapshotCache())
	}
	if *f.seed != 0 {
		options = append(options, agent.WithSeed(*f.seed))
	}
	return options
}

func setupLogging(verbose bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	level := zerolog.InfoLevel
	if l, err := zerolog.ParseLevel(os.Getenv("SCHAFKOPF_LOG_LEVEL")); err == nil && l != zerolog.NoLevel {
		level = l
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
}

func runSuggest(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("suggest", flag.ExitOnError)
	declarer := fs.Int("declarer", 0, "Player who announced the Rufspiel")
	suit := fs.String("suit", "E", "Called suit: E, G or S")
	leader := fs.Int("leader", 0, "Player who led the first trick")
	hand := fs.String("hand", "", "Cards of the player to move, e.g. \"EO GU HA\"")
	played := fs.String("played", "", "Cards played so far in order")
	long := fs.Bool("long", false, "Play with 8 cards per player")
	stoss := fs.Int("stoss", 0, "Number of stoss announcements")
	trace := fs.String("trace", "", "Write an HTML trace per world and card into this directory")
	search := addSearchFlags(fs)
	fs.Parse(args)
	setupLogging(*search.verbose)

	calledSuit, err := parseSuit(*suit)
	if err != nil {
		return err
	}
	r := rules.NewRufspiel(game.Player(*declarer), calledSuit, rules.DefaultPayoutParams())
	cards, err := game.ParseCards(*hand)
	if err != nil {
		return fmt.Errorf("invalid hand: %w", err)
	}
	history, err := game.ParseCards(*played)
	if err != nil {
		return fmt.Errorf("invalid played cards: %w", err)
	}
	length := game.Short
	if *long {
		length = game.Long
	}
	seq := game.NewSequence(game.Player(*leader), length)
	for _, card := range history {
		if !length.Supports(card) || seq.Played().Contains(card) {
			return fmt.Errorf("cannot play %s after %v", card, seq.Visible())
		}
		seq.Play(card, r)
	}

	options := search.options()
	if *trace != "" {
		options = append(options, agent.WithTraceDir(*trace))
	}
	view := agent.View{
		Rules:  r,
		Stakes: game.Stakes{Stoss: *stoss},
		Player: seq.Current().Current(),
		Hand:   game.NewHand(cards...),
		Seq:    seq,
	}
	suggestion, err := agent.NewSuggester(options...).Suggest(ctx, view)
	if err != nil {
		return err
	}
	for _, stats := range suggestion.Cards {
		fmt.Println(stats)
	}
	fmt.Printf("best: %v\n", suggestion.BestCards())
	return nil
}

func runExperiment(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("experiment", flag.ExitOnError)
	defaults := experiments.DefaultOptions()
	name := fs.String("name", "pruning", "Experiment: branching, pruning, temperature or throughput")
	deals := fs.Int("deals", defaults.Deals, "Number of deals per matchup")
	out := fs.String("out", getenv("SCHAFKOPF_OUT", defaults.Root), "Directory for the results")
	verbose := fs.Bool("verbose", asBool(os.Getenv("SCHAFKOPF_VERBOSE")), "Log at debug level")
	seed := fs.Uint64("seed", defaults.Seed, "Seed of the dealt cards")
	rank := fs.Bool("rank", false, "Let declarers call the suit they rate best")
	fs.Parse(args)
	setupLogging(*verbose)

	options := experiments.Options{Root: *out, Deals: *deals, Seed: *seed, Rank: *rank}
	switch *name {
	case "branching":
		return experiments.RunBranchingExperiment(ctx, options)
	case "pruning":
		return experiments.RunPruningExperiment(ctx, options)
	case "temperature":
		return experiments.RunTemperatureExperiment(ctx, options)
	case "throughput":
		return experiments.RunThroughputExperiment(ctx, options)
	default:
		return fmt.Errorf("unknown experiment %q", *name)
	}
}

func runAnalyze(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	deals := fs.Int("deals", 1, "Number of deals to play and analyze")
	depth := fs.Int("depth", meta.ANALYSIS_HAND_SIZE, "Check cards played with at most this many cards in hand")
	temperature := fs.Float64("temperature", meta.TEMPERATURE, "Temperature of the players, 0 always plays the best card")
	search := addSearchFlags(fs)
	fs.Parse(args)
	setupLogging(*search.verbose)

	suggester := agent.NewSuggester(search.options()...)
	seed := *search.seed
	if seed == 0 {
		seed = frand.Uint64n(1 << 63)
	}
	var agents [game.NumPlayers]agent.Agent
	for i := range agents {
		if *temperature > 0 {
			agents[i] = agent.NewSamplingAgent(suggester, *temperature, rand.New(rand.NewSource(seed+uint64(i))))
		} else {
			agents[i] = agent.NewEvaluationAgent(suggester)
		}
	}
	engineOptions := []engine.Option{}
	if *search.seed != 0 {
		engineOptions = append(engineOptions, engine.WithSeed(*search.seed))
	}
	e := engine.NewLocal(agents, engineOptions...)
	analyzer := analysis.NewAnalyzer(agent.NewSuggester(search.options()...), *depth)

	for i := 0; i < *deals; i++ {
		result, err := e.Run(ctx)
		if err != nil {
			return err
		}
		a, err := analyzer.Analyze(ctx, analysis.Deal{Rules: result.Rules, Dealt: result.Dealt, Seq: result.Seq})
		if err != nil {
			return err
		}
		fmt.Printf("deal %d: %s\n%s", i+1, result.Rules, a)
	}
	return nil
}

func parseSuit(s string) (game.Suit, error) {
	for _, suit := range game.Suits() {
		if suit == game.Herz {
			continue
		}
		name := suit.String()
		if strings.EqualFold(s, name) || strings.EqualFold(s, name[:1]) {
			return suit, nil
		}
	}
	return 0, fmt.Errorf("cannot call suit %q", s)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func asBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}
