// meta/meta.go
package meta

// GO_ROUTINES defines the number of sample worlds searched in parallel.
const GO_ROUTINES = 8

// SAMPLES defines the number of random worlds per suggestion.
const SAMPLES = 50

// EXHAUSTIVE_HAND_SIZE is the largest hand for which every possible world is searched.
const EXHAUSTIVE_HAND_SIZE = 2

// BRANCHING_LO and BRANCHING_HI bound the cards explored per position in random worlds.
const BRANCHING_LO = 1
const BRANCHING_HI = 3

// TEMPERATURE of the sampling agent.
const TEMPERATURE = 20.0

// RANK_SAMPLES defines the number of worlds used to rate a hand for a contract.
const RANK_SAMPLES = 20

// ANALYSIS_HAND_SIZE is the largest hand at which analysis checks a played card.
const ANALYSIS_HAND_SIZE = 3

// DEALS defines the number of deals per experiment.
const DEALS = 20
