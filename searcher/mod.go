// Package searcher explores every continuation of a deal in which all hands are known
// and computes the payout bounds of one player under different assumptions about the
// other players.
//
// The search is a depth first backtracking over one World and one Sequence. Cards are
// played into both on the way down and undone on the way up, so a search needs no
// allocations per node beyond the legal card lists. Parallelism belongs to the caller,
// which runs independent searches on different worlds.
package searcher
