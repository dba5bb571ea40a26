package agent

import (
	"context"

	"schafkopf/game"
	"schafkopf/searcher"
)

type Agent interface {
	// PlayCard returns the card to play and the metrics of the search behind it
	PlayCard(ctx context.Context, view View) (game.Card, searcher.SearchMetrics, error)
}
