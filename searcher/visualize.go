package searcher

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"schafkopf/game"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Visualizer observes the exploration. Begin and End bracket every node.
type Visualizer interface {
	Begin(seq *game.Sequence, world *game.World)
	End(outcome Outcome)
}

const htmlHeader = `<style>
input { display: none; }
input ~ ul { display: none; }
input:checked ~ ul { display: block; }
input ~ .check-no { display: inline; }
input:checked ~ .check-no { display: none; }
li { display: block; list-style: none; }
</style>
`

// HTMLVisualizer writes the explored tree as nested lists that expand on click.
type HTMLVisualizer struct {
	w     io.Writer
	rules game.Rules
	fixed game.Player
	err   error
}

func NewHTMLVisualizer(w io.Writer, rules game.Rules, fixed game.Player) *HTMLVisualizer {
	v := &HTMLVisualizer{w: w, rules: rules, fixed: fixed}
	v.write(htmlHeader)
	return v
}

// Err returns the first write error. The visualizer stops writing after it.
func (v *HTMLVisualizer) Err() error {
	return v.err
}

func (v *HTMLVisualizer) write(format string, args ...any) {
	if v.err != nil {
		return
	}
	if _, err := fmt.Fprintf(v.w, format, args...); err != nil {
		v.err = err
		log.Error().Err(err).Msg("failed to write search trace")
	}
}

func (v *HTMLVisualizer) Begin(seq *game.Sequence, world *game.World) {
	id := uuid.New().String()
	v.write("<li><input type=\"checkbox\" id=\"%s\"/>\n", id)
	v.write("<label for=\"%s\"><table><tr>\n", id)
	tricks := seq.Visible()
	for i := range tricks {
		trick := &tricks[i]
		v.write("<td>%s</td>\n", v.playerTable(func(player game.Player) string {
			card, ok := trick.Get(player)
			if !ok {
				return ""
			}
			if player == trick.Leader() {
				return "<b>" + card.String() + "</b>"
			}
			return card.String()
		}))
	}
	v.write("<td>%s</td>\n", v.playerTable(func(player game.Player) string {
		cards := append([]game.Card(nil), world[player].Cards()...)
		game.SortTrumpFirst(v.rules, cards)
		names := make([]string, len(cards))
		for i, card := range cards {
			names[i] = card.String()
		}
		return strings.Join(names, " ")
	}))
	v.write("</tr></table></label>\n<ul>\n")
}

func (v *HTMLVisualizer) End(outcome Outcome) {
	v.write("</ul>\n<table>\n")
	for _, strategy := range Strategies() {
		payouts := outcome[strategy]
		v.write("<tr><td>%s</td>", strategy)
		for _, player := range game.Players() {
			if player == v.fixed {
				v.write("<td><b>%d</b></td>", payouts[player])
			} else {
				v.write("<td>%d</td>", payouts[player])
			}
		}
		v.write("</tr>\n")
	}
	v.write("</table></li>\n")
}

// playerTable lays out one value per player around a table, the fixed player at the bottom.
func (v *HTMLVisualizer) playerTable(value func(game.Player) string) string {
	at := func(n int) string {
		return value(v.fixed.Next(n))
	}
	return fmt.Sprintf(
		"<table><tr><td></td><td>%s</td><td></td></tr><tr><td>%s</td><td></td><td>%s</td></tr><tr><td></td><td>%s</td><td></td></tr></table>",
		at(2), at(1), at(3), at(0),
	)
}

// TraceFactory creates one HTML trace file per searched world and card below dir.
type TraceFactory struct {
	dir   string
	rules game.Rules
	fixed game.Player
}

func NewTraceFactory(dir string, rules game.Rules, fixed game.Player) *TraceFactory {
	return &TraceFactory{dir: dir, rules: rules, fixed: fixed}
}

// Open returns the visualizer and the function that closes its file.
func (f *TraceFactory) Open(sample int, card game.Card) (*HTMLVisualizer, func() error, error) {
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create trace directory: %w", err)
	}
	name := fmt.Sprintf("%d_%s_%s.html", sample, card, uuid.New().String())
	file, err := os.Create(filepath.Join(f.dir, name))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create trace file: %w", err)
	}
	return NewHTMLVisualizer(file, f.rules, f.fixed), file.Close, nil
}
