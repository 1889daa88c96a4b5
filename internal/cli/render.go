package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/jason-s-yu/gostop/internal/card"
	"github.com/jason-s-yu/gostop/internal/game"
	"github.com/jason-s-yu/gostop/internal/session"
)

var (
	lightColor  = color.New(color.FgYellow, color.Bold)
	animalColor = color.New(color.FgRed)
	ribbonColor = color.New(color.FgBlue)
	junkColor   = color.New(color.FgWhite)
	errColor    = color.New(color.FgRed, color.Bold)
	headColor   = color.New(color.FgCyan, color.Bold)
)

// FormatCard renders a card as "id:name" tinted by category.
func FormatCard(id card.ID) string {
	c := card.Get(id)
	text := fmt.Sprintf("%d:%s", int(id), c.Name)
	switch c.Category {
	case card.Light:
		return lightColor.Sprint(text)
	case card.Animal:
		return animalColor.Sprint(text)
	case card.Ribbon:
		return ribbonColor.Sprint(text)
	}
	return junkColor.Sprint(text)
}

func formatCards(ids []card.ID) string {
	if len(ids) == 0 {
		return "-"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = FormatCard(id)
	}
	return strings.Join(parts, "  ")
}

// RenderView prints the table, the captured piles and, for the viewing seat,
// its hand and the choices it has.
func RenderView(w io.Writer, v game.SeatView) {
	headColor.Fprintf(w, "\n== turn %d · %s · pile %d ==\n", v.TurnCount, v.Phase, v.DrawPileCount)

	months := make([]int, 0, len(v.Table))
	byMonth := map[int][]card.ID{}
	for _, ids := range v.Table {
		if len(ids) == 0 {
			continue
		}
		m := int(card.MonthOf(ids[0]))
		months = append(months, m)
		byMonth[m] = ids
	}
	sort.Ints(months)
	fmt.Fprintln(w, "table:")
	for _, m := range months {
		fmt.Fprintf(w, "  %2d | %s\n", m, formatCards(byMonth[m]))
	}

	for _, p := range v.Players {
		marker := " "
		if p.ID == v.TurnIndex {
			marker = ">"
		}
		fmt.Fprintf(w, "%s %-6s hand %d  go %d  score %d\n", marker, p.Name, p.HandCount, p.GoCount, game.Score(p.Captured, p.GoCount).Base)
		if all := p.Captured.All(); len(all) > 0 {
			fmt.Fprintf(w, "    captured %s\n", formatCards(all))
		}
	}

	me := v.Players[v.Seat]
	fmt.Fprintf(w, "your hand: %s\n", formatCards(me.Hand))
	if len(v.PendingOptions) > 0 {
		fmt.Fprintf(w, "choose a target: %s\n", formatCards(v.PendingOptions))
	}
	if len(v.BombOptions) > 0 {
		fmt.Fprintf(w, "bomb months: %v\n", v.BombOptions)
	}
	if v.LastEvent != game.EventNone && v.LastEvent != "" {
		fmt.Fprintf(w, "last event: %s\n", v.LastEvent)
	}
}

// RenderResult prints how a round ended.
func RenderResult(w io.Writer, st *game.GameState) {
	if st.Winner == nil {
		headColor.Fprintln(w, "round drawn: nobody reached 3 points")
		return
	}
	name := st.Players[*st.Winner].Name
	headColor.Fprintf(w, "%s wins", name)
	if st.Result != nil {
		fmt.Fprintf(w, " with %d points (base %d ×%d)", st.Result.Final, st.Result.Base, st.Result.GoMultiplier)
		if names := st.Result.ComboNames(); len(names) > 0 {
			fmt.Fprintf(w, ": %s", strings.Join(names, ", "))
		}
	}
	fmt.Fprintln(w)
	for _, s := range st.Settlements {
		fmt.Fprintf(w, "  %s pays %d (×%d %v)\n", st.Players[s.Seat].Name, s.Amount, s.Multiplier, s.Flags)
	}
}

// RenderRanking prints the series standings.
func RenderRanking(w io.Writer, sess *session.Session, names []string) {
	headColor.Fprintln(w, "\nfinal standings")
	for i, st := range sess.Ranking() {
		fmt.Fprintf(w, "  %d. %-6s %d\n", i+1, names[st.Seat], st.Score)
	}
}

func printError(w io.Writer, err error) {
	errColor.Fprintf(w, "! %v\n", err)
}
