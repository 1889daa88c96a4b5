// internal/game/manager.go
package game

import (
	"fmt"

	"github.com/jason-s-yu/gostop/internal/card"
)

// Start deals a new round onto an idle state. Seat 0 opens.
func Start(s *GameState, rng Rand, seats []SeatConfig) (*GameState, error) {
	if s.Phase != PhaseIdle {
		return nil, phaseError("start", s, PhaseIdle)
	}
	if len(seats) != SeatCount {
		return nil, fmt.Errorf("start: need %d seats, got %d", SeatCount, len(seats))
	}

	deal := DealCards(rng)
	ns := s.shallow()
	ns.Players = make([]PlayerState, SeatCount)
	for i, sc := range seats {
		ns.Players[i] = PlayerState{
			ID:   i,
			Name: sc.Name,
			Hand: deal.Hands[i],
			AI:   sc.AI,
		}
	}
	ns.Phase = PhasePlayHand
	ns.Table = deal.Table
	ns.DrawPile = deal.DrawPile
	ns.TurnIndex = 0
	ns.TurnCount = 1
	ns.Turn = nil
	ns.PendingOptions = nil
	ns.LastEvent = EventNone
	ns.Winner = nil
	ns.Result = nil
	ns.Settlements = nil
	ns.GoStopSeat = nil
	ns.LastCaptured = nil
	return ns, nil
}

// PlayHandCard plays cardID from the acting seat's hand. A choice moves to
// hand-match-select; anything else captures immediately and moves to draw.
func PlayHandCard(s *GameState, cardID card.ID) (*GameState, error) {
	const op = "play hand card"
	if s.Phase != PhasePlayHand {
		return nil, phaseError(op, s, PhasePlayHand)
	}
	if !cardID.Valid() || !s.Players[s.TurnIndex].HasCard(cardID) {
		return nil, inputError(op, s, ErrCardNotInHand, "card %d", int(cardID))
	}

	ns := s.shallow()
	ns.Players = clonePlayers(s.Players)
	player := &ns.Players[s.TurnIndex]
	player.Hand = removeID(player.Hand, cardID)

	r := Resolve(s.Table, cardID)
	turn := &TurnAction{PlayedCard: idPtr(cardID)}

	if r.Kind == ChoiceMatch {
		ns.Phase = PhaseHandMatchSelect
		ns.PendingOptions = cloneIDs(r.Targets)
		ns.Turn = turn
		return ns, nil
	}

	table, captured, err := Execute(s.Table, cardID, r, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	recordMatch(turn, r, captured, true)

	ns.Table = table
	ns.Phase = PhaseDraw
	ns.PendingOptions = nil
	ns.Turn = turn
	ns.LastEvent = EventNone
	if r.Kind == QuadMatch {
		ns.LastEvent = EventQuadMatch
	}
	return ns, nil
}

// SelectMatchTarget settles a pending choice with targetID.
func SelectMatchTarget(s *GameState, targetID card.ID) (*GameState, error) {
	const op = "select match target"
	if s.Phase != PhaseHandMatchSelect && s.Phase != PhaseDrawMatchSelect {
		return nil, phaseError(op, s, PhaseHandMatchSelect, PhaseDrawMatchSelect)
	}
	if !containsID(s.PendingOptions, targetID) {
		return nil, inputError(op, s, ErrInvalidTarget, "card %d", int(targetID))
	}
	if s.Turn == nil {
		return nil, fmt.Errorf("%s: no turn in progress", op)
	}

	fromHand := s.Phase == PhaseHandMatchSelect
	var source *card.ID
	if fromHand {
		source = s.Turn.PlayedCard
	} else {
		source = s.Turn.DrawnCard
	}
	if source == nil {
		return nil, fmt.Errorf("%s: pending choice has no source card", op)
	}

	r := MatchResult{Kind: ChoiceMatch, Month: card.MonthOf(*source), Targets: cloneIDs(s.PendingOptions)}
	table, captured, err := Execute(s.Table, *source, r, &targetID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	turn := s.Turn.clone()
	recordMatch(turn, r, captured, fromHand)

	ns := s.shallow()
	ns.Table = table
	ns.Turn = turn
	ns.PendingOptions = nil
	if fromHand {
		ns.Phase = PhaseDraw
	} else {
		ns.Phase = PhaseResolveCapture
	}
	return ns, nil
}

// DrawCard flips the top of the draw pile and resolves it like a played card.
// An empty pile skips straight to resolve-capture with no drawn card.
func DrawCard(s *GameState) (*GameState, error) {
	const op = "draw card"
	if s.Phase != PhaseDraw {
		return nil, phaseError(op, s, PhaseDraw)
	}

	turn := s.Turn.clone()
	if turn == nil {
		turn = &TurnAction{}
	}
	ns := s.shallow()
	ns.Turn = turn

	if len(s.DrawPile) == 0 {
		turn.DrawnCard = nil
		ns.Phase = PhaseResolveCapture
		return ns, nil
	}

	top := len(s.DrawPile) - 1
	drawn := s.DrawPile[top]
	ns.DrawPile = cloneIDs(s.DrawPile[:top])
	turn.DrawnCard = idPtr(drawn)

	r := Resolve(s.Table, drawn)
	if r.Kind == ChoiceMatch {
		ns.Phase = PhaseDrawMatchSelect
		ns.PendingOptions = cloneIDs(r.Targets)
		return ns, nil
	}

	table, captured, err := Execute(s.Table, drawn, r, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	recordMatch(turn, r, captured, false)

	ns.Table = table
	ns.Phase = PhaseResolveCapture
	ns.PendingOptions = nil
	if r.Kind == QuadMatch {
		ns.LastEvent = EventQuadMatch
	}
	return ns, nil
}

// ResolveCapture files the turn's captures, applies sweep and penalties, and
// decides whether the seat may stop, the round ends, or play passes on.
func ResolveCapture(s *GameState) (*GameState, error) {
	const op = "resolve capture"
	if s.Phase != PhaseResolveCapture {
		return nil, phaseError(op, s, PhaseResolveCapture)
	}

	turn := s.Turn.clone()
	if turn == nil {
		turn = &TurnAction{}
	}
	ns := s.shallow()
	ns.Players = clonePlayers(s.Players)
	seat := s.TurnIndex
	player := &ns.Players[seat]
	player.Captured.Add(turn.Captured...)

	sweep := len(turn.Captured) > 0 && IsSweep(s.Table)
	if sweep {
		turn.Events = append(turn.Events, EventSweep)
		player.SweepCount++
	}
	stealJunk(ns.Players, seat, PenaltyUnits(turn.Events))

	ns.Turn = turn
	ns.LastCaptured = cloneIDs(turn.Captured)
	ns.LastEvent = headline(TurnEvents(false, 0, false, turn.Singles > 0))
	if len(turn.Events) > 0 {
		ns.LastEvent = headline(turn.Events)
	}

	score := Score(player.Captured, player.GoCount)
	if score.Base >= MinStopScore {
		ns.Phase = PhaseGoStop
		ns.GoStopSeat = intPtr(seat)
		return ns, nil
	}
	if len(ns.DrawPile) == 0 {
		resolveGameEnd(ns)
		return ns, nil
	}
	advanceTurn(ns)
	return ns, nil
}

// DeclareGo raises the deciding seat's go count and keeps the round going.
func DeclareGo(s *GameState) (*GameState, error) {
	const op = "declare go"
	if s.Phase != PhaseGoStop {
		return nil, phaseError(op, s, PhaseGoStop)
	}
	seat := s.ActingSeat()

	ns := s.shallow()
	ns.Players = clonePlayers(s.Players)
	ns.Players[seat].GoCount++
	ns.GoStopSeat = nil
	ns.LastEvent = EventNone

	if len(ns.DrawPile) == 0 {
		resolveGameEnd(ns)
		return ns, nil
	}

	// After a bomb the seat still owes its normal play this turn.
	if (s.Turn == nil || s.Turn.PlayedCard == nil) && len(ns.Players[seat].Hand) > 0 {
		ns.Phase = PhasePlayHand
		ns.TurnIndex = seat
		ns.Turn = nil
		ns.PendingOptions = nil
		return ns, nil
	}
	advanceTurn(ns)
	return ns, nil
}

// DeclareStop ends the round with the deciding seat as winner.
func DeclareStop(s *GameState) (*GameState, error) {
	const op = "declare stop"
	if s.Phase != PhaseGoStop {
		return nil, phaseError(op, s, PhaseGoStop)
	}
	seat := s.ActingSeat()

	ns := s.shallow()
	result := Score(s.Players[seat].Captured, s.Players[seat].GoCount)
	ns.Phase = PhaseGameOver
	ns.Winner = intPtr(seat)
	ns.Result = &result
	ns.Settlements = Settle(s.Players, seat)
	ns.GoStopSeat = nil
	ns.PendingOptions = nil
	return ns, nil
}

// DeclareBomb captures the seat's cards of month together with every table
// card of that month. The seat still plays a normal card afterwards unless
// the bomb lets it stop.
func DeclareBomb(s *GameState, month card.Month) (*GameState, error) {
	const op = "declare bomb"
	if s.Phase != PhasePlayHand {
		return nil, phaseError(op, s, PhasePlayHand)
	}
	seat := s.TurnIndex
	if !containsMonth(BombMonths(s.Players[seat].Hand, s.Table), month) {
		return nil, inputError(op, s, ErrNoBomb, "month %d", int(month))
	}

	ns := s.shallow()
	ns.Players = clonePlayers(s.Players)
	ns.Table = s.Table.Clone()
	player := &ns.Players[seat]

	var bombCards, kept []card.ID
	for _, id := range player.Hand {
		if card.MonthOf(id) == month {
			bombCards = append(bombCards, id)
		} else {
			kept = append(kept, id)
		}
	}
	player.Hand = kept

	captured := append(bombCards, ns.Table[month]...)
	delete(ns.Table, month)
	player.Captured.Add(captured...)

	events := []Event{EventBomb}
	if IsSweep(ns.Table) {
		events = append(events, EventSweep)
		player.SweepCount++
	}
	stealJunk(ns.Players, seat, PenaltyUnits(events))

	ns.LastEvent = EventBomb
	ns.LastCaptured = cloneIDs(captured)
	ns.Turn = &TurnAction{Captured: cloneIDs(captured), Events: events}

	score := Score(player.Captured, player.GoCount)
	if score.Base >= MinStopScore {
		ns.Phase = PhaseGoStop
		ns.GoStopSeat = intPtr(seat)
		return ns, nil
	}
	if len(player.Hand) == 0 {
		advanceTurn(ns)
		return ns, nil
	}
	ns.Phase = PhasePlayHand
	ns.Turn = nil
	return ns, nil
}

// advanceTurn hands play to the next seat that still holds cards. ns must be
// a private copy.
func advanceTurn(ns *GameState) {
	next := (ns.TurnIndex + 1) % SeatCount
	tries := 0
	for len(ns.Players[next].Hand) == 0 && tries < SeatCount {
		next = (next + 1) % SeatCount
		tries++
	}
	if tries >= SeatCount {
		resolveGameEnd(ns)
		return
	}
	ns.Phase = PhasePlayHand
	ns.TurnIndex = next
	ns.TurnCount++
	ns.Turn = nil
	ns.PendingOptions = nil
	ns.GoStopSeat = nil
}

// resolveGameEnd seals the round. The highest base score wins if it reaches
// the stop threshold; exact ties go to the lowest seat index. Otherwise the
// round is a draw.
func resolveGameEnd(ns *GameState) {
	best, bestSeat := -1, -1
	for i, p := range ns.Players {
		if sc := Score(p.Captured, p.GoCount); sc.Base > best {
			best, bestSeat = sc.Base, i
		}
	}

	ns.Phase = PhaseGameOver
	ns.GoStopSeat = nil
	ns.PendingOptions = nil
	if best >= MinStopScore {
		result := Score(ns.Players[bestSeat].Captured, ns.Players[bestSeat].GoCount)
		ns.Winner = intPtr(bestSeat)
		ns.Result = &result
		ns.Settlements = Settle(ns.Players, bestSeat)
		return
	}
	ns.Winner = nil
	ns.Result = nil
	ns.Settlements = nil
}

// recordMatch folds one executed match into the turn record.
func recordMatch(turn *TurnAction, r MatchResult, captured []card.ID, fromHand bool) {
	if len(captured) == 0 {
		return
	}
	turn.Captured = append(turn.Captured, captured...)
	target := captured[1]
	if fromHand {
		turn.HandTarget = idPtr(target)
	} else {
		turn.DrawTarget = idPtr(target)
	}
	switch r.Kind {
	case QuadMatch:
		turn.Events = append(turn.Events, EventQuadMatch)
	case SingleMatch, ChoiceMatch:
		turn.Singles++
	}
}

func containsMonth(ms []card.Month, m card.Month) bool {
	for _, x := range ms {
		if x == m {
			return true
		}
	}
	return false
}
