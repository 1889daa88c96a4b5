// internal/game/sync_state_test.go
package game

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jason-s-yu/gostop/internal/card"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewRedactsOpponentHands(t *testing.T) {
	s, err := Start(NewGameState(Normal), NewRand(3), DefaultSeats())
	require.NoError(t, err)

	for seat := 0; seat < SeatCount; seat++ {
		v := ViewFor(s, seat, nil)
		assert.Equal(t, seat, v.Seat)
		assert.Equal(t, len(s.DrawPile), v.DrawPileCount)
		assert.Nil(t, v.DeadlineMs)
		for i, p := range v.Players {
			assert.Equal(t, HandSize, p.HandCount)
			if i == seat {
				assert.Equal(t, s.Players[i].Hand, p.Hand)
			} else {
				assert.Empty(t, p.Hand, "seat %d sees seat %d's hand", seat, i)
			}
		}
	}

	data, err := json.Marshal(ViewFor(s, 1, nil))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "drawPile\"")
}

func TestViewPendingOptionsOnlyForDecider(t *testing.T) {
	s := setupState([SeatCount][]card.ID{{0, 20}, {16}, {24}}, Table{1: {2, 3}}, []card.ID{40})
	s, err := PlayHandCard(s, 0)
	require.NoError(t, err)

	assert.Equal(t, []card.ID{2, 3}, ViewFor(s, 0, nil).PendingOptions)
	assert.Empty(t, ViewFor(s, 1, nil).PendingOptions)
	assert.Empty(t, ViewFor(s, 2, nil).PendingOptions)
}

func TestViewBombOptions(t *testing.T) {
	s := setupState([SeatCount][]card.ID{{16, 17, 18, 20}, {24}, {25}}, Table{5: {19}}, []card.ID{40})

	assert.Equal(t, []card.Month{5}, ViewFor(s, 0, nil).BombOptions)
	assert.Empty(t, ViewFor(s, 1, nil).BombOptions)
}

func TestViewDeadline(t *testing.T) {
	s := setupState([SeatCount][]card.ID{{0}, {4}, {8}}, Table{}, nil)

	left := 1500 * time.Millisecond
	v := ViewFor(s, 0, &left)
	require.NotNil(t, v.DeadlineMs)
	assert.Equal(t, int64(1500), *v.DeadlineMs)

	lapsed := -time.Second
	v = ViewFor(s, 0, &lapsed)
	assert.Equal(t, int64(0), *v.DeadlineMs)
}

func TestTableRoundTrip(t *testing.T) {
	table := Table{1: {3, 0}, 12: {44}, 5: {16, 18, 19}}

	data, err := json.Marshal(EncodeTable(table))
	require.NoError(t, err)

	var raw map[string][]card.ID
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, []card.ID{3, 0}, raw["1"])

	decoded, err := DecodeTable(raw)
	require.NoError(t, err)
	assert.Equal(t, table, decoded)

	_, err = DecodeTable(map[string][]card.ID{"13": {0}})
	assert.Error(t, err)
	_, err = DecodeTable(map[string][]card.ID{"2": {0}})
	assert.Error(t, err)
}

func TestStateRoundTrip(t *testing.T) {
	s, err := Start(NewGameState(Hard), NewRand(11), DefaultSeats())
	require.NoError(t, err)

	data, err := MarshalState(s)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "tableCards")

	restored, err := UnmarshalState(data)
	require.NoError(t, err)
	assert.Equal(t, s, restored)

	_, err = UnmarshalState([]byte(`{"phase":"play-hand","players":[]}`))
	assert.Error(t, err)
}
