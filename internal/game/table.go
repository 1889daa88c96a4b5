// internal/game/table.go
package game

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/jason-s-yu/gostop/internal/card"
)

// Table maps a month to the face-up cards of that month, in the order they
// were laid down. Months with no cards are absent.
type Table map[card.Month][]card.ID

// Clone returns an independent copy.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for m, ids := range t {
		out[m] = cloneIDs(ids)
	}
	return out
}

// Cards returns the cards lying on month m.
func (t Table) Cards(m card.Month) []card.ID {
	return t[m]
}

// Count is the number of cards on the table.
func (t Table) Count() int {
	n := 0
	for _, ids := range t {
		n += len(ids)
	}
	return n
}

// Months returns the occupied months in ascending order.
func (t Table) Months() []card.Month {
	out := make([]card.Month, 0, len(t))
	for m, ids := range t {
		if len(ids) > 0 {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// FullMonths returns the months holding all four of their cards.
func (t Table) FullMonths() []card.Month {
	var out []card.Month
	for _, m := range t.Months() {
		if len(t[m]) == card.PerMonth {
			out = append(out, m)
		}
	}
	return out
}

// place appends id under its month. Only used on a cloned table.
func (t Table) place(id card.ID) {
	m := card.MonthOf(id)
	t[m] = append(t[m], id)
}

// EncodeTable converts the table into the storable month-string to list form.
func EncodeTable(t Table) map[string][]card.ID {
	out := make(map[string][]card.ID, len(t))
	for m, ids := range t {
		if len(ids) == 0 {
			continue
		}
		out[strconv.Itoa(int(m))] = cloneIDs(ids)
	}
	return out
}

// DecodeTable is the inverse of EncodeTable. Per-month order is preserved.
func DecodeTable(raw map[string][]card.ID) (Table, error) {
	t := make(Table, len(raw))
	for key, ids := range raw {
		n, err := strconv.Atoi(key)
		if err != nil || !card.Month(n).Valid() {
			return nil, fmt.Errorf("invalid table month %q", key)
		}
		if len(ids) == 0 {
			continue
		}
		for _, id := range ids {
			if !id.Valid() || card.MonthOf(id) != card.Month(n) {
				return nil, fmt.Errorf("card %d does not belong to month %d", int(id), n)
			}
		}
		t[card.Month(n)] = cloneIDs(ids)
	}
	return t, nil
}

func (t Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(EncodeTable(t))
}

func (t *Table) UnmarshalJSON(data []byte) error {
	var raw map[string][]card.ID
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded, err := DecodeTable(raw)
	if err != nil {
		return err
	}
	*t = decoded
	return nil
}
