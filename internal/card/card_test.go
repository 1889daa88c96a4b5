package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogIntegrity(t *testing.T) {
	perMonth := map[Month]int{}
	perCategory := map[Category]int{}
	rain := 0

	for i := 0; i < DeckSize; i++ {
		c := Get(ID(i))
		require.Equal(t, ID(i), c.ID, "id must equal index")
		require.True(t, c.Month.Valid(), "card %d month %d", i, c.Month)
		perMonth[c.Month]++
		perCategory[c.Category]++
		if c.RainLight {
			rain++
			assert.Equal(t, Month(12), c.Month)
			assert.Equal(t, Light, c.Category)
		}
	}

	for m := Month(1); m <= MonthCount; m++ {
		assert.Equal(t, 4, perMonth[m], "month %d", m)
	}
	assert.Equal(t, 5, perCategory[Light])
	assert.Equal(t, 9, perCategory[Animal])
	assert.Equal(t, 10, perCategory[Ribbon])
	assert.Equal(t, 24, perCategory[Junk])
	assert.Equal(t, 1, rain)
}

func TestLightMonths(t *testing.T) {
	var months []Month
	for _, c := range ByCategory(Light) {
		months = append(months, c.Month)
	}
	assert.Equal(t, []Month{1, 3, 8, 11, 12}, months)
}

func TestRibbonSets(t *testing.T) {
	sets := map[RibbonSet][]Month{}
	for _, c := range ByCategory(Ribbon) {
		sets[c.Ribbon] = append(sets[c.Ribbon], c.Month)
	}
	assert.Equal(t, []Month{1, 2, 3}, sets[RedSet])
	assert.Equal(t, []Month{6, 9, 10}, sets[BlueSet])
	assert.Equal(t, []Month{4, 5, 7}, sets[EarlySet])
	assert.Equal(t, []Month{12}, sets[NoSet])
}

func TestBirdsAndJunkValue(t *testing.T) {
	birds := 0
	for i := 0; i < DeckSize; i++ {
		if IsBird(ID(i)) {
			birds++
		}
	}
	assert.Equal(t, 3, birds)

	// 42 and 47 are the double junk cards
	assert.Equal(t, 4, JunkValue([]ID{42, 47}))
	assert.Equal(t, 3, JunkValue([]ID{2, 3, 6}))
}

func TestGetOutOfRangePanics(t *testing.T) {
	assert.Panics(t, func() { Get(48) })
	assert.Panics(t, func() { Get(-1) })
	assert.False(t, ID(48).Valid())
}
