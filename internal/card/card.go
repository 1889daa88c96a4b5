// internal/card/card.go
package card

import "fmt"

// ID identifies one of the 48 physical cards. The catalog index equals the ID.
type ID int

// Month is the card's suit, 1 through 12.
type Month int

// Category is the scoring tier of a card.
type Category string

const (
	Light  Category = "light"
	Animal Category = "animal"
	Ribbon Category = "ribbon"
	Junk   Category = "junk"
)

// RibbonSet names the 3-card ribbon set a ribbon card belongs to.
type RibbonSet string

const (
	RedSet   RibbonSet = "red"
	BlueSet  RibbonSet = "blue"
	EarlySet RibbonSet = "early"
	NoSet    RibbonSet = "none"
)

const (
	// DeckSize is the number of cards in a hwatu deck.
	DeckSize = 48
	// MonthCount is the number of suits.
	MonthCount = 12
	// PerMonth is the number of cards in each month.
	PerMonth = DeckSize / MonthCount
)

// Card holds the immutable facts for one catalog entry.
type Card struct {
	ID         ID        `json:"id"`
	Month      Month     `json:"month"`
	Category   Category  `json:"category"`
	Ribbon     RibbonSet `json:"ribbon"`
	Name       string    `json:"name"`
	DoubleJunk bool      `json:"doubleJunk"`
	RainLight  bool      `json:"rainLight"`
}

type entry struct {
	month      Month
	category   Category
	ribbon     RibbonSet
	name       string
	doubleJunk bool
	rainLight  bool
}

// Ordered by month; within a month: light/animal, ribbon, junk.
var entries = [DeckSize]entry{
	{1, Light, NoSet, "Pine Crane", false, false},
	{1, Ribbon, RedSet, "Pine Red Poem Ribbon", false, false},
	{1, Junk, NoSet, "Pine", false, false},
	{1, Junk, NoSet, "Pine", false, false},

	{2, Animal, NoSet, "Plum Bush Warbler", false, false},
	{2, Ribbon, RedSet, "Plum Red Poem Ribbon", false, false},
	{2, Junk, NoSet, "Plum", false, false},
	{2, Junk, NoSet, "Plum", false, false},

	{3, Light, NoSet, "Cherry Curtain", false, false},
	{3, Ribbon, RedSet, "Cherry Red Poem Ribbon", false, false},
	{3, Junk, NoSet, "Cherry", false, false},
	{3, Junk, NoSet, "Cherry", false, false},

	{4, Animal, NoSet, "Wisteria Cuckoo", false, false},
	{4, Ribbon, EarlySet, "Wisteria Plain Ribbon", false, false},
	{4, Junk, NoSet, "Wisteria", false, false},
	{4, Junk, NoSet, "Wisteria", false, false},

	{5, Animal, NoSet, "Iris Bridge", false, false},
	{5, Ribbon, EarlySet, "Iris Plain Ribbon", false, false},
	{5, Junk, NoSet, "Iris", false, false},
	{5, Junk, NoSet, "Iris", false, false},

	{6, Animal, NoSet, "Peony Butterflies", false, false},
	{6, Ribbon, BlueSet, "Peony Blue Ribbon", false, false},
	{6, Junk, NoSet, "Peony", false, false},
	{6, Junk, NoSet, "Peony", false, false},

	{7, Animal, NoSet, "Clover Boar", false, false},
	{7, Ribbon, EarlySet, "Clover Plain Ribbon", false, false},
	{7, Junk, NoSet, "Clover", false, false},
	{7, Junk, NoSet, "Clover", false, false},

	{8, Light, NoSet, "Pampas Moon", false, false},
	{8, Animal, NoSet, "Pampas Geese", false, false},
	{8, Junk, NoSet, "Pampas", false, false},
	{8, Junk, NoSet, "Pampas", false, false},

	{9, Animal, NoSet, "Chrysanthemum Sake Cup", false, false},
	{9, Ribbon, BlueSet, "Chrysanthemum Blue Ribbon", false, false},
	{9, Junk, NoSet, "Chrysanthemum", false, false},
	{9, Junk, NoSet, "Chrysanthemum", false, false},

	{10, Animal, NoSet, "Maple Deer", false, false},
	{10, Ribbon, BlueSet, "Maple Blue Ribbon", false, false},
	{10, Junk, NoSet, "Maple", false, false},
	{10, Junk, NoSet, "Maple", false, false},

	{11, Light, NoSet, "Paulownia Phoenix", false, false},
	{11, Junk, NoSet, "Paulownia", false, false},
	{11, Junk, NoSet, "Paulownia Double", true, false},
	{11, Junk, NoSet, "Paulownia", false, false},

	{12, Light, NoSet, "Willow Rain Man", false, true},
	{12, Animal, NoSet, "Willow Swallow", false, false},
	{12, Ribbon, NoSet, "Willow Ribbon", false, false},
	{12, Junk, NoSet, "Willow Double", true, false},
}

// MonthPlants is the plant motif of each month, indexed by Month.
var MonthPlants = [MonthCount + 1]string{
	"", "Pine", "Plum", "Cherry", "Wisteria", "Iris", "Peony",
	"Clover", "Pampas", "Chrysanthemum", "Maple", "Paulownia", "Willow",
}

// birdMonths are the months whose animal cards form the migratory-bird set.
var birdMonths = map[Month]bool{2: true, 4: true, 8: true}

var catalog = func() [DeckSize]Card {
	var all [DeckSize]Card
	for i, e := range entries {
		all[i] = Card{
			ID:         ID(i),
			Month:      e.month,
			Category:   e.category,
			Ribbon:     e.ribbon,
			Name:       e.name,
			DoubleJunk: e.doubleJunk,
			RainLight:  e.rainLight,
		}
	}
	return all
}()

// Valid reports whether id is inside the catalog.
func (id ID) Valid() bool {
	return id >= 0 && id < DeckSize
}

// Valid reports whether m is a real month.
func (m Month) Valid() bool {
	return m >= 1 && m <= MonthCount
}

func (id ID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("card(%d)", int(id))
	}
	return fmt.Sprintf("%d:%s", int(id), catalog[id].Name)
}

// Get returns the catalog record for id. It panics on an id outside 0..47,
// which can only come from a corrupted state.
func Get(id ID) Card {
	if !id.Valid() {
		panic(fmt.Sprintf("card: id %d out of range", int(id)))
	}
	return catalog[id]
}

// MonthOf is a shorthand for Get(id).Month.
func MonthOf(id ID) Month { return Get(id).Month }

// CategoryOf is a shorthand for Get(id).Category.
func CategoryOf(id ID) Category { return Get(id).Category }

// All returns a copy of the full catalog in ID order.
func All() []Card {
	out := make([]Card, DeckSize)
	copy(out, catalog[:])
	return out
}

// ByMonth returns the four cards of month m.
func ByMonth(m Month) []Card {
	var out []Card
	for _, c := range catalog {
		if c.Month == m {
			out = append(out, c)
		}
	}
	return out
}

// ByCategory returns every card of category cat.
func ByCategory(cat Category) []Card {
	var out []Card
	for _, c := range catalog {
		if c.Category == cat {
			out = append(out, c)
		}
	}
	return out
}

// IsBird reports whether id is one of the three migratory-bird animal cards.
func IsBird(id ID) bool {
	c := Get(id)
	return c.Category == Animal && birdMonths[c.Month]
}

// JunkValue sums junk cards, counting double junk as two.
func JunkValue(ids []ID) int {
	total := 0
	for _, id := range ids {
		if Get(id).DoubleJunk {
			total += 2
		} else {
			total++
		}
	}
	return total
}

// Weight ranks a card for AI heuristics: light > animal > ribbon > junk.
func Weight(id ID) int {
	switch CategoryOf(id) {
	case Light:
		return 20
	case Animal:
		return 10
	case Ribbon:
		return 5
	default:
		return 1
	}
}
