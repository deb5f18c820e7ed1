// Package insight derives the results-page content from a footprint
// breakdown: the dominant category, its reduction tips, three bonus tips
// sampled from the other categories, and everyday equivalences of the total.
package insight

import (
	"math/rand/v2"
	"sync"

	"github.com/greendilt/digicarbon/internal/footprint"
	"github.com/greendilt/digicarbon/internal/greenops"
)

// BonusTipCount is the number of tips sampled from non-dominant categories.
const BonusTipCount = 3

// Source is the randomness used to sample bonus tips. *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// globalSource draws from the auto-seeded math/rand/v2 generator, which is
// safe for concurrent use.
type globalSource struct{}

func (globalSource) IntN(n int) int                     { return rand.IntN(n) }
func (globalSource) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// BonusTip is one tip sampled from a non-dominant category.
type BonusTip struct {
	Category footprint.Category `json:"category"`
	Tip      string             `json:"tip"`
}

// Payload is the display content of one results render.
type Payload struct {
	Breakdown      footprint.Breakdown     `json:"breakdown"`
	Total          float64                 `json:"total"`
	Dominant       footprint.Category      `json:"dominant_category"`
	DominantLabel  string                  `json:"dominant_label"`
	Tips           []string                `json:"tips"`
	BonusTips      []BonusTip              `json:"bonus_tips"`
	Equivalences   greenops.EquivalenceSet `json:"equivalences"`
	EquivalentText string                  `json:"equivalent_text"`
}

// SelectDominantCategory returns the category with the largest value. Ties
// go to the earlier category in footprint.Categories(): Devices, Digital
// Activities, AI Tools, E-Waste.
func SelectDominantCategory(b footprint.Breakdown) footprint.Category {
	cats := footprint.Categories()
	best := cats[0]
	for _, c := range cats[1:] {
		if b.Value(c) > b.Value(best) {
			best = c
		}
	}
	return best
}

// SelectTips returns the fixed tips of the dominant category and one
// uniformly drawn tip from each of the other categories, the categories
// visited in random order.
func SelectTips(dominant footprint.Category, src Source) ([]string, []BonusTip) {
	primary := Tips(dominant)

	others := make([]footprint.Category, 0, len(footprint.Categories())-1)
	for _, c := range footprint.Categories() {
		if c != dominant {
			others = append(others, c)
		}
	}
	src.Shuffle(len(others), func(i, j int) { others[i], others[j] = others[j], others[i] })

	bonus := make([]BonusTip, 0, BonusTipCount)
	for _, c := range others[:BonusTipCount] {
		tips := tipTable[c]
		bonus = append(bonus, BonusTip{Category: c, Tip: tips[src.IntN(len(tips))]})
	}
	return primary, bonus
}

// ComputeEquivalences converts the annual total into everyday equivalences.
func ComputeEquivalences(total float64) greenops.EquivalenceSet {
	return greenops.ComputeEquivalences(total)
}

// Generator builds payloads. It is safe for concurrent use; calls sharing a
// seeded Source are serialized.
type Generator struct {
	mu  sync.Mutex
	src Source
}

// NewGenerator returns a Generator drawing from src, or from the auto-seeded
// global generator when src is nil.
func NewGenerator(src Source) *Generator {
	if src == nil {
		src = globalSource{}
	}
	return &Generator{src: src}
}

// NewSeededGenerator returns a Generator whose bonus tips are reproducible.
func NewSeededGenerator(seed uint64) *Generator {
	return NewGenerator(rand.New(rand.NewPCG(seed, seed))) //nolint:gosec // Tip sampling is not security sensitive.
}

// Generate derives the payload of a breakdown. Each call draws fresh bonus
// tips.
func (g *Generator) Generate(b footprint.Breakdown) Payload {
	dominant := SelectDominantCategory(b)

	g.mu.Lock()
	tips, bonus := SelectTips(dominant, g.src)
	g.mu.Unlock()

	total := b.Total()
	eq := ComputeEquivalences(total)
	return Payload{
		Breakdown:      b,
		Total:          total,
		Dominant:       dominant,
		DominantLabel:  dominant.Label(),
		Tips:           tips,
		BonusTips:      bonus,
		Equivalences:   eq,
		EquivalentText: eq.DisplayText(),
	}
}
