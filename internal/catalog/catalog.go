package catalog

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/alderworks/workshop/internal/types/item"
	"github.com/alderworks/workshop/internal/types/job"
)

// Config holds the global generation bounds. Archetype tuning is
// clamped to these before use.
type Config struct {
	MinLinesPerOrder   int
	MaxLinesPerOrder   int
	MinQuantityPerLine int
	MaxQuantityPerLine int

	MinOrderTime  time.Duration
	MaxOrderTime  time.Duration
	MinComplexity int
	MaxComplexity int
}

func DefaultConfig() Config {
	return Config{
		MinLinesPerOrder:   1,
		MaxLinesPerOrder:   3,
		MinQuantityPerLine: 1,
		MaxQuantityPerLine: 4,
		MinOrderTime:       60 * time.Second,
		MaxOrderTime:       600 * time.Second,
		MinComplexity:      1,
		MaxComplexity:      20,
	}
}

type archetypeTuning struct {
	timeMultiplier           float64
	minLines, maxLines       int
	minQuantity, maxQuantity int
}

var tunings = map[job.Archetype]archetypeTuning{
	job.ArchetypeRush:          {timeMultiplier: 0.7, minLines: 1, maxLines: 3, minQuantity: 1, maxQuantity: 4},
	job.ArchetypePerfectionist: {timeMultiplier: 1.0, minLines: 1, maxLines: 3, minQuantity: 1, maxQuantity: 4},
	job.ArchetypeCasual:        {timeMultiplier: 0.9, minLines: 1, maxLines: 2, minQuantity: 1, maxQuantity: 2},
	job.ArchetypeBulk:          {timeMultiplier: 1.2, minLines: 2, maxLines: 3, minQuantity: 2, maxQuantity: 5},
}

// productPickAttempts bounds the random retries used to avoid repeating
// a product within one order.
const productPickAttempts = 8

// Generator produces offered orders for board slots. It never fails:
// degenerate input degrades to a one-line fallback order instead of an
// error, because slot refill must always have a candidate.
type Generator struct {
	cfg      Config
	products []item.Item
	fixed    *item.Item
	rng      *rand.Rand
}

func NewGenerator(cfg Config, products []item.Item, rng *rand.Rand) *Generator {
	return &Generator{cfg: cfg, products: products, rng: rng}
}

// PinProduct forces every generated line onto one product. Used by
// scripted hosts (the tutorial) that teach a single recipe.
func (g *Generator) PinProduct(it item.Item) {
	g.fixed = &it
}

// RandomArchetype picks a customer archetype uniformly.
func (g *Generator) RandomArchetype() job.Archetype {
	kinds := job.Archetypes()
	return kinds[g.rng.Intn(len(kinds))]
}

// Generate builds a fresh offered order for the given archetype and
// board slot.
func (g *Generator) Generate(kind job.Archetype, slotIndex int) *job.Order {
	tuning := tunings[kind]

	o := &job.Order{
		ID:        "job_" + uuid.NewString(),
		Archetype: kind,
		SlotIndex: slotIndex,
	}

	lineCount := g.randRange(tuning.minLines, tuning.maxLines)
	lineCount = clampInt(lineCount, g.cfg.MinLinesPerOrder, g.cfg.MaxLinesPerOrder)

	used := make(map[string]bool)
	for i := 0; i < lineCount; i++ {
		product, ok := g.pickProduct(used)
		if !ok {
			break
		}
		used[product.ID] = true

		qty := g.randRange(tuning.minQuantity, tuning.maxQuantity)
		qty = clampInt(qty, g.cfg.MinQuantityPerLine, g.cfg.MaxQuantityPerLine)
		if qty < 1 {
			qty = 1
		}

		o.Lines = append(o.Lines, job.Line{Product: product, Quantity: qty})
	}

	if o.TotalRequired() <= 0 {
		o.Lines = append(o.Lines, job.Line{Product: g.defaultProduct(), Quantity: 1})
	}

	o.Deadline = g.deadlineFor(o)
	return o
}

// deadlineFor maps the order's total quantity, clamped to the
// complexity range, linearly onto [MinOrderTime, MaxOrderTime], scales
// by the archetype multiplier and re-clamps so rush orders stay within
// sane bounds.
func (g *Generator) deadlineFor(o *job.Order) time.Duration {
	total := o.TotalRequired()
	if total <= 0 {
		total = 1
	}
	complexity := clampInt(total, g.cfg.MinComplexity, g.cfg.MaxComplexity)

	t := 0.0
	if g.cfg.MaxComplexity > g.cfg.MinComplexity {
		t = float64(complexity-g.cfg.MinComplexity) / float64(g.cfg.MaxComplexity-g.cfg.MinComplexity)
	}

	minSec := g.cfg.MinOrderTime.Seconds()
	maxSec := g.cfg.MaxOrderTime.Seconds()
	seconds := minSec + (maxSec-minSec)*t
	seconds *= tunings[o.Archetype].timeMultiplier

	if seconds < minSec {
		seconds = minSec
	}
	if seconds > maxSec {
		seconds = maxSec
	}
	return time.Duration(seconds * float64(time.Second))
}

// pickProduct prefers products not yet used in this order while unused
// alternatives remain, retrying a bounded number of times before
// falling back to an unconstrained pick. Variety, not uniqueness.
func (g *Generator) pickProduct(used map[string]bool) (item.Item, bool) {
	if g.fixed != nil {
		return *g.fixed, true
	}
	if len(g.products) == 0 {
		return item.Item{}, false
	}

	if len(used) < len(g.products) {
		for i := 0; i < productPickAttempts; i++ {
			candidate := g.products[g.rng.Intn(len(g.products))]
			if !used[candidate.ID] {
				return candidate, true
			}
		}
	}
	return g.products[g.rng.Intn(len(g.products))], true
}

func (g *Generator) defaultProduct() item.Item {
	if g.fixed != nil {
		return *g.fixed
	}
	if len(g.products) > 0 {
		return g.products[0]
	}
	return item.DefaultProducts()[0]
}

func (g *Generator) randRange(min, max int) int {
	if max <= min {
		return min
	}
	return min + g.rng.Intn(max-min+1)
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
