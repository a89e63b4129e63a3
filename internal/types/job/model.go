package job

import (
	"time"

	"github.com/alderworks/workshop/internal/types/item"
)

// Archetype is a customer category with fixed tuning multipliers for
// deadlines, line counts, quantities and reward bonuses.
type Archetype string

const (
	ArchetypeRush          Archetype = "rush"
	ArchetypePerfectionist Archetype = "perfectionist"
	ArchetypeCasual        Archetype = "casual"
	ArchetypeBulk          Archetype = "bulk"
)

// Archetypes lists every customer archetype, in a fixed order.
func Archetypes() []Archetype {
	return []Archetype{ArchetypeRush, ArchetypePerfectionist, ArchetypeCasual, ArchetypeBulk}
}

// Line is one (product, quantity) requirement within an order.
type Line struct {
	Product  item.Item
	Quantity int
	Produced int
}

// Order is a customer's request for specific product quantities within
// a deadline. Lifecycle flags progress strictly forward; Completed and
// Failed are never both set.
type Order struct {
	ID        string
	Archetype Archetype
	Lines     []Line
	Deadline  time.Duration
	SlotIndex int

	AcceptedAt time.Time // zero until accepted

	Accepted         bool
	Completed        bool
	Failed           bool
	ReadyForDelivery bool

	DefectCount int

	// Settlement outcome, filled in once at delivery for display.
	GoldReward int
	XPReward   int
}

// TotalRequired sums the required quantity over all lines.
func (o *Order) TotalRequired() int {
	total := 0
	for i := range o.Lines {
		if o.Lines[i].Quantity > 0 {
			total += o.Lines[i].Quantity
		}
	}
	return total
}

// TotalProduced sums the produced counters over all lines.
func (o *Order) TotalProduced() int {
	total := 0
	for i := range o.Lines {
		if o.Lines[i].Produced > 0 {
			total += o.Lines[i].Produced
		}
	}
	return total
}

// QualityScore maps the accumulated defect count onto a 0-3 scale; each
// defect costs half a point.
func (o *Order) QualityScore() float64 {
	score := 3 - 0.5*float64(o.DefectCount)
	if score < 0 {
		return 0
	}
	if score > 3 {
		return 3
	}
	return score
}

// RemainingAt reports how much of the deadline is left at the given
// time. It is recomputed from the acceptance timestamp on every call,
// never stored as a countdown. Zero for orders that are not accepted or
// already terminal.
func (o *Order) RemainingAt(now time.Time) time.Duration {
	if !o.Accepted || o.Completed || o.Failed {
		return 0
	}
	remaining := o.Deadline - now.Sub(o.AcceptedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}
