package roster

import (
	"sort"
	"sync"

	"github.com/alderworks/workshop/internal/types/job"
)

// Entry is one customer standing at a board slot.
type Entry struct {
	SlotIndex int           `json:"slot_index"`
	OrderID   string        `json:"order_id"`
	Archetype job.Archetype `json:"archetype"`
}

// Keeper mirrors the offered pool as slot-keyed world presence. Slots
// that disappear from a snapshot are dropped; the lifecycle manager has
// no awareness of how presence is rendered.
type Keeper struct {
	mu    sync.Mutex
	slots map[int]Entry
}

func NewKeeper() *Keeper {
	return &Keeper{slots: make(map[int]Entry)}
}

// SyncRoster replaces the presence set with the given offered-pool
// snapshot.
func (k *Keeper) SyncRoster(offered []job.Order) {
	k.mu.Lock()
	defer k.mu.Unlock()

	used := make(map[int]bool, len(offered))
	for i := range offered {
		o := &offered[i]
		used[o.SlotIndex] = true
		k.slots[o.SlotIndex] = Entry{
			SlotIndex: o.SlotIndex,
			OrderID:   o.ID,
			Archetype: o.Archetype,
		}
	}
	for slot := range k.slots {
		if !used[slot] {
			delete(k.slots, slot)
		}
	}
}

// Snapshot lists current entries ordered by slot index.
func (k *Keeper) Snapshot() []Entry {
	k.mu.Lock()
	defer k.mu.Unlock()

	out := make([]Entry, 0, len(k.slots))
	for _, e := range k.slots {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SlotIndex < out[j].SlotIndex })
	return out
}
