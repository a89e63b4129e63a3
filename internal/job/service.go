package job

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/alderworks/workshop/internal/catalog"
	"github.com/alderworks/workshop/internal/clock"
	"github.com/alderworks/workshop/internal/logger"
	"github.com/alderworks/workshop/internal/types/job"
)

// Ledger is the external currency/experience account credited and
// debited by settlement. Deltas are signed.
type Ledger interface {
	Credit(ctx context.Context, amount decimal.Decimal) error
	AddXP(ctx context.Context, delta int64) error
}

// RosterSink receives the full offered-pool snapshot after every
// change and owns slot-keyed world presence.
type RosterSink interface {
	SyncRoster(offered []job.Order)
}

// Manager owns the two disjoint order pools: offered (awaiting
// accept/decline, one per board slot) and active (accepted, in
// progress). All mutations serialize behind one mutex; the HTTP
// handlers and the deadline sweep run on separate goroutines.
//
// Every mutating operation is idempotent against being called on an
// order that is not in the expected pool or state: it no-ops instead of
// failing, so double-taps and stale UI references cannot corrupt slot
// bookkeeping.
type Manager struct {
	mu sync.Mutex

	cfg    RewardConfig
	gen    *catalog.Generator
	clk    clock.Clock
	ledger Ledger

	slots   int
	offered []*job.Order
	active  []*job.Order

	observers []func()
	roster    RosterSink
}

func NewManager(gen *catalog.Generator, cfg RewardConfig, led Ledger, clk clock.Clock, slots int) *Manager {
	return &Manager{
		cfg:    cfg,
		gen:    gen,
		clk:    clk,
		ledger: led,
		slots:  slots,
	}
}

// Subscribe registers a board-changed observer. The signal carries no
// payload; observers re-query the pools. Not safe to call after the
// manager has started serving.
func (m *Manager) Subscribe(fn func()) {
	m.observers = append(m.observers, fn)
}

// SetRosterSink wires the world-presence collaborator. Not safe to call
// after the manager has started serving.
func (m *Manager) SetRosterSink(s RosterSink) {
	m.roster = s
}

// Start fills every board slot with a freshly generated offered order.
func (m *Manager) Start() {
	m.mu.Lock()
	m.offered = m.offered[:0]
	for slot := 0; slot < m.slots; slot++ {
		m.refillSlotLocked(slot)
	}
	snap := m.offeredSnapshotLocked()
	m.mu.Unlock()

	m.notify(snap)
}

// Offered returns a snapshot of the offered pool.
func (m *Manager) Offered() []job.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.offeredSnapshotLocked()
}

// Active returns a snapshot of the active pool.
func (m *Manager) Active() []job.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return snapshotOrders(m.active)
}

// Accept moves an offered order into the active pool and stamps its
// acceptance time. The vacated offered slot is not refilled; the
// accepted order keeps occupying it. Reports whether the call applied.
func (m *Manager) Accept(id string) bool {
	m.mu.Lock()
	o, idx := findOrder(m.offered, id)
	if o == nil || o.Accepted {
		m.mu.Unlock()
		return false
	}

	o.Accepted = true
	o.AcceptedAt = m.clk.Now()
	m.offered = removeAt(m.offered, idx)
	m.active = append(m.active, o)
	snap := m.offeredSnapshotLocked()
	m.mu.Unlock()

	m.notify(snap)
	return true
}

// Decline removes an offered order and immediately refills its slot
// with a new order of a freshly randomized archetype. No penalty
// applies. Reports whether the call applied.
func (m *Manager) Decline(id string) bool {
	m.mu.Lock()
	o, idx := findOrder(m.offered, id)
	if o == nil {
		m.mu.Unlock()
		return false
	}

	m.offered = removeAt(m.offered, idx)
	if o.SlotIndex >= 0 {
		m.refillSlotLocked(o.SlotIndex)
	}
	snap := m.offeredSnapshotLocked()
	m.mu.Unlock()

	m.notify(snap)
	return true
}

// Inject appends an externally built order to the offered pool. Used by
// scripted hosts that stage hand-crafted orders.
func (m *Manager) Inject(o *job.Order) {
	if o == nil {
		return
	}
	m.mu.Lock()
	m.offered = append(m.offered, o)
	snap := m.offeredSnapshotLocked()
	m.mu.Unlock()

	m.notify(snap)
}

// ReportProduction records one finished unit of a product against the
// first active in-progress order with an unfilled line for it. The scan
// is FIFO by pool order: a later order never steals a unit from an
// earlier one. A unit no order needs is silently discarded. Reports
// whether a line consumed the unit.
func (m *Manager) ReportProduction(productID string, defective bool) bool {
	if productID == "" {
		return false
	}

	m.mu.Lock()
	matched := false
	for _, o := range m.active {
		if !o.Accepted || o.Completed || o.Failed {
			continue
		}
		for i := range o.Lines {
			line := &o.Lines[i]
			if line.Product.ID != productID {
				continue
			}
			if line.Produced >= line.Quantity {
				continue
			}
			line.Produced++
			if defective {
				o.DefectCount++
			}
			matched = true
			break
		}
		if matched {
			if o.TotalProduced() >= o.TotalRequired() {
				o.ReadyForDelivery = true
			}
			break
		}
	}

	var snap []job.Order
	if matched {
		snap = m.offeredSnapshotLocked()
	}
	m.mu.Unlock()

	if matched {
		m.notify(snap)
	}
	return matched
}

// Deliver settles a ready order: computes the reward, credits the
// ledger, marks the order completed, removes it from the active pool
// and refills its slot. Reports the reward and whether the call
// applied.
func (m *Manager) Deliver(ctx context.Context, id string) (Reward, bool) {
	m.mu.Lock()
	o, idx := findOrder(m.active, id)
	if o == nil || o.Completed || o.Failed {
		m.mu.Unlock()
		return Reward{}, false
	}
	if !o.ReadyForDelivery {
		m.mu.Unlock()
		logger.Log.Debug("deliver called on order that is not ready", zap.String("order", id))
		return Reward{}, false
	}

	reward := Settle(o, m.cfg)
	o.GoldReward = reward.Gold
	o.XPReward = reward.XP
	o.Completed = true

	m.active = removeAt(m.active, idx)
	if o.SlotIndex >= 0 {
		m.refillSlotLocked(o.SlotIndex)
	}
	snap := m.offeredSnapshotLocked()
	m.mu.Unlock()

	if reward.Gold > 0 {
		if err := m.ledger.Credit(ctx, decimal.NewFromInt(int64(reward.Gold))); err != nil {
			logger.Log.Error("credit reward", zap.String("order", id), zap.Error(err))
		}
	}
	if reward.XP > 0 {
		if err := m.ledger.AddXP(ctx, int64(reward.XP)); err != nil {
			logger.Log.Error("credit xp", zap.String("order", id), zap.Error(err))
		}
	}
	logger.Log.Info("order delivered",
		zap.String("order", id),
		zap.String("archetype", string(o.Archetype)),
		zap.Int("gold", reward.Gold),
		zap.Int("xp", reward.XP),
		zap.Float64("quality", reward.Quality),
	)

	m.notify(snap)
	return reward, true
}

// Tick is the deadline sweep. Every active in-progress order whose
// remaining time has run out is marked failed, charged the flat
// penalty, removed from the active pool, and its slot refilled. Called
// on every scheduling tick regardless of any UI. Returns the number of
// orders that failed.
func (m *Manager) Tick(ctx context.Context) int {
	now := m.clk.Now()

	m.mu.Lock()
	var expired []*job.Order
	kept := m.active[:0]
	for _, o := range m.active {
		if o.Accepted && !o.Completed && !o.Failed && o.RemainingAt(now) <= 0 {
			o.Failed = true
			expired = append(expired, o)
			continue
		}
		kept = append(kept, o)
	}
	m.active = kept

	for _, o := range expired {
		if o.SlotIndex >= 0 {
			m.refillSlotLocked(o.SlotIndex)
		}
	}

	var snap []job.Order
	if len(expired) > 0 {
		snap = m.offeredSnapshotLocked()
	}
	m.mu.Unlock()

	for _, o := range expired {
		if err := m.ledger.Credit(ctx, decimal.NewFromInt(-m.cfg.FailurePenaltyMoney)); err != nil {
			logger.Log.Error("apply money penalty", zap.String("order", o.ID), zap.Error(err))
		}
		if err := m.ledger.AddXP(ctx, -m.cfg.FailurePenaltyXP); err != nil {
			logger.Log.Error("apply xp penalty", zap.String("order", o.ID), zap.Error(err))
		}
		logger.Log.Info("order expired", zap.String("order", o.ID), zap.Int("slot", o.SlotIndex))
	}

	if len(expired) > 0 {
		m.notify(snap)
	}
	return len(expired)
}

// EstimatePay previews the base pay for an order.
func (m *Manager) EstimatePay(o *job.Order) int {
	return EstimateGold(o, m.cfg)
}

func (m *Manager) refillSlotLocked(slotIndex int) {
	kind := m.gen.RandomArchetype()
	m.offered = append(m.offered, m.gen.Generate(kind, slotIndex))
}

func (m *Manager) offeredSnapshotLocked() []job.Order {
	return snapshotOrders(m.offered)
}

func (m *Manager) notify(offered []job.Order) {
	for _, fn := range m.observers {
		fn()
	}
	if m.roster != nil {
		m.roster.SyncRoster(offered)
	}
}

func findOrder(pool []*job.Order, id string) (*job.Order, int) {
	for i, o := range pool {
		if o.ID == id {
			return o, i
		}
	}
	return nil, -1
}

func removeAt(pool []*job.Order, idx int) []*job.Order {
	return append(pool[:idx], pool[idx+1:]...)
}

func snapshotOrders(pool []*job.Order) []job.Order {
	out := make([]job.Order, 0, len(pool))
	for _, o := range pool {
		snap := *o
		snap.Lines = append([]job.Line(nil), o.Lines...)
		out = append(out, snap)
	}
	return out
}
