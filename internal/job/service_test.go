package job

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alderworks/workshop/internal/catalog"
	"github.com/alderworks/workshop/internal/types/item"
	"github.com/alderworks/workshop/internal/types/job"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

type mockLedger struct {
	mu      sync.Mutex
	credits []decimal.Decimal
	xp      []int64
}

func (m *mockLedger) Credit(ctx context.Context, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credits = append(m.credits, amount)
	return nil
}

func (m *mockLedger) AddXP(ctx context.Context, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.xp = append(m.xp, delta)
	return nil
}

type mockRoster struct {
	snapshots [][]job.Order
}

func (m *mockRoster) SyncRoster(offered []job.Order) {
	m.snapshots = append(m.snapshots, offered)
}

func newTestManager(slots int) (*Manager, *mockLedger, *fakeClock) {
	gen := catalog.NewGenerator(catalog.DefaultConfig(), item.DefaultProducts(), rand.New(rand.NewSource(42)))
	clk := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	led := &mockLedger{}
	m := NewManager(gen, DefaultRewardConfig(), led, clk, slots)
	m.Start()
	return m, led, clk
}

func chairTableOrder(id string) *job.Order {
	return &job.Order{
		ID:        id,
		Archetype: job.ArchetypeCasual,
		SlotIndex: -1,
		Deadline:  10 * time.Minute,
		Lines: []job.Line{
			{Product: item.Item{ID: "chair", Name: "Chair"}, Quantity: 2},
			{Product: item.Item{ID: "table", Name: "Table"}, Quantity: 1},
		},
	}
}

func TestStartFillsAllSlots(t *testing.T) {
	m, _, _ := newTestManager(3)

	offered := m.Offered()
	require.Len(t, offered, 3)

	slots := make(map[int]int)
	for _, o := range offered {
		slots[o.SlotIndex]++
	}
	assert.Equal(t, map[int]int{0: 1, 1: 1, 2: 1}, slots)
	assert.Empty(t, m.Active())
}

func TestAcceptMovesOrderToActive(t *testing.T) {
	m, _, clk := newTestManager(3)
	id := m.Offered()[0].ID

	assert.True(t, m.Accept(id))

	assert.Len(t, m.Offered(), 2)
	active := m.Active()
	require.Len(t, active, 1)
	assert.Equal(t, id, active[0].ID)
	assert.True(t, active[0].Accepted)
	assert.Equal(t, clk.now, active[0].AcceptedAt)
}

func TestAcceptIsIdempotent(t *testing.T) {
	m, _, _ := newTestManager(3)
	id := m.Offered()[0].ID

	assert.True(t, m.Accept(id))
	assert.False(t, m.Accept(id))

	assert.Len(t, m.Offered(), 2)
	assert.Len(t, m.Active(), 1)
}

func TestAcceptUnknownOrder(t *testing.T) {
	m, _, _ := newTestManager(3)
	assert.False(t, m.Accept("job_missing"))
	assert.Len(t, m.Offered(), 3)
}

func TestDeclineRefillsSameSlot(t *testing.T) {
	m, led, _ := newTestManager(3)
	declined := m.Offered()[1]

	assert.True(t, m.Decline(declined.ID))

	offered := m.Offered()
	require.Len(t, offered, 3)

	var replacement *job.Order
	for i := range offered {
		if offered[i].SlotIndex == declined.SlotIndex {
			require.Nil(t, replacement, "slot refilled more than once")
			replacement = &offered[i]
		}
	}
	require.NotNil(t, replacement)
	assert.NotEqual(t, declined.ID, replacement.ID)

	// declining carries no penalty
	assert.Empty(t, led.credits)
	assert.Empty(t, led.xp)
}

func TestDeclineIsIdempotent(t *testing.T) {
	m, _, _ := newTestManager(3)
	id := m.Offered()[0].ID

	assert.True(t, m.Decline(id))
	assert.False(t, m.Decline(id))
	assert.Len(t, m.Offered(), 3)
}

func TestReportProductionFillsLines(t *testing.T) {
	m, _, _ := newTestManager(1)
	m.Inject(chairTableOrder("job_custom"))
	require.True(t, m.Accept("job_custom"))

	assert.True(t, m.ReportProduction("chair", false))
	active := m.Active()
	require.Len(t, active, 1)
	assert.Equal(t, 1, active[0].TotalProduced())
	assert.False(t, active[0].ReadyForDelivery)
}

func TestReportProductionNeverOverfills(t *testing.T) {
	m, _, _ := newTestManager(1)
	m.Inject(chairTableOrder("job_custom"))
	require.True(t, m.Accept("job_custom"))

	assert.True(t, m.ReportProduction("table", false))
	assert.False(t, m.ReportProduction("table", false))

	active := m.Active()
	require.Len(t, active, 1)
	for _, line := range active[0].Lines {
		assert.LessOrEqual(t, line.Produced, line.Quantity)
	}
}

func TestReportProductionUnmatchedDiscarded(t *testing.T) {
	m, _, _ := newTestManager(1)
	m.Inject(chairTableOrder("job_custom"))
	require.True(t, m.Accept("job_custom"))

	assert.False(t, m.ReportProduction("sofa", false))
	assert.False(t, m.ReportProduction("", false))

	active := m.Active()
	require.Len(t, active, 1)
	assert.Zero(t, active[0].TotalProduced())
}

func TestReportProductionFirstMatchWins(t *testing.T) {
	m, _, _ := newTestManager(1)
	m.Inject(chairTableOrder("job_first"))
	m.Inject(chairTableOrder("job_second"))
	require.True(t, m.Accept("job_first"))
	require.True(t, m.Accept("job_second"))

	assert.True(t, m.ReportProduction("chair", false))

	for _, o := range m.Active() {
		switch o.ID {
		case "job_first":
			assert.Equal(t, 1, o.TotalProduced())
		case "job_second":
			assert.Zero(t, o.TotalProduced())
		}
	}
}

func TestReportProductionCountsDefects(t *testing.T) {
	m, _, _ := newTestManager(1)
	m.Inject(chairTableOrder("job_custom"))
	require.True(t, m.Accept("job_custom"))

	assert.True(t, m.ReportProduction("chair", true))
	assert.True(t, m.ReportProduction("chair", false))

	active := m.Active()
	require.Len(t, active, 1)
	assert.Equal(t, 1, active[0].DefectCount)
	assert.Equal(t, 2.5, active[0].QualityScore())
}

func TestFullRoundTrip(t *testing.T) {
	m, led, _ := newTestManager(1)
	offeredBefore := len(m.Offered())

	m.Inject(chairTableOrder("job_custom"))
	require.True(t, m.Accept("job_custom"))

	require.True(t, m.ReportProduction("chair", false))
	require.True(t, m.ReportProduction("chair", false))
	require.True(t, m.ReportProduction("table", false))

	active := m.Active()
	require.Len(t, active, 1)
	require.True(t, active[0].ReadyForDelivery)

	reward, ok := m.Deliver(context.Background(), "job_custom")
	require.True(t, ok)
	assert.Equal(t, 60, reward.Gold)
	assert.Equal(t, 50, reward.XP)
	assert.Equal(t, 3.0, reward.Quality)

	// the delivered order leaves the active pool for good
	assert.Empty(t, m.Active())
	assert.Len(t, m.Offered(), offeredBefore)

	require.Len(t, led.credits, 1)
	assert.True(t, decimal.NewFromInt(60).Equal(led.credits[0]))
	assert.Equal(t, []int64{50}, led.xp)
}

func TestDeliverNotReadyNoOp(t *testing.T) {
	m, led, _ := newTestManager(1)
	m.Inject(chairTableOrder("job_custom"))
	require.True(t, m.Accept("job_custom"))

	reward, ok := m.Deliver(context.Background(), "job_custom")
	assert.False(t, ok)
	assert.Zero(t, reward.Gold)
	assert.Len(t, m.Active(), 1)
	assert.Empty(t, led.credits)
}

func TestDeliverTwice(t *testing.T) {
	m, _, _ := newTestManager(1)
	m.Inject(chairTableOrder("job_custom"))
	require.True(t, m.Accept("job_custom"))
	require.True(t, m.ReportProduction("chair", false))
	require.True(t, m.ReportProduction("chair", false))
	require.True(t, m.ReportProduction("table", false))

	_, ok := m.Deliver(context.Background(), "job_custom")
	require.True(t, ok)

	_, ok = m.Deliver(context.Background(), "job_custom")
	assert.False(t, ok)
}

func TestTickExpiresOverdueOrders(t *testing.T) {
	m, led, clk := newTestManager(3)
	accepted := m.Offered()[0]
	require.True(t, m.Accept(accepted.ID))

	clk.now = clk.now.Add(accepted.Deadline + time.Second)
	failed := m.Tick(context.Background())
	assert.Equal(t, 1, failed)

	assert.Empty(t, m.Active())

	offered := m.Offered()
	require.Len(t, offered, 3)
	found := false
	for _, o := range offered {
		if o.SlotIndex == accepted.SlotIndex {
			found = true
			assert.NotEqual(t, accepted.ID, o.ID)
		}
	}
	assert.True(t, found, "expired order's slot was not refilled")

	require.Len(t, led.credits, 1)
	assert.True(t, decimal.NewFromInt(-50).Equal(led.credits[0]))
	assert.Equal(t, []int64{-10}, led.xp)
}

func TestTickLeavesOrdersWithTimeRemaining(t *testing.T) {
	m, led, clk := newTestManager(3)
	id := m.Offered()[0].ID
	require.True(t, m.Accept(id))

	clk.now = clk.now.Add(time.Second)
	assert.Zero(t, m.Tick(context.Background()))
	assert.Len(t, m.Active(), 1)
	assert.Empty(t, led.credits)
}

func TestOfferedSlotCountStaysConstant(t *testing.T) {
	m, _, clk := newTestManager(3)

	require.True(t, m.Decline(m.Offered()[0].ID))
	assert.Len(t, m.Offered(), 3)

	accepted := m.Offered()[0]
	require.True(t, m.Accept(accepted.ID))
	assert.Len(t, m.Offered(), 2)

	clk.now = clk.now.Add(accepted.Deadline + time.Second)
	m.Tick(context.Background())
	assert.Len(t, m.Offered(), 3)
}

func TestRosterReceivesOfferedSnapshots(t *testing.T) {
	gen := catalog.NewGenerator(catalog.DefaultConfig(), item.DefaultProducts(), rand.New(rand.NewSource(42)))
	clk := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	sink := &mockRoster{}

	m := NewManager(gen, DefaultRewardConfig(), &mockLedger{}, clk, 2)
	m.SetRosterSink(sink)
	m.Start()

	require.NotEmpty(t, sink.snapshots)
	assert.Len(t, sink.snapshots[len(sink.snapshots)-1], 2)

	m.Accept(m.Offered()[0].ID)
	assert.Len(t, sink.snapshots[len(sink.snapshots)-1], 1)
}

func TestObserversNotifiedOnEveryMutation(t *testing.T) {
	gen := catalog.NewGenerator(catalog.DefaultConfig(), item.DefaultProducts(), rand.New(rand.NewSource(42)))
	clk := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}

	m := NewManager(gen, DefaultRewardConfig(), &mockLedger{}, clk, 2)
	notified := 0
	m.Subscribe(func() { notified++ })
	m.Start()

	assert.Equal(t, 1, notified)
	m.Accept(m.Offered()[0].ID)
	assert.Equal(t, 2, notified)
	m.Accept("job_missing") // no-op must not notify
	assert.Equal(t, 2, notified)
}
