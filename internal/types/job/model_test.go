package job

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alderworks/workshop/internal/types/item"
)

func TestTotals(t *testing.T) {
	o := &Order{
		Lines: []Line{
			{Product: item.Item{ID: "chair"}, Quantity: 2, Produced: 1},
			{Product: item.Item{ID: "table"}, Quantity: 3, Produced: 0},
		},
	}
	assert.Equal(t, 5, o.TotalRequired())
	assert.Equal(t, 1, o.TotalProduced())
}

func TestTotalsIgnoreNegativeCounters(t *testing.T) {
	o := &Order{
		Lines: []Line{
			{Quantity: -2, Produced: -1},
			{Quantity: 4, Produced: 2},
		},
	}
	assert.Equal(t, 4, o.TotalRequired())
	assert.Equal(t, 2, o.TotalProduced())
}

func TestQualityScore(t *testing.T) {
	o := &Order{}
	assert.Equal(t, 3.0, o.QualityScore())

	o.DefectCount = 2
	assert.Equal(t, 2.0, o.QualityScore())

	o.DefectCount = 10
	assert.Equal(t, 0.0, o.QualityScore())
}

func TestQualityScoreNonIncreasing(t *testing.T) {
	prev := 4.0
	for defects := 0; defects <= 12; defects++ {
		o := &Order{DefectCount: defects}
		score := o.QualityScore()
		assert.LessOrEqual(t, score, prev)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 3.0)
		prev = score
	}
}

func TestRemainingAt(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	o := &Order{
		Deadline:   2 * time.Minute,
		Accepted:   true,
		AcceptedAt: start,
	}

	assert.Equal(t, 2*time.Minute, o.RemainingAt(start))
	assert.Equal(t, 30*time.Second, o.RemainingAt(start.Add(90*time.Second)))
	assert.Equal(t, time.Duration(0), o.RemainingAt(start.Add(3*time.Minute)))
}

func TestRemainingAtZeroOutsideProgress(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	notAccepted := &Order{Deadline: time.Minute}
	assert.Equal(t, time.Duration(0), notAccepted.RemainingAt(start))

	failed := &Order{Deadline: time.Minute, Accepted: true, AcceptedAt: start, Failed: true}
	assert.Equal(t, time.Duration(0), failed.RemainingAt(start))
}
