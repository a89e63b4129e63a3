package job

import (
	"math"

	"github.com/alderworks/workshop/internal/types/job"
)

// RewardConfig holds the payout tuning knobs.
type RewardConfig struct {
	PayPerUnit          float64
	BaseXPPerOrder      float64
	FailurePenaltyMoney int64
	FailurePenaltyXP    int64
}

func DefaultRewardConfig() RewardConfig {
	return RewardConfig{
		PayPerUnit:          20,
		BaseXPPerOrder:      50,
		FailurePenaltyMoney: 50,
		FailurePenaltyXP:    10,
	}
}

// Reward is the settlement outcome for one delivered order.
type Reward struct {
	Gold    int
	XP      int
	Quality float64
}

// bonusRule adjusts the base pay/xp for one archetype. Rules run after
// the base computation, never inside it.
type bonusRule func(quality float64, totalQty int, pay, xp float64) (float64, float64)

var bonusRules = map[job.Archetype]bonusRule{
	job.ArchetypeRush: func(quality float64, totalQty int, pay, xp float64) (float64, float64) {
		return pay * 1.2, xp
	},
	job.ArchetypePerfectionist: func(quality float64, totalQty int, pay, xp float64) (float64, float64) {
		if quality >= 3 {
			pay *= 1.4
		}
		return pay, xp
	},
	job.ArchetypeBulk: func(quality float64, totalQty int, pay, xp float64) (float64, float64) {
		if totalQty >= 5 && quality >= 3 {
			pay *= 1.5
			xp += 25
		}
		return pay, xp
	},
}

// Settle computes the payout for a completed order: pay scales with the
// quality factor, xp loses 10% per defect, then the archetype bonus rule
// applies. Both amounts round to the nearest integer.
func Settle(o *job.Order, cfg RewardConfig) Reward {
	quality := o.QualityScore()
	totalQty := o.TotalRequired()

	pay := cfg.PayPerUnit * float64(totalQty) * (quality / 3)

	xpMultiplier := 1 - 0.1*float64(o.DefectCount)
	if xpMultiplier < 0 {
		xpMultiplier = 0
	}
	xp := cfg.BaseXPPerOrder * xpMultiplier

	if rule, ok := bonusRules[o.Archetype]; ok {
		pay, xp = rule(quality, totalQty, pay, xp)
	}

	return Reward{
		Gold:    int(math.Round(pay)),
		XP:      int(math.Round(xp)),
		Quality: quality,
	}
}

// EstimateGold previews the base pay of an order before any quality or
// archetype adjustment. Shown next to offered orders.
func EstimateGold(o *job.Order, cfg RewardConfig) int {
	return int(math.Round(cfg.PayPerUnit * float64(o.TotalRequired())))
}
