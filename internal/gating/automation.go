package gating

import "github.com/sitewell/beacon/internal/types"

// DowngradeAutomation adjusts how hands-off a recommendation may claim
// to be, given the evidence quality behind it. Strong and medium
// evidence leave the level untouched; weak evidence drops one step and
// ambiguous evidence drops two, clamped at manual. The level is never
// raised: an entry authored as guide stays guide no matter how strong
// the evidence looks.
func DowngradeAutomation(level types.AutomationLevel, quality types.EvidenceQuality) types.AutomationLevel {
	steps := 0
	switch quality {
	case types.QualityWeak:
		steps = 1
	case types.QualityAmbiguous:
		steps = 2
	}
	if steps == 0 {
		return level
	}
	rank := level.Rank() - steps
	if rank < 0 {
		rank = 0
	}
	return types.FromRank(rank)
}
