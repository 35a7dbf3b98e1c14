// Package levels resolves XP totals against the configured level ladder.
// Pure functions only; persistence of a level change and reward issuance
// stay with the caller.
package levels

import (
	"github.com/fielbet/platform/internal/domain"
)

// Resolve returns the level for an XP total. The current level is the
// highest threshold whose requirement is at or below the total, scanning
// from the top. At the final threshold the next level collapses to the
// current one and progress reports 100%.
func Resolve(xp int64, thresholds []domain.LevelThreshold) domain.UserLevel {
	if len(thresholds) == 0 {
		return domain.UserLevel{Level: 1, Name: "Iniciante", ProgressPercent: 100}
	}

	idx := 0
	for i := len(thresholds) - 1; i >= 0; i-- {
		if xp >= thresholds[i].XP {
			idx = i
			break
		}
	}
	current := thresholds[idx]

	if idx == len(thresholds)-1 {
		return domain.UserLevel{
			Level:           current.Level,
			Name:            current.Name,
			XPForNextLevel:  current.XP,
			ProgressPercent: 100,
		}
	}

	next := thresholds[idx+1]
	span := next.XP - current.XP
	progress := int((xp - current.XP) * 100 / span)
	if progress > 100 {
		progress = 100
	}
	if progress < 0 {
		progress = 0
	}

	return domain.UserLevel{
		Level:           current.Level,
		Name:            current.Name,
		XPForNextLevel:  next.XP,
		ProgressPercent: progress,
	}
}

// XPGain computes the XP awarded for a won bet: the stake in whole currency
// units, scaled by the active event multiplier and doubled for VIPs.
func XPGain(stake int64, eventMultiplier int, isVIP bool) int64 {
	if eventMultiplier < 1 {
		eventMultiplier = 1
	}
	gain := (stake / 100) * int64(eventMultiplier)
	if isVIP {
		gain *= 2
	}
	return gain
}
