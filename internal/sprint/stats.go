package sprint

import (
	"math"
	"time"
)

// ComputeStats derives velocity, projection and the on-track flag from a
// recorded burndown series. It is a pure function over the stored points;
// nothing it returns is ever persisted. Points must be ordered by day
// ascending, today must be day-truncated.
func ComputeStats(points []*BurndownPoint, sprintEnd time.Time, today time.Time) BurndownStats {
	if len(points) == 0 {
		return BurndownStats{OnTrack: true}
	}

	latest := points[len(points)-1]
	remaining := latest.RemainingPoints
	completed := latest.CompletedPoints
	total := remaining + completed

	stats := BurndownStats{
		TotalPoints:     total,
		RemainingPoints: remaining,
		CompletedPoints: completed,
	}

	// One distinct day recorded per row, guaranteed by the unique index.
	days := len(points)
	if days > 1 {
		stats.Velocity = float64(total-remaining) / float64(days-1)
	}

	if remaining == 0 {
		stats.OnTrack = true
		return stats
	}

	if stats.Velocity <= 0 {
		// Projection is infinite; no completion date can be given.
		return stats
	}

	daysToZero := float64(remaining) / stats.Velocity
	stats.DaysToZero = &daysToZero

	projected := today.AddDate(0, 0, int(math.Ceil(daysToZero)))
	stats.ProjectedCompletion = &projected
	stats.OnTrack = !projected.After(sprintEnd)

	return stats
}
