// Package aggregate reduces raw entity collections into the derived
// statistics the dashboards display: hour rollups, distinct counts,
// progress percentages, ordered groupings, goal and SLA ratios.
//
// Every function here is pure: same inputs, same outputs, no hidden state.
// Empty collections and zero denominators yield zero results, never errors.
// Recomputing on every refresh is the intended usage.
package aggregate

import (
	"math"
	"time"

	"github.com/dalemusser/opshub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HoursRollup sums Hours over the time entries whose Date satisfies the
// window predicate. Zero for an empty input; order-independent.
func HoursRollup(entries []models.TimeEntry, inWindow func(time.Time) bool) float64 {
	var total float64
	for _, e := range entries {
		if inWindow(e.Date) {
			total += e.Hours
		}
	}
	return total
}

// ActiveProjectCount counts distinct ProjectIDs among the time entries whose
// Date satisfies the window predicate. Duplicate project ids from multiple
// entries never inflate the count.
func ActiveProjectCount(entries []models.TimeEntry, inWindow func(time.Time) bool) int {
	seen := make(map[primitive.ObjectID]struct{})
	for _, e := range entries {
		if inWindow(e.Date) {
			seen[e.ProjectID] = struct{}{}
		}
	}
	return len(seen)
}

// ProgressPercent returns round(completed/total*100), clamped to [0, 100].
// A zero total means zero progress, not a division by zero.
func ProgressPercent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(completed) / float64(total) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// TicketProgress returns the share of tickets in a terminal state
// (resolved or closed) as a rounded percentage.
func TicketProgress(tickets []models.Ticket) int {
	done := 0
	for _, t := range tickets {
		if t.IsDone() {
			done++
		}
	}
	return ProgressPercent(done, len(tickets))
}

// GoalProgress describes progress against a fixed weekly hours goal.
type GoalProgress struct {
	Percent       int     // capped at 100
	Overtime      bool    // current strictly exceeds the goal
	OvertimeHours float64 // current - goal when over, else 0
}

// WeeklyGoal compares current hours against a goal. A non-positive goal
// reports zero progress rather than dividing by zero.
func WeeklyGoal(current, goal float64) GoalProgress {
	if goal <= 0 {
		return GoalProgress{}
	}
	pct := int(math.Round(current / goal * 100))
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	gp := GoalProgress{Percent: pct}
	if current > goal {
		gp.Overtime = true
		gp.OvertimeHours = current - goal
	}
	return gp
}

// SLACompliance returns resolvedWithinSLA/totalResolved as a rounded
// percentage, 0 when nothing has been resolved yet.
func SLACompliance(withinSLA, totalResolved int) int {
	return ProgressPercent(withinSLA, totalResolved)
}

// TicketSLACompliance computes the SLA compliance percentage over the
// resolved tickets in the collection.
func TicketSLACompliance(tickets []models.Ticket) int {
	resolved, within := 0, 0
	for _, t := range tickets {
		if t.ResolvedAt == nil {
			continue
		}
		resolved++
		if t.MetSLA() {
			within++
		}
	}
	return SLACompliance(within, resolved)
}
