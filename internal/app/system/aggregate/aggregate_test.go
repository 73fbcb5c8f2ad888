package aggregate_test

import (
	"testing"
	"time"

	"github.com/dalemusser/opshub/internal/app/system/aggregate"
	"github.com/dalemusser/opshub/internal/app/system/datewindow"
	"github.com/dalemusser/opshub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Wednesday 2026-01-14. Its ISO week runs Monday 2026-01-12 through
// Sunday 2026-01-18.
var ref = time.Date(2026, 1, 14, 12, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func entry(projectID primitive.ObjectID, date time.Time, hours float64) models.TimeEntry {
	return models.TimeEntry{
		ID:        primitive.NewObjectID(),
		ProjectID: projectID,
		UserID:    primitive.NewObjectID(),
		Date:      date,
		Hours:     hours,
	}
}

func TestHoursRollup_WeekWindow(t *testing.T) {
	p := primitive.NewObjectID()
	entries := []models.TimeEntry{
		entry(p, day(2026, 1, 12), 3), // Monday, in week
		entry(p, day(2026, 1, 14), 5), // Wednesday, in week
		entry(p, day(2026, 1, 16), 2), // Friday, in week
		entry(p, day(2026, 1, 11), 8), // preceding Sunday, excluded
		entry(p, day(2026, 1, 19), 4), // next Monday, excluded
	}

	got := aggregate.HoursRollup(entries, datewindow.Week.Predicate(ref))
	if got != 10 {
		t.Errorf("HoursRollup = %v, want 10", got)
	}
}

func TestHoursRollup_Empty(t *testing.T) {
	got := aggregate.HoursRollup(nil, datewindow.Week.Predicate(ref))
	if got != 0 {
		t.Errorf("HoursRollup(nil) = %v, want 0", got)
	}
}

func TestHoursRollup_OrderIndependent(t *testing.T) {
	p := primitive.NewObjectID()
	a := entry(p, day(2026, 1, 12), 3)
	b := entry(p, day(2026, 1, 14), 5)
	c := entry(p, day(2026, 1, 16), 2)

	pred := datewindow.Week.Predicate(ref)
	forward := aggregate.HoursRollup([]models.TimeEntry{a, b, c}, pred)
	reversed := aggregate.HoursRollup([]models.TimeEntry{c, b, a}, pred)
	if forward != reversed {
		t.Errorf("order changed the rollup: %v vs %v", forward, reversed)
	}
}

func TestActiveProjectCount_Distinct(t *testing.T) {
	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()
	entries := []models.TimeEntry{
		entry(p1, day(2026, 1, 12), 2),
		entry(p1, day(2026, 1, 14), 3), // same project again
		entry(p2, day(2026, 1, 15), 1),
		entry(p2, day(2026, 1, 5), 6), // outside week
	}

	got := aggregate.ActiveProjectCount(entries, datewindow.Week.Predicate(ref))
	if got != 2 {
		t.Errorf("ActiveProjectCount = %d, want 2", got)
	}
}

func TestActiveProjectCount_Empty(t *testing.T) {
	if got := aggregate.ActiveProjectCount(nil, datewindow.All.Predicate(ref)); got != 0 {
		t.Errorf("ActiveProjectCount(nil) = %d, want 0", got)
	}
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		completed, total, want int
	}{
		{7, 10, 70},
		{0, 10, 0},
		{10, 10, 100},
		{0, 0, 0}, // zero denominator is zero progress, not a panic
		{1, 3, 33},
		{2, 3, 67},
		{5, 0, 0},
		{-1, 10, 0},  // clamped
		{15, 10, 100}, // clamped
	}

	for _, tt := range tests {
		if got := aggregate.ProgressPercent(tt.completed, tt.total); got != tt.want {
			t.Errorf("ProgressPercent(%d, %d) = %d, want %d", tt.completed, tt.total, got, tt.want)
		}
	}
}

func TestTicketProgress(t *testing.T) {
	open := models.Ticket{State: models.TicketOpen}
	inProgress := models.Ticket{State: models.TicketInProgress}
	resolved := models.Ticket{State: models.TicketResolved}
	closed := models.Ticket{State: models.TicketClosed}

	tickets := []models.Ticket{
		resolved, resolved, resolved, resolved, resolved, resolved, closed, // 7 done
		open, inProgress, open, // 3 outstanding
	}
	if got := aggregate.TicketProgress(tickets); got != 70 {
		t.Errorf("TicketProgress = %d, want 70", got)
	}

	if got := aggregate.TicketProgress(nil); got != 0 {
		t.Errorf("TicketProgress(nil) = %d, want 0", got)
	}
}

func TestWeeklyGoal(t *testing.T) {
	tests := []struct {
		name          string
		current, goal float64
		wantPercent   int
		wantOvertime  bool
		wantOverHours float64
	}{
		{"under goal", 30, 40, 75, false, 0},
		{"exactly at goal", 40, 40, 100, false, 0},
		{"over goal caps at 100", 45, 40, 100, true, 5},
		{"zero current", 0, 40, 0, false, 0},
		{"zero goal", 10, 0, 0, false, 0},
		{"negative goal", 10, -5, 0, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gp := aggregate.WeeklyGoal(tt.current, tt.goal)
			if gp.Percent != tt.wantPercent {
				t.Errorf("Percent = %d, want %d", gp.Percent, tt.wantPercent)
			}
			if gp.Overtime != tt.wantOvertime {
				t.Errorf("Overtime = %v, want %v", gp.Overtime, tt.wantOvertime)
			}
			if gp.OvertimeHours != tt.wantOverHours {
				t.Errorf("OvertimeHours = %v, want %v", gp.OvertimeHours, tt.wantOverHours)
			}
		})
	}
}

func TestSLACompliance(t *testing.T) {
	if got := aggregate.SLACompliance(8, 10); got != 80 {
		t.Errorf("SLACompliance(8, 10) = %d, want 80", got)
	}
	if got := aggregate.SLACompliance(0, 0); got != 0 {
		t.Errorf("SLACompliance(0, 0) = %d, want 0", got)
	}
}

func TestTicketSLACompliance(t *testing.T) {
	due := day(2026, 1, 10)
	onTime := day(2026, 1, 9)
	late := day(2026, 1, 11)

	tickets := []models.Ticket{
		{State: models.TicketResolved, SLADue: &due, ResolvedAt: &onTime},
		{State: models.TicketResolved, SLADue: &due, ResolvedAt: &late},
		{State: models.TicketResolved, ResolvedAt: &onTime}, // no deadline counts as met
		{State: models.TicketOpen},                          // unresolved, excluded
	}

	// 2 of 3 resolved tickets met their SLA.
	if got := aggregate.TicketSLACompliance(tickets); got != 67 {
		t.Errorf("TicketSLACompliance = %d, want 67", got)
	}

	// No resolved tickets at all: zero, not a division by zero.
	if got := aggregate.TicketSLACompliance([]models.Ticket{{State: models.TicketOpen}}); got != 0 {
		t.Errorf("TicketSLACompliance with nothing resolved = %d, want 0", got)
	}
}
