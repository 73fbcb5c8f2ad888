package analytics

import "testing"

func TestScaleBars_FractionalHours(t *testing.T) {
	rows := scaleBars([]barRow{
		{Name: "Billing System", Hours: 7.5},
		{Name: "Client Portal", Hours: 2.6},
	})

	if rows[0].Percent != 100 {
		t.Errorf("largest bar: got %d%%, want 100%%", rows[0].Percent)
	}
	// 2.6/7.5 = 34.67%, rounds to 35.
	if rows[1].Percent != 35 {
		t.Errorf("fractional bar: got %d%%, want 35%%", rows[1].Percent)
	}
}

func TestScaleBars_SortsDescending(t *testing.T) {
	rows := scaleBars([]barRow{
		{Name: "small", Hours: 1},
		{Name: "big", Hours: 4},
	})

	if rows[0].Name != "big" || rows[1].Name != "small" {
		t.Errorf("order: got %q, %q, want big, small", rows[0].Name, rows[1].Name)
	}
}

func TestScaleBars_EmptyAndZeroHours(t *testing.T) {
	if got := scaleBars(nil); len(got) != 0 {
		t.Errorf("scaleBars(nil) returned %d rows", len(got))
	}

	rows := scaleBars([]barRow{{Name: "idle", Hours: 0}})
	if rows[0].Percent != 0 {
		t.Errorf("zero-hours bar: got %d%%, want 0%%", rows[0].Percent)
	}
}
