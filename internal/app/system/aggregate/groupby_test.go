package aggregate_test

import (
	"testing"

	"github.com/dalemusser/opshub/internal/app/system/aggregate"
)

type row struct {
	project string
	hours   float64
}

func TestGroupBy_PreservesKeyOrder(t *testing.T) {
	rows := []row{
		{"atlas", 2},
		{"borealis", 3},
		{"atlas", 1},
		{"cascade", 4},
		{"borealis", 2},
	}

	g := aggregate.GroupBy(rows, func(r row) string { return r.project })

	wantKeys := []string{"atlas", "borealis", "cascade"}
	if len(g.Keys) != len(wantKeys) {
		t.Fatalf("got %d keys, want %d", len(g.Keys), len(wantKeys))
	}
	for i, k := range wantKeys {
		if g.Keys[i] != k {
			t.Errorf("Keys[%d] = %q, want %q (first-seen order)", i, g.Keys[i], k)
		}
	}
}

func TestGroupBy_PreservesItemOrder(t *testing.T) {
	rows := []row{
		{"atlas", 2},
		{"atlas", 1},
		{"atlas", 4},
	}

	g := aggregate.GroupBy(rows, func(r row) string { return r.project })
	items := g.Group("atlas")
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	want := []float64{2, 1, 4}
	for i, h := range want {
		if items[i].hours != h {
			t.Errorf("items[%d].hours = %v, want %v", i, items[i].hours, h)
		}
	}
}

func TestGroupBy_Empty(t *testing.T) {
	g := aggregate.GroupBy(nil, func(r row) string { return r.project })
	if g.Len() != 0 {
		t.Errorf("Len = %d, want 0", g.Len())
	}
	if g.Group("anything") != nil {
		t.Error("missing key should return nil")
	}
}

func TestDistinctCount(t *testing.T) {
	rows := []row{{"a", 1}, {"b", 2}, {"a", 3}, {"c", 4}, {"b", 5}}
	if got := aggregate.DistinctCount(rows, func(r row) string { return r.project }); got != 3 {
		t.Errorf("DistinctCount = %d, want 3", got)
	}
	if got := aggregate.DistinctCount(nil, func(r row) string { return r.project }); got != 0 {
		t.Errorf("DistinctCount(nil) = %d, want 0", got)
	}
}

func TestSumBy(t *testing.T) {
	rows := []row{{"a", 1.5}, {"b", 2.5}, {"c", 3}}
	if got := aggregate.SumBy(rows, func(r row) float64 { return r.hours }); got != 7 {
		t.Errorf("SumBy = %v, want 7", got)
	}
}

func TestCountBy(t *testing.T) {
	rows := []row{{"a", 1}, {"b", 5}, {"c", 9}}
	got := aggregate.CountBy(rows, func(r row) bool { return r.hours > 2 })
	if got != 2 {
		t.Errorf("CountBy = %d, want 2", got)
	}
}
