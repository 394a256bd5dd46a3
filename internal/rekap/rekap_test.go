package rekap

import (
	"context"
	"errors"
	"testing"

	"github.com/verte-zerg/stuntrack/internal/model"
	"github.com/verte-zerg/stuntrack/internal/store"
)

func record(name, class string, status model.Status) model.StoredRecord {
	return model.StoredRecord{
		Name:     name,
		AgeText:  "7 tahun 0 bulan 0 hari",
		Sex:      "Perempuan",
		Class:    class,
		HeightCm: 110,
		WeightKg: 19,
		HAZ:      -1.5,
		Status:   status,
	}
}

func TestStuntingByClass(t *testing.T) {
	records := []model.StoredRecord{
		record("a", "3", model.StatusStunting),
		record("b", "1", model.StatusNormal),
		record("c", "10", model.StatusStunting),
		record("d", "3", model.StatusStunting),
		record("e", "2", model.StatusStunting),
		record("f", "2", model.Status("Unknown")),
	}
	got := StuntingByClass(records)
	want := []ClassCount{{"2", 1}, {"3", 2}, {"10", 1}}
	if len(got) != len(want) {
		t.Fatalf("expected %d classes, got %+v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("class %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestStuntingByClassEmpty(t *testing.T) {
	if got := StuntingByClass(nil); len(got) != 0 {
		t.Fatalf("expected no classes, got %+v", got)
	}
	normal := []model.StoredRecord{record("a", "1", model.StatusNormal)}
	if got := StuntingByClass(normal); len(got) != 0 {
		t.Fatalf("expected no classes, got %+v", got)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]model.StoredRecord{
		record("a", "1", model.StatusStunting),
		record("b", "1", model.StatusNormal),
		record("c", "1", model.StatusNormal),
		record("d", "1", model.Status("?")),
	})
	if s != (Summary{Total: 4, Stunting: 1, Normal: 2, Other: 1}) {
		t.Fatalf("unexpected summary: %+v", s)
	}
}

func TestBuildReport(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	if _, err := BuildReport(ctx, st); !errors.Is(err, store.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	for _, rec := range []model.StoredRecord{
		record("a", "4", model.StatusStunting),
		record("b", "4", model.StatusStunting),
		record("c", "5", model.StatusNormal),
	} {
		if err := st.Append(ctx, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	report, err := BuildReport(ctx, st)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(report.Records))
	}
	if len(report.ByClass) != 1 || report.ByClass[0] != (ClassCount{"4", 2}) {
		t.Fatalf("unexpected class counts: %+v", report.ByClass)
	}
	if report.Totals.Stunting != 2 || report.Totals.Normal != 1 {
		t.Fatalf("unexpected totals: %+v", report.Totals)
	}
}
