// Package rekap aggregates stored records into the school recap.
package rekap

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/verte-zerg/stuntrack/internal/model"
	"github.com/verte-zerg/stuntrack/internal/store"
)

// ClassCount is the number of stunted children in one class.
type ClassCount struct {
	Class string
	Count int
}

// Summary totals all stored records.
type Summary struct {
	Total    int
	Stunting int
	Normal   int
	Other    int
}

// Report contains precomputed data for recap rendering.
type Report struct {
	Records []model.StoredRecord
	ByClass []ClassCount
	Totals  Summary
}

// BuildReport reads every record and aggregates it.
// It returns store.ErrNoData unchanged when nothing was ever stored.
func BuildReport(ctx context.Context, st store.RecordStore) (Report, error) {
	records, err := st.ReadAll(ctx)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Records: records,
		ByClass: StuntingByClass(records),
		Totals:  Summarize(records),
	}, nil
}

// StuntingByClass counts Stunting records per class, ordered by class.
// Classes without stunted children are omitted.
func StuntingByClass(records []model.StoredRecord) []ClassCount {
	counts := map[string]int{}
	for _, rec := range records {
		if rec.Status != model.StatusStunting {
			continue
		}
		counts[rec.Class]++
	}
	out := make([]ClassCount, 0, len(counts))
	for class, n := range counts {
		out = append(out, ClassCount{Class: class, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		return classLess(out[i].Class, out[j].Class)
	})
	return out
}

// Summarize counts records by status.
func Summarize(records []model.StoredRecord) Summary {
	s := Summary{Total: len(records)}
	for _, rec := range records {
		switch rec.Status {
		case model.StatusStunting:
			s.Stunting++
		case model.StatusNormal:
			s.Normal++
		default:
			s.Other++
		}
	}
	return s
}

// RenderSummary prints the status totals.
func RenderSummary(w io.Writer, s Summary) error {
	if _, err := fmt.Fprintln(w, "Rekap Sekolah"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total anak: %d\n", s.Total); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Stunting: %d (%s)\n", s.Stunting, percent(s.Stunting, s.Total)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Normal: %d (%s)\n", s.Normal, percent(s.Normal, s.Total)); err != nil {
		return err
	}
	if s.Other > 0 {
		if _, err := fmt.Fprintf(w, "Lainnya: %d\n", s.Other); err != nil {
			return err
		}
	}
	return nil
}

func percent(n, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(n)*100/float64(total))
}

// classLess orders numeric class labels numerically, then everything else
// lexically after them.
func classLess(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	switch {
	case aerr == nil && berr == nil:
		return ai < bi
	case aerr == nil:
		return true
	case berr == nil:
		return false
	default:
		return a < b
	}
}
