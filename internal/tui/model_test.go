package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/stuntrack/internal/model"
	"github.com/verte-zerg/stuntrack/internal/screening"
)

type fakeRunner struct {
	got    []model.ChildSubmission
	result model.Screening
	err    error
}

func (f *fakeRunner) Run(_ context.Context, sub model.ChildSubmission) (model.Screening, error) {
	f.got = append(f.got, sub)
	return f.result, f.err
}

func fillForm(m *Model, values [fieldCount]string) {
	for i, v := range values {
		m.inputs[i].SetValue(v)
	}
	m.setFocus(fieldClass)
}

func pressEnter(t *testing.T, m *Model) {
	t.Helper()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected submit command")
	}
	m.Update(cmd())
}

func TestParseForm(t *testing.T) {
	sub, err := ParseForm([fieldCount]string{" Budi ", "2020-10-19", "l", "120,5", "21", "1"})
	if err != nil {
		t.Fatalf("parse form: %v", err)
	}
	if sub.Name != "Budi" || sub.Sex != model.Male || sub.HeightCm != 120.5 || sub.WeightKg != 21 || sub.Class != "1" {
		t.Fatalf("unexpected submission: %+v", sub)
	}
	if !sub.BirthDate.Equal(time.Date(2020, time.October, 19, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected birth date: %v", sub.BirthDate)
	}

	bad := [][fieldCount]string{
		{"", "2020-10-19", "L", "120", "21", "1"},
		{"Budi", "19/10/2020", "L", "120", "21", "1"},
		{"Budi", "2020-10-19", "X", "120", "21", "1"},
		{"Budi", "2020-10-19", "L", "tinggi", "21", "1"},
		{"Budi", "2020-10-19", "L", "120", "", "1"},
		{"Budi", "2020-10-19", "L", "nan", "21", "1"},
		{"Budi", "2020-10-19", "L", "NaN", "21", "1"},
		{"Budi", "2020-10-19", "L", "120", "+Inf", "1"},
		{"Budi", "2020-10-19", "L", "infinity", "21", "1"},
	}
	for _, values := range bad {
		if _, err := ParseForm(values); err == nil {
			t.Fatalf("expected error for %v", values)
		}
	}
}

func TestSubmitShowsResult(t *testing.T) {
	runner := &fakeRunner{result: model.Screening{
		Age:        model.AgeResult{Years: 6, DecimalYears: 6},
		AgeText:    "6 tahun 0 bulan 0 hari",
		ZScore:     model.ZScoreResult{Value: -2.98, Status: model.StatusStunting, Tip: "Perlu peningkatan gizi"},
		ReportPath: "/tmp/Budi_gizi.pdf",
	}}
	m := NewModel(runner)
	fillForm(m, [fieldCount]string{"Budi", "2020-10-19", "L", "100", "18", "2"})
	pressEnter(t, m)

	if len(runner.got) != 1 {
		t.Fatalf("expected one run, got %d", len(runner.got))
	}
	out := m.View()
	for _, want := range []string{"6 tahun 0 bulan 0 hari", "Status: Stunting", "-2.98", "Perlu peningkatan gizi", "/tmp/Budi_gizi.pdf"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
}

func TestSubmitOutOfRangeShowsWarning(t *testing.T) {
	runner := &fakeRunner{
		result: model.Screening{AgeText: "12 tahun 1 bulan 0 hari", Age: model.AgeResult{Years: 12, Months: 1, DecimalYears: 12.08}},
		err:    screening.ErrAgeOutOfRange,
	}
	m := NewModel(runner)
	fillForm(m, [fieldCount]string{"Rina", "2014-09-19", "P", "150", "40", "6"})
	pressEnter(t, m)

	out := m.View()
	if !strings.Contains(out, screening.OutOfRangeMessage) {
		t.Fatalf("expected warning in view:\n%s", out)
	}
	if strings.Contains(out, "Status:") {
		t.Fatalf("did not expect a status line:\n%s", out)
	}
}

func TestSubmitInvalidFormSkipsRunner(t *testing.T) {
	runner := &fakeRunner{}
	m := NewModel(runner)
	fillForm(m, [fieldCount]string{"Budi", "kemarin", "L", "120", "21", "1"})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatalf("expected no command for invalid form")
	}
	if len(runner.got) != 0 {
		t.Fatalf("runner should not be called")
	}
	if !strings.Contains(m.View(), "YYYY-MM-DD") {
		t.Fatalf("expected date error in view")
	}
}

func TestFocusWraps(t *testing.T) {
	m := NewModel(&fakeRunner{})
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != fieldClass {
		t.Fatalf("expected focus on last field, got %d", m.focus)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != fieldName {
		t.Fatalf("expected focus on first field, got %d", m.focus)
	}
}

func TestRenderGauge(t *testing.T) {
	if got := renderGauge(0.5, 4); got != "[██░░]" {
		t.Fatalf("unexpected gauge %q", got)
	}
	if got := renderGauge(1, 4); got != "[████]" {
		t.Fatalf("unexpected gauge %q", got)
	}
}
