package rekap

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/stuntrack/internal/model"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Nama", "Kelas", "HAZ"}
	rows := [][]string{
		{"Ani", "1", "-2.50"},
		{"Bagus Pratama", "6", "0.10"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Nama           Kelas    HAZ" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Ani                1  -2.50" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Bagus Pratama      6   0.10" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestRenderRecords(t *testing.T) {
	var buf bytes.Buffer
	records := []model.StoredRecord{
		{Name: "Dewi", AgeText: "8 tahun 1 bulan 2 hari", Sex: "Perempuan", Class: "3", HeightCm: 112, WeightKg: 20.5, HAZ: -2.26, Status: model.StatusStunting},
	}
	if err := RenderRecords(&buf, records); err != nil {
		t.Fatalf("RenderRecords failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for _, col := range []string{"Nama", "Umur", "Gender", "Kelas", "Tinggi", "Berat", "HAZ", "Status"} {
		if !strings.Contains(lines[0], col) {
			t.Fatalf("header missing %q: %q", col, lines[0])
		}
	}
	for _, cell := range []string{"Dewi", "8 tahun 1 bulan 2 hari", "112.0", "20.5", "-2.26", "Stunting"} {
		if !strings.Contains(lines[1], cell) {
			t.Fatalf("row missing %q: %q", cell, lines[1])
		}
	}
}
