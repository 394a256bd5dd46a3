// Package report renders the per-child screening report.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/verte-zerg/stuntrack/internal/model"
)

// Title heads every report.
const Title = "Laporan Status Gizi - StunTrack SD"

const (
	FormatPDF  = "pdf"
	FormatText = "txt"
)

// Report holds everything printed on a report page.
type Report struct {
	Name     string
	AgeText  string
	Sex      model.Sex
	HeightCm float64
	WeightKg float64
	HAZ      float64
	Status   model.Status
	Tip      string
}

// FromScreening builds a report from a pipeline result.
func FromScreening(s model.Screening) Report {
	return Report{
		Name:     s.Submission.Name,
		AgeText:  s.AgeText,
		Sex:      s.Submission.Sex,
		HeightCm: s.Submission.HeightCm,
		WeightKg: s.Submission.WeightKg,
		HAZ:      s.ZScore.Value,
		Status:   s.ZScore.Status,
		Tip:      s.ZScore.Tip,
	}
}

// Lines returns the report body, one entry per printed line.
func (r Report) Lines() []string {
	return []string{
		"Nama: " + r.Name,
		"Umur: " + r.AgeText,
		"Jenis Kelamin: " + r.Sex.Label(),
		"Tinggi Badan: " + formatNumber(r.HeightCm) + " cm",
		"Berat Badan: " + formatNumber(r.WeightKg) + " kg",
		"Z-score HAZ: " + formatNumber(r.HAZ),
		"Status: " + string(r.Status),
	}
}

// Advice returns the advisory line.
func (r Report) Advice() string {
	return "Saran: " + r.Tip
}

// WriteText prints the report as plain text.
func WriteText(w io.Writer, r Report) error {
	if _, err := fmt.Fprintln(w, Title); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	for _, line := range r.Lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, r.Advice())
	return err
}

// Renderer writes report files into Dir.
type Renderer struct {
	Dir    string
	Format string
}

// NewRenderer validates the format and returns a renderer.
func NewRenderer(dir, format string) (*Renderer, error) {
	if dir == "" {
		return nil, fmt.Errorf("report directory is empty")
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatPDF
	}
	if format != FormatPDF && format != FormatText {
		return nil, fmt.Errorf("unknown report format %q (use pdf or txt)", format)
	}
	return &Renderer{Dir: dir, Format: format}, nil
}

// Render writes the report and returns its path. An existing report with the
// same derived name is never overwritten.
func (rd *Renderer) Render(r Report) (string, error) {
	if err := os.MkdirAll(rd.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}
	file, path, err := createUnique(rd.Dir, BaseName(r.Name), rd.Format)
	if err != nil {
		return "", err
	}

	switch rd.Format {
	case FormatText:
		err = WriteText(file, r)
	default:
		err = writePDF(file, r)
	}
	if cerr := file.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return path, nil
}

// BaseName derives the file stem from a child's name.
func BaseName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return -1
		case ' ':
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		name = "anak"
	}
	return name + "_gizi"
}

func createUnique(dir, stem, ext string) (*os.File, string, error) {
	path := filepath.Join(dir, stem+"."+ext)
	for attempt := 0; attempt < 5; attempt++ {
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return file, path, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", fmt.Errorf("failed to create report: %w", err)
		}
		suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
		path = filepath.Join(dir, stem+"_"+suffix+"."+ext)
	}
	return nil, "", fmt.Errorf("failed to find a free report name for %s", stem)
}

func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
