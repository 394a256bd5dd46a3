// Package screening runs a form submission through classification,
// persistence and report rendering.
package screening

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/stuntrack/internal/growth"
	"github.com/verte-zerg/stuntrack/internal/model"
	"github.com/verte-zerg/stuntrack/internal/report"
	"github.com/verte-zerg/stuntrack/internal/store"
)

// Form bounds.
const (
	MinHeightCm = 50.0
	MaxHeightCm = 180.0
	MinWeightKg = 10.0
	MaxWeightKg = 80.0
)

// EarliestBirthDate is the oldest birth date the form accepts.
var EarliestBirthDate = time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC)

// Classes lists the accepted class labels.
var Classes = []string{"1", "2", "3", "4", "5", "6"}

// ErrAgeOutOfRange means the child's age has no reference entry.
var ErrAgeOutOfRange = errors.New("age outside the reference table range")

// OutOfRangeMessage is shown to the user for ErrAgeOutOfRange.
const OutOfRangeMessage = "Usia belum dalam rentang WHO (5–10 tahun)."

// ValidationError reports a form field outside its bounds.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ReportRenderer writes a report artifact and returns its location.
type ReportRenderer interface {
	Render(r report.Report) (string, error)
}

// Service runs screenings. Reports may be nil to skip rendering.
type Service struct {
	Store   store.RecordStore
	Reports ReportRenderer
	Now     func() time.Time
	Logger  *zap.Logger
}

// NewService returns a service using the wall clock.
func NewService(st store.RecordStore, reports ReportRenderer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		Store:   st,
		Reports: reports,
		Now:     time.Now,
		Logger:  logger,
	}
}

// Evaluate computes age and Z-score without touching the store.
func (s *Service) Evaluate(sub model.ChildSubmission) (model.Screening, error) {
	today := s.now()
	if err := Validate(sub, today); err != nil {
		return model.Screening{}, err
	}
	age := growth.ComputeAge(sub.BirthDate, today)
	result := model.Screening{
		Submission: sub,
		Age:        age,
		AgeText:    growth.AgeText(age),
	}
	z, ok := growth.Classify(sub.HeightCm, growth.AgeBucket(age), sub.Sex)
	if !ok {
		return result, ErrAgeOutOfRange
	}
	result.ZScore = z
	result.Record = model.StoredRecord{
		Name:     sub.Name,
		AgeText:  result.AgeText,
		Sex:      sub.Sex.Label(),
		Class:    sub.Class,
		HeightCm: sub.HeightCm,
		WeightKg: sub.WeightKg,
		HAZ:      z.Value,
		Status:   z.Status,
	}
	return result, nil
}

// Run evaluates a submission, appends the record and renders the report.
// On ErrAgeOutOfRange the returned screening still carries the computed age.
func (s *Service) Run(ctx context.Context, sub model.ChildSubmission) (model.Screening, error) {
	result, err := s.Evaluate(sub)
	if err != nil {
		if errors.Is(err, ErrAgeOutOfRange) {
			s.logger().Info("age outside reference table",
				zap.String("name", sub.Name),
				zap.Float64("age_years", result.Age.DecimalYears))
		}
		return result, err
	}

	if err := s.Store.Append(ctx, result.Record); err != nil {
		return result, fmt.Errorf("failed to store record: %w", err)
	}
	s.logger().Debug("record appended",
		zap.String("name", result.Record.Name),
		zap.String("class", result.Record.Class),
		zap.Float64("haz", result.Record.HAZ),
		zap.String("status", string(result.Record.Status)))

	if s.Reports != nil {
		path, err := s.Reports.Render(report.FromScreening(result))
		if err != nil {
			return result, fmt.Errorf("failed to render report: %w", err)
		}
		result.ReportPath = path
		s.logger().Debug("report written", zap.String("path", path))
	}
	return result, nil
}

// Validate checks a submission against the form bounds.
func Validate(sub model.ChildSubmission, today time.Time) error {
	if strings.TrimSpace(sub.Name) == "" {
		return &ValidationError{Field: "Nama", Message: "must not be empty"}
	}
	if sub.BirthDate.IsZero() {
		return &ValidationError{Field: "Tanggal Lahir", Message: "is required"}
	}
	birth := dateOnly(sub.BirthDate)
	if birth.Before(EarliestBirthDate) {
		return &ValidationError{Field: "Tanggal Lahir", Message: "must be on or after " + EarliestBirthDate.Format("2006-01-02")}
	}
	if birth.After(dateOnly(today)) {
		return &ValidationError{Field: "Tanggal Lahir", Message: "must not be in the future"}
	}
	if !sub.Sex.Valid() {
		return &ValidationError{Field: "Jenis Kelamin", Message: "must be L or P"}
	}
	if !inRange(sub.HeightCm, MinHeightCm, MaxHeightCm) {
		return &ValidationError{Field: "Tinggi", Message: fmt.Sprintf("must be between %.0f and %.0f cm", MinHeightCm, MaxHeightCm)}
	}
	if !inRange(sub.WeightKg, MinWeightKg, MaxWeightKg) {
		return &ValidationError{Field: "Berat", Message: fmt.Sprintf("must be between %.0f and %.0f kg", MinWeightKg, MaxWeightKg)}
	}
	if !slices.Contains(Classes, sub.Class) {
		return &ValidationError{Field: "Kelas", Message: "must be one of " + strings.Join(Classes, ", ")}
	}
	return nil
}

// inRange reports whether v is a finite number within [lo, hi].
func inRange(v, lo, hi float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v >= lo && v <= hi
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
