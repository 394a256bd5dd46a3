// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Sex identifies the reference column used for a child.
type Sex int

const (
	// SexUnknown is the zero value and never valid for lookups.
	SexUnknown Sex = iota
	// Male maps to the "L" (laki-laki) reference column.
	Male
	// Female maps to the "P" (perempuan) reference column.
	Female
)

// Code returns the single letter code used by the reference table.
func (s Sex) Code() string {
	switch s {
	case Male:
		return "L"
	case Female:
		return "P"
	default:
		return ""
	}
}

// Label returns the gender label shown in reports and stored rows.
func (s Sex) Label() string {
	switch s {
	case Male:
		return "Laki-laki"
	case Female:
		return "Perempuan"
	default:
		return ""
	}
}

// Valid reports whether s is Male or Female.
func (s Sex) Valid() bool {
	return s == Male || s == Female
}

// ParseSex accepts a code, a label or an English word.
func ParseSex(value string) (Sex, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "l", "laki-laki", "laki", "m", "male":
		return Male, nil
	case "p", "perempuan", "f", "female":
		return Female, nil
	default:
		return SexUnknown, fmt.Errorf("unknown sex %q (use L or P)", value)
	}
}

// Status is the screening label. Stored rows may carry any value.
type Status string

const (
	StatusStunting Status = "Stunting"
	StatusNormal   Status = "Normal"
)

// ChildSubmission is one filled-in form.
type ChildSubmission struct {
	Name      string
	BirthDate time.Time
	Sex       Sex
	HeightCm  float64
	WeightKg  float64
	Class     string
}

// AgeResult is the elapsed calendar duration since birth.
type AgeResult struct {
	Years        int
	Months       int
	Days         int
	DecimalYears float64
}

// ReferenceEntry holds reference height statistics for one age and sex.
type ReferenceEntry struct {
	AgeYears     int
	Sex          Sex
	MeanHeightCm float64
	SDHeightCm   float64
}

// ZScoreResult is a classified height-for-age Z-score.
type ZScoreResult struct {
	Value  float64
	Status Status
	Tip    string
}

// StoredRecord is one persisted row.
type StoredRecord struct {
	Name     string
	AgeText  string
	Sex      string
	Class    string
	HeightCm float64
	WeightKg float64
	HAZ      float64
	Status   Status
}

// Screening is the outcome of a successful pipeline run.
type Screening struct {
	Submission ChildSubmission
	Age        AgeResult
	AgeText    string
	ZScore     ZScoreResult
	Record     StoredRecord
	ReportPath string
}
