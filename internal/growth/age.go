// Package growth implements age calculation and height-for-age screening.
package growth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/verte-zerg/stuntrack/internal/model"
)

const daysPerYear = 365.25

// ComputeAge returns the calendar duration between birth and ref.
// A birth date after ref yields the zero result.
func ComputeAge(birth, ref time.Time) model.AgeResult {
	birth = dateOnly(birth)
	ref = dateOnly(ref)
	if birth.After(ref) {
		return model.AgeResult{}
	}

	months := (ref.Year()-birth.Year())*12 + int(ref.Month()) - int(birth.Month())
	anchor := addMonthsClamped(birth, months)
	if anchor.After(ref) {
		months--
		anchor = addMonthsClamped(birth, months)
	}
	days := int(ref.Sub(anchor).Hours() / 24)

	age := model.AgeResult{
		Years:  months / 12,
		Months: months % 12,
		Days:   days,
	}
	age.DecimalYears = Round2(float64(age.Years) + float64(age.Months)/12 + float64(age.Days)/daysPerYear)
	return age
}

// AgeBucket returns the integer year used to index the reference table.
func AgeBucket(age model.AgeResult) int {
	return age.Years
}

// AgeText renders the age the way it is stored and printed.
func AgeText(age model.AgeResult) string {
	return fmt.Sprintf("%d tahun %d bulan %d hari", age.Years, age.Months, age.Days)
}

// Round2 rounds v to two decimals using the exact binary value, with ties
// going to the even digit.
func Round2(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return r
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// addMonthsClamped adds n months, clamping the day to the target month's end
// instead of overflowing into the next month like time.AddDate does.
func addMonthsClamped(t time.Time, n int) time.Time {
	total := int(t.Month()) - 1 + n
	year := t.Year() + total/12
	month := total % 12
	if month < 0 {
		month += 12
		year--
	}
	day := t.Day()
	if last := daysIn(year, time.Month(month+1)); day > last {
		day = last
	}
	return time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
