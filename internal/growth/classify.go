package growth

import "github.com/verte-zerg/stuntrack/internal/model"

// StuntingThreshold is the HAZ below which a child is classified as stunted.
const StuntingThreshold = -2.0

const (
	tipStunting = "Perlu peningkatan gizi, tidur cukup, dan cek rutin ke puskesmas."
	tipNormal   = "Pertumbuhan baik! Terus pertahankan pola makan sehat."
	tipUnknown  = "Data belum mencukupi atau perlu validasi ulang."
)

// Classify computes the height-for-age Z-score and its status.
// It returns false when no reference entry exists for the bucket.
func Classify(heightCm float64, ageBucket int, sex model.Sex) (model.ZScoreResult, bool) {
	ref, ok := Lookup(ageBucket, sex)
	if !ok {
		return model.ZScoreResult{}, false
	}
	z := Round2((heightCm - ref.MeanHeightCm) / ref.SDHeightCm)
	status := StatusFor(z)
	return model.ZScoreResult{
		Value:  z,
		Status: status,
		Tip:    Tip(status),
	}, true
}

// StatusFor maps a rounded Z-score to a status.
func StatusFor(z float64) model.Status {
	if z < StuntingThreshold {
		return model.StatusStunting
	}
	return model.StatusNormal
}

// Tip returns advice for any status label, including ones this package
// never produces.
func Tip(status model.Status) string {
	switch status {
	case model.StatusStunting:
		return tipStunting
	case model.StatusNormal:
		return tipNormal
	default:
		return tipUnknown
	}
}

// ProgressFraction maps z in [-3, 3] onto [0, 1] for a gauge.
func ProgressFraction(z float64) float64 {
	f := (z + 3) / 6
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
