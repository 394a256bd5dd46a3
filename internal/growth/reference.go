package growth

import "github.com/verte-zerg/stuntrack/internal/model"

const (
	// MinAgeYears is the youngest bucket in the reference table.
	MinAgeYears = 5
	// MaxAgeYears is the oldest bucket in the reference table.
	MaxAgeYears = 10
)

type heightStat struct {
	mean float64
	sd   float64
}

// Illustrative values, not the WHO growth standard.
var referenceTable = [2][MaxAgeYears - MinAgeYears + 1]heightStat{
	// L
	{{109.2, 4.6}, {114.6, 4.9}, {120.0, 5.2}, {125.1, 5.5}, {130.1, 5.8}, {134.9, 6.0}},
	// P
	{{108.4, 4.5}, {113.7, 4.8}, {119.0, 5.1}, {124.2, 5.4}, {129.2, 5.7}, {134.0, 6.0}},
}

// Lookup returns the reference entry for an age bucket and sex.
func Lookup(ageBucket int, sex model.Sex) (model.ReferenceEntry, bool) {
	if !sex.Valid() || ageBucket < MinAgeYears || ageBucket > MaxAgeYears {
		return model.ReferenceEntry{}, false
	}
	stat := referenceTable[sexIndex(sex)][ageBucket-MinAgeYears]
	return model.ReferenceEntry{
		AgeYears:     ageBucket,
		Sex:          sex,
		MeanHeightCm: stat.mean,
		SDHeightCm:   stat.sd,
	}, true
}

func sexIndex(sex model.Sex) int {
	if sex == model.Female {
		return 1
	}
	return 0
}
