package analytics

import "github.com/shopspring/decimal"

// Level is the display severity of a single expense amount.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

var (
	mediumFloor = decimal.NewFromInt(1000)
	highFloor   = decimal.NewFromInt(5000)
)

// LevelFor classifies amount: below 1000 is low, below 5000 is medium,
// anything else is high.
func LevelFor(amount decimal.Decimal) Level {
	switch {
	case amount.LessThan(mediumFloor):
		return LevelLow
	case amount.LessThan(highFloor):
		return LevelMedium
	default:
		return LevelHigh
	}
}
