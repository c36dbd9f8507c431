package reps

import "time"

// ExerciseType can be one of:
//   - pushup
//   - situp
type ExerciseType string

const (
	ExerciseTypePushup ExerciseType = "pushup"
	ExerciseTypeSitup  ExerciseType = "situp"
)

func (et ExerciseType) String() string {
	return string(et)
}

func (et ExerciseType) IsValid() bool {
	switch et {
	case ExerciseTypePushup, ExerciseTypeSitup:
		return true
	default:
		return false
	}
}

// Rep is a single counted repetition and the coins it earned.
type Rep struct {
	ID           int          `json:"id"`
	ExerciseType ExerciseType `json:"exercise_type"`
	CoinsEarned  int          `json:"coins_earned"`
	Timestamp    time.Time    `json:"timestamp"`
}

// Stats holds the aggregates over all recorded reps.
type Stats struct {
	TotalCoins   int `json:"total_coins"`
	TotalPushups int `json:"total_pushups"`
	TotalSitups  int `json:"total_situps"`
}
