package challenge

import (
	"errors"
	"time"

	"github.com/repcoin-app/backend/internal/reps"
)

var (
	ErrChampionNotFound  = errors.New("champion not found")
	ErrUnknownKind       = errors.New("unknown challenge kind")
	ErrInvalidSubmission = errors.New("invalid submission")
)

// MaxPhotoBytes caps the decoded champion photo size.
const MaxPhotoBytes = 5 << 20

// Champion is the record holder for one exercise kind. The photo travels
// base64 encoded over the wire and is stored raw.
type Champion struct {
	ExerciseType    reps.ExerciseType `json:"exercise_type"`
	ChampionName    string            `json:"champion_name"`
	ChampionPhoto   []byte            `json:"champion_photo,omitempty"`
	BestReps        int               `json:"best_reps"`
	BestTimeSeconds float64           `json:"best_time_seconds"`
	AchievedAt      time.Time         `json:"achieved_at"`
}

// ChampionView has the same shape whether a champion exists or not.
type ChampionView struct {
	ExerciseType    string     `json:"exercise_type"`
	HasChampion     bool       `json:"has_champion"`
	ChampionName    string     `json:"champion_name"`
	ChampionPhoto   []byte     `json:"champion_photo,omitempty"`
	BestReps        int        `json:"best_reps"`
	BestTimeSeconds float64    `json:"best_time_seconds"`
	AchievedAt      *time.Time `json:"achieved_at,omitempty"`
}

type SubmitRequest struct {
	ExerciseType  string  `json:"exercise_type"`
	RepsCompleted int     `json:"reps_completed"`
	TimeSeconds   float64 `json:"time_seconds"`
	PlayerName    string  `json:"player_name"`
	PlayerPhoto   string  `json:"player_photo,omitempty"`
}

type SubmitResponse struct {
	Success         bool          `json:"success"`
	IsNewChampion   bool          `json:"is_new_champion"`
	Message         string        `json:"message"`
	CurrentChampion *ChampionView `json:"current_champion"`
}
