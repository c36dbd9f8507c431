package sessions

import "time"

// WorkoutSession is a batch of reps recorded together after a workout,
// with the coin total earned in that workout.
type WorkoutSession struct {
	ID         int       `json:"id"`
	Pushups    int       `json:"pushups"`
	Situps     int       `json:"situps"`
	TotalCoins int       `json:"total_coins"`
	Timestamp  time.Time `json:"timestamp"`
}
