package users

import "time"

// DefaultUsername is the single seeded tenant. The endpoints accept an
// optional username for forward compatibility and fall back to this one.
const DefaultUsername = "demo"

type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Points    int       `json:"points"`
	TotalReps int       `json:"total_reps"`
	CreatedAt time.Time `json:"created_at"`
}
