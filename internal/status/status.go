package status

import "time"

// StatusCheck is a client heartbeat record. Country is resolved from the
// caller IP on a best effort basis and may stay empty.
type StatusCheck struct {
	ID         int       `json:"id"`
	ClientName string    `json:"client_name"`
	Country    string    `json:"country,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
