package wallet

// Wallet is the aggregate coin/rep view shown on the frontend home screen.
// It is computed from the rep and session history on every request, no
// snapshot isolation, the numbers may lag concurrent writes.
type Wallet struct {
	TotalCoins    int `json:"total_coins"`
	TotalPushups  int `json:"total_pushups"`
	TotalSitups   int `json:"total_situps"`
	SessionsCount int `json:"sessions_count"`
}
