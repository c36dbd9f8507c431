package store

import "errors"

var ErrItemNotFound = errors.New("store item not found")

// Item names are fixed, the catalog is seeded at deploy time.
const (
	ItemBadge   = "badge"
	ItemPremium = "premium"
)

type StoreItem struct {
	Name string `json:"name"`
	Cost int    `json:"cost"`
}

type ItemView struct {
	Name     string `json:"name"`
	Cost     int    `json:"cost"`
	Unlocked bool   `json:"unlocked"`
}

// StoreView is the catalog plus the spendable point balance.
type StoreView struct {
	Items  []ItemView `json:"items"`
	Points int        `json:"points"`
}

type PurchaseRequest struct {
	Item     string `json:"item"`
	Username string `json:"username,omitempty"`
}

type PurchaseResponse struct {
	Success         bool   `json:"success"`
	Item            string `json:"item"`
	ItemUnlocked    bool   `json:"item_unlocked"`
	PointsRemaining int    `json:"points_remaining"`
	Message         string `json:"message"`
}
