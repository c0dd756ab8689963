package models

import "time"

// HistoryEntry is a persisted record of one completed lookup.
type HistoryEntry struct {
	ID             string    `json:"id" db:"id"`
	OwnerID        string    `json:"ownerId" db:"owner_id"`
	RestaurantName string    `json:"restaurantName" db:"restaurant_name"`
	FoodCount      int       `json:"foodCount" db:"food_count"`
	MoreSafe       int       `json:"moreSafe" db:"more_safe"`
	Questionable   int       `json:"questionable" db:"questionable"`
	Avoid          int       `json:"avoid" db:"avoid"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}
