package domain

import "time"

// Entitlement is durable proof that a user may download a game. At most one
// entitlement exists per (user, game) pair; the purchase price is frozen at
// the moment of checkout and never tracks later listing price changes.
type Entitlement struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	UserID     string    `json:"user_id" bson:"user_id"`
	GameID     string    `json:"game_id" bson:"game_id"`
	PurchaseID string    `json:"purchase_id,omitempty" bson:"purchase_id,omitempty"`
	PricePaid  float64   `json:"price_paid" bson:"price_paid"`
	Free       bool      `json:"free" bson:"free"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// PurchaseItem is a single game line on a purchase, at the price charged.
type PurchaseItem struct {
	GameID string  `json:"game_id" bson:"game_id"`
	Title  string  `json:"title" bson:"title"`
	Price  float64 `json:"price" bson:"price"`
}

// Purchase is an immutable checkout receipt.
type Purchase struct {
	ID            string         `json:"id" bson:"_id,omitempty"`
	UserID        string         `json:"user_id" bson:"user_id"`
	OrderNumber   string         `json:"order_number" bson:"order_number"`
	Items         []PurchaseItem `json:"items" bson:"items"`
	Subtotal      float64        `json:"subtotal" bson:"subtotal"`
	Tax           float64        `json:"tax" bson:"tax"`
	Total         float64        `json:"total" bson:"total"`
	PaymentMethod string         `json:"payment_method" bson:"payment_method"`
	CreatedAt     time.Time      `json:"created_at" bson:"created_at"`
}

// DownloadRecord logs a single authorized download of an owned game.
type DownloadRecord struct {
	ID        string    `bson:"_id,omitempty"`
	UserID    string    `bson:"user_id"`
	GameID    string    `bson:"game_id"`
	IP        string    `bson:"ip,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}
