package domain

import "time"

const (
	RatingMin = 1
	RatingMax = 5
)

// Review is a buyer's rating of an owned game. One review per (author, game).
type Review struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	GameID    string    `json:"game_id" bson:"game_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Rating    int       `json:"rating" bson:"rating"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// AuditRecord captures a moderation decision or destructive admin operation.
type AuditRecord struct {
	ID        string    `bson:"_id,omitempty"`
	ActorID   string    `bson:"actor_id"`
	Action    string    `bson:"action"`
	TargetID  string    `bson:"target_id"`
	Detail    string    `bson:"detail,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}
