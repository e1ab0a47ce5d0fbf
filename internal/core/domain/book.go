package domain

import "time"

// Book is a catalogue entry managed by admins and browsed by the storefront.
type Book struct {
	ID          string    `json:"id" bson:"-"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Category    string    `json:"category" bson:"category"`
	Trending    bool      `json:"trending" bson:"trending"`
	CoverImage  string    `json:"cover_image" bson:"cover_image"`
	OldPrice    float64   `json:"old_price" bson:"old_price"`
	NewPrice    float64   `json:"new_price" bson:"new_price"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}
