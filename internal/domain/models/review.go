package models

import "time"

// Review - отзыв покупателя на объявление.
type Review struct {
	ID               int64     `json:"id"`
	ListingID        int64     `json:"listing_id"`
	Rating           int       `json:"rating"`
	Comment          string    `json:"comment"`
	ReviewerUsername string    `json:"reviewer_username,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
