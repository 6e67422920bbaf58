package models

import "github.com/google/uuid"

// Enquiry statuses. New enquiries start as pending; the product owner may
// accept or decline.
const (
	EnquiryPending  = "pending"
	EnquiryAccepted = "accepted"
	EnquiryDeclined = "declined"
)

// Enquiry is a price inquiry from one user against another user's listing.
// WatchID references the product; UserID references the enquiring user, not
// the product owner.
type Enquiry struct {
	BaseModel
	WatchID uuid.UUID `gorm:"type:uuid;index" json:"watch_id"`
	UserID  uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Price   float64   `json:"price"`
	Status  string    `json:"status"`
	User    *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
