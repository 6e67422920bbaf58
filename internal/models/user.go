package models

import "time"

// Registrant kinds. Individuals and companies share one table with a
// discriminant instead of the legacy parallel tables.
const (
	KindIndividual = "individual"
	KindCompany    = "company"
)

// User is the unified identity record for both registrant kinds.
type User struct {
	BaseModel
	Kind           string `json:"type"`
	UserName       string `json:"user_name"`
	CompanyName    string `json:"company_name"`
	Email          string `gorm:"uniqueIndex" json:"email"`
	ContactNumber  string `json:"contact_number"`
	Address        string `json:"address"`
	CompanyNumber  string `json:"company_number"`
	CompanyAddress string `json:"company_address"`
	PasswordHash   string `json:"-"`
	ProfilePhoto   string `json:"profile_photo"`
	DeviceToken    string `json:"device_token"`
	ExternalUserID string `json:"user_id"`
}

// DisplayName returns the kind-specific name of the registrant.
func (u *User) DisplayName() string {
	if u.Kind == KindCompany && u.CompanyName != "" {
		return u.CompanyName
	}
	return u.UserName
}

// EmailOTP keeps track of one-time codes sent to users. A code is redeemed
// at most once and expires after a short window.
type EmailOTP struct {
	BaseModel
	Email     string     `gorm:"index" json:"email"`
	Code      string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at"`
}
