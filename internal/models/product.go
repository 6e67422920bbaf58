package models

import "github.com/google/uuid"

// ImageSlots is the number of listing picture slots per product.
const ImageSlots = 6

// Product is one watch listing, owned by the user who created it.
type Product struct {
	BaseModel
	BrandName   string    `json:"brand_name"`
	Type        string    `json:"type"`
	Year        string    `json:"year"`
	ItemName    string    `json:"item_name"`
	Description string    `json:"description"`
	Condition   string    `json:"condition"`
	ReferenceNo string    `json:"reference_no"`
	Price       float64   `json:"price"`
	Negotiation bool      `json:"negotiation"`
	Country     string    `json:"country"`
	Accessories string    `json:"accessories"`
	WatchPic1   string    `json:"watch_pic1"`
	WatchPic2   string    `json:"watch_pic2"`
	WatchPic3   string    `json:"watch_pic3"`
	WatchPic4   string    `json:"watch_pic4"`
	WatchPic5   string    `json:"watch_pic5"`
	WatchPic6   string    `json:"watch_pic6"`
	UserID      uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Owner       *User     `gorm:"foreignKey:UserID" json:"user_detail,omitempty"`
}

// Pic returns the image path in slot n (1-based); empty when unset.
func (p *Product) Pic(n int) string {
	switch n {
	case 1:
		return p.WatchPic1
	case 2:
		return p.WatchPic2
	case 3:
		return p.WatchPic3
	case 4:
		return p.WatchPic4
	case 5:
		return p.WatchPic5
	case 6:
		return p.WatchPic6
	}
	return ""
}

// SetPic assigns the image path in slot n (1-based).
func (p *Product) SetPic(n int, path string) {
	switch n {
	case 1:
		p.WatchPic1 = path
	case 2:
		p.WatchPic2 = path
	case 3:
		p.WatchPic3 = path
	case 4:
		p.WatchPic4 = path
	case 5:
		p.WatchPic5 = path
	case 6:
		p.WatchPic6 = path
	}
}
