package store

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/watchmarket/internal/models"
)

// EnquiryWorkflow correlates a user, a product and a proposed price. It is
// a per-call workflow, not a persistent state machine.
type EnquiryWorkflow struct {
	db *gorm.DB
}

// NewEnquiryWorkflow constructs an EnquiryWorkflow.
func NewEnquiryWorkflow(db *gorm.DB) *EnquiryWorkflow {
	return &EnquiryWorkflow{db: db}
}

// EnquiryDetail is the denormalized view returned alongside an enquiry.
// Product or User may be nil when the referenced record no longer resolves.
type EnquiryDetail struct {
	Enquiry *models.Enquiry `json:"enq_data"`
	Product *models.Product `json:"product"`
	User    *models.User    `json:"user_data"`
}

// Create resolves both references before persisting; a dangling product or
// user id fails the whole operation and nothing is written. New enquiries
// start as pending.
func (w *EnquiryWorkflow) Create(watchID, userID uuid.UUID, price float64) (*EnquiryDetail, error) {
	var product models.Product
	if err := w.db.Preload("Owner").First(&product, "id = ?", watchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ReferenceError{Field: "watch_id"}
		}
		return nil, err
	}

	var user models.User
	if err := w.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ReferenceError{Field: "user_id"}
		}
		return nil, err
	}

	enquiry := models.Enquiry{
		WatchID: watchID,
		UserID:  userID,
		Price:   price,
		Status:  models.EnquiryPending,
	}
	if err := w.db.Create(&enquiry).Error; err != nil {
		return nil, err
	}

	return &EnquiryDetail{Enquiry: &enquiry, Product: &product, User: &user}, nil
}

// OwnerEnquiries is the product owner's view of inbound interest.
type OwnerEnquiries struct {
	Enquiries []models.Enquiry `json:"enquiries"`
	Products  []models.Product `json:"products"`
	Users     []models.User    `json:"users"`
}

// ByOwner collects all enquiries against the owner's listings. The chain
// fails fast: no products, no enquiries and no resolvable enquiring users
// are three distinct terminal conditions.
func (w *EnquiryWorkflow) ByOwner(ownerID uuid.UUID) (*OwnerEnquiries, error) {
	var products []models.Product
	if err := w.db.Where("user_id = ?", ownerID).Find(&products).Error; err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, NotFound("Products")
	}

	productIDs := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		productIDs = append(productIDs, p.ID)
	}

	var enquiries []models.Enquiry
	if err := w.db.Preload("User").
		Where("watch_id IN ?", productIDs).
		Find(&enquiries).Error; err != nil {
		return nil, err
	}
	if len(enquiries) == 0 {
		return nil, NotFound("Enquiries")
	}

	seen := map[uuid.UUID]struct{}{}
	userIDs := make([]uuid.UUID, 0, len(enquiries))
	for _, e := range enquiries {
		if _, ok := seen[e.UserID]; ok {
			continue
		}
		seen[e.UserID] = struct{}{}
		userIDs = append(userIDs, e.UserID)
	}

	var users []models.User
	if err := w.db.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, NotFound("Users")
	}

	return &OwnerEnquiries{Enquiries: enquiries, Products: products, Users: users}, nil
}

// GetByID loads one enquiry. NotFound applies to the enquiry itself only;
// a product or enquiring user that no longer resolves leaves the
// corresponding field nil instead of failing the call.
func (w *EnquiryWorkflow) GetByID(id uuid.UUID) (*EnquiryDetail, error) {
	var enquiry models.Enquiry
	if err := w.db.First(&enquiry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Enquiry")
		}
		return nil, err
	}

	detail := &EnquiryDetail{Enquiry: &enquiry}

	var product models.Product
	if err := w.db.First(&product, "id = ?", enquiry.WatchID).Error; err == nil {
		detail.Product = &product
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var user models.User
	if err := w.db.First(&user, "id = ?", enquiry.UserID).Error; err == nil {
		detail.User = &user
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return detail, nil
}

// Delete soft-deletes an enquiry; a repeated delete reports NotFound.
func (w *EnquiryWorkflow) Delete(id uuid.UUID) (*models.Enquiry, error) {
	var enquiry models.Enquiry
	if err := w.db.First(&enquiry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Enquiry")
		}
		return nil, err
	}

	if err := w.db.Delete(&enquiry).Error; err != nil {
		return nil, err
	}
	return &enquiry, nil
}
