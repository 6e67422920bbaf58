package store

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/watchmarket/internal/models"
)

// ListingStore owns product records, scoped by the creating user.
type ListingStore struct {
	db *gorm.DB
}

// NewListingStore constructs a ListingStore.
func NewListingStore(db *gorm.DB) *ListingStore {
	return &ListingStore{db: db}
}

// ProductInput carries the non-image listing attributes. Negotiation is a
// pointer so an absent flag can default to false.
type ProductInput struct {
	BrandName   string
	Type        string
	Year        string
	ItemName    string
	Description string
	Condition   string
	ReferenceNo string
	Price       float64
	Negotiation *bool
	Country     string
	Accessories string
}

// ProductImages maps listing picture slots 1..6 to stored media paths.
// An empty slot means the caller did not supply that picture.
type ProductImages [models.ImageSlots]string

func (in *ProductInput) validate(requireType bool) error {
	fields := map[string]string{}

	required := map[string]string{
		"brand_name":   in.BrandName,
		"item_name":    in.ItemName,
		"description":  in.Description,
		"condition":    in.Condition,
		"reference_no": in.ReferenceNo,
		"country":      in.Country,
	}
	if requireType {
		required["type"] = in.Type
	}

	for name, value := range required {
		if strings.TrimSpace(value) == "" {
			fields[name] = "The " + strings.ReplaceAll(name, "_", " ") + " field is required."
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Create validates the attributes, resolves the owner and persists the
// listing. Only supplied image slots are stored.
func (s *ListingStore) Create(ownerID uuid.UUID, in ProductInput, images ProductImages) (*models.Product, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}

	var owner models.User
	if err := s.db.First(&owner, "id = ?", ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ReferenceError{Field: "user_id"}
		}
		return nil, err
	}

	product := models.Product{
		BrandName:   in.BrandName,
		Type:        in.Type,
		Year:        in.Year,
		ItemName:    in.ItemName,
		Description: in.Description,
		Condition:   in.Condition,
		ReferenceNo: in.ReferenceNo,
		Price:       in.Price,
		Country:     in.Country,
		Accessories: in.Accessories,
		UserID:      ownerID,
	}
	if in.Negotiation != nil {
		product.Negotiation = *in.Negotiation
	}

	for slot := 1; slot <= models.ImageSlots; slot++ {
		if images[slot-1] != "" {
			product.SetPic(slot, images[slot-1])
		}
	}

	if err := s.db.Create(&product).Error; err != nil {
		return nil, err
	}

	return &product, nil
}

// Update performs a full replace of the non-image attributes and overwrites
// only the supplied image slots; the rest retain their prior value. The
// type field is not required here, unlike Create.
func (s *ListingStore) Update(id uuid.UUID, in ProductInput, images ProductImages) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Product")
		}
		return nil, err
	}

	if err := in.validate(false); err != nil {
		return nil, err
	}

	product.BrandName = in.BrandName
	product.Type = in.Type
	product.Year = in.Year
	product.ItemName = in.ItemName
	product.Description = in.Description
	product.Condition = in.Condition
	product.ReferenceNo = in.ReferenceNo
	product.Price = in.Price
	product.Country = in.Country
	product.Accessories = in.Accessories
	product.Negotiation = false
	if in.Negotiation != nil {
		product.Negotiation = *in.Negotiation
	}

	for slot := 1; slot <= models.ImageSlots; slot++ {
		if images[slot-1] != "" {
			product.SetPic(slot, images[slot-1])
		}
	}

	if err := s.db.Save(&product).Error; err != nil {
		return nil, err
	}

	return &product, nil
}

// GetByID loads one listing.
func (s *ListingStore) GetByID(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Product")
		}
		return nil, err
	}
	return &product, nil
}

// ListAll returns listings with their owners resolved. Zero matches is an
// empty slice, not an error. A non-positive limit returns everything.
func (s *ListingStore) ListAll(limit, offset int) ([]models.Product, error) {
	query := s.db.Preload("Owner").Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	products := []models.Product{}
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListByOwner returns the listings created by one user.
func (s *ListingStore) ListByOwner(ownerID uuid.UUID) ([]models.Product, error) {
	products := []models.Product{}
	if err := s.db.Where("user_id = ?", ownerID).
		Order("created_at desc").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListForOwnerHomepage returns an owner's listings with the owner record
// resolved on each row.
func (s *ListingStore) ListForOwnerHomepage(ownerID uuid.UUID) ([]models.Product, error) {
	products := []models.Product{}
	if err := s.db.Preload("Owner").
		Where("user_id = ?", ownerID).
		Order("created_at desc").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Sort orders accepted by Search.
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNewest    = "newest"
)

// Search matches the query against brand and item name, case-insensitively.
func (s *ListingStore) Search(query, sortBy string) ([]models.Product, error) {
	q := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	db := s.db.Preload("Owner").
		Where("LOWER(brand_name) LIKE ? OR LOWER(item_name) LIKE ?", q, q)

	switch sortBy {
	case SortPriceAsc:
		db = db.Order("price asc")
	case SortPriceDesc:
		db = db.Order("price desc")
	default:
		db = db.Order("created_at desc")
	}

	products := []models.Product{}
	if err := db.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ProductDetails bundles a listing with the interest it has attracted.
type ProductDetails struct {
	Product   *models.Product  `json:"product"`
	Enquiries []models.Enquiry `json:"enquiries"`
}

// Details loads one listing with its owner and inbound enquiries.
func (s *ListingStore) Details(id uuid.UUID) (*ProductDetails, error) {
	var product models.Product
	if err := s.db.Preload("Owner").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Product")
		}
		return nil, err
	}

	enquiries := []models.Enquiry{}
	if err := s.db.Preload("User").
		Where("watch_id = ?", id).
		Order("created_at desc").
		Find(&enquiries).Error; err != nil {
		return nil, err
	}

	return &ProductDetails{Product: &product, Enquiries: enquiries}, nil
}

// Delete soft-deletes a listing. Its enquiries are left in place and stay
// queryable by id.
func (s *ListingStore) Delete(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Product")
		}
		return nil, err
	}

	if err := s.db.Delete(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}
