package handlers

import (
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/watchmarket/internal/models"
	"github.com/example/watchmarket/internal/services"
	"github.com/example/watchmarket/internal/store"
	"github.com/example/watchmarket/internal/utils"
)

// ProductHandler manages listing endpoints.
type ProductHandler struct {
	listings *store.ListingStore
	media    *services.MediaService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(listings *store.ListingStore, media *services.MediaService) *ProductHandler {
	return &ProductHandler{listings: listings, media: media}
}

type productRequest struct {
	BrandName   string `json:"brand_name" form:"brand_name"`
	Type        string `json:"type" form:"type"`
	Year        string `json:"year" form:"year"`
	ItemName    string `json:"item_name" form:"item_name"`
	Description string `json:"description" form:"description"`
	Condition   string `json:"condition" form:"condition"`
	ReferenceNo string `json:"reference_no" form:"reference_no"`
	Price       string `json:"price" form:"price"`
	Negotiation string `json:"negotiation" form:"negotiation"`
	Country     string `json:"country" form:"country"`
	Accessories string `json:"accessories" form:"accessories"`
	UserID      string `json:"user_id" form:"user_id"`
}

func (r *productRequest) toInput() store.ProductInput {
	in := store.ProductInput{
		BrandName:   r.BrandName,
		Type:        r.Type,
		Year:        r.Year,
		ItemName:    r.ItemName,
		Description: r.Description,
		Condition:   r.Condition,
		ReferenceNo: r.ReferenceNo,
		Country:     r.Country,
		Accessories: r.Accessories,
	}
	if r.Price != "" {
		if price, err := strconv.ParseFloat(r.Price, 64); err == nil {
			in.Price = price
		}
	}
	if r.Negotiation != "" {
		flag := r.Negotiation == "1" || r.Negotiation == "true"
		in.Negotiation = &flag
	}
	return in
}

// storeImages writes each supplied picture slot to the media sink and
// returns the stored paths. On failure the already written files are
// removed before the error is returned.
func (h *ProductHandler) storeImages(c *fiber.Ctx) (store.ProductImages, error) {
	var images store.ProductImages
	for slot := 1; slot <= models.ImageSlots; slot++ {
		file, err := c.FormFile(fmt.Sprintf("watch_pic%d", slot))
		if err != nil || file == nil {
			continue
		}
		path, err := h.media.Store(file, "images")
		if err != nil {
			h.removeImages(images)
			return images, err
		}
		images[slot-1] = path
	}
	return images, nil
}

func (h *ProductHandler) removeImages(images store.ProductImages) {
	for _, path := range images {
		if path == "" {
			continue
		}
		if err := h.media.Remove(path); err != nil {
			log.Printf("failed to remove orphaned upload %s: %v", path, err)
		}
	}
}

// AddProduct creates a new listing for its owner.
func (h *ProductHandler) AddProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	ownerID, err := uuid.Parse(req.UserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": fiber.Map{"user_id": "The user id field must be a valid id."},
		})
	}

	images, err := h.storeImages(c)
	if err != nil {
		return respondStoreError(c, err)
	}

	product, err := h.listings.Create(ownerID, req.toInput(), images)
	if err != nil {
		h.removeImages(images)
		return respondStoreError(c, err)
	}

	return respondOK(c, product, "Product added successfully")
}

// UpdateProduct replaces a listing's attributes; image slots without a new
// upload keep their prior value.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	images, err := h.storeImages(c)
	if err != nil {
		return respondStoreError(c, err)
	}

	product, err := h.listings.Update(id, req.toInput(), images)
	if err != nil {
		h.removeImages(images)
		return respondStoreError(c, err)
	}

	return respondOK(c, product, "Product updated successfully")
}

// GetData returns all listings with their owners resolved. Zero listings
// is an empty collection, not an error.
func (h *ProductHandler) GetData(c *fiber.Ctx) error {
	limit, offset := 0, 0
	if c.Query("limit") != "" {
		pg := utils.ParsePagination(c)
		limit, offset = pg.Limit, pg.Offset
	}

	products, err := h.listings.ListAll(limit, offset)
	if err != nil {
		return respondStoreError(c, err)
	}

	return respondOK(c, products, "Get all product data successfully")
}

// ShowData returns one listing by id.
func (h *ProductHandler) ShowData(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	product, err := h.listings.GetByID(id)
	if err != nil {
		return respondStoreError(c, err)
	}

	return respondOK(c, product, "Get product data successfully")
}

// GetDataUserWise returns the listings created by one user.
func (h *ProductHandler) GetDataUserWise(c *fiber.Ctx) error {
	ownerID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user_id")
	}

	products, err := h.listings.ListByOwner(ownerID)
	if err != nil {
		return respondStoreError(c, err)
	}

	return respondOK(c, products, "Get all product data for user successfully")
}

// GetHomePageData returns a user's listings with owner records resolved.
func (h *ProductHandler) GetHomePageData(c *fiber.Ctx) error {
	ownerID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user_id")
	}

	products, err := h.listings.ListForOwnerHomepage(ownerID)
	if err != nil {
		return respondStoreError(c, err)
	}

	return respondOK(c, products, "Get home page product data for user successfully")
}

// SearchProduct matches listings by brand or item name with a caller
// controlled sort order.
func (h *ProductHandler) SearchProduct(c *fiber.Ctx) error {
	query := c.Params("query")
	sortBy := c.Params("sortBy", store.SortNewest)

	products, err := h.listings.Search(query, sortBy)
	if err != nil {
		return respondStoreError(c, err)
	}

	return respondOK(c, products, "Search completed successfully")
}

// SearchProductByPriceAsc searches with ascending price order.
func (h *ProductHandler) SearchProductByPriceAsc(c *fiber.Ctx) error {
	products, err := h.listings.Search(c.Params("query"), store.SortPriceAsc)
	if err != nil {
		return respondStoreError(c, err)
	}
	return respondOK(c, products, "Search completed successfully")
}

// SearchProductByPriceDesc searches with descending price order.
func (h *ProductHandler) SearchProductByPriceDesc(c *fiber.Ctx) error {
	products, err := h.listings.Search(c.Params("query"), store.SortPriceDesc)
	if err != nil {
		return respondStoreError(c, err)
	}
	return respondOK(c, products, "Search completed successfully")
}

// ProductDetails returns a listing together with its inbound enquiries.
func (h *ProductHandler) ProductDetails(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("product_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product_id")
	}

	details, err := h.listings.Details(id)
	if err != nil {
		return respondStoreError(c, err)
	}

	return respondOK(c, details, "Get product details successfully")
}

// DeleteProduct soft-deletes a listing. Its enquiries remain queryable.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	product, err := h.listings.Delete(id)
	if err != nil {
		return respondStoreError(c, err)
	}

	return respondOK(c, product, "Product deleted successfully")
}
