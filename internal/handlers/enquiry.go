package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/watchmarket/internal/services"
	"github.com/example/watchmarket/internal/store"
)

// EnquiryHandler manages the enquiry workflow endpoints.
type EnquiryHandler struct {
	enquiries *store.EnquiryWorkflow
	telegram  *services.TelegramService
}

// NewEnquiryHandler constructs an EnquiryHandler.
func NewEnquiryHandler(enquiries *store.EnquiryWorkflow, telegram *services.TelegramService) *EnquiryHandler {
	return &EnquiryHandler{enquiries: enquiries, telegram: telegram}
}

type enquiryRequest struct {
	WatchID string `json:"watch_id" form:"watch_id"`
	UserID  string `json:"user_id" form:"user_id"`
	Price   string `json:"price" form:"price"`
}

// AddEnquiry records a price enquiry against a listing. Both the listing
// and the enquiring user must resolve or nothing is written.
func (h *EnquiryHandler) AddEnquiry(c *fiber.Ctx) error {
	var req enquiryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	watchID, err := uuid.Parse(req.WatchID)
	if err != nil {
		return respondNotFound(c, "Invalid product or user details.")
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return respondNotFound(c, "Invalid product or user details.")
	}

	var price float64
	if req.Price != "" {
		if parsed, err := strconv.ParseFloat(req.Price, 64); err == nil {
			price = parsed
		}
	}

	detail, err := h.enquiries.Create(watchID, userID, price)
	if err != nil {
		return respondStoreError(c, err)
	}

	go h.notifyAdmin(detail)

	return c.JSON(fiber.Map{
		"success":        true,
		"data":           detail.Enquiry,
		"productDetails": detail.Product,
		"userDetails":    detail.User,
		"error_flag":     0,
		"message":        "Enquiry added successfully",
	})
}

func (h *EnquiryHandler) notifyAdmin(detail *store.EnquiryDetail) {
	n := services.EnquiryNotification{
		EnquiryID:    detail.Enquiry.ID.String(),
		OfferedPrice: detail.Enquiry.Price,
	}
	if detail.Product != nil {
		n.ItemName = detail.Product.ItemName
		n.BrandName = detail.Product.BrandName
		n.ListedPrice = detail.Product.Price
		if detail.Product.Owner != nil {
			n.OwnerName = detail.Product.Owner.DisplayName()
		}
	}
	if detail.User != nil {
		n.EnquirerName = detail.User.DisplayName()
		n.EnquirerEmail = detail.User.Email
	}

	if err := h.telegram.NotifyNewEnquiry(n); err != nil {
		log.Printf("failed to notify admin about enquiry %s: %v", n.EnquiryID, err)
	}
}

// GetEnquiryDetails returns all inbound enquiries for a product owner,
// with the referenced products and enquiring users.
func (h *EnquiryHandler) GetEnquiryDetails(c *fiber.Ctx) error {
	ownerID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user_id")
	}

	result, err := h.enquiries.ByOwner(ownerID)
	if err != nil {
		return respondStoreError(c, err)
	}

	return c.JSON(fiber.Map{
		"enquiries": result.Enquiries,
		"products":  result.Products,
		"users":     result.Users,
	})
}

// GetSingleEnquiry returns one enquiry with its product and enquiring user.
func (h *EnquiryHandler) GetSingleEnquiry(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	detail, err := h.enquiries.GetByID(id)
	if err != nil {
		return respondStoreError(c, err)
	}

	return respondOK(c, detail, "Get Enquiry successfully")
}

// DeleteEnquiry soft-deletes an enquiry by id.
func (h *EnquiryHandler) DeleteEnquiry(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	enquiry, err := h.enquiries.Delete(id)
	if err != nil {
		return respondStoreError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Enquiry deleted successfully",
		"data":    enquiry,
	})
}
