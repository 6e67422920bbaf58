package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/watchmarket/internal/config"
	"github.com/example/watchmarket/internal/middleware"
	"github.com/example/watchmarket/internal/services"
	"github.com/example/watchmarket/internal/store"
	"github.com/example/watchmarket/internal/utils"
)

// AuthHandler bundles dependencies for identity endpoints.
type AuthHandler struct {
	identity *store.IdentityStore
	media    *services.MediaService
	mail     *services.MailService
	cfg      *config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(identity *store.IdentityStore, media *services.MediaService, mail *services.MailService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{identity: identity, media: media, mail: mail, cfg: cfg}
}

type registerRequest struct {
	Type           string `json:"type" form:"type"`
	UserName       string `json:"user_name" form:"user_name"`
	CompanyName    string `json:"company_name" form:"company_name"`
	Email          string `json:"email" form:"email"`
	ContactNumber  string `json:"contact_number" form:"contact_number"`
	Address        string `json:"address" form:"address"`
	CompanyNumber  string `json:"company_number" form:"company_number"`
	CompanyAddress string `json:"company_address" form:"company_address"`
	Password       string `json:"password" form:"password"`
	CPassword      string `json:"c_password" form:"c_password"`
}

// Register creates a new individual or company account.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	// The photo is written to the media sink before the insert; if the
	// insert fails the upload is removed again so nothing is orphaned.
	var photoPath string
	if file, err := c.FormFile("profile_photo"); err == nil && file != nil {
		path, err := h.media.Store(file, "profile_photo")
		if err != nil {
			return respondStoreError(c, err)
		}
		photoPath = path
	}

	user, err := h.identity.Register(store.RegisterInput{
		Kind:            req.Type,
		UserName:        req.UserName,
		CompanyName:     req.CompanyName,
		Email:           req.Email,
		ContactNumber:   req.ContactNumber,
		Address:         req.Address,
		CompanyNumber:   req.CompanyNumber,
		CompanyAddress:  req.CompanyAddress,
		Password:        req.Password,
		ConfirmPassword: req.CPassword,
		ProfilePhoto:    photoPath,
	})
	if err != nil {
		if photoPath != "" {
			if rmErr := h.media.Remove(photoPath); rmErr != nil {
				log.Printf("failed to remove orphaned upload %s: %v", photoPath, rmErr)
			}
		}
		return respondStoreError(c, err)
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, h.cfg.TokenExpires)
	if err != nil {
		return respondStoreError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    user,
		"token":   token,
		"message": "User registered successfully",
	})
}

type loginRequest struct {
	Email       string `json:"email" form:"email"`
	Password    string `json:"password" form:"password"`
	DeviceToken string `json:"device_token" form:"device_token"`
	UserID      string `json:"user_id" form:"user_id"`
}

// Login authenticates a user and refreshes the stored device token. The
// failure message never distinguishes an unknown email from a wrong
// password.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.identity.Login(req.Email, req.Password, req.DeviceToken, req.UserID)
	if err != nil {
		if err == store.ErrInvalidCredentials {
			return c.JSON(fiber.Map{
				"success": false,
				"message": "Login failed",
			})
		}
		return respondStoreError(c, err)
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, h.cfg.TokenExpires)
	if err != nil {
		return respondStoreError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    user,
		"token":   token,
		"message": "Login successful",
	})
}

// CurrentUser returns the authenticated user's record.
func (h *AuthHandler) CurrentUser(c *fiber.Ctx) error {
	id, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "missing token")
	}

	user, err := h.identity.GetByID(id)
	if err != nil {
		return respondStoreError(c, err)
	}

	return c.JSON(user)
}

type checkEmailRequest struct {
	Email string `json:"email" form:"email"`
}

// CheckEmailUniqueness reports whether an email is still free.
func (h *AuthHandler) CheckEmailUniqueness(c *fiber.Ctx) error {
	var req checkEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.identity.CheckEmail(req.Email)
	if err != nil {
		return respondStoreError(c, err)
	}

	message := "Email is unique."
	if !result.Unique {
		message = "Email already exists."
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
		"message": message,
	})
}

// GetUserData returns all users. The limit query param enables pagination;
// without it the full population is returned.
func (h *AuthHandler) GetUserData(c *fiber.Ctx) error {
	limit, offset := 0, 0
	if c.Query("limit") != "" {
		pg := utils.ParsePagination(c)
		limit, offset = pg.Limit, pg.Offset
	}

	users, err := h.identity.ListAll(limit, offset)
	if err != nil {
		return respondStoreError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    users,
		"message": "Get all Users data successfully",
	})
}

// ShowUserData returns one user by id.
func (h *AuthHandler) ShowUserData(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	user, err := h.identity.GetByID(id)
	if err != nil {
		return respondStoreError(c, err)
	}

	return respondOK(c, user, "Get the User data successfully")
}

// DeleteUser soft-deletes a user by id.
func (h *AuthHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	user, err := h.identity.Delete(id)
	if err != nil {
		return respondStoreError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User deleted successfully",
		"data":    user,
	})
}

type updatePasswordRequest struct {
	Password  string `json:"password" form:"password"`
	CPassword string `json:"c_password" form:"c_password"`
}

// UpdatePassword replaces a user's password without a current-password
// check. Used by the OTP-backed reset flow.
func (h *AuthHandler) UpdatePassword(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.identity.UpdatePassword(id, req.Password, req.CPassword)
	if err != nil {
		return respondStoreError(c, err)
	}

	return respondOK(c, user, "Password updated successfully")
}

type changePasswordRequest struct {
	EnteredPassword string `json:"enteredPassword" form:"enteredPassword"`
	NewPassword     string `json:"newPassword" form:"newPassword"`
}

// ChangePassword replaces a user's password after verifying the current one.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.identity.ChangePassword(id, req.EnteredPassword, req.NewPassword)
	if err != nil {
		return respondStoreError(c, err)
	}

	return respondOK(c, user, "Password updated successfully")
}

type sendOTPRequest struct {
	Email string `json:"email" form:"email"`
}

// SendOTP issues a one-time code and dispatches it by email. Delivery
// failures are logged rather than surfaced; the code stays redeemable.
func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req sendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	otp, err := h.identity.IssueOTP(req.Email)
	if err != nil {
		return respondStoreError(c, err)
	}

	if err := h.mail.SendOTP(otp.Email, otp.Code, int(h.cfg.OTPExpires.Minutes())); err != nil {
		log.Printf("failed to send OTP mail to %s: %v", otp.Email, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "OTP sent successfully.",
	})
}

type verifyOTPRequest struct {
	Email string `json:"email" form:"email"`
	Code  string `json:"code" form:"code"`
}

// VerifyOTP redeems a previously issued one-time code.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.identity.RedeemOTP(req.Email, req.Code); err != nil {
		return respondStoreError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "OTP verified successfully.",
	})
}
