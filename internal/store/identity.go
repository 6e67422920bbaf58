package store

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/watchmarket/internal/models"
	"github.com/example/watchmarket/internal/utils"
)

// IdentityStore owns the unified user population: registration, login,
// password management and one-time codes.
type IdentityStore struct {
	db     *gorm.DB
	otpTTL time.Duration
}

// NewIdentityStore constructs an IdentityStore. otpTTL bounds the lifetime
// of issued one-time codes.
func NewIdentityStore(db *gorm.DB, otpTTL time.Duration) *IdentityStore {
	return &IdentityStore{db: db, otpTTL: otpTTL}
}

// RegisterInput carries the profile attributes for a new registrant.
// ProfilePhoto is the media path of an already stored upload, if any.
type RegisterInput struct {
	Kind            string
	UserName        string
	CompanyName     string
	Email           string
	ContactNumber   string
	Address         string
	CompanyNumber   string
	CompanyAddress  string
	Password        string
	ConfirmPassword string
	ProfilePhoto    string
}

func (in *RegisterInput) validate() error {
	fields := map[string]string{}

	if in.Email == "" {
		fields["email"] = "The email field is required."
	} else if _, err := mail.ParseAddress(in.Email); err != nil {
		fields["email"] = "The email must be a valid email address."
	}

	if in.Password == "" {
		fields["password"] = "The password field is required."
	} else if msg := utils.ValidatePassword(in.Password); msg != "" {
		fields["password"] = msg
	}

	if in.ConfirmPassword == "" {
		fields["c_password"] = "The confirm password field is required."
	} else if in.ConfirmPassword != in.Password {
		fields["c_password"] = "The confirm password and password must match."
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Register creates a new user. The email unique index is the authority on
// duplicates; a lost race surfaces as ErrDuplicateEmail rather than a
// corrupted population.
func (s *IdentityStore) Register(in RegisterInput) (*models.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	kind := in.Kind
	if kind == "" {
		kind = models.KindIndividual
		if in.CompanyName != "" {
			kind = models.KindCompany
		}
	}

	user := models.User{
		Kind:           kind,
		UserName:       in.UserName,
		CompanyName:    in.CompanyName,
		Email:          in.Email,
		ContactNumber:  in.ContactNumber,
		Address:        in.Address,
		CompanyNumber:  in.CompanyNumber,
		CompanyAddress: in.CompanyAddress,
		PasswordHash:   hash,
		ProfilePhoto:   in.ProfilePhoto,
	}

	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	return &user, nil
}

// CheckEmailResult reports whether an email is still free and, when taken,
// which user holds it.
type CheckEmailResult struct {
	Email  string     `json:"email"`
	Unique bool       `json:"unique"`
	UserID *uuid.UUID `json:"user_id"`
}

// CheckEmail is a pure lookup; it never mutates state. The lookup is
// unscoped so it agrees with the unique index, which still covers
// soft-deleted rows: an address held by a deleted account reports taken.
func (s *IdentityStore) CheckEmail(email string) (*CheckEmailResult, error) {
	if email == "" {
		return nil, &ValidationError{Fields: map[string]string{"email": "The email field is required."}}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, &ValidationError{Fields: map[string]string{"email": "The email must be a valid email address."}}
	}

	var user models.User
	err := s.db.Unscoped().Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &CheckEmailResult{Email: email, Unique: true}, nil
	}
	if err != nil {
		return nil, err
	}

	id := user.ID
	return &CheckEmailResult{Email: email, Unique: false, UserID: &id}, nil
}

// Login verifies credentials and, on success, refreshes the stored device
// token and external user id. Unknown email and wrong password return the
// same error.
func (s *IdentityStore) Login(email, password, deviceToken, externalUserID string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	user.DeviceToken = deviceToken
	user.ExternalUserID = externalUserID
	if err := s.db.Model(&user).Updates(map[string]interface{}{
		"device_token":     deviceToken,
		"external_user_id": externalUserID,
	}).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// UpdatePassword replaces the stored hash without checking the current
// password. Distinct from ChangePassword, which does.
func (s *IdentityStore) UpdatePassword(id uuid.UUID, password, confirm string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("User")
		}
		return nil, err
	}

	fields := map[string]string{}
	if password == "" {
		fields["password"] = "The password field is required."
	} else if msg := utils.ValidatePassword(password); msg != "" {
		fields["password"] = msg
	}
	if confirm == "" {
		fields["c_password"] = "The confirm password field is required."
	} else if confirm != password {
		fields["c_password"] = "The confirm password and password must match."
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Model(&user).Update("password_hash", hash).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// ChangePassword requires the current password to verify before replacing
// the hash.
func (s *IdentityStore) ChangePassword(id uuid.UUID, current, newPassword string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("User")
		}
		return nil, err
	}

	if !utils.CheckPassword(user.PasswordHash, current) {
		return nil, ErrPasswordMismatch
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Model(&user).Update("password_hash", hash).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByID loads one user.
func (s *IdentityStore) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("User")
		}
		return nil, err
	}
	return &user, nil
}

// ListAll returns the user population. A negative or zero limit returns
// everything.
func (s *IdentityStore) ListAll(limit, offset int) ([]models.User, error) {
	query := s.db.Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	users := []models.User{}
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Delete soft-deletes a user. The record stays behind its products and
// enquiries; a repeated delete reports NotFound.
func (s *IdentityStore) Delete(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("User")
		}
		return nil, err
	}

	if err := s.db.Delete(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// IssueOTP creates a one-time code for the given address. Any previous
// unredeemed codes for the address are expired first, so only the latest
// code can be redeemed. The caller is responsible for delivery.
func (s *IdentityStore) IssueOTP(email string) (*models.EmailOTP, error) {
	if email == "" {
		return nil, &ValidationError{Fields: map[string]string{"email": "The email field is required."}}
	}

	code, err := generateOTPCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate code: %w", err)
	}

	if err := s.db.Model(&models.EmailOTP{}).
		Where("email = ? AND used_at IS NULL", email).
		Update("expires_at", time.Now()).Error; err != nil {
		return nil, err
	}

	otp := models.EmailOTP{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().Add(s.otpTTL),
	}
	if err := s.db.Create(&otp).Error; err != nil {
		return nil, err
	}

	return &otp, nil
}

// RedeemOTP marks the latest code for the address as used. Codes are
// single-use and expire after the configured window.
func (s *IdentityStore) RedeemOTP(email, code string) error {
	var otp models.EmailOTP
	err := s.db.Where("email = ? AND used_at IS NULL", email).
		Order("created_at desc").
		First(&otp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound("Verification code")
		}
		return err
	}

	if otp.Code != code {
		return ErrOTPInvalid
	}
	if otp.ExpiresAt.Before(time.Now()) {
		return ErrOTPExpired
	}

	now := time.Now()
	otp.UsedAt = &now
	return s.db.Save(&otp).Error
}

// generateOTPCode draws a 4-digit code in [1000,9999]. The range is part
// of the wire contract with existing clients.
func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+1000), nil
}
