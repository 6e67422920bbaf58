package store

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRegisterAndCheckEmail(t *testing.T) {
	identity := NewIdentityStore(newTestDB(t), testOTPTTL)

	user := registerTestUser(t, identity, "a@x.com")
	if user.ID == uuid.Nil {
		t.Fatal("expected a generated id")
	}
	if user.PasswordHash == "Passw0rd!" {
		t.Fatal("password stored in plain text")
	}
	if user.Kind != "individual" {
		t.Errorf("expected kind individual, got %q", user.Kind)
	}

	result, err := identity.CheckEmail("a@x.com")
	if err != nil {
		t.Fatalf("CheckEmail: %v", err)
	}
	if result.Unique {
		t.Error("expected email to be reported as taken")
	}
	if result.UserID == nil || *result.UserID != user.ID {
		t.Error("expected existing user id in check result")
	}

	free, err := identity.CheckEmail("b@x.com")
	if err != nil {
		t.Fatalf("CheckEmail: %v", err)
	}
	if !free.Unique {
		t.Error("expected fresh email to be unique")
	}
}

func TestCheckEmailAgreesWithRegisterAfterDelete(t *testing.T) {
	identity := NewIdentityStore(newTestDB(t), testOTPTTL)
	user := registerTestUser(t, identity, "a@x.com")

	if _, err := identity.Delete(user.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// The unique index still covers the soft-deleted row, so the check
	// must report the address taken rather than promise a registration
	// that would then fail.
	result, err := identity.CheckEmail("a@x.com")
	if err != nil {
		t.Fatalf("CheckEmail: %v", err)
	}
	if result.Unique {
		t.Error("a soft-deleted user's email must be reported as taken")
	}

	_, err = identity.Register(RegisterInput{
		UserName:        "Other",
		Email:           "a@x.com",
		Password:        "Passw0rd!",
		ConfirmPassword: "Passw0rd!",
	})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestRegisterCompanyKind(t *testing.T) {
	identity := NewIdentityStore(newTestDB(t), testOTPTTL)

	user, err := identity.Register(RegisterInput{
		CompanyName:     "Horology Ltd",
		Email:           "sales@horology.example",
		Password:        "Passw0rd!",
		ConfirmPassword: "Passw0rd!",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Kind != "company" {
		t.Errorf("expected company kind, got %q", user.Kind)
	}
	if user.DisplayName() != "Horology Ltd" {
		t.Errorf("expected company display name, got %q", user.DisplayName())
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	identity := NewIdentityStore(newTestDB(t), testOTPTTL)
	registerTestUser(t, identity, "a@x.com")

	_, err := identity.Register(RegisterInput{
		UserName:        "Other",
		Email:           "a@x.com",
		Password:        "Passw0rd!",
		ConfirmPassword: "Passw0rd!",
	})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	users, err := identity.ListAll(0, 0)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user after duplicate rejection, got %d", len(users))
	}
}

func TestRegisterValidation(t *testing.T) {
	identity := NewIdentityStore(newTestDB(t), testOTPTTL)

	cases := []struct {
		name  string
		input RegisterInput
		field string
	}{
		{
			name:  "missing email",
			input: RegisterInput{Password: "Passw0rd!", ConfirmPassword: "Passw0rd!"},
			field: "email",
		},
		{
			name:  "malformed email",
			input: RegisterInput{Email: "not-an-email", Password: "Passw0rd!", ConfirmPassword: "Passw0rd!"},
			field: "email",
		},
		{
			name:  "short password",
			input: RegisterInput{Email: "a@x.com", Password: "Sh0rt1!", ConfirmPassword: "Sh0rt1!"},
			field: "password",
		},
		{
			name:  "no uppercase",
			input: RegisterInput{Email: "a@x.com", Password: "alllowercase1!", ConfirmPassword: "alllowercase1!"},
			field: "password",
		},
		{
			name:  "confirmation mismatch",
			input: RegisterInput{Email: "a@x.com", Password: "Passw0rd!", ConfirmPassword: "Different1!"},
			field: "c_password",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := identity.Register(tc.input)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := ve.Fields[tc.field]; !ok {
				t.Errorf("expected a message for field %q, got %v", tc.field, ve.Fields)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	identity := NewIdentityStore(newTestDB(t), testOTPTTL)
	created := registerTestUser(t, identity, "a@x.com")

	user, err := identity.Login("a@x.com", "Passw0rd!", "device-123", "fcm-9")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != created.ID {
		t.Error("login returned a different user")
	}

	stored, err := identity.GetByID(created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.DeviceToken != "device-123" {
		t.Errorf("expected device token to be refreshed, got %q", stored.DeviceToken)
	}
	if stored.ExternalUserID != "fcm-9" {
		t.Errorf("expected external user id to be refreshed, got %q", stored.ExternalUserID)
	}
}

func TestLoginFailuresAreGeneric(t *testing.T) {
	identity := NewIdentityStore(newTestDB(t), testOTPTTL)
	created := registerTestUser(t, identity, "a@x.com")

	_, wrongPassword := identity.Login("a@x.com", "Wrong1!pw", "new-device", "")
	_, unknownEmail := identity.Login("ghost@x.com", "Passw0rd!", "new-device", "")

	if !errors.Is(wrongPassword, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPassword)
	}
	if !errors.Is(unknownEmail, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", unknownEmail)
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Error("failure messages must not distinguish the two cases")
	}

	stored, err := identity.GetByID(created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.DeviceToken != "" {
		t.Error("failed login must not mutate the stored device token")
	}
}

func TestChangePassword(t *testing.T) {
	identity := NewIdentityStore(newTestDB(t), testOTPTTL)
	user := registerTestUser(t, identity, "a@x.com")

	if _, err := identity.ChangePassword(user.ID, "WrongOld1!", "NewPassw0rd!"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if _, err := identity.Login("a@x.com", "Passw0rd!", "", ""); err != nil {
		t.Fatal("stored hash must be unchanged after a rejected change")
	}

	if _, err := identity.ChangePassword(user.ID, "Passw0rd!", "NewPassw0rd!"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := identity.Login("a@x.com", "NewPassw0rd!", "", ""); err != nil {
		t.Error("login with the new password must succeed")
	}
	if _, err := identity.Login("a@x.com", "Passw0rd!", "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Error("login with the old password must fail")
	}

	if _, err := identity.ChangePassword(uuid.New(), "x", "y"); !IsNotFound(err) {
		t.Errorf("expected NotFound for unknown user, got %v", err)
	}
}

func TestUpdatePassword(t *testing.T) {
	identity := NewIdentityStore(newTestDB(t), testOTPTTL)
	user := registerTestUser(t, identity, "a@x.com")

	if _, err := identity.UpdatePassword(user.ID, "alllowercase1!", "alllowercase1!"); !IsValidation(err) {
		t.Fatalf("expected ValidationError for weak password, got %v", err)
	}

	if _, err := identity.UpdatePassword(user.ID, "Fresh1!pass", "Fresh1!pass"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	if _, err := identity.Login("a@x.com", "Fresh1!pass", "", ""); err != nil {
		t.Error("login with the replaced password must succeed")
	}

	if _, err := identity.UpdatePassword(uuid.New(), "Fresh1!pass", "Fresh1!pass"); !IsNotFound(err) {
		t.Errorf("expected NotFound for unknown user, got %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	identity := NewIdentityStore(newTestDB(t), testOTPTTL)
	user := registerTestUser(t, identity, "a@x.com")

	if _, err := identity.Delete(user.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := identity.GetByID(user.ID); !IsNotFound(err) {
		t.Error("deleted user must not be loadable")
	}
	if _, err := identity.Delete(user.ID); !IsNotFound(err) {
		t.Error("repeated delete must report NotFound")
	}
}

func TestOTPLifecycle(t *testing.T) {
	identity := NewIdentityStore(newTestDB(t), testOTPTTL)

	otp, err := identity.IssueOTP("a@x.com")
	if err != nil {
		t.Fatalf("IssueOTP: %v", err)
	}

	code, err := strconv.Atoi(otp.Code)
	if err != nil || code < 1000 || code > 9999 {
		t.Fatalf("expected a 4-digit code in [1000,9999], got %q", otp.Code)
	}

	if err := identity.RedeemOTP("a@x.com", "0000"); !errors.Is(err, ErrOTPInvalid) {
		t.Fatalf("expected ErrOTPInvalid for a wrong code, got %v", err)
	}
	if err := identity.RedeemOTP("a@x.com", otp.Code); err != nil {
		t.Fatalf("RedeemOTP: %v", err)
	}
	if err := identity.RedeemOTP("a@x.com", otp.Code); err == nil {
		t.Error("codes must be single-use")
	}
}

func TestOTPReissueInvalidatesPrevious(t *testing.T) {
	identity := NewIdentityStore(newTestDB(t), testOTPTTL)

	first, err := identity.IssueOTP("a@x.com")
	if err != nil {
		t.Fatalf("IssueOTP: %v", err)
	}
	second, err := identity.IssueOTP("a@x.com")
	if err != nil {
		t.Fatalf("IssueOTP: %v", err)
	}
	if second.Code == first.Code {
		t.Skip("codes collided, superseding is unobservable")
	}

	if err := identity.RedeemOTP("a@x.com", first.Code); err == nil {
		t.Error("a superseded code must not redeem")
	}
}

func TestOTPExpiry(t *testing.T) {
	identity := NewIdentityStore(newTestDB(t), -time.Minute)

	otp, err := identity.IssueOTP("a@x.com")
	if err != nil {
		t.Fatalf("IssueOTP: %v", err)
	}
	if err := identity.RedeemOTP("a@x.com", otp.Code); !errors.Is(err, ErrOTPExpired) {
		t.Fatalf("expected ErrOTPExpired, got %v", err)
	}
}
