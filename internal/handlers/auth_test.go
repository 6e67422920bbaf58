package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/watchmarket/internal/config"
	"github.com/example/watchmarket/internal/database"
	"github.com/example/watchmarket/internal/routes"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	return newTestAppWithUploads(t, t.TempDir())
}

func newTestAppWithUploads(t *testing.T, uploadDir string) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := &config.Config{
		AppPort:      "0",
		JWTSecret:    "test-secret",
		TokenExpires: time.Hour,
		OTPExpires:   10 * time.Minute,
		UploadDir:    uploadDir,
	}

	app := fiber.New()
	routes.Register(app, db, cfg)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, decoded
}

func registerPayload(email string) map[string]interface{} {
	return map[string]interface{}{
		"user_name":      "Alice",
		"email":          email,
		"contact_number": "12345678",
		"address":        "1 Test Street",
		"password":       "Passw0rd!",
		"c_password":     "Passw0rd!",
	}
}

func TestRegisterEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, body := postJSON(t, app, "/register", registerPayload("a@x.com"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", resp.StatusCode, body)
	}
	if body["success"] != true {
		t.Fatalf("expected success envelope, got %v", body)
	}
	if body["token"] == nil || body["token"] == "" {
		t.Error("expected a session token in the response")
	}

	data, ok := body["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected user data, got %v", body["data"])
	}
	if data["email"] != "a@x.com" {
		t.Errorf("unexpected email: %v", data["email"])
	}
	if _, leaked := data["password_hash"]; leaked {
		t.Error("the password hash must never appear in a response")
	}
}

func TestRegisterValidationEndpoint(t *testing.T) {
	app := newTestApp(t)

	payload := registerPayload("a@x.com")
	payload["password"] = "alllowercase1!"
	payload["c_password"] = "alllowercase1!"

	resp, body := postJSON(t, app, "/register", payload)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %v", resp.StatusCode, body)
	}
	if body["success"] != false || body["error_flag"] != float64(1) {
		t.Errorf("expected failure envelope, got %v", body)
	}
}

func TestRegisterDuplicateEmailEndpoint(t *testing.T) {
	app := newTestApp(t)

	if resp, _ := postJSON(t, app, "/register", registerPayload("a@x.com")); resp.StatusCode != http.StatusOK {
		t.Fatalf("first registration failed: %d", resp.StatusCode)
	}
	resp, body := postJSON(t, app, "/register", registerPayload("a@x.com"))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d: %v", resp.StatusCode, body)
	}
}

func TestLoginEndpoint(t *testing.T) {
	app := newTestApp(t)
	postJSON(t, app, "/register", registerPayload("a@x.com"))

	resp, body := postJSON(t, app, "/login", map[string]interface{}{
		"email":        "a@x.com",
		"password":     "Passw0rd!",
		"device_token": "device-123",
	})
	if resp.StatusCode != http.StatusOK || body["success"] != true {
		t.Fatalf("expected successful login, got %d: %v", resp.StatusCode, body)
	}

	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("expected a bearer token")
	}

	// The token must authenticate the /user route.
	req := httptest.NewRequest("GET", "/user", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	userResp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if userResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from /user, got %d", userResp.StatusCode)
	}
	var user map[string]interface{}
	if err := json.NewDecoder(userResp.Body).Decode(&user); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if user["email"] != "a@x.com" {
		t.Errorf("unexpected user: %v", user)
	}
	if user["device_token"] != "device-123" {
		t.Errorf("expected refreshed device token, got %v", user["device_token"])
	}
}

func TestLoginFailureIsGeneric(t *testing.T) {
	app := newTestApp(t)
	postJSON(t, app, "/register", registerPayload("a@x.com"))

	_, wrongPassword := postJSON(t, app, "/login", map[string]interface{}{
		"email":    "a@x.com",
		"password": "Wrong1!pw",
	})
	_, unknownEmail := postJSON(t, app, "/login", map[string]interface{}{
		"email":    "ghost@x.com",
		"password": "Passw0rd!",
	})

	if wrongPassword["success"] != false || unknownEmail["success"] != false {
		t.Fatal("both login failures must report success=false")
	}
	if wrongPassword["message"] != unknownEmail["message"] {
		t.Error("login failure messages must not reveal whether the account exists")
	}
}

func TestCheckEmailUniquenessEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, body := postJSON(t, app, "/checkEmailUniqueness", map[string]interface{}{"email": "a@x.com"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	data := body["data"].(map[string]interface{})
	if data["unique"] != true {
		t.Errorf("expected a fresh email to be unique: %v", body)
	}

	postJSON(t, app, "/register", registerPayload("a@x.com"))

	_, body = postJSON(t, app, "/checkEmailUniqueness", map[string]interface{}{"email": "a@x.com"})
	data = body["data"].(map[string]interface{})
	if data["unique"] != false {
		t.Errorf("expected a registered email to be reported taken: %v", body)
	}
	if data["user_id"] == nil {
		t.Error("expected the existing user id to be included")
	}
}

func TestShowUserDataNotFound(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("GET", "/show_user_data/"+uuid.NewString(), nil)
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["success"] != false || body["error_flag"] != float64(1) {
		t.Errorf("unexpected envelope: %v", body)
	}
}

func TestSendAndVerifyOTPEndpoints(t *testing.T) {
	app := newTestApp(t)

	resp, body := postJSON(t, app, "/sendOTP", map[string]interface{}{"email": "a@x.com"})
	if resp.StatusCode != http.StatusOK || body["success"] != true {
		t.Fatalf("expected OTP to be issued, got %d: %v", resp.StatusCode, body)
	}

	resp, _ = postJSON(t, app, "/verifyOTP", map[string]interface{}{"email": "a@x.com", "code": "0000"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for a wrong code, got %d", resp.StatusCode)
	}

	resp, _ = postJSON(t, app, "/verifyOTP", map[string]interface{}{"email": "nobody@x.com", "code": "1234"})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 when no code was issued, got %d", resp.StatusCode)
	}
}
