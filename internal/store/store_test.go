package store

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/watchmarket/internal/models"
)

const testOTPTTL = 10 * time.Minute

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	migrations := []interface{}{
		&models.User{},
		&models.EmailOTP{},
		&models.Product{},
		&models.Enquiry{},
	}
	for _, migration := range migrations {
		if err := db.AutoMigrate(migration); err != nil {
			t.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}

func registerTestUser(t *testing.T, identity *IdentityStore, email string) *models.User {
	t.Helper()

	user, err := identity.Register(RegisterInput{
		UserName:        "Test User",
		Email:           email,
		ContactNumber:   "12345678",
		Address:         "1 Test Street",
		Password:        "Passw0rd!",
		ConfirmPassword: "Passw0rd!",
	})
	if err != nil {
		t.Fatalf("failed to register %s: %v", email, err)
	}
	return user
}

func validProductInput() ProductInput {
	return ProductInput{
		BrandName:   "Seiko",
		Type:        "automatic",
		Year:        "2019",
		ItemName:    "Presage Cocktail Time",
		Description: "Lightly worn, full set",
		Condition:   "used",
		ReferenceNo: "SRPB41",
		Price:       500,
		Country:     "Japan",
		Accessories: "box and papers",
	}
}
