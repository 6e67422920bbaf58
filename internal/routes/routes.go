package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/watchmarket/internal/config"
	"github.com/example/watchmarket/internal/handlers"
	"github.com/example/watchmarket/internal/middleware"
	"github.com/example/watchmarket/internal/services"
	"github.com/example/watchmarket/internal/store"
)

// Register wires up all HTTP routes. Paths are preserved verbatim for
// compatibility with existing mobile clients.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	mediaService := services.NewMediaService(cfg.UploadDir)
	mailService := services.NewMailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)

	identity := store.NewIdentityStore(db, cfg.OTPExpires)
	listings := store.NewListingStore(db)
	enquiries := store.NewEnquiryWorkflow(db)

	authHandler := handlers.NewAuthHandler(identity, mediaService, mailService, cfg)
	productHandler := handlers.NewProductHandler(listings, mediaService)
	enquiryHandler := handlers.NewEnquiryHandler(enquiries, telegramService)

	// Identity routes
	app.Post("/login", authHandler.Login)
	app.Post("/register", authHandler.Register)
	app.Get("/get_user_data", authHandler.GetUserData)
	app.Delete("/delete_user/:id", authHandler.DeleteUser)
	app.Get("/show_user_data/:id", authHandler.ShowUserData)
	app.Post("/checkEmailUniqueness", authHandler.CheckEmailUniqueness)
	app.Post("/updatePassword/:id", authHandler.UpdatePassword)
	app.Post("/sendOTP", authHandler.SendOTP)
	app.Post("/verifyOTP", authHandler.VerifyOTP)
	app.Post("/changePassword/:id", authHandler.ChangePassword)

	// Listing routes
	app.Get("/get_data", productHandler.GetData)
	app.Post("/add_product", productHandler.AddProduct)
	app.Post("/update_product/:id", productHandler.UpdateProduct)
	app.Delete("/deleteproduct/:id", productHandler.DeleteProduct)
	app.Get("/show_data/:id", productHandler.ShowData)
	app.Get("/get_data_user_wise/:user_id", productHandler.GetDataUserWise)
	app.Get("/get_home_page_data/:user_id", productHandler.GetHomePageData)
	app.Get("/searchProduct/:query/:sortBy", productHandler.SearchProduct)
	app.Get("/product_details/:product_id", productHandler.ProductDetails)
	app.Get("/products/search/:query/price_asc", productHandler.SearchProductByPriceAsc)
	app.Get("/products/search/:query/price_desc", productHandler.SearchProductByPriceDesc)

	// Enquiry routes
	app.Post("/add_enquiry", enquiryHandler.AddEnquiry)
	app.Get("/getenquiryDetails/:user_id", enquiryHandler.GetEnquiryDetails)
	app.Get("/getSingleEnquiry/:id", enquiryHandler.GetSingleEnquiry)
	app.Delete("/delete_enquiry/:id", enquiryHandler.DeleteEnquiry)

	// Legacy aliases of the single-record lookups, kept for older clients
	app.Get("/getProductDetails/:id", productHandler.ShowData)
	app.Get("/getUserDetails/:id", authHandler.ShowUserData)

	// Authenticated current-user lookup
	app.Get("/user", middleware.AuthMiddleware(cfg), authHandler.CurrentUser)

	// Uploaded media
	app.Static("/storage", cfg.UploadDir)
}
