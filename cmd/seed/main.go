package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/webshop/backend/database"
	"github.com/webshop/backend/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type sampleProduct struct {
	Name         string
	Category     string
	Price        float64
	Description  string
	MainMaterial string
	OS           string
	Varastossa   bool
	Quantity     int
}

var sampleProducts = []sampleProduct{
	{"Nordic Desk Lamp", "lighting", 34.90, "Adjustable desk lamp", "aluminium", "", true, 25},
	{"Birch Bookshelf", "furniture", 129.00, "Five-shelf birch bookshelf", "birch", "", true, 8},
	{"Tablet 10\"", "electronics", 249.00, "10-inch tablet", "aluminium", "Android 14", false, 0},
	{"Wool Blanket", "textiles", 59.50, "Lambswool blanket 130x180", "wool", "", true, 40},
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Connect to database
	if err := database.Connect(); err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer database.Close()

	fmt.Println("🌱 Starting webshop seed...")

	admin, err := seedAdminUser()
	if err != nil {
		log.Fatalf("❌ Failed to seed admin user: %v", err)
	}

	defaultManufacturer, err := seedDefaultManufacturer()
	if err != nil {
		log.Fatalf("❌ Failed to seed default manufacturer: %v", err)
	}

	if err := seedProducts(admin, defaultManufacturer); err != nil {
		log.Fatalf("❌ Failed to seed products: %v", err)
	}

	if err := backfillManufacturers(defaultManufacturer); err != nil {
		log.Fatalf("❌ Failed to backfill manufacturers: %v", err)
	}

	fmt.Println("✅ Seed complete")
}

// seedAdminUser ensures the admin user exists
func seedAdminUser() (*models.User, error) {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin12345"
	}

	var admin models.User
	err := database.DB.Where("username = ?", username).First(&admin).Error
	if err == nil {
		log.Printf("ℹ️ Admin user %q already exists", username)
		return &admin, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin = models.User{
		Username:     username,
		PasswordHash: string(hashedBytes),
		Role:         models.RoleAdmin,
	}
	if err := database.DB.Create(&admin).Error; err != nil {
		return nil, err
	}

	log.Println("✅ Admin user seeded successfully")
	return &admin, nil
}

// seedDefaultManufacturer ensures the fallback manufacturer exists
func seedDefaultManufacturer() (*models.Manufacturer, error) {
	var manufacturer models.Manufacturer
	err := database.DB.Where("LOWER(name) = LOWER(?)", "Unknown Manufacturer").First(&manufacturer).Error
	if err == nil {
		return &manufacturer, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	manufacturer = models.Manufacturer{Name: "Unknown Manufacturer"}
	if err := database.DB.Create(&manufacturer).Error; err != nil {
		return nil, err
	}

	log.Println("✅ Default manufacturer seeded")
	return &manufacturer, nil
}

// seedProducts inserts the demo catalogue owned by the admin user
func seedProducts(owner *models.User, manufacturer *models.Manufacturer) error {
	var count int64
	if err := database.DB.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Printf("ℹ️ Products already present (%d), skipping catalogue seed", count)
		return nil
	}

	for _, sample := range sampleProducts {
		product := models.Product{
			Name:         sample.Name,
			Manufacturer: manufacturer.ID,
			Category:     sample.Category,
			Price:        sample.Price,
			Description:  sample.Description,
			Images:       models.NewJSONB([]string{}),
			MainMaterial: sample.MainMaterial,
			OS:           sample.OS,
			Varastossa:   sample.Varastossa,
			Quantity:     sample.Quantity,
			UserID:       owner.ID,
		}
		if err := database.DB.Create(&product).Error; err != nil {
			return err
		}
	}

	log.Printf("✅ Seeded %d products", len(sampleProducts))
	return nil
}

// backfillManufacturers points manufacturer-less products at the default
// manufacturer
func backfillManufacturers(manufacturer *models.Manufacturer) error {
	result := database.DB.Model(&models.Product{}).
		Where("manufacturer IS NULL OR manufacturer = ''").
		Update("manufacturer", manufacturer.ID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("✅ Backfilled manufacturer on %d products", result.RowsAffected)
	}
	return nil
}
