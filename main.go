package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/cafepos/pos-app/config"
	"github.com/cafepos/pos-app/models"
	"github.com/cafepos/pos-app/pricing"
	"github.com/cafepos/pos-app/realtime"
	"github.com/cafepos/pos-app/router"
	"github.com/cafepos/pos-app/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)
	seedDefaults(db)

	hub := realtime.NewHub()

	r := router.SetupRouter(db, hub)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Item{},
		&models.Order{},
		&models.OrderItem{},
		&models.Settings{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}

// seedDefaults makes sure the settings row exists so terminals always get a
// tax rate.
func seedDefaults(db *gorm.DB) {
	var count int64
	db.Model(&models.Settings{}).Count(&count)
	if count == 0 {
		settings := models.Settings{
			StoreName: "POS",
			Currency:  "USD",
			TaxRate:   pricing.DefaultTaxRate,
		}
		if err := db.Create(&settings).Error; err != nil {
			utils.ErrorLogger.Errorf("Error seeding settings: %v", err)
		}
	}
}
