package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"smartfridge/internal/config"
	"smartfridge/internal/db"
	"smartfridge/internal/model"
	"smartfridge/internal/repository"
)

const adminEmail = "admin@smartfridge.local"

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Food{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	foodRepo := repository.NewFoodRepository(gormDB)

	admin, err := seedAdmin(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	created, err := seedFoods(ctx, foodRepo, admin.ID)
	if err != nil {
		log.Fatalf("Failed to seed foods: %v", err)
	}

	log.Println("Seed completed successfully!")
	log.Printf("  - Admin user: %s (id=%d)", admin.Email, admin.ID)
	log.Printf("  - Demo food items created: %d", created)
}

// seedAdmin creates the admin account if it does not exist yet.
func seedAdmin(ctx context.Context, repo repository.UserRepository) (*model.User, error) {
	existing, err := repo.FindByEmail(ctx, adminEmail)
	if err == nil {
		log.Println("Admin user already present, skipping")
		return existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "admin123!" // rotate after first login
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return nil, err
	}

	admin := &model.User{
		Name:         "Administrator",
		Email:        adminEmail,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}
	if err := repo.Create(ctx, admin); err != nil {
		return nil, err
	}
	log.Println("Admin user created")
	return admin, nil
}

// seedFoods fills the admin's fridge with a few demo items.
func seedFoods(ctx context.Context, repo repository.FoodRepository, userID uint) (int, error) {
	existing, err := repo.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		log.Println("Demo foods already present, skipping")
		return 0, nil
	}

	now := time.Now()
	demo := []model.Food{
		{Name: "Milk", PurchaseDate: now, UseByDate: now.AddDate(0, 0, 7), Calories: 42, Protein: 3, Carbs: 5, Price: decimal.NewFromFloat(1.29)},
		{Name: "Eggs", PurchaseDate: now, UseByDate: now.AddDate(0, 0, 21), Calories: 155, Protein: 13, Price: decimal.NewFromFloat(2.49)},
		{Name: "Wholegrain bread", PurchaseDate: now, UseByDate: now.AddDate(0, 0, 4), Calories: 247, Protein: 13, Fibre: 7, Carbs: 41, Price: decimal.NewFromFloat(1.99)},
	}

	created := 0
	for i := range demo {
		demo[i].UserID = userID
		if err := repo.Create(ctx, &demo[i]); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
