package main

import (
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/stepuplabz/market/internal/config"
	dbpkg "github.com/stepuplabz/market/internal/db"
	"github.com/stepuplabz/market/internal/models"
)

// Development seeder: wipes nothing, inserts a known admin, a test user and
// a small Turkish grocery catalog. Safe to run repeatedly only on a fresh
// database (phone uniqueness will reject repeats).

var categories = []models.Category{
	{Name: "Meyve & Sebze", Icon: "https://cdn-icons-png.flaticon.com/512/3063/3063823.png", Image: "https://images.unsplash.com/photo-1610832958506-aa56368176cf?w=500&q=80"},
	{Name: "Süt & Kahvaltılık", Icon: "https://cdn-icons-png.flaticon.com/512/2674/2674486.png", Image: "https://images.unsplash.com/photo-1550583724-b2692b85b150?w=500&q=80"},
	{Name: "Temel Gıda", Icon: "https://cdn-icons-png.flaticon.com/512/2276/2276931.png", Image: "https://images.unsplash.com/photo-1584263347416-85a696b4eda7?w=500&q=80"},
	{Name: "Atıştırmalık", Icon: "https://cdn-icons-png.flaticon.com/512/2553/2553691.png", Image: "https://images.unsplash.com/photo-1621939514649-28b12e816751?w=500&q=80"},
	{Name: "İçecek", Icon: "https://cdn-icons-png.flaticon.com/512/3050/3050130.png", Image: "https://images.unsplash.com/photo-1622483767028-3f66f32aef97?w=500&q=80"},
	{Name: "Temizlik", Icon: "https://cdn-icons-png.flaticon.com/512/2636/2636253.png", Image: "https://images.unsplash.com/photo-1563453392212-326f5e854473?w=500&q=80"},
}

var products = []models.Product{
	{Name: "Domates", Price: 24.90, Category: "Meyve & Sebze", UnitType: models.UnitKg},
	{Name: "Salatalık", Price: 18.50, Category: "Meyve & Sebze", UnitType: models.UnitKg},
	{Name: "Muz", Price: 32.90, Category: "Meyve & Sebze", UnitType: models.UnitKg},
	{Name: "Süt (1L)", Price: 22.50, Category: "Süt & Kahvaltılık", UnitType: models.UnitPiece},
	{Name: "Yumurta (30lu)", Price: 95.00, Category: "Süt & Kahvaltılık", UnitType: models.UnitPiece},
	{Name: "Beyaz Peynir", Price: 145.00, Category: "Süt & Kahvaltılık", UnitType: models.UnitKg},
	{Name: "Ayçiçek Yağı (2L)", Price: 85.00, Category: "Temel Gıda", UnitType: models.UnitPiece},
	{Name: "Pirinç (1kg)", Price: 45.00, Category: "Temel Gıda", UnitType: models.UnitPiece},
	{Name: "Makarna", Price: 12.50, Category: "Temel Gıda", UnitType: models.UnitPiece},
	{Name: "Cips", Price: 25.00, Category: "Atıştırmalık", UnitType: models.UnitPiece},
	{Name: "Çikolata", Price: 15.00, Category: "Atıştırmalık", UnitType: models.UnitPiece},
	{Name: "Kola (2.5L)", Price: 40.00, Category: "İçecek", UnitType: models.UnitPiece},
	{Name: "Su (5L)", Price: 15.00, Category: "İçecek", UnitType: models.UnitPiece},
	{Name: "Bulaşık Deterjanı", Price: 55.00, Category: "Temizlik", UnitType: models.UnitPiece},
	{Name: "Çamaşır Suyu", Price: 45.00, Category: "Temizlik", UnitType: models.UnitPiece},
}

func main() {
	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	hashed, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash seed password: %v", err)
	}

	users := []models.User{
		{Name: "Admin User", Phone: "5551112233", Password: string(hashed), Role: models.RoleAdmin},
		{Name: "Test User", Phone: "5554445566", Password: string(hashed), Role: models.RoleUser},
	}

	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			log.Fatalf("failed to seed user %s: %v", users[i].Phone, err)
		}
		log.Printf("seeded user %s (%s)", users[i].Phone, users[i].Role)
	}

	for i := range categories {
		if err := db.Create(&categories[i]).Error; err != nil {
			log.Fatalf("failed to seed category %s: %v", categories[i].Name, err)
		}
	}
	log.Printf("seeded %d categories", len(categories))

	for i := range products {
		products[i].Stock = 50
		if err := db.Create(&products[i]).Error; err != nil {
			log.Fatalf("failed to seed product %s: %v", products[i].Name, err)
		}
	}
	log.Printf("seeded %d products", len(products))

	log.Println("seed complete: admin 5551112233 / 123456")
}
