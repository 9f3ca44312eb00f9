package config

import (
	"log"

	"aeroclean/internal/adapters/persistence/models"
	"aeroclean/internal/pkg/password"

	"gorm.io/gorm"
)

// SeedInitialData creates the bootstrap admin account and a demo location
// with its checklist when the database is empty
func SeedInitialData(db *gorm.DB) error {
	if err := seedAdminUser(db); err != nil {
		return err
	}
	return seedDemoLocation(db)
}

func seedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := password.Hash(getEnv("ADMIN_PASSWORD", "admin12345"))
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: getEnv("ADMIN_USERNAME", "admin"),
		Email:    getEnv("ADMIN_EMAIL", "admin@zvartnots.am"),
		Password: hashed,
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("🌱 Seeded admin account: %s", admin.Username)
	return nil
}

func seedDemoLocation(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Location{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	location := &models.Location{
		Name:   "Departure Hall",
		Status: models.LocationActive,
		ChecklistItems: []models.ChecklistItem{
			{TitleEN: "Floor cleanliness", TitleAM: "Հատակի մաքրություն", TitleRU: "Чистота пола"},
			{TitleEN: "Trash bins emptied", TitleAM: "Աղբամանները դատարկված են", TitleRU: "Мусорные баки опустошены"},
			{TitleEN: "Windows and glass surfaces", TitleAM: "Պատուհաններ և ապակե մակերեսներ", TitleRU: "Окна и стеклянные поверхности"},
			{TitleEN: "Seating areas wiped", TitleAM: "Նստատեղերը սրբված են", TitleRU: "Сидения протерты"},
		},
	}
	if err := db.Create(location).Error; err != nil {
		return err
	}

	log.Printf("🌱 Seeded demo location: %s (%d checklist items)", location.Name, len(location.ChecklistItems))
	return nil
}
