// Package sqlite provides SQLite database setup and configuration
package sqlite

import (
	"fmt"

	"github.com/google/uuid"
	gormModels "github.com/meadcraft/meadery/internal/infrastructure/persistence/gorm"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupDatabase creates and configures the SQLite database
func SetupDatabase(dbPath string, gormLogger logger.Interface, autoMigrate bool) (*gorm.DB, error) {
	// Use in-memory database if no path provided
	if dbPath == "" {
		dbPath = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Every connection to ":memory:" opens its own empty database.
	if dbPath == ":memory:" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if autoMigrate {
		if err := db.AutoMigrate(gormModels.AllModels()...); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	return db, nil
}

// SeedDatabase populates an empty inventory with a starter stock
func SeedDatabase(db *gorm.DB) error {
	var itemCount int64
	if err := db.Model(&gormModels.InventoryItemModel{}).Count(&itemCount).Error; err != nil {
		return fmt.Errorf("failed to count inventory items: %w", err)
	}
	if itemCount > 0 {
		return nil // Already seeded
	}

	starter := []gormModels.InventoryItemModel{
		{Name: "Wildflower Honey", Qty: 3, Unit: "kg", Price: 36, Category: "Honey"},
		{Name: "Orange Blossom Honey", Qty: 1, Unit: "kg", Price: 15, Category: "Honey"},
		{Name: "Lalvin 71B", Qty: 2, Unit: "packet", Price: 8, Category: "Yeast"},
		{Name: "Fermaid O", Qty: 100, Unit: "g", Price: 12, Category: "Nutrient"},
		{Name: "Cinnamon Stick", Qty: 6, Unit: "piece", Price: 3, Category: "Spice"},
		{Name: "Potassium Metabisulfite", Qty: 50, Unit: "g", Price: 5, Category: "Chemical"},
	}

	for i := range starter {
		starter[i].ID = uuid.New()
		if err := db.Create(&starter[i]).Error; err != nil {
			return fmt.Errorf("failed to create starter inventory item: %w", err)
		}
	}

	return nil
}
