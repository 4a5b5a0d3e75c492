// Package gorm provides GORM model definitions and repositories
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/meadcraft/meadery/internal/domain/recipe"
	"gorm.io/gorm"
)

// settingsRowID is the primary key of the only settings row
const settingsRowID = 1

// RecipeModel represents the GORM model for saved recipes
type RecipeModel struct {
	ID              uuid.UUID    `gorm:"type:char(36);primaryKey"`
	Name            string       `gorm:"type:varchar(200);not null;index"`
	Markdown        string       `gorm:"type:text;not null"`
	BatchSizeLiters float64      `gorm:"not null"`
	TotalCost       float64      `gorm:"not null;default:0"`
	LogData         BrewLogField `gorm:"type:json"`
	CreatedAt       time.Time    `gorm:"index"`
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

// InventoryItemModel represents the GORM model for the inventory ledger
type InventoryItemModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name      string    `gorm:"type:varchar(200);not null;index"`
	Qty       float64   `gorm:"not null;default:0"`
	Unit      string    `gorm:"type:varchar(32);not null"`
	Price     float64   `gorm:"not null;default:0"`
	Category  string    `gorm:"type:varchar(32);not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SettingsModel is a single-row table of user settings
type SettingsModel struct {
	ID                     uint    `gorm:"primaryKey"`
	CurrencySymbol         string  `gorm:"type:varchar(8);not null"`
	DefaultBatchSizeLiters float64 `gorm:"not null"`
	UpdatedAt              time.Time
}

// BrewLogField stores a recipe's brew log as a JSON column
type BrewLogField recipe.LogData

// Scan implements the sql.Scanner interface
func (b *BrewLogField) Scan(value interface{}) error {
	if value == nil {
		*b = BrewLogField(recipe.NewLogData())
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into BrewLogField", value)
	}

	if len(raw) == 0 {
		*b = BrewLogField(recipe.NewLogData())
		return nil
	}
	return json.Unmarshal(raw, (*recipe.LogData)(b))
}

// Value implements the driver.Valuer interface
func (b BrewLogField) Value() (driver.Value, error) {
	data, err := json.Marshal(recipe.LogData(b))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// BeforeCreate hook for RecipeModel
func (r *RecipeModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for InventoryItemModel
func (i *InventoryItemModel) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (RecipeModel) TableName() string {
	return "recipes"
}

func (InventoryItemModel) TableName() string {
	return "inventory_items"
}

func (SettingsModel) TableName() string {
	return "settings"
}

// AllModels lists every model for AutoMigrate
func AllModels() []interface{} {
	return []interface{}{
		&RecipeModel{},
		&InventoryItemModel{},
		&SettingsModel{},
	}
}
