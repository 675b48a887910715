package model

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Food represents one item in a user's fridge inventory.
type Food struct {
	ID           uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID       uint            `json:"user_id" gorm:"not null;index"`
	Name         string          `json:"name" gorm:"size:255;not null"`
	PurchaseDate time.Time       `json:"purchase_date"`
	UseByDate    time.Time       `json:"use_by_date" gorm:"index"`
	Calories     int             `json:"calories" gorm:"not null;default:0"`
	Protein      int             `json:"protein" gorm:"not null;default:0"`
	Fibre        int             `json:"fibre" gorm:"not null;default:0"`
	Carbs        int             `json:"carbs" gorm:"not null;default:0"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `json:"-" gorm:"index"`

	// DaysLeft is derived from UseByDate at read time and never persisted.
	DaysLeft int `json:"days_left" gorm:"-"`

	// Relations
	User *User `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (f *Food) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// ComputeDaysLeft returns the whole days remaining until UseByDate, floored
// at zero once the item has expired.
func (f *Food) ComputeDaysLeft(now time.Time) int {
	d := int(math.Ceil(f.UseByDate.Sub(now).Hours() / 24))
	if d < 0 {
		return 0
	}
	return d
}

// RefreshDaysLeft recomputes the derived DaysLeft field in place.
func (f *Food) RefreshDaysLeft(now time.Time) {
	f.DaysLeft = f.ComputeDaysLeft(now)
}
