package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/enlightendev/dataconfig"
)

// PackagePath is the entity package handed to the entity manager factory.
const PackagePath = "github.com/enlightendev/dataconfig/domain"

// Entities returns one zero value per persistent type, parents before children.
func Entities() []any {
	return []any{&Account{}, &Note{}}
}

// EntitySet returns the entity set of this package.
func EntitySet() dataconfig.EntitySet {
	return dataconfig.EntitySet{Package: PackagePath, Models: Entities()}
}

// Account owns notes. Email is unique.
type Account struct {
	ID          string `gorm:"type:varchar(36);primaryKey"`
	Email       string `gorm:"type:varchar(320);uniqueIndex;not null"`
	DisplayName string `gorm:"type:varchar(200)"`
	Notes       []Note `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BeforeCreate assigns a random UUID when none is set.
func (a *Account) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Note is a short text owned by an account.
type Note struct {
	ID        string `gorm:"type:varchar(36);primaryKey"`
	AccountID string `gorm:"type:varchar(36);index;not null"`
	Title     string `gorm:"type:varchar(200);not null"`
	Body      string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (n *Note) BeforeCreate(*gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
