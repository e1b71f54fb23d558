package agencies

import (
	"time"

	"github.com/google/uuid"
)

// Agency is one boarding/arrival terminal
type Agency struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	City      string    `gorm:"index;not null" json:"city"`
	District  string    `gorm:"not null" json:"district"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Company is one bus carrier
type Company struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Code      string    `gorm:"type:varchar(3);not null" json:"code"`
	Color     string    `gorm:"type:varchar(40)" json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name for Agency
func (Agency) TableName() string {
	return "agencies"
}

// TableName sets the table name for Company
func (Company) TableName() string {
	return "companies"
}

// CreateAgencyRequest creates a new terminal
type CreateAgencyRequest struct {
	Name     string `json:"name" binding:"required"`
	Slug     string `json:"slug" binding:"required"`
	City     string `json:"city" binding:"required"`
	District string `json:"district" binding:"required"`
}

// CreateCompanyRequest creates a new carrier
type CreateCompanyRequest struct {
	Name  string `json:"name" binding:"required"`
	Code  string `json:"code" binding:"required,len=3"`
	Color string `json:"color" binding:"omitempty"`
}
