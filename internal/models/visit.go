package models

import (
	"time"
)

// Company is a site an inspector can visit. Read-only in the web flows;
// rows are seeded at startup.
type Company struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Visit is one inspection visit logged by a user.
type Visit struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	CompanyID uint      `json:"company_id" gorm:"not null;index"`
	Date      time.Time `json:"date" gorm:"not null"`
	Report    string    `json:"report" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Company   Company   `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
}
