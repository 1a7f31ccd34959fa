package models

import (
	"time"
)

// Expense one spending event. Amount is stored in cents.
type Expense struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Amount      int64     `json:"amount" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;index"`
}

// TableName sets the table name
func (Expense) TableName() string {
	return "expenses"
}
