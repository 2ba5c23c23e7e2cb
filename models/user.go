package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex" json:"email"`
	Password string `json:"-"`
}

// Account owns the user's currency balances and stock holdings.
// Exactly one per user, created at signup.
type Account struct {
	gorm.Model
	UserID uint `gorm:"uniqueIndex" json:"user_id"`
}
