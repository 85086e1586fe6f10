package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RoleAdmin is the only role the site currently grants.
const RoleAdmin = "admin"

// User is an account that can sign in to the admin console.
type User struct {
	gorm.Model
	Email    string `gorm:"size:255;unique;not null"`
	Password string `gorm:"not null"`
}

// UserRole grants a named permission to a user. Admin access requires a
// (user_id, "admin") row.
type UserRole struct {
	gorm.Model
	UserID uint   `gorm:"not null;index"`
	Role   string `gorm:"size:50;not null"`
}

// EnsureAdmin creates a bcrypt-hashed admin account for the given
// credentials when both are non-empty and no account with that email exists.
// An existing account is left untouched apart from guaranteeing its admin
// role row.
func EnsureAdmin(email, password string) error {
	trimmedEmail := strings.TrimSpace(email)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedEmail == "" || trimmedPassword == "" {
		return nil
	}

	if DB == nil {
		return errors.New("database not initialized")
	}

	var user User
	err := DB.Where("email = ?", trimmedEmail).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, hashErr := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if hashErr != nil {
			return hashErr
		}

		user = User{Email: trimmedEmail, Password: string(hashed)}
		if createErr := DB.Create(&user).Error; createErr != nil {
			return createErr
		}
	}

	var role UserRole
	err = DB.Where("user_id = ? AND role = ?", user.ID, RoleAdmin).First(&role).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return DB.Create(&UserRole{UserID: user.ID, Role: RoleAdmin}).Error
}
