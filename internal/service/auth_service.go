package service

import (
	"errors"
	"strings"

	"github.com/nastrosite/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotAllowed    = errors.New("email is not allowed to sign in")
)

// AuthService verifies admin credentials and role membership.
//
// When allowedEmail is non-empty the console is restricted to that single
// address and the account is auto-provisioned, together with its admin role,
// on the first successful sign-in attempt. With an empty allowedEmail any
// existing account may sign in.
type AuthService struct {
	db           *gorm.DB
	allowedEmail string
}

// NewAuthService creates an AuthService instance.
func NewAuthService(gdb *gorm.DB, allowedEmail string) *AuthService {
	return &AuthService{
		db:           gdb,
		allowedEmail: strings.ToLower(strings.TrimSpace(allowedEmail)),
	}
}

// SignIn validates the email/password pair and returns the matching user.
func (s *AuthService) SignIn(email, password string) (*db.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	if s.allowedEmail != "" && email != s.allowedEmail {
		return nil, ErrEmailNotAllowed
	}

	var user db.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if s.allowedEmail == "" {
			return nil, ErrInvalidCredentials
		}
		// Restricted mode: first sign-in provisions the admin account.
		return s.provision(email, password)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// IsAdmin reports whether the user holds the admin role. Any lookup failure
// counts as not admin.
func (s *AuthService) IsAdmin(userID uint) bool {
	var count int64
	if err := s.db.Model(&db.UserRole{}).
		Where("user_id = ? AND role = ?", userID, db.RoleAdmin).
		Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}

func (s *AuthService) provision(email, password string) (*db.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := db.User{Email: email, Password: string(hashed)}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&db.UserRole{UserID: user.ID, Role: db.RoleAdmin}).Error
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}
