package database

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// User represents a registered account.
// Email is indexed but deliberately not unique at the schema level: the
// registration handler performs the duplicate check, matching the behavior
// of the original data layer. The password is stored verbatim and compared
// byte-exact at login.
type User struct {
	gorm.Model
	Name     string `gorm:"not null"`
	Email    string `gorm:"index;not null"`
	Password string `gorm:"not null"`
	Reports  []Report
}

func (c *Client) CreateUser(ctx context.Context, name, email, password string) (*User, error) {
	user := User{
		Name:     name,
		Email:    email,
		Password: password,
	}
	if err := c.db.WithContext(ctx).Create(&user).Error; err != nil {
		log.Error("failed to create user", "error", err)
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetUserByID(ctx context.Context, id uint) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Error("failed to get user by ID", "error", err)
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Error("failed to get user by email", "error", err)
		return nil, err
	}
	return &user, nil
}

// GetUserByEmailAndPassword does an exact match on both fields.
// A miss is not an error: callers branch on the returned user being nil.
func (c *Client) GetUserByEmailAndPassword(ctx context.Context, email, password string) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).Where("email = ? AND password = ?", email, password).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Error("failed to get user by credentials", "error", err)
		return nil, err
	}
	return &user, nil
}
