package database

import (
	"context"
	"time"
)

// DB defines the interface for database operations so handlers can be
// tested against a fake store.
type DB interface {
	// Credential store
	CreateUser(ctx context.Context, name, email, password string) (*User, error)
	GetUserByID(ctx context.Context, id uint) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByEmailAndPassword(ctx context.Context, email, password string) (*User, error)

	// Report store
	CreateReport(ctx context.Context, userID uint, imageName string, label string, when time.Time) (*Report, error)
	GetReportsByUser(ctx context.Context, userID uint) ([]Report, error)

	// Utility
	Close() error
}
