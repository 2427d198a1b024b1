package database

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// Report links a user, an uploaded image, the predicted label and a
// timestamp. Reports are immutable once written and never deleted.
type Report struct {
	gorm.Model
	UserID    uint   `gorm:"index;not null"`
	ImageName string `gorm:"not null"`
	Label     string `gorm:"not null"`
}

// CreateReport inserts a report for the given user. The caller supplies the
// timestamp so the stored time matches the moment the prediction finished.
func (c *Client) CreateReport(ctx context.Context, userID uint, imageName string, label string, when time.Time) (*Report, error) {
	report := Report{
		Model:     gorm.Model{CreatedAt: when},
		UserID:    userID,
		ImageName: imageName,
		Label:     label,
	}
	if err := c.db.WithContext(ctx).Create(&report).Error; err != nil {
		log.Error("failed to create report", "error", err)
		return nil, err
	}
	return &report, nil
}

// GetReportsByUser returns the user's reports in insertion order.
func (c *Client) GetReportsByUser(ctx context.Context, userID uint) ([]Report, error) {
	var reports []Report
	if err := c.db.WithContext(ctx).Where("user_id = ?", userID).Order("id asc").Find(&reports).Error; err != nil {
		log.Error("failed to get reports by user", "error", err)
		return nil, err
	}
	return reports, nil
}
