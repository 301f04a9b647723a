package models

import "time"

const (
	RoleHR    = "hr"
	RoleAdmin = "admin"
)

type NotificationPreferences struct {
	EmailNotifications bool `gorm:"default:true" json:"emailNotifications"`
	NewApplications    bool `gorm:"default:true" json:"newApplications"`
	StatusUpdates      bool `gorm:"default:true" json:"statusUpdates"`
	WeeklyDigest       bool `gorm:"default:false" json:"weeklyDigest"`
}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"default:'hr'" json:"role"`

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
	Company   string `json:"company,omitempty"`
	JobTitle  string `json:"jobTitle,omitempty"`

	Notifications NotificationPreferences `gorm:"embedded;embeddedPrefix:notify_" json:"notifications"`

	TwoFactorSecret  string `json:"-"`
	TwoFactorEnabled bool   `gorm:"default:false" json:"twoFactorEnabled"`
}

type PasswordResetToken struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UserID    uint   `gorm:"not null;index"`
	Token     string `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time
	UsedAt    *time.Time
}

func (t *PasswordResetToken) Usable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
