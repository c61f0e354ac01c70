package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	VerificationEmail = "email"
	VerificationSMS   = "sms"
)

// Verification is a pending code for one channel; it expires ten minutes
// after CreatedAt (see services.VerificationTTL).
type Verification struct {
	ID               uint   `gorm:"primaryKey"`
	UserID           uint   `gorm:"uniqueIndex:idx_verification_user_type;not null"`
	Type             string `gorm:"size:8;uniqueIndex:idx_verification_user_type;not null"`
	VerificationCode string `gorm:"size:6;not null"`
	CreatedAt        time.Time
}

type VerificationStatus struct {
	gorm.Model
	UserID          uint `gorm:"uniqueIndex;not null" json:"userId"`
	IsEmailVerified bool `json:"isEmailVerified"`
	IsSmsVerified   bool `json:"isSmsVerified"`
}
