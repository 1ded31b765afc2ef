package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Feedback struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	SenderID     string    `json:"sender_id" gorm:"not null;index;size:36"`
	ReceiverID   string    `json:"receiver_id" gorm:"not null;index;size:36"`
	Title        string    `json:"title" gorm:"not null;size:255"`
	Content      string    `json:"content" gorm:"not null;type:text"`
	IsWish       bool      `json:"is_wish" gorm:"not null;default:false"`
	IsSelfReport bool      `json:"is_self_report" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// BeforeCreate assigns a UUID so inserts behave the same on every dialect.
func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for GORM
func (Feedback) TableName() string {
	return "feedback"
}

type CreateFeedbackRequest struct {
	Title        string `json:"title" form:"title" binding:"required,notblank"`
	Content      string `json:"content" form:"content" binding:"required,notblank"`
	ReceiverID   string `json:"receiver_id" form:"receiverId"`
	IsWish       bool   `json:"is_wish" form:"isWish"`
	IsSelfReport bool   `json:"is_self_report" form:"isSelfReport"`
}

// Participant is one side of a feedback record as shown on detail pages.
type Participant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Location string `json:"location"`
}

type FeedbackDetail struct {
	ID           string      `json:"id"`
	Sender       Participant `json:"sender"`
	Receiver     Participant `json:"receiver"`
	Title        string      `json:"title"`
	Content      string      `json:"content"`
	IsWish       bool        `json:"is_wish"`
	IsSelfReport bool        `json:"is_self_report"`
	CreatedAt    string      `json:"created_at"`
}
