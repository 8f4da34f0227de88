package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StoryStatus string

const (
	StoryPending  StoryStatus = "pending"
	StoryApproved StoryStatus = "approved"
)

// Story is a donor or recipient testimonial; visible once an admin approves it.
type Story struct {
	ID         string      `gorm:"primaryKey;type:text" json:"id"`
	Title      string      `json:"title"`
	Body       string      `gorm:"type:text" json:"story"`
	AuthorID   string      `gorm:"index;type:text" json:"authorId"`
	AuthorName string      `json:"authorName"`
	Status     StoryStatus `gorm:"type:text;default:'pending';index" json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
}

func (s *Story) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.Status == "" {
		s.Status = StoryPending
	}
	return
}

type BlogPost struct {
	ID         string    `gorm:"primaryKey;type:text" json:"id"`
	Title      string    `json:"title"`
	Content    string    `gorm:"type:text" json:"content"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	AuthorID   string    `gorm:"index;type:text" json:"authorId"`
	AuthorName string    `json:"authorName"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (p *BlogPost) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}
