// internal/models/answer.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScoredAnswer is one submitted answer with the verdict computed at submission time.
type ScoredAnswer struct {
	QuestionID  string    `json:"questionId"`
	UserAnswers []string  `json:"userAnswers"`
	IsCorrect   bool      `json:"isCorrect"`
	Timestamp   time.Time `json:"timestamp"`
}

// Answer is one quiz attempt. Rows are never updated after insert.
type Answer struct {
	ID         string         `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt  time.Time      `json:"createdAt" gorm:"index"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	UserID     string         `json:"userId" gorm:"type:uuid;not null;index"`
	QuizID     string         `json:"quizId" gorm:"type:char(8);not null;index"`
	TotalCoins int            `json:"totalCoins"`
	Answers    []ScoredAnswer `json:"answers" gorm:"serializer:json;not null"`
}

func (a *Answer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
