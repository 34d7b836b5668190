// internal/models/question.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	Input          QuestionType = "input"
	FillInTheBlank QuestionType = "fill-in-the-blank"
	Image          QuestionType = "image"
	Video          QuestionType = "video"
	Audio          QuestionType = "audio"
)

// LocalizedText holds the question wording per UI language.
type LocalizedText struct {
	En string `json:"en"`
	Ru string `json:"ru"`
	Uz string `json:"uz"`
}

type Option struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

type Blank struct {
	Position       int      `json:"position"`
	CorrectAnswers []string `json:"correctAnswers"`
}

type Media struct {
	Image *string `json:"image"`
	Video *string `json:"video"`
	Audio *string `json:"audio"`
}

type Category struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	Title     string    `json:"title" gorm:"not null"`
	Image     string    `json:"image"`
}

type Level struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	Title     string    `json:"title" gorm:"not null"`
}

type Topic struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	Title     string    `json:"title" gorm:"not null"`
}

// Question is owned by the question module; the answer pipeline only reads it.
// Options, CorrectAnswers and Blanks are stored as JSON arrays on the row.
type Question struct {
	ID             string        `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	Question       LocalizedText `json:"question" gorm:"serializer:json;not null"`
	Type           QuestionType  `json:"type" gorm:"not null;index"`
	Time           int           `json:"time"`
	Coins          int           `json:"coins" gorm:"not null"`
	Options        []Option      `json:"options" gorm:"serializer:json"`
	CorrectAnswers []string      `json:"correctAnswers" gorm:"serializer:json"`
	Blanks         []Blank       `json:"blanks" gorm:"serializer:json"`
	Media          Media         `json:"media" gorm:"serializer:json"`
	CategoryID     string        `json:"category_id" gorm:"type:uuid;index"`
	Category       *Category     `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	LevelID        string        `json:"level_id" gorm:"type:uuid;index"`
	Level          *Level        `json:"level,omitempty" gorm:"foreignKey:LevelID"`
	TopicID        string        `json:"topic_id" gorm:"type:uuid;index"`
	Topic          *Topic        `json:"topic,omitempty" gorm:"foreignKey:TopicID"`
}

// QuestionStats is the catalogue-wide total shown on the cabinet page.
type QuestionStats struct {
	Total      int64 `json:"total"`
	TotalCoins int64 `json:"totalCoins"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (l *Level) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

func (t *Topic) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
