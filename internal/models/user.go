// internal/models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Firstname string    `json:"firstname" gorm:"not null"`
	Lastname  string    `json:"lastname" gorm:"not null"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Bio       string    `json:"bio"`
	Image     string    `json:"image"`
}

// Follow is one edge of the social graph: Follower follows Following.
type Follow struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt   time.Time `json:"created_at"`
	FollowerID  string    `json:"follower" gorm:"type:uuid;not null;index"`
	FollowingID string    `json:"following" gorm:"type:uuid;not null;index"`
}

type FollowUser struct {
	ID        string `json:"id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Username  string `json:"username"`
	Image     string `json:"image"`
}

type FollowStats struct {
	FollowerTotal  int64        `json:"followerTotal"`
	FollowingTotal int64        `json:"followingTotal"`
	Follower       []FollowUser `json:"follower"`
	Following      []FollowUser `json:"following"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
