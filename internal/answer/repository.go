// internal/answer/repository.go
package answer

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"quiz-platform/internal/models"
	"quiz-platform/pkg/logger"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, answer *models.Answer) error {
	if err := r.db.WithContext(ctx).Create(answer).Error; err != nil {
		logger.Log.Error("Error creating answer", zap.String("user_id", answer.UserID), zap.Error(err))
		return err
	}
	logger.Log.Debug("Created answer", zap.String("id", answer.ID), zap.String("quiz_id", answer.QuizID))
	return nil
}

// FindByUser returns every attempt of userID, oldest first.
func (r *Repository) FindByUser(ctx context.Context, userID string) ([]models.Answer, error) {
	var answers []models.Answer
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Order("id asc").
		Find(&answers).Error
	if err != nil {
		logger.Log.Error("Error getting answers for user", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return answers, nil
}

func (r *Repository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&models.Answer{})
	if result.Error != nil {
		logger.Log.Error("Error deleting answers", zap.Strings("ids", ids), zap.Error(result.Error))
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
