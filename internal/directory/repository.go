// internal/directory/repository.go
package directory

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"quiz-platform/internal/models"
	"quiz-platform/pkg/logger"
)

var ErrNotFound = errors.New("directory: record not found")

// Repository reads the user and question tables owned by other modules.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Log.Error("Error getting user", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}
	return &user, nil
}

// FindQuestionsByIDs loads the questions with their taxonomy. Unknown ids are
// simply absent from the result.
func (r *Repository) FindQuestionsByIDs(ctx context.Context, ids []string) ([]models.Question, error) {
	questions := make([]models.Question, 0, len(ids))
	if len(ids) == 0 {
		return questions, nil
	}

	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Level").
		Preload("Topic").
		Where("id IN ?", ids).
		Find(&questions).Error
	if err != nil {
		logger.Log.Error("Error getting questions", zap.Int("count", len(ids)), zap.Error(err))
		return nil, err
	}
	return questions, nil
}

func (r *Repository) QuestionStats(ctx context.Context) (models.QuestionStats, error) {
	var stats models.QuestionStats
	err := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Select("COUNT(*) AS total, COALESCE(SUM(coins), 0) AS total_coins").
		Scan(&stats).Error
	if err != nil {
		logger.Log.Error("Error computing question stats", zap.Error(err))
		return models.QuestionStats{}, err
	}
	return stats, nil
}
