package directory

import (
	"context"

	"go.uber.org/zap"

	"quiz-platform/internal/models"
	"quiz-platform/pkg/logger"
)

const followUserColumns = "users.id, users.firstname, users.lastname, users.username, users.image"

// FollowStats returns who follows userID and whom userID follows, newest edge first.
func (r *Repository) FollowStats(ctx context.Context, userID string) (models.FollowStats, error) {
	stats := models.FollowStats{
		Follower:  []models.FollowUser{},
		Following: []models.FollowUser{},
	}

	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&stats.FollowerTotal).Error; err != nil {
		logger.Log.Error("Error counting followers", zap.String("user_id", userID), zap.Error(err))
		return models.FollowStats{}, err
	}
	if err := db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&stats.FollowingTotal).Error; err != nil {
		logger.Log.Error("Error counting followings", zap.String("user_id", userID), zap.Error(err))
		return models.FollowStats{}, err
	}

	err := db.Table("follows").
		Select(followUserColumns).
		Joins("JOIN users ON users.id = follows.follower_id").
		Where("follows.following_id = ?", userID).
		Order("follows.created_at desc").
		Scan(&stats.Follower).Error
	if err != nil {
		logger.Log.Error("Error listing followers", zap.String("user_id", userID), zap.Error(err))
		return models.FollowStats{}, err
	}

	err = db.Table("follows").
		Select(followUserColumns).
		Joins("JOIN users ON users.id = follows.following_id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at desc").
		Scan(&stats.Following).Error
	if err != nil {
		logger.Log.Error("Error listing followings", zap.String("user_id", userID), zap.Error(err))
		return models.FollowStats{}, err
	}

	return stats, nil
}
