// internal/cabinet/service.go
package cabinet

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"quiz-platform/internal/apperror"
	"quiz-platform/internal/directory"
	"quiz-platform/internal/models"
	"quiz-platform/pkg/cache"
	"quiz-platform/pkg/tracing"
)

type Directory interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	FollowStats(ctx context.Context, userID string) (models.FollowStats, error)
	QuestionStats(ctx context.Context) (models.QuestionStats, error)
}

type HistoryBuilder interface {
	BuildUserHistory(ctx context.Context, userID string) (models.UserHistory, error)
}

type StatsCache interface {
	QuestionStats(ctx context.Context, load cache.StatsLoader) (models.QuestionStats, error)
}

type Service struct {
	directory    Directory
	history      HistoryBuilder
	stats        StatsCache
	defaultImage string
}

// NewService wires the cabinet. stats may be nil, in which case question totals
// are read from the directory on every call.
func NewService(dir Directory, history HistoryBuilder, stats StatsCache, defaultImage string) *Service {
	return &Service{
		directory:    dir,
		history:      history,
		stats:        stats,
		defaultImage: defaultImage,
	}
}

// Cabinet assembles the profile page of user id.
func (s *Service) Cabinet(ctx context.Context, id string) (models.Cabinet, error) {
	ctx, span := tracing.Tracer.Start(ctx, "cabinet.Cabinet")
	defer span.End()

	if _, err := uuid.Parse(id); err != nil {
		return models.Cabinet{}, apperror.InvalidInput("Invalid user ID")
	}

	user, err := s.directory.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return models.Cabinet{}, apperror.NotFound("User not found")
		}
		return models.Cabinet{}, apperror.Internal("Failed to load user", err)
	}

	var (
		follow    models.FollowStats
		history   models.UserHistory
		questions models.QuestionStats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		follow, err = s.directory.FollowStats(gctx, id)
		if err != nil {
			return apperror.Internal("Failed to load follow stats", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		history, err = s.history.BuildUserHistory(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		questions, err = s.questionStats(gctx)
		if err != nil {
			return apperror.Internal("Failed to load question stats", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.Cabinet{}, err
	}

	image := user.Image
	if image == "" {
		image = s.defaultImage
	}

	return models.Cabinet{
		User: models.CabinetUser{
			ID:        user.ID,
			Bio:       user.Bio,
			Email:     user.Email,
			Firstname: user.Firstname,
			Lastname:  user.Lastname,
			Username:  user.Username,
			Image:     image,
			Follower:  RoundCount(follow.FollowerTotal),
			Following: RoundCount(follow.FollowingTotal),
		},
		Results: models.CabinetResults{
			Total:       questions.Total,
			Correct:     history.Correct,
			InCorrect:   history.InCorrect,
			EarnedCoins: history.EarnedCoins,
			TotalCoins:  questions.TotalCoins,
		},
		Levels:     nonNil(history.Levels),
		Topics:     nonNil(history.Topics),
		Answers:    nonNil(history.Answers),
		Follower:   nonNil(follow.Follower),
		Following:  nonNil(follow.Following),
		Categories: nonNil(history.Categories),
	}, nil
}

func (s *Service) questionStats(ctx context.Context) (models.QuestionStats, error) {
	if s.stats == nil {
		return s.directory.QuestionStats(ctx)
	}
	return s.stats.QuestionStats(ctx, s.directory.QuestionStats)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
