// internal/answer/service.go
package answer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"quiz-platform/internal/apperror"
	"quiz-platform/internal/directory"
	"quiz-platform/internal/event"
	"quiz-platform/internal/models"
	"quiz-platform/pkg/logger"
	"quiz-platform/pkg/monitoring"
	"quiz-platform/pkg/tracing"
)

const ScoredMessageType = "answers_scored"

// AnswerInput is a validated submission item.
type AnswerInput struct {
	QuestionID  string
	UserAnswers []string
	Timestamp   *time.Time
}

type QuestionDirectory interface {
	FindQuestionsByIDs(ctx context.Context, ids []string) ([]models.Question, error)
}

type UserDirectory interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

type Store interface {
	Create(ctx context.Context, answer *models.Answer) error
	FindByUser(ctx context.Context, userID string) ([]models.Answer, error)
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}

// Notifier pushes a message to every live connection of a user.
type Notifier interface {
	SendMessageToUser(userID string, messageType string, data interface{})
}

type Service struct {
	store         Store
	questions     QuestionDirectory
	users         UserDirectory
	notifier      Notifier
	publisher     event.Publisher
	strictHistory bool

	newQuizID func() string
	now       func() time.Time
}

func NewService(store Store, questions QuestionDirectory, users UserDirectory, notifier Notifier, publisher event.Publisher, strictHistory bool) *Service {
	return &Service{
		store:         store,
		questions:     questions,
		users:         users,
		notifier:      notifier,
		publisher:     publisher,
		strictHistory: strictHistory,
		newQuizID:     GenerateQuizID,
		now:           time.Now,
	}
}

// Submit validates and scores one attempt, then stores it as a single row.
// Nothing is written unless every referenced question resolves.
func (s *Service) Submit(ctx context.Context, req models.CreateAnswersRequest) (models.SubmitResult, error) {
	ctx, span := tracing.Tracer.Start(ctx, "answer.Submit")
	defer span.End()

	parsedUser, err := uuid.Parse(req.UserID)
	if err != nil {
		return models.SubmitResult{}, apperror.InvalidInput("Invalid userId format")
	}
	req.UserID = parsedUser.String()

	if _, err := s.users.GetUserByID(ctx, req.UserID); err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return models.SubmitResult{}, apperror.NotFound("User not found")
		}
		return models.SubmitResult{}, apperror.Internal("Failed to load user", err)
	}

	items, err := s.parseItems(req.Answers)
	if err != nil {
		return models.SubmitResult{}, err
	}

	questions, err := s.resolveQuestions(ctx, items)
	if err != nil {
		return models.SubmitResult{}, err
	}

	scored := Score(questions, items, s.now())

	answer := &models.Answer{
		UserID:     req.UserID,
		QuizID:     s.newQuizID(),
		TotalCoins: scored.TotalCoins,
		Answers:    scored.Answers,
	}
	if err := s.store.Create(ctx, answer); err != nil {
		return models.SubmitResult{}, apperror.Internal("Failed to save answers", err)
	}

	span.SetAttributes(
		attribute.String("quiz.id", answer.QuizID),
		attribute.Int("answers.total", len(items)),
		attribute.Int("answers.correct", scored.Correct),
	)
	monitoring.RecordSubmission(len(items), scored.Correct, scored.TotalCoins)

	result := models.SubmitResult{
		Message:        "Answers successfully saved",
		Total:          len(items),
		CorrectAnswers: scored.Correct,
		TotalCoins:     scored.TotalCoins,
	}

	if s.notifier != nil {
		s.notifier.SendMessageToUser(req.UserID, ScoredMessageType, map[string]interface{}{
			"quizId":         answer.QuizID,
			"total":          result.Total,
			"correctAnswers": result.CorrectAnswers,
			"totalCoins":     result.TotalCoins,
		})
	}

	if s.publisher != nil {
		err := s.publisher.PublishAnswersSubmitted(ctx, event.AnswersSubmitted{
			AnswerID:       answer.ID,
			QuizID:         answer.QuizID,
			UserID:         answer.UserID,
			Total:          result.Total,
			CorrectAnswers: result.CorrectAnswers,
			TotalCoins:     result.TotalCoins,
			OccurredAt:     answer.CreatedAt,
		})
		if err != nil {
			logger.Log.Warn("Failed to publish answers submitted event", zap.String("answer_id", answer.ID), zap.Error(err))
		}
	}

	logger.Log.Info("Answers submitted",
		zap.String("user_id", req.UserID),
		zap.String("quiz_id", answer.QuizID),
		zap.Int("total", result.Total),
		zap.Int("correct", result.CorrectAnswers),
	)

	return result, nil
}

func (s *Service) parseItems(answers []models.AnswerItem) ([]AnswerInput, error) {
	if len(answers) == 0 {
		return nil, apperror.InvalidInput("answers must not be empty")
	}

	items := make([]AnswerInput, 0, len(answers))
	for _, a := range answers {
		if len(a.UserAnswers) == 0 {
			return nil, apperror.InvalidInput("userAnswers must not be empty")
		}
		questionID, err := uuid.Parse(a.QuestionID)
		if err != nil {
			return nil, apperror.InvalidInput("One or more question IDs are invalid")
		}

		item := AnswerInput{QuestionID: questionID.String(), UserAnswers: a.UserAnswers}
		if a.Timestamp != "" {
			ts, err := parseTimestamp(a.Timestamp)
			if err != nil {
				return nil, apperror.InvalidInput("timestamp must be a valid ISO date string")
			}
			item.Timestamp = &ts
		}
		items = append(items, item)
	}
	return items, nil
}

// Zone-less layouts are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseTimestamp(value string) (time.Time, error) {
	var err error
	for _, layout := range timestampLayouts {
		var ts time.Time
		if ts, err = time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, err
}

// resolveQuestions loads the distinct question set and fails on the first
// item, in submission order, whose question does not exist.
func (s *Service) resolveQuestions(ctx context.Context, items []AnswerInput) (map[string]models.Question, error) {
	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if !seen[item.QuestionID] {
			seen[item.QuestionID] = true
			ids = append(ids, item.QuestionID)
		}
	}

	found, err := s.questions.FindQuestionsByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.Internal("Failed to load questions", err)
	}

	questions := make(map[string]models.Question, len(found))
	for _, q := range found {
		questions[q.ID] = q
	}

	for _, id := range ids {
		if _, ok := questions[id]; !ok {
			return nil, apperror.InvalidInput(fmt.Sprintf("Question not found for ID: %s", id))
		}
	}
	return questions, nil
}

// DeleteMany removes attempts by id. Malformed ids are dropped before the delete.
func (s *Service) DeleteMany(ctx context.Context, ids []string) (models.DeleteResult, error) {
	ctx, span := tracing.Tracer.Start(ctx, "answer.DeleteMany")
	defer span.End()

	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if parsed, err := uuid.Parse(id); err == nil {
			valid = append(valid, parsed.String())
		}
	}
	if len(valid) == 0 {
		return models.DeleteResult{}, apperror.InvalidInput("No valid IDs provided")
	}

	deleted, err := s.store.DeleteMany(ctx, valid)
	if err != nil {
		return models.DeleteResult{}, apperror.Internal("Failed to delete answers", err)
	}
	if deleted == 0 {
		return models.DeleteResult{}, apperror.NotFound("No answer documents deleted")
	}

	if s.publisher != nil {
		err := s.publisher.PublishAnswersDeleted(ctx, event.AnswersDeleted{
			IDs:          valid,
			DeletedCount: deleted,
			OccurredAt:   s.now(),
		})
		if err != nil {
			logger.Log.Warn("Failed to publish answers deleted event", zap.Error(err))
		}
	}

	return models.DeleteResult{
		Message:      fmt.Sprintf("%d answer document(s) deleted successfully", deleted),
		DeletedCount: deleted,
	}, nil
}

// BuildUserHistory folds every stored attempt of userID into one view.
func (s *Service) BuildUserHistory(ctx context.Context, userID string) (models.UserHistory, error) {
	ctx, span := tracing.Tracer.Start(ctx, "answer.BuildUserHistory")
	defer span.End()

	parsedUser, err := uuid.Parse(userID)
	if err != nil {
		return models.UserHistory{}, apperror.InvalidInput("Invalid user ID")
	}
	userID = parsedUser.String()

	attempts, err := s.store.FindByUser(ctx, userID)
	if err != nil {
		return models.UserHistory{}, apperror.Internal("Failed to load answers", err)
	}

	questions := make(map[string]models.Question)
	if ids := questionIDs(attempts); len(ids) > 0 {
		found, err := s.questions.FindQuestionsByIDs(ctx, ids)
		if err != nil {
			return models.UserHistory{}, apperror.Internal("Failed to load questions", err)
		}
		for _, q := range found {
			questions[q.ID] = q
		}
	}

	history, err := Fold(attempts, questions, s.strictHistory)
	if err != nil {
		return models.UserHistory{}, apperror.Internal("Answer history references a missing question", err)
	}

	span.SetAttributes(attribute.Int("answers.attempts", len(history.Answers)))
	return history, nil
}
