package answer

import (
	"fmt"

	"quiz-platform/internal/models"
)

// orderedSet keeps the first value seen per key, in insertion order.
type orderedSet[T any] struct {
	keys   []string
	values map[string]T
}

func newOrderedSet[T any]() *orderedSet[T] {
	return &orderedSet[T]{values: make(map[string]T)}
}

func (s *orderedSet[T]) addIfAbsent(key string, value T) {
	if _, ok := s.values[key]; ok {
		return
	}
	s.keys = append(s.keys, key)
	s.values[key] = value
}

func (s *orderedSet[T]) list() []T {
	out := make([]T, 0, len(s.keys))
	for _, key := range s.keys {
		out = append(out, s.values[key])
	}
	return out
}

// DanglingReferenceError reports an embedded question id the directory no longer knows.
type DanglingReferenceError struct {
	AnswerID   string
	QuestionID string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("answer %s references missing question %s", e.AnswerID, e.QuestionID)
}

// Fold builds the history view from attempts in store order. Questions missing from
// questions are skipped unless strict is set.
func Fold(attempts []models.Answer, questions map[string]models.Question, strict bool) (models.UserHistory, error) {
	categories := newOrderedSet[models.CategoryItem]()
	levels := newOrderedSet[models.TaxonomyItem]()
	topics := newOrderedSet[models.TaxonomyItem]()

	history := models.UserHistory{Answers: make([]models.HistoryAttempt, 0, len(attempts))}

	for _, attempt := range attempts {
		entry := models.HistoryAttempt{
			ID:           attempt.ID,
			QuizID:       attempt.QuizID,
			FinishedDate: attempt.CreatedAt,
			Questions:    make([]models.HistoryQuestion, 0, len(attempt.Answers)),
		}

		for _, ans := range attempt.Answers {
			q, ok := questions[ans.QuestionID]
			if !ok {
				if strict {
					return models.UserHistory{}, &DanglingReferenceError{AnswerID: attempt.ID, QuestionID: ans.QuestionID}
				}
				continue
			}

			entry.TotalCoins += q.Coins
			if ans.IsCorrect {
				entry.EarnCoins += q.Coins
				history.EarnedCoins += q.Coins
				history.Correct++
			} else {
				history.InCorrect++
			}

			entry.Questions = append(entry.Questions, q.ToHistoryDTO(ans))

			if q.Category != nil {
				categories.addIfAbsent(q.Category.ID, models.CategoryItem{
					ID:    q.Category.ID,
					Title: q.Category.Title,
					Image: q.Category.Image,
				})
			}
			if q.Level != nil {
				levels.addIfAbsent(q.Level.ID, models.TaxonomyItem{ID: q.Level.ID, Title: q.Level.Title})
			}
			if q.Topic != nil {
				topics.addIfAbsent(q.Topic.ID, models.TaxonomyItem{ID: q.Topic.ID, Title: q.Topic.Title})
			}
		}

		history.Answers = append(history.Answers, entry)
	}

	history.Categories = categories.list()
	history.Levels = levels.list()
	history.Topics = topics.list()

	return history, nil
}

// questionIDs returns the distinct embedded question ids in discovery order.
func questionIDs(attempts []models.Answer) []string {
	seen := make(map[string]bool)
	ids := make([]string, 0)
	for _, attempt := range attempts {
		for _, ans := range attempt.Answers {
			if seen[ans.QuestionID] {
				continue
			}
			seen[ans.QuestionID] = true
			ids = append(ids, ans.QuestionID)
		}
	}
	return ids
}
