// internal/answer/scoring.go
package answer

import (
	"time"

	"quiz-platform/internal/models"
)

type ScoreResult struct {
	Answers    []models.ScoredAnswer
	Correct    int
	TotalCoins int
}

var (
	optionTypes = typeSet(models.MultipleChoice, models.Audio, models.Video, models.Image)
	inputTypes  = typeSet(models.Input, models.Audio, models.Video, models.Image)
	blankTypes  = typeSet(models.FillInTheBlank, models.Audio, models.Video, models.Image)
)

func typeSet(types ...models.QuestionType) map[models.QuestionType]bool {
	set := make(map[models.QuestionType]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set
}

// Score evaluates items against already-resolved questions. Every item's question
// must be present in questions; the caller validates that before scoring.
// Items without a timestamp are stamped with now.
func Score(questions map[string]models.Question, items []AnswerInput, now time.Time) ScoreResult {
	result := ScoreResult{Answers: make([]models.ScoredAnswer, 0, len(items))}

	for _, item := range items {
		question := questions[item.QuestionID]
		isCorrect := IsCorrect(question, item.UserAnswers)

		if isCorrect {
			result.Correct++
			result.TotalCoins += question.Coins
		}

		timestamp := now
		if item.Timestamp != nil {
			timestamp = *item.Timestamp
		}

		userAnswers := item.UserAnswers
		if userAnswers == nil {
			userAnswers = []string{}
		}

		result.Answers = append(result.Answers, models.ScoredAnswer{
			QuestionID:  item.QuestionID,
			UserAnswers: userAnswers,
			IsCorrect:   isCorrect,
			Timestamp:   timestamp,
		})
	}

	return result
}

// IsCorrect applies the option, free-input and blank rules in that order.
// Each applicable rule replaces the previous verdict, so media questions carrying
// several answer shapes are decided by the last shape present.
func IsCorrect(q models.Question, userAnswers []string) bool {
	isCorrect := false

	if optionTypes[q.Type] && len(q.Options) > 0 {
		isCorrect = matchesCorrectOption(q.Options, userAnswers)
	}

	if inputTypes[q.Type] && len(q.CorrectAnswers) > 0 {
		isCorrect = containsAny(q.CorrectAnswers, userAnswers)
	}

	if blankTypes[q.Type] && len(q.Blanks) > 0 {
		isCorrect = matchesBlank(q.Blanks, userAnswers)
	}

	return isCorrect
}

func matchesCorrectOption(options []models.Option, userAnswers []string) bool {
	correct := make([]string, 0, len(options))
	for _, opt := range options {
		if opt.IsCorrect {
			correct = append(correct, opt.Text)
		}
	}
	return containsAny(correct, userAnswers)
}

func containsAny(accepted, userAnswers []string) bool {
	for _, answer := range userAnswers {
		for _, candidate := range accepted {
			if answer == candidate {
				return true
			}
		}
	}
	return false
}

// matchesBlank compares each submitted value with the first accepted answer of the
// blank at the same index. Values past the last blank are ignored.
func matchesBlank(blanks []models.Blank, userAnswers []string) bool {
	for i, answer := range userAnswers {
		if i >= len(blanks) {
			break
		}
		accepted := blanks[i].CorrectAnswers
		if len(accepted) > 0 && accepted[0] == answer {
			return true
		}
	}
	return false
}
