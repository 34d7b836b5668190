// internal/models/dto.go
package models

import "time"

type AnswerItem struct {
	QuestionID  string   `json:"questionId" validate:"required"`
	UserAnswers []string `json:"userAnswers" validate:"required,min=1"`
	Timestamp   string   `json:"timestamp,omitempty"`
}

type CreateAnswersRequest struct {
	UserID  string       `json:"userId" validate:"required"`
	Answers []AnswerItem `json:"answers" validate:"required,min=1,dive"`
}

type SubmitResult struct {
	Message        string `json:"message"`
	Total          int    `json:"total"`
	CorrectAnswers int    `json:"correctAnswers"`
	TotalCoins     int    `json:"totalCoins"`
}

type DeleteManyRequest struct {
	IDs []string `json:"ids"`
}

type DeleteResult struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}

type CategoryItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Image string `json:"image"`
}

type TaxonomyItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// HistoryQuestion merges a question with what the user submitted for it.
type HistoryQuestion struct {
	ID             string        `json:"id"`
	Question       LocalizedText `json:"question"`
	Type           QuestionType  `json:"type"`
	Coins          int           `json:"coins"`
	CorrectAnswers []string      `json:"correctAnswers"`
	Blanks         []Blank       `json:"blanks"`
	Options        []Option      `json:"options"`
	IsCorrect      bool          `json:"isCorrect"`
	UserAnswers    []string      `json:"userAnswers"`
	Media          Media         `json:"media"`
}

type HistoryAttempt struct {
	ID           string            `json:"id"`
	QuizID       string            `json:"quizId"`
	FinishedDate time.Time         `json:"finishedDate"`
	EarnCoins    int               `json:"earnCoins"`
	TotalCoins   int               `json:"totalCoins"`
	Questions    []HistoryQuestion `json:"questions"`
}

// UserHistory is the per-user rollup of every attempt. It is rebuilt on each request.
type UserHistory struct {
	Categories  []CategoryItem   `json:"categories"`
	Levels      []TaxonomyItem   `json:"levels"`
	Topics      []TaxonomyItem   `json:"topics"`
	Correct     int              `json:"correct"`
	InCorrect   int              `json:"inCorrect"`
	EarnedCoins int              `json:"earnedCoins"`
	Answers     []HistoryAttempt `json:"answers"`
}

type CabinetUser struct {
	ID        string `json:"id"`
	Bio       string `json:"bio"`
	Email     string `json:"email"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Username  string `json:"username"`
	Image     string `json:"image"`
	Follower  string `json:"follower"`
	Following string `json:"following"`
}

type CabinetResults struct {
	Total       int64 `json:"total"`
	Correct     int   `json:"correct"`
	InCorrect   int   `json:"inCorrect"`
	EarnedCoins int   `json:"earnedCoins"`
	TotalCoins  int64 `json:"totalCoins"`
}

type Cabinet struct {
	User       CabinetUser      `json:"user"`
	Results    CabinetResults   `json:"results"`
	Levels     []TaxonomyItem   `json:"levels"`
	Topics     []TaxonomyItem   `json:"topics"`
	Answers    []HistoryAttempt `json:"answers"`
	Follower   []FollowUser     `json:"follower"`
	Following  []FollowUser     `json:"following"`
	Categories []CategoryItem   `json:"categories"`
}

// ToHistoryDTO copies the display fields of q next to the submitted answer.
func (q Question) ToHistoryDTO(ans ScoredAnswer) HistoryQuestion {
	correctAnswers := q.CorrectAnswers
	if correctAnswers == nil {
		correctAnswers = []string{}
	}
	blanks := q.Blanks
	if blanks == nil {
		blanks = []Blank{}
	}
	options := q.Options
	if options == nil {
		options = []Option{}
	}
	userAnswers := ans.UserAnswers
	if userAnswers == nil {
		userAnswers = []string{}
	}

	return HistoryQuestion{
		ID:             q.ID,
		Question:       q.Question,
		Type:           q.Type,
		Coins:          q.Coins,
		CorrectAnswers: correctAnswers,
		Blanks:         blanks,
		Options:        options,
		IsCorrect:      ans.IsCorrect,
		UserAnswers:    userAnswers,
		Media:          q.Media,
	}
}
