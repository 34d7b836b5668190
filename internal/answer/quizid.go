package answer

import "math/rand"

const (
	quizIDCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	quizIDLength  = 8
)

// GenerateQuizID returns a shareable attempt code. Codes are not checked for
// uniqueness against stored attempts.
func GenerateQuizID() string {
	code := make([]byte, quizIDLength)
	for i := range code {
		code[i] = quizIDCharset[rand.Intn(len(quizIDCharset))]
	}
	return string(code)
}
