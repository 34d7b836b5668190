package answer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"quiz-platform/internal/directory"
	"quiz-platform/internal/event"
	"quiz-platform/internal/models"
)

type fakeStore struct {
	mu        sync.Mutex
	answers   []models.Answer
	clock     time.Time
	createErr error
	findErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (s *fakeStore) Create(_ context.Context, a *models.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	a.ID = uuid.NewString()
	s.clock = s.clock.Add(time.Minute)
	a.CreatedAt = s.clock
	a.UpdatedAt = s.clock
	s.answers = append(s.answers, *a)
	return nil
}

func (s *fakeStore) FindByUser(_ context.Context, userID string) ([]models.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	out := make([]models.Answer, 0)
	for _, a := range s.answers {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *fakeStore) DeleteMany(_ context.Context, ids []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := s.answers[:0]
	var deleted int64
	for _, a := range s.answers {
		if drop[a.ID] {
			deleted++
			continue
		}
		kept = append(kept, a)
	}
	s.answers = kept
	return deleted, nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}

type fakeDirectory struct {
	users     map[string]models.User
	questions map[string]models.Question
	userErr   error
	qErr      error
	calls     int
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		users:     make(map[string]models.User),
		questions: make(map[string]models.Question),
	}
}

func (d *fakeDirectory) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if d.userErr != nil {
		return nil, d.userErr
	}
	u, ok := d.users[id]
	if !ok {
		return nil, directory.ErrNotFound
	}
	return &u, nil
}

func (d *fakeDirectory) FindQuestionsByIDs(_ context.Context, ids []string) ([]models.Question, error) {
	d.calls++
	if d.qErr != nil {
		return nil, d.qErr
	}
	out := make([]models.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := d.questions[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

type sentMessage struct {
	userID      string
	messageType string
	data        interface{}
}

type fakeNotifier struct {
	sent []sentMessage
}

func (n *fakeNotifier) SendMessageToUser(userID string, messageType string, data interface{}) {
	n.sent = append(n.sent, sentMessage{userID: userID, messageType: messageType, data: data})
}

var errBoom = errors.New("boom")

type fixture struct {
	svc       *Service
	store     *fakeStore
	dir       *fakeDirectory
	notifier  *fakeNotifier
	publisher *event.MemoryPublisher
}

var fixedNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{
		store:     newFakeStore(),
		dir:       newFakeDirectory(),
		notifier:  &fakeNotifier{},
		publisher: event.NewMemoryPublisher(),
	}
	f.svc = NewService(f.store, f.dir, f.dir, f.notifier, f.publisher, false)
	f.svc.now = func() time.Time { return fixedNow }
	f.svc.newQuizID = func() string { return "QUIZ0001" }
	return f
}

func (f *fixture) addUser() string {
	id := uuid.NewString()
	f.dir.users[id] = models.User{ID: id, Username: "user-" + id[:4]}
	return id
}

func (f *fixture) addQuestion(q models.Question) models.Question {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	f.dir.questions[q.ID] = q
	return q
}

func item(questionID string, answers ...string) models.AnswerItem {
	return models.AnswerItem{QuestionID: questionID, UserAnswers: answers}
}
