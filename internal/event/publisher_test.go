package event

import (
	"context"
	"testing"
)

func TestDisabledPublisherDropsEvents(t *testing.T) {
	p, err := NewRabbitPublisher("", "quiz.events")
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}
	if err := p.PublishAnswersSubmitted(context.Background(), AnswersSubmitted{AnswerID: "a"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := p.PublishAnswersDeleted(context.Background(), AnswersDeleted{IDs: []string{"a"}, DeletedCount: 1}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestMemoryPublisherRecords(t *testing.T) {
	p := NewMemoryPublisher()
	_ = p.PublishAnswersSubmitted(context.Background(), AnswersSubmitted{QuizID: "ABCD1234"})
	_ = p.PublishAnswersDeleted(context.Background(), AnswersDeleted{DeletedCount: 2})

	if len(p.Submitted) != 1 || p.Submitted[0].QuizID != "ABCD1234" {
		t.Fatalf("unexpected submitted events %+v", p.Submitted)
	}
	if len(p.Deleted) != 1 || p.Deleted[0].DeletedCount != 2 {
		t.Fatalf("unexpected deleted events %+v", p.Deleted)
	}
}
