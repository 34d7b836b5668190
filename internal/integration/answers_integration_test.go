//go:build integration

package integration

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"quiz-platform/internal/answer"
	"quiz-platform/internal/cabinet"
	"quiz-platform/internal/directory"
	"quiz-platform/internal/event"
	"quiz-platform/internal/models"
	"quiz-platform/pkg/cache"
	"quiz-platform/pkg/database"
)

func TestAnswersEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	db, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisAddr, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	alice, bob := seedUsers(t, db)
	capital, sum := seedQuestions(t, db)

	dir := directory.NewRepository(db)
	publisher := event.NewMemoryPublisher()
	answers := answer.NewService(answer.NewRepository(db), dir, dir, nil, publisher, false)

	result, err := answers.Submit(ctx, models.CreateAnswersRequest{
		UserID: alice.ID,
		Answers: []models.AnswerItem{
			{QuestionID: capital.ID, UserAnswers: []string{"Paris"}},
			{QuestionID: sum.ID, UserAnswers: []string{"5"}},
		},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Total != 2 || result.CorrectAnswers != 1 || result.TotalCoins != 10 {
		t.Fatalf("unexpected submit result %+v", result)
	}
	if len(publisher.Submitted) != 1 {
		t.Fatalf("expected one submitted event, got %d", len(publisher.Submitted))
	}

	history, err := answers.BuildUserHistory(ctx, alice.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history.Answers) != 1 || history.Correct != 1 || history.InCorrect != 1 || history.EarnedCoins != 10 {
		t.Fatalf("unexpected history %+v", history)
	}
	attempt := history.Answers[0]
	if attempt.TotalCoins != 15 || attempt.EarnCoins != 10 || len(attempt.QuizID) != 8 {
		t.Fatalf("unexpected attempt %+v", attempt)
	}
	if len(history.Categories) != 1 || history.Categories[0].Title != "Geography" {
		t.Fatalf("unexpected categories %+v", history.Categories)
	}

	if err := db.Create(&models.Follow{FollowerID: bob.ID, FollowingID: alice.ID}).Error; err != nil {
		t.Fatalf("seed follow: %v", err)
	}

	stats := cache.NewRedisCache(redisAddr, "", 0, time.Minute)
	defer stats.Close()
	page, err := cabinet.NewService(dir, answers, stats, "default.png").Cabinet(ctx, alice.ID)
	if err != nil {
		t.Fatalf("cabinet: %v", err)
	}
	if page.Results.Total != 2 || page.Results.TotalCoins != 15 || page.Results.EarnedCoins != 10 {
		t.Fatalf("unexpected cabinet results %+v", page.Results)
	}
	if page.User.Image != "default.png" || page.User.Follower != "1" || page.User.Following != "0" {
		t.Fatalf("unexpected cabinet user %+v", page.User)
	}
	if len(page.Follower) != 1 || page.Follower[0].Username != bob.Username {
		t.Fatalf("unexpected followers %+v", page.Follower)
	}

	deleted, err := answers.DeleteMany(ctx, []string{attempt.ID})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.DeletedCount != 1 {
		t.Fatalf("expected one deleted row, got %d", deleted.DeletedCount)
	}

	history, err = answers.BuildUserHistory(ctx, alice.ID)
	if err != nil {
		t.Fatalf("history after delete: %v", err)
	}
	if len(history.Answers) != 0 || history.EarnedCoins != 0 {
		t.Fatalf("expected empty history, got %+v", history)
	}
}

func seedUsers(t *testing.T, db *gorm.DB) (models.User, models.User) {
	t.Helper()
	alice := models.User{Firstname: "Alice", Lastname: "Smith", Username: "alice", Email: "alice@example.com"}
	bob := models.User{Firstname: "Bob", Lastname: "Jones", Username: "bob", Email: "bob@example.com"}
	for _, u := range []*models.User{&alice, &bob} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	return alice, bob
}

func seedQuestions(t *testing.T, db *gorm.DB) (models.Question, models.Question) {
	t.Helper()
	category := models.Category{Title: "Geography", Image: "geo.png"}
	level := models.Level{Title: "Easy"}
	topic := models.Topic{Title: "Capitals"}
	for _, row := range []interface{}{&category, &level, &topic} {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("seed taxonomy: %v", err)
		}
	}

	capital := models.Question{
		Question:   models.LocalizedText{En: "Capital of France?"},
		Type:       models.MultipleChoice,
		Coins:      10,
		Options:    []models.Option{{Text: "Paris", IsCorrect: true}, {Text: "Lyon"}},
		CategoryID: category.ID,
		LevelID:    level.ID,
		TopicID:    topic.ID,
	}
	sum := models.Question{
		Question:       models.LocalizedText{En: "2 + 2?"},
		Type:           models.Input,
		Coins:          5,
		CorrectAnswers: []string{"4", "four"},
		CategoryID:     category.ID,
		LevelID:        level.ID,
		TopicID:        topic.ID,
	}
	for _, q := range []*models.Question{&capital, &sum} {
		if err := db.Create(q).Error; err != nil {
			t.Fatalf("seed question: %v", err)
		}
	}
	return capital, sum
}

func startPostgres(t *testing.T, ctx context.Context) (*gorm.DB, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("postgres host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("postgres port: %v", err)
	}

	db, err := database.NewPostgresDB(&database.Config{
		Host:     host,
		Port:     port.Port(),
		User:     "quiz",
		Password: "quizpass",
		DBName:   "quizdb",
	})
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db, func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	return fmt.Sprintf("%s:%s", host, port.Port()), func() {
		_ = container.Terminate(ctx)
	}
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
