package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"jobhelper/internal/database"
)

func TestQuizCreate_WithoutOwner(t *testing.T) {
	db := newTestDB(t)
	quizzes := NewQuizService(db, nil)

	_, err := quizzes.Create(context.Background(), uuid.New(), database.Quiz{QuizScore: 50})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if n := countRows(t, db, &database.Quiz{}, ""); n != 0 {
		t.Fatalf("expected no quiz rows, got %d", n)
	}
}

func TestQuizCreateAndList(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db, nil)
	quizzes := NewQuizService(db, nil)
	ctx := context.Background()

	user, err := users.Create(ctx, "kev@example.com")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	submitted := database.Quiz{QuizID: uuid.New(), QuizScore: 90}
	created, err := quizzes.Create(ctx, user.ID, submitted)
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	if created.QuizID == submitted.QuizID {
		t.Fatal("expected server-generated quiz id, client id was kept")
	}
	if created.UserID != user.ID {
		t.Fatalf("expected ownership %s, got %s", user.ID, created.UserID)
	}

	list, err := quizzes.ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("list quizzes: %v", err)
	}
	if len(list) != 1 || list[0].QuizScore != 90 {
		t.Fatalf("unexpected quiz list: %+v", list)
	}
}
