package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"jobhelper/internal/database"
)

func TestResumeCreate_WithoutOwnerPersistsNothing(t *testing.T) {
	db := newTestDB(t)
	resumes := NewResumeService(db, nil)

	_, err := resumes.Create(context.Background(), uuid.New(), sampleResume("Nobody"))
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if n := countRows(t, db, &database.Resume{}, ""); n != 0 {
		t.Fatalf("expected no resume rows, got %d", n)
	}
	if n := countRows(t, db, &database.Education{}, ""); n != 0 {
		t.Fatalf("expected no education rows, got %d", n)
	}
	if n := countRows(t, db, &database.Employment{}, ""); n != 0 {
		t.Fatalf("expected no employment rows, got %d", n)
	}
}

func TestResumeCreate_IgnoresClientID(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db, nil)
	resumes := NewResumeService(db, nil)
	ctx := context.Background()

	user, err := users.Create(ctx, "erin@example.com")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	submitted := sampleResume("Erin")
	clientID := uuid.New()
	submitted.ID = clientID

	created, err := resumes.Create(ctx, user.ID, submitted)
	if err != nil {
		t.Fatalf("create resume: %v", err)
	}
	if created.ID == clientID {
		t.Fatal("expected server-generated id, client id was kept")
	}
	if created.UserID != user.ID {
		t.Fatalf("expected ownership %s, got %s", user.ID, created.UserID)
	}
	for _, e := range created.Educations {
		if e.ResumeID != created.ID {
			t.Fatalf("education row not attached to resume: %s", e.ResumeID)
		}
	}
}

func TestResumeGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	resumes := NewResumeService(db, nil)

	if _, err := resumes.GetByID(context.Background(), uuid.New()); !errors.Is(err, ErrResumeNotFound) {
		t.Fatalf("expected ErrResumeNotFound, got %v", err)
	}
}

func TestResumeUpdate_ReplacesChildCollections(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db, nil)
	resumes := NewResumeService(db, nil)
	ctx := context.Background()

	user, err := users.Create(ctx, "frank@example.com")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	initial := sampleResume("Frank")
	initial.Educations = []database.Education{
		{EducationName: "BSc", School: "TU/e"},
		{EducationName: "MSc", School: "TU/e"},
	}
	created, err := resumes.Create(ctx, user.ID, initial)
	if err != nil {
		t.Fatalf("create resume: %v", err)
	}
	if n := countRows(t, db, &database.Education{}, "resume_id = ?", created.ID); n != 2 {
		t.Fatalf("expected 2 education rows before update, got %d", n)
	}

	replacement := sampleResume("Frank")
	replacement.Educations = []database.Education{
		{EducationName: "PhD", School: "TU Delft"},
	}
	updated, err := resumes.Update(ctx, created.ID, replacement)
	if err != nil {
		t.Fatalf("update resume: %v", err)
	}

	if n := countRows(t, db, &database.Education{}, "resume_id = ?", created.ID); n != 1 {
		t.Fatalf("expected exactly 1 education row after update, got %d", n)
	}
	if len(updated.Educations) != 1 || updated.Educations[0].EducationName != "PhD" {
		t.Fatalf("unexpected educations after update: %+v", updated.Educations)
	}
}

func TestResumeUpdate_ReplacesDocumentSections(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db, nil)
	resumes := NewResumeService(db, nil)
	ctx := context.Background()

	user, err := users.Create(ctx, "grace@example.com")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	created, err := resumes.Create(ctx, user.ID, sampleResume("Grace"))
	if err != nil {
		t.Fatalf("create resume: %v", err)
	}

	replacement := database.Resume{
		PersonalDetails: datatypes.NewJSONType(database.PersonalDetails{
			Name:         "Grace Hopper",
			EmailAddress: "grace@example.com",
		}),
		Skills: datatypes.JSONSlice[database.Skill]{
			{Name: "COBOL", Level: database.Level{Value: 5}},
			{Name: "Go", Level: database.Level{Value: 2}},
		},
		// Languages 与 Hobbies 留空：整体替换后应清空，而不是保留旧值。
	}
	updated, err := resumes.Update(ctx, created.ID, replacement)
	if err != nil {
		t.Fatalf("update resume: %v", err)
	}

	if got := updated.PersonalDetails.Data().Name; got != "Grace Hopper" {
		t.Fatalf("expected replaced name, got %q", got)
	}
	if len(updated.Skills) != 2 {
		t.Fatalf("expected 2 skills, got %d", len(updated.Skills))
	}
	if len(updated.Languages) != 0 {
		t.Fatalf("expected languages cleared, got %d", len(updated.Languages))
	}
	if len(updated.Hobbies) != 0 {
		t.Fatalf("expected hobbies cleared, got %d", len(updated.Hobbies))
	}
}

func TestResumeUpdate_Missing(t *testing.T) {
	db := newTestDB(t)
	resumes := NewResumeService(db, nil)

	_, err := resumes.Update(context.Background(), uuid.New(), sampleResume("Ghost"))
	if !errors.Is(err, ErrResumeNotFound) {
		t.Fatalf("expected ErrResumeNotFound, got %v", err)
	}
}

func TestResumeDelete_CascadesChildren(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db, nil)
	resumes := NewResumeService(db, nil)
	ctx := context.Background()

	user, err := users.Create(ctx, "heidi@example.com")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	created, err := resumes.Create(ctx, user.ID, sampleResume("Heidi"))
	if err != nil {
		t.Fatalf("create resume: %v", err)
	}

	found, err := resumes.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("delete resume: %v", err)
	}
	if !found {
		t.Fatal("expected delete to report found")
	}
	if n := countRows(t, db, &database.Education{}, "resume_id = ?", created.ID); n != 0 {
		t.Fatalf("expected education rows removed, got %d", n)
	}
	if n := countRows(t, db, &database.Employment{}, "resume_id = ?", created.ID); n != 0 {
		t.Fatalf("expected employment rows removed, got %d", n)
	}

	found, err = resumes.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if found {
		t.Fatal("expected second delete to report not found")
	}
}

func TestResumeListByUser(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db, nil)
	resumes := NewResumeService(db, nil)
	ctx := context.Background()

	user, err := users.Create(ctx, "ivan@example.com")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	other, err := users.Create(ctx, "judy@example.com")
	if err != nil {
		t.Fatalf("create other user: %v", err)
	}
	if _, err := resumes.Create(ctx, user.ID, sampleResume("Ivan")); err != nil {
		t.Fatalf("create resume: %v", err)
	}
	if _, err := resumes.Create(ctx, other.ID, sampleResume("Judy")); err != nil {
		t.Fatalf("create other resume: %v", err)
	}

	list, err := resumes.ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("list resumes: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 resume, got %d", len(list))
	}
	if got := list[0].PersonalDetails.Data().Name; got != "Ivan" {
		t.Fatalf("expected Ivan's resume, got %q", got)
	}
	if len(list[0].Educations) != 1 {
		t.Fatalf("expected children preloaded, got %d educations", len(list[0].Educations))
	}
}
