package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"jobhelper/internal/database"
	"jobhelper/internal/service"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// newTestRouter 挂载 CRUD 路由，会话中间件替换为固定身份注入。
func newTestRouter(t *testing.T, db *gorm.DB, sessionUserID *uuid.UUID) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := service.NewUserService(db, nil)
	resumes := service.NewResumeService(db, nil)
	quizzes := service.NewQuizService(db, nil)

	userHandler := NewUserHandler(users, nil)
	resumeHandler := NewResumeHandler(resumes)
	quizHandler := NewQuizHandler(quizzes)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if sessionUserID != nil {
			c.Set("userID", *sessionUserID)
		}
		c.Next()
	})

	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/users", userHandler.CreateUser)
		apiGroup.GET("/users/:userId", userHandler.GetUser)
		apiGroup.DELETE("/users/:userId", userHandler.DeleteUser)
		apiGroup.GET("/users/:userId/resumes", resumeHandler.ListResumes)
		apiGroup.POST("/users/:userId/resumes", resumeHandler.CreateResume)
		apiGroup.GET("/users/:userId/quizzes", quizHandler.ListQuizzes)
		apiGroup.POST("/users/:userId/quizzes", quizHandler.CreateQuiz)
		apiGroup.GET("/resumes/:resumeId", resumeHandler.GetResume)
		apiGroup.PUT("/resumes/:resumeId", resumeHandler.UpdateResume)
		apiGroup.DELETE("/resumes/:resumeId", resumeHandler.DeleteResume)
	}
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %s: %v", w.Body.String(), err)
	}
	return out
}

func TestEndToEnd_AliceScenario(t *testing.T) {
	db := newTestDB(t)
	users := service.NewUserService(db, nil)

	alice, err := users.Create(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	router := newTestRouter(t, db, &alice.ID)

	submitted := APIResume{
		PersonalDetails: APIPersonalDetails{
			Name:         "Alice",
			EmailAddress: "alice@example.com",
		},
		Skills: []APISkill{{Name: "Go", Level: APILevel{Value: 3}}},
	}
	w := doJSON(t, router, http.MethodPost, "/api/users/"+alice.ID.String()+"/resumes", submitted)
	if w.Code != http.StatusCreated {
		t.Fatalf("create resume: expected 201, got %d body=%s", w.Code, w.Body.String())
	}
	created := decodeBody[APIResume](t, w)
	if created.ID == uuid.Nil {
		t.Fatal("expected server-assigned resume id")
	}

	w = doJSON(t, router, http.MethodGet, "/api/users/"+alice.ID.String()+"/resumes", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list resumes: expected 200, got %d", w.Code)
	}
	summaries := decodeBody[[]ResumeSummary](t, w)
	if len(summaries) != 1 {
		t.Fatalf("expected exactly one summary, got %d", len(summaries))
	}
	if summaries[0].ID != created.ID || summaries[0].Name != "Alice" {
		t.Fatalf("unexpected summary %+v", summaries[0])
	}

	w = doJSON(t, router, http.MethodGet, "/api/resumes/"+created.ID.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get resume: expected 200, got %d", w.Code)
	}
	full := decodeBody[APIResume](t, w)
	if len(full.Skills) != 1 || full.Skills[0].Name != "Go" || full.Skills[0].Level.Value != 3 {
		t.Fatalf("unexpected skills %+v", full.Skills)
	}
}

func TestCreateResume_MissingOwner(t *testing.T) {
	db := newTestDB(t)
	ghost := uuid.New()
	router := newTestRouter(t, db, &ghost)

	w := doJSON(t, router, http.MethodPost, "/api/users/"+ghost.String()+"/resumes", APIResume{
		PersonalDetails: APIPersonalDetails{Name: "Ghost", EmailAddress: "ghost@example.com"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing owner, got %d body=%s", w.Code, w.Body.String())
	}
	var count int64
	if err := db.Model(&database.Resume{}).Count(&count).Error; err != nil {
		t.Fatalf("count resumes: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no orphan resume rows, got %d", count)
	}
}

func TestGetResume_NotFoundAndForeign(t *testing.T) {
	db := newTestDB(t)
	users := service.NewUserService(db, nil)
	resumes := service.NewResumeService(db, nil)

	owner, err := users.Create(context.Background(), "owner@example.com")
	if err != nil {
		t.Fatalf("create owner: %v", err)
	}
	created, err := resumes.Create(context.Background(), owner.ID, database.Resume{})
	if err != nil {
		t.Fatalf("create resume: %v", err)
	}

	intruder, err := users.Create(context.Background(), "intruder@example.com")
	if err != nil {
		t.Fatalf("create intruder: %v", err)
	}
	router := newTestRouter(t, db, &intruder.ID)

	w := doJSON(t, router, http.MethodGet, "/api/resumes/"+uuid.NewString(), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown resume, got %d", w.Code)
	}

	// 他人简历对非属主不可见。
	w = doJSON(t, router, http.MethodGet, "/api/resumes/"+created.ID.String(), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign resume, got %d", w.Code)
	}
}

func TestUpdateResume_FullReplace(t *testing.T) {
	db := newTestDB(t)
	users := service.NewUserService(db, nil)
	resumes := service.NewResumeService(db, nil)

	owner, err := users.Create(context.Background(), "update@example.com")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	created, err := resumes.Create(context.Background(), owner.ID, database.Resume{
		Educations: []database.Education{
			{EducationName: "BSc", School: "TU/e"},
			{EducationName: "MSc", School: "TU/e"},
		},
	})
	if err != nil {
		t.Fatalf("create resume: %v", err)
	}
	router := newTestRouter(t, db, &owner.ID)

	w := doJSON(t, router, http.MethodPut, "/api/resumes/"+created.ID.String(), APIResume{
		PersonalDetails: APIPersonalDetails{Name: "Updated", EmailAddress: "update@example.com"},
		Educations:      []APIEducation{{EducationName: "PhD", School: "TU Delft"}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	updated := decodeBody[APIResume](t, w)
	if len(updated.Educations) != 1 || updated.Educations[0].EducationName != "PhD" {
		t.Fatalf("expected replaced educations, got %+v", updated.Educations)
	}
	if updated.PersonalDetails.Name != "Updated" {
		t.Fatalf("expected replaced personal details, got %+v", updated.PersonalDetails)
	}
}

func TestUserLifecycle(t *testing.T) {
	db := newTestDB(t)
	users := service.NewUserService(db, nil)

	user, err := users.Create(context.Background(), "cycle@example.com")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	router := newTestRouter(t, db, &user.ID)

	w := doJSON(t, router, http.MethodPost, "/api/users/"+user.ID.String()+"/quizzes", APIQuiz{QuizScore: 88})
	if w.Code != http.StatusCreated {
		t.Fatalf("create quiz: expected 201, got %d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/users/"+user.ID.String()+"/quizzes", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list quizzes: expected 200, got %d", w.Code)
	}
	quizzes := decodeBody[[]APIQuiz](t, w)
	if len(quizzes) != 1 || quizzes[0].QuizScore != 88 {
		t.Fatalf("unexpected quizzes %+v", quizzes)
	}

	w = doJSON(t, router, http.MethodGet, "/api/users/"+user.ID.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get user: expected 200, got %d", w.Code)
	}
	apiUser := decodeBody[APIUser](t, w)
	if apiUser.Email != "cycle@example.com" || len(apiUser.Quizzes) != 1 {
		t.Fatalf("unexpected user payload %+v", apiUser)
	}

	w = doJSON(t, router, http.MethodDelete, "/api/users/"+user.ID.String(), nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete user: expected 204, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/users/"+user.ID.String(), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestCreateUser_Conflict(t *testing.T) {
	db := newTestDB(t)
	session := uuid.New()
	router := newTestRouter(t, db, &session)

	w := doJSON(t, router, http.MethodPost, "/api/users", map[string]string{"email": "dup@example.com"})
	if w.Code != http.StatusCreated {
		t.Fatalf("first create: expected 201, got %d body=%s", w.Code, w.Body.String())
	}
	w = doJSON(t, router, http.MethodPost, "/api/users", map[string]string{"email": " DUP@example.com"})
	if w.Code != http.StatusConflict {
		t.Fatalf("second create: expected 409, got %d body=%s", w.Code, w.Body.String())
	}
	w = doJSON(t, router, http.MethodPost, "/api/users", map[string]string{"email": "  "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("blank email: expected 400, got %d body=%s", w.Code, w.Body.String())
	}
}
