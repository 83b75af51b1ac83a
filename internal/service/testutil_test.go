package service

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"jobhelper/internal/database"
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

func strPtr(s string) *string { return &s }

func sampleResume(name string) database.Resume {
	return database.Resume{
		PersonalDetails: datatypes.NewJSONType(database.PersonalDetails{
			Name:         name,
			EmailAddress: strings.ToLower(name) + "@example.com",
			City:         strPtr("Eindhoven"),
			CustomFields: []database.CustomField{{Label: "GitHub", Value: "github.com/" + name}},
		}),
		Skills: datatypes.JSONSlice[database.Skill]{
			{Name: "Go", Level: database.Level{Value: 3}},
		},
		Languages: datatypes.JSONSlice[database.Language]{
			{Name: "English", Level: database.Level{Value: 4, Description: strPtr("fluent")}},
		},
		Hobbies: datatypes.JSONSlice[string]{"climbing"},
		Educations: []database.Education{
			{EducationName: "BSc Computer Science", School: "TU/e", City: strPtr("Eindhoven")},
		},
		Employment: []database.Employment{
			{JobTitle: "Backend Engineer", Employer: "Acme", Description: strPtr("Go services")},
		},
	}
}

func countRows(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var count int64
	tx := db.Model(model)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	if err := tx.Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return count
}
