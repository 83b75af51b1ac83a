package api

import (
	"time"

	"github.com/google/uuid"

	"jobhelper/internal/database"
)

// 线上序列化使用 camelCase 字段名，与既有前端约定保持一致。
// API 模型与 internal/database 的领域模型逐字段同构，由 mapper.go 互转。

// APIUser 是账号的对外表示，嵌套完整简历与测验列表。
type APIUser struct {
	ID      uuid.UUID   `json:"id"`
	Email   string      `json:"email"`
	Resumes []APIResume `json:"resumes"`
	Quizzes []APIQuiz   `json:"quizzes"`
}

// APIResume 是一份简历的完整对外表示。
type APIResume struct {
	ID              uuid.UUID          `json:"id"`
	UserID          uuid.UUID          `json:"userId"`
	PersonalDetails APIPersonalDetails `json:"personalDetails"`
	Educations      []APIEducation     `json:"educations"`
	Employment      []APIEmployment    `json:"employment"`
	Skills          []APISkill         `json:"skills"`
	Languages       []APILanguage      `json:"languages"`
	Hobbies         []string           `json:"hobbies"`
}

// ResumeSummary 是列表接口返回的轻量条目。
type ResumeSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type APIPersonalDetails struct {
	Name               string           `json:"name"`
	DesiredJobPosition *string          `json:"desiredJobPosition"`
	EmailAddress       string           `json:"emailAddress"`
	PhoneNumber        *string          `json:"phoneNumber"`
	Address            *string          `json:"address"`
	PostCode           *string          `json:"postCode"`
	City               *string          `json:"city"`
	DateOfBirth        *database.Date   `json:"dateOfBirth"`
	DriverLicense      *string          `json:"driverLicense"`
	Gender             *string          `json:"gender"`
	Nationality        *string          `json:"nationality"`
	CivilStatus        *string          `json:"civilStatus"`
	Website            *string          `json:"website"`
	LinkedIn           *string          `json:"linkedIn"`
	CustomFields       []APICustomField `json:"customFields"`
}

type APICustomField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type APISkill struct {
	Name  string   `json:"name"`
	Level APILevel `json:"level"`
}

type APILanguage struct {
	Name  string   `json:"name"`
	Level APILevel `json:"level"`
}

type APILevel struct {
	Value       int     `json:"value"`
	Description *string `json:"description"`
}

type APIEducation struct {
	ID            uuid.UUID      `json:"id"`
	EducationName string         `json:"educationName"`
	School        string         `json:"school"`
	City          *string        `json:"city"`
	StartDate     *database.Date `json:"startDate"`
	EndDate       *database.Date `json:"endDate"`
	Description   *string        `json:"description"`
}

type APIEmployment struct {
	ID          uuid.UUID      `json:"id"`
	JobTitle    string         `json:"jobTitle"`
	Employer    string         `json:"employer"`
	City        *string        `json:"city"`
	StartDate   *database.Date `json:"startDate"`
	EndDate     *database.Date `json:"endDate"`
	Description *string        `json:"description"`
}

// APIQuiz 是一次测验结果的对外表示。
type APIQuiz struct {
	QuizID    uuid.UUID `json:"quizId"`
	QuizScore int       `json:"quizScore"`
	CreatedAt time.Time `json:"createdAt"`
}
