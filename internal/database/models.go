package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User 表示系统中的账号，邮箱在存储前统一小写并去除首尾空白。
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"uniqueIndex;size:255;not null"`
	Resumes   []Resume  `gorm:"constraint:OnDelete:CASCADE"`
	Quizzes   []Quiz    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Resume 表示用户创建的一份简历。
// PersonalDetails、Skills、Languages、Hobbies 作为 JSON 文档嵌入本行；
// Educations 与 Employment 是规范化的子表行，随简历级联删除。
type Resume struct {
	ID              uuid.UUID                           `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID                           `gorm:"type:uuid;index;not null"`
	PersonalDetails datatypes.JSONType[PersonalDetails] `gorm:"type:jsonb"`
	Skills          datatypes.JSONSlice[Skill]          `gorm:"type:jsonb"`
	Languages       datatypes.JSONSlice[Language]       `gorm:"type:jsonb"`
	Hobbies         datatypes.JSONSlice[string]         `gorm:"type:jsonb"`
	Educations      []Education                         `gorm:"constraint:OnDelete:CASCADE"`
	Employment      []Employment                        `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PersonalDetails 是简历的个人信息部分，整体序列化进 Resume 行的 JSON 列。
type PersonalDetails struct {
	Name               string        `json:"name"`
	DesiredJobPosition *string       `json:"desiredJobPosition"`
	EmailAddress       string        `json:"emailAddress"`
	PhoneNumber        *string       `json:"phoneNumber"`
	Address            *string       `json:"address"`
	PostCode           *string       `json:"postCode"`
	City               *string       `json:"city"`
	DateOfBirth        *Date         `json:"dateOfBirth"`
	DriverLicense      *string       `json:"driverLicense"`
	Gender             *string       `json:"gender"`
	Nationality        *string       `json:"nationality"`
	CivilStatus        *string       `json:"civilStatus"`
	Website            *string       `json:"website"`
	LinkedIn           *string       `json:"linkedIn"`
	CustomFields       []CustomField `json:"customFields"`
}

// CustomField 是个人信息里的自定义键值对，嵌入在同一个 JSON 文档内。
type CustomField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Skill 表示技能，名称加一个内嵌的 Level。
type Skill struct {
	Name  string `json:"name"`
	Level Level  `json:"level"`
}

// Language 表示语言能力，形状与 Skill 一致。
type Language struct {
	Name  string `json:"name"`
	Level Level  `json:"level"`
}

// Level 是技能/语言的掌握程度。
type Level struct {
	Value       int     `json:"value"`
	Description *string `json:"description"`
}

// Education 是简历的教育经历子表行。
type Education struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ResumeID      uuid.UUID `gorm:"type:uuid;index;not null"`
	EducationName string    `gorm:"size:255;not null"`
	School        string    `gorm:"size:255;not null"`
	City          *string   `gorm:"size:100"`
	StartDate     *Date
	EndDate       *Date
	Description   *string `gorm:"size:2000"`
}

// Employment 是简历的工作经历子表行。
type Employment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ResumeID    uuid.UUID `gorm:"type:uuid;index;not null"`
	JobTitle    string    `gorm:"size:255;not null"`
	Employer    string    `gorm:"size:255;not null"`
	City        *string   `gorm:"size:100"`
	StartDate   *Date
	EndDate     *Date
	Description *string `gorm:"size:2000"`
}

// Quiz 记录用户完成的一次测验，只增不改。
type Quiz struct {
	QuizID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	QuizScore int       `gorm:"not null"`
	CreatedAt time.Time
}

// 主键由服务端生成，客户端提交的 ID 在创建时会被覆盖；
// 以下钩子兜底处理嵌套创建时未显式赋值的行。

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (r *Resume) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (e *Education) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (e *Employment) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (q *Quiz) BeforeCreate(*gorm.DB) error {
	if q.QuizID == uuid.Nil {
		q.QuizID = uuid.New()
	}
	return nil
}
