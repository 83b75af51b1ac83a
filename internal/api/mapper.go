package api

import (
	"gorm.io/datatypes"

	"jobhelper/internal/database"
)

// 映射层：领域模型与 API 模型之间的纯结构拷贝，不做任何值变换。
// 所有切片都重新构建，绝不与输入共享底层数组。

func UserToAPI(u database.User) APIUser {
	resumes := make([]APIResume, 0, len(u.Resumes))
	for _, r := range u.Resumes {
		resumes = append(resumes, ResumeToAPI(r))
	}
	quizzes := make([]APIQuiz, 0, len(u.Quizzes))
	for _, q := range u.Quizzes {
		quizzes = append(quizzes, QuizToAPI(q))
	}
	return APIUser{
		ID:      u.ID,
		Email:   u.Email,
		Resumes: resumes,
		Quizzes: quizzes,
	}
}

func UserFromAPI(u APIUser) database.User {
	resumes := make([]database.Resume, 0, len(u.Resumes))
	for _, r := range u.Resumes {
		resumes = append(resumes, ResumeFromAPI(r))
	}
	quizzes := make([]database.Quiz, 0, len(u.Quizzes))
	for _, q := range u.Quizzes {
		quizzes = append(quizzes, QuizFromAPI(q))
	}
	return database.User{
		ID:      u.ID,
		Email:   u.Email,
		Resumes: resumes,
		Quizzes: quizzes,
	}
}

func ResumeToAPI(r database.Resume) APIResume {
	educations := make([]APIEducation, 0, len(r.Educations))
	for _, e := range r.Educations {
		educations = append(educations, EducationToAPI(e))
	}
	employment := make([]APIEmployment, 0, len(r.Employment))
	for _, e := range r.Employment {
		employment = append(employment, EmploymentToAPI(e))
	}
	skills := make([]APISkill, 0, len(r.Skills))
	for _, s := range r.Skills {
		skills = append(skills, APISkill{Name: s.Name, Level: APILevel(s.Level)})
	}
	languages := make([]APILanguage, 0, len(r.Languages))
	for _, l := range r.Languages {
		languages = append(languages, APILanguage{Name: l.Name, Level: APILevel(l.Level)})
	}
	hobbies := make([]string, 0, len(r.Hobbies))
	hobbies = append(hobbies, r.Hobbies...)

	return APIResume{
		ID:              r.ID,
		UserID:          r.UserID,
		PersonalDetails: personalDetailsToAPI(r.PersonalDetails.Data()),
		Educations:      educations,
		Employment:      employment,
		Skills:          skills,
		Languages:       languages,
		Hobbies:         hobbies,
	}
}

func ResumeFromAPI(r APIResume) database.Resume {
	educations := make([]database.Education, 0, len(r.Educations))
	for _, e := range r.Educations {
		educations = append(educations, EducationFromAPI(e))
	}
	employment := make([]database.Employment, 0, len(r.Employment))
	for _, e := range r.Employment {
		employment = append(employment, EmploymentFromAPI(e))
	}
	skills := make([]database.Skill, 0, len(r.Skills))
	for _, s := range r.Skills {
		skills = append(skills, database.Skill{Name: s.Name, Level: database.Level(s.Level)})
	}
	languages := make([]database.Language, 0, len(r.Languages))
	for _, l := range r.Languages {
		languages = append(languages, database.Language{Name: l.Name, Level: database.Level(l.Level)})
	}
	hobbies := make([]string, 0, len(r.Hobbies))
	hobbies = append(hobbies, r.Hobbies...)

	return database.Resume{
		ID:              r.ID,
		UserID:          r.UserID,
		PersonalDetails: datatypes.NewJSONType(personalDetailsFromAPI(r.PersonalDetails)),
		Skills:          skills,
		Languages:       languages,
		Hobbies:         hobbies,
		Educations:      educations,
		Employment:      employment,
	}
}

func personalDetailsToAPI(p database.PersonalDetails) APIPersonalDetails {
	fields := make([]APICustomField, 0, len(p.CustomFields))
	for _, f := range p.CustomFields {
		fields = append(fields, APICustomField(f))
	}
	return APIPersonalDetails{
		Name:               p.Name,
		DesiredJobPosition: p.DesiredJobPosition,
		EmailAddress:       p.EmailAddress,
		PhoneNumber:        p.PhoneNumber,
		Address:            p.Address,
		PostCode:           p.PostCode,
		City:               p.City,
		DateOfBirth:        p.DateOfBirth,
		DriverLicense:      p.DriverLicense,
		Gender:             p.Gender,
		Nationality:        p.Nationality,
		CivilStatus:        p.CivilStatus,
		Website:            p.Website,
		LinkedIn:           p.LinkedIn,
		CustomFields:       fields,
	}
}

func personalDetailsFromAPI(p APIPersonalDetails) database.PersonalDetails {
	fields := make([]database.CustomField, 0, len(p.CustomFields))
	for _, f := range p.CustomFields {
		fields = append(fields, database.CustomField(f))
	}
	return database.PersonalDetails{
		Name:               p.Name,
		DesiredJobPosition: p.DesiredJobPosition,
		EmailAddress:       p.EmailAddress,
		PhoneNumber:        p.PhoneNumber,
		Address:            p.Address,
		PostCode:           p.PostCode,
		City:               p.City,
		DateOfBirth:        p.DateOfBirth,
		DriverLicense:      p.DriverLicense,
		Gender:             p.Gender,
		Nationality:        p.Nationality,
		CivilStatus:        p.CivilStatus,
		Website:            p.Website,
		LinkedIn:           p.LinkedIn,
		CustomFields:       fields,
	}
}

func EducationToAPI(e database.Education) APIEducation {
	return APIEducation{
		ID:            e.ID,
		EducationName: e.EducationName,
		School:        e.School,
		City:          e.City,
		StartDate:     e.StartDate,
		EndDate:       e.EndDate,
		Description:   e.Description,
	}
}

func EducationFromAPI(e APIEducation) database.Education {
	return database.Education{
		ID:            e.ID,
		EducationName: e.EducationName,
		School:        e.School,
		City:          e.City,
		StartDate:     e.StartDate,
		EndDate:       e.EndDate,
		Description:   e.Description,
	}
}

func EmploymentToAPI(e database.Employment) APIEmployment {
	return APIEmployment{
		ID:          e.ID,
		JobTitle:    e.JobTitle,
		Employer:    e.Employer,
		City:        e.City,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		Description: e.Description,
	}
}

func EmploymentFromAPI(e APIEmployment) database.Employment {
	return database.Employment{
		ID:          e.ID,
		JobTitle:    e.JobTitle,
		Employer:    e.Employer,
		City:        e.City,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		Description: e.Description,
	}
}

func QuizToAPI(q database.Quiz) APIQuiz {
	return APIQuiz{
		QuizID:    q.QuizID,
		QuizScore: q.QuizScore,
		CreatedAt: q.CreatedAt,
	}
}

func QuizFromAPI(q APIQuiz) database.Quiz {
	return database.Quiz{
		QuizID:    q.QuizID,
		QuizScore: q.QuizScore,
		CreatedAt: q.CreatedAt,
	}
}
