package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"jobhelper/internal/database"
)

// ResumeService 负责简历的增删改查。
// JSON 内嵌部分（个人信息、技能、语言、爱好）整体替换；
// Educations/Employment 子表按"清空重插"语义全量替换，不做差量合并。
type ResumeService struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewResumeService 构造 ResumeService。
func NewResumeService(db *gorm.DB, logger *slog.Logger) *ResumeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResumeService{db: db, logger: logger}
}

// ListByUser 返回用户的全部简历，附带教育与工作经历子表。
func (s *ResumeService) ListByUser(ctx context.Context, userID uuid.UUID) ([]database.Resume, error) {
	var resumes []database.Resume
	err := s.db.WithContext(ctx).
		Preload("Educations").
		Preload("Employment").
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&resumes).Error
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	return resumes, nil
}

// GetByID 返回指定简历的完整内容，不存在时返回 ErrResumeNotFound。
func (s *ResumeService) GetByID(ctx context.Context, resumeID uuid.UUID) (*database.Resume, error) {
	var resume database.Resume
	err := s.db.WithContext(ctx).
		Preload("Educations").
		Preload("Employment").
		Where("id = ?", resumeID).
		First(&resume).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResumeNotFound
		}
		return nil, fmt.Errorf("query resume: %w", err)
	}
	return &resume, nil
}

// Create 为用户新建一份简历。用户不存在返回 ErrUserNotFound 且不落任何行。
// 主键由服务端生成，提交的 ID 一律忽略；嵌套结构在同一事务内写入。
func (s *ResumeService) Create(ctx context.Context, userID uuid.UUID, resume database.Resume) (*database.Resume, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&database.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return fmt.Errorf("check user exists: %w", err)
		}
		if count == 0 {
			return ErrUserNotFound
		}

		resume.ID = uuid.New()
		resume.UserID = userID
		stampChildren(&resume)

		if err := tx.Create(&resume).Error; err != nil {
			return fmt.Errorf("create resume: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("resume created",
		slog.String("resume_id", resume.ID.String()),
		slog.String("user_id", userID.String()),
	)
	return &resume, nil
}

// Update 全量替换指定简历：JSON 文档整体覆盖，子表清空后按提交内容重插。
// 简历不存在返回 ErrResumeNotFound。
func (s *ResumeService) Update(ctx context.Context, resumeID uuid.UUID, resume database.Resume) (*database.Resume, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing database.Resume
		if err := tx.Select("id").Where("id = ?", resumeID).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrResumeNotFound
			}
			return fmt.Errorf("query resume: %w", err)
		}

		updates := map[string]any{
			"personal_details": resume.PersonalDetails,
			"skills":           resume.Skills,
			"languages":        resume.Languages,
			"hobbies":          resume.Hobbies,
		}
		if resume.Skills == nil {
			updates["skills"] = datatypes.JSONSlice[database.Skill]{}
		}
		if resume.Languages == nil {
			updates["languages"] = datatypes.JSONSlice[database.Language]{}
		}
		if resume.Hobbies == nil {
			updates["hobbies"] = datatypes.JSONSlice[string]{}
		}
		if err := tx.Model(&database.Resume{}).Where("id = ?", resumeID).Updates(updates).Error; err != nil {
			return fmt.Errorf("update resume document: %w", err)
		}

		if err := tx.Where("resume_id = ?", resumeID).Delete(&database.Education{}).Error; err != nil {
			return fmt.Errorf("clear educations: %w", err)
		}
		if err := tx.Where("resume_id = ?", resumeID).Delete(&database.Employment{}).Error; err != nil {
			return fmt.Errorf("clear employment: %w", err)
		}

		resume.ID = resumeID
		stampChildren(&resume)
		if len(resume.Educations) > 0 {
			if err := tx.Create(&resume.Educations).Error; err != nil {
				return fmt.Errorf("insert educations: %w", err)
			}
		}
		if len(resume.Employment) > 0 {
			if err := tx.Create(&resume.Employment).Error; err != nil {
				return fmt.Errorf("insert employment: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("resume updated", slog.String("resume_id", resumeID.String()))
	return s.GetByID(ctx, resumeID)
}

// Delete 删除简历及其子表行，返回是否存在可删除的简历。
func (s *ResumeService) Delete(ctx context.Context, resumeID uuid.UUID) (bool, error) {
	found := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var resume database.Resume
		if err := tx.Select("id").Where("id = ?", resumeID).First(&resume).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("query resume: %w", err)
		}
		found = true

		if err := tx.Where("resume_id = ?", resumeID).Delete(&database.Education{}).Error; err != nil {
			return fmt.Errorf("delete educations: %w", err)
		}
		if err := tx.Where("resume_id = ?", resumeID).Delete(&database.Employment{}).Error; err != nil {
			return fmt.Errorf("delete employment: %w", err)
		}
		if err := tx.Delete(&database.Resume{}, "id = ?", resumeID).Error; err != nil {
			return fmt.Errorf("delete resume: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	if found {
		s.logger.Info("resume deleted", slog.String("resume_id", resumeID.String()))
	}
	return found, nil
}

// stampChildren 为子表行生成新主键并回填外键。
func stampChildren(resume *database.Resume) {
	for i := range resume.Educations {
		resume.Educations[i].ID = uuid.New()
		resume.Educations[i].ResumeID = resume.ID
	}
	for i := range resume.Employment {
		resume.Employment[i].ID = uuid.New()
		resume.Employment[i].ResumeID = resume.ID
	}
}
