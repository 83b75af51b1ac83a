package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jobhelper/internal/database"
)

// UserService 负责用户的创建、查询与级联删除。
type UserService struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewUserService 构造 UserService。
func NewUserService(db *gorm.DB, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{db: db, logger: logger}
}

// NormalizeEmail 返回比较与落库用的邮箱形式：去首尾空白并小写。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create 创建新用户。邮箱为空返回 ErrEmailRequired；
// 已存在（包括并发创建撞唯一索引）返回 ErrEmailTaken。
func (s *UserService) Create(ctx context.Context, email string) (*database.User, error) {
	normalized := NormalizeEmail(email)
	if normalized == "" {
		return nil, ErrEmailRequired
	}

	var count int64
	if err := s.db.WithContext(ctx).
		Model(&database.User{}).
		Where("email = ?", normalized).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	user := database.User{
		ID:    uuid.New(),
		Email: normalized,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// 并发路径：存在性检查通过但插入撞了唯一索引。
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user created",
		slog.String("user_id", user.ID.String()),
		slog.String("email", user.Email),
	)
	return &user, nil
}

// GetByEmail 按归一化邮箱查询用户，附带全部简历（含子表）与测验记录。
func (s *UserService) GetByEmail(ctx context.Context, email string) (*database.User, error) {
	normalized := NormalizeEmail(email)
	if normalized == "" {
		return nil, ErrUserNotFound
	}

	var user database.User
	err := s.preloadUser(ctx).Where("email = ?", normalized).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	return &user, nil
}

// GetByID 按主键查询用户，附带全部简历（含子表）与测验记录。
func (s *UserService) GetByID(ctx context.Context, userID uuid.UUID) (*database.User, error) {
	var user database.User
	err := s.preloadUser(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return &user, nil
}

// GetOrCreate 返回已有用户，不存在则创建。
// 两个请求同时为同一邮箱建号时，后写方会在唯一索引上失败并回落为再查询。
func (s *UserService) GetOrCreate(ctx context.Context, email string) (*database.User, error) {
	user, err := s.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return user, nil
	case !errors.Is(err, ErrUserNotFound):
		return nil, err
	}

	created, err := s.Create(ctx, email)
	if err == nil {
		return created, nil
	}
	if errors.Is(err, ErrEmailTaken) {
		return s.GetByEmail(ctx, email)
	}
	return nil, err
}

// Exists 报告用户是否存在。
func (s *UserService) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&database.User{}).
		Where("id = ?", userID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return count > 0, nil
}

// Delete 删除用户及其全部简历（含子表行）与测验记录，单事务完成。
// 返回是否存在可删除的用户。
func (s *UserService) Delete(ctx context.Context, userID uuid.UUID) (bool, error) {
	found := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user database.User
		if err := tx.Select("id").Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("query user: %w", err)
		}
		found = true

		resumeIDs := tx.Model(&database.Resume{}).Select("id").Where("user_id = ?", userID)
		if err := tx.Where("resume_id IN (?)", resumeIDs).Delete(&database.Education{}).Error; err != nil {
			return fmt.Errorf("delete educations: %w", err)
		}
		if err := tx.Where("resume_id IN (?)", resumeIDs).Delete(&database.Employment{}).Error; err != nil {
			return fmt.Errorf("delete employment: %w", err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&database.Resume{}).Error; err != nil {
			return fmt.Errorf("delete resumes: %w", err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&database.Quiz{}).Error; err != nil {
			return fmt.Errorf("delete quizzes: %w", err)
		}
		if err := tx.Delete(&database.User{}, "id = ?", userID).Error; err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	if found {
		s.logger.Info("user deleted", slog.String("user_id", userID.String()))
	}
	return found, nil
}

func (s *UserService) preloadUser(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Resumes.Educations").
		Preload("Resumes.Employment").
		Preload("Resumes").
		Preload("Quizzes")
}
