package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jobhelper/internal/database"
)

// QuizService 负责测验成绩的写入与查询，没有更新与删除操作。
type QuizService struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewQuizService 构造 QuizService。
func NewQuizService(db *gorm.DB, logger *slog.Logger) *QuizService {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuizService{db: db, logger: logger}
}

// ListByUser 返回用户的全部测验记录。
func (s *QuizService) ListByUser(ctx context.Context, userID uuid.UUID) ([]database.Quiz, error) {
	var quizzes []database.Quiz
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&quizzes).Error
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return quizzes, nil
}

// Create 记录一次测验成绩。用户不存在返回 ErrUserNotFound，ID 由服务端生成。
func (s *QuizService) Create(ctx context.Context, userID uuid.UUID, quiz database.Quiz) (*database.Quiz, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&database.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return fmt.Errorf("check user exists: %w", err)
		}
		if count == 0 {
			return ErrUserNotFound
		}

		quiz.QuizID = uuid.New()
		quiz.UserID = userID
		if err := tx.Create(&quiz).Error; err != nil {
			return fmt.Errorf("create quiz: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("quiz recorded",
		slog.String("quiz_id", quiz.QuizID.String()),
		slog.String("user_id", userID.String()),
		slog.Int("score", quiz.QuizScore),
	)
	return &quiz, nil
}
