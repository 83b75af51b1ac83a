package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"jobhelper/internal/config"
)

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

// InitDatabase 使用配置初始化 PostgreSQL 连接，并返回 GORM 数据库实例。
// 对瞬时的连接失败做有限次数的重试（间隔递增），重试耗尽后返回错误。
func InitDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap db: %w", err)
	}

	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	var pingErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		if pingErr = sqlDB.Ping(); pingErr == nil {
			return db, nil
		}
		time.Sleep(time.Duration(attempt) * connectBackoff)
	}

	return nil, fmt.Errorf("ping database after %d attempts: %w", connectAttempts, pingErr)
}

// Migrate 建表并保持与模型定义同步。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Resume{},
		&Education{},
		&Employment{},
		&Quiz{},
	)
}
