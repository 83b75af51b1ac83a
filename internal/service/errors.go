package service

import "errors"

// 服务层只暴露可分类的领域错误，其余存储错误包装后原样向上传递。
var (
	// ErrEmailRequired 表示邮箱为空或全空白。
	ErrEmailRequired = errors.New("email is required")
	// ErrEmailTaken 表示归一化后的邮箱已被占用（含并发插入撞唯一索引的情况）。
	ErrEmailTaken = errors.New("email already taken")
	// ErrUserNotFound 表示目标用户不存在。
	ErrUserNotFound = errors.New("user not found")
	// ErrResumeNotFound 表示目标简历不存在。
	ErrResumeNotFound = errors.New("resume not found")
)
