package tasks

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypeCVPurge = "cv:purge"
)

// CVPurgePayload 描述清理已删除用户 CV 附件所需的最小信息。
type CVPurgePayload struct {
	UserID        uuid.UUID `json:"user_id"`
	CorrelationID string    `json:"correlation_id"`
}

// NewCVPurgeTask 构造一个清理用户 CV 附件的任务。
func NewCVPurgeTask(userID uuid.UUID, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(CVPurgePayload{
		UserID:        userID,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCVPurge, payload), nil
}
