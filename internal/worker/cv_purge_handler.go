package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"jobhelper/internal/storage"
	"jobhelper/internal/tasks"
)

// CVPurgeHandler 负责消费用户简历附件清理任务。
// 用户删除后其上传的 CV 对象不再可达，由该任务异步回收存储空间。
type CVPurgeHandler struct {
	storage *storage.Client
	logger  *slog.Logger
}

// NewCVPurgeHandler 创建任务处理器。
func NewCVPurgeHandler(storage *storage.Client, logger *slog.Logger) *CVPurgeHandler {
	return &CVPurgeHandler{storage: storage, logger: logger}
}

// ProcessTask 实现 asynq.Handler。
func (h *CVPurgeHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload tasks.CVPurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.logger.Error("unmarshal task payload failed", slog.Any("error", err))
		return err
	}

	log := h.logger.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.String("user_id", payload.UserID.String()),
	)
	log.Info("Starting CV purge task...")

	prefix := fmt.Sprintf("user-cv/%s/", payload.UserID)
	removed, err := h.storage.DeletePrefix(ctx, prefix)
	if err != nil {
		log.Error("purge cv objects failed", slog.Any("error", err))
		return err
	}

	log.Info("CV purge task completed successfully.", slog.Int("removed", removed))
	return nil
}
