package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dutchcoders/go-clamd"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"jobhelper/internal/config"
	"jobhelper/internal/storage"
)

// cvStorage 是 CVHandler 依赖的最小对象存储接口。
type cvStorage interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error)
	GeneratePresignedURL(ctx context.Context, objectKey string, duration time.Duration) (string, error)
	ListObjects(ctx context.Context, prefix string, limit int) ([]storage.ObjectMeta, error)
	DeleteObject(ctx context.Context, objectKey string) error
}

// CVHandler 负责用户简历附件（CV 原件）的上传与访问。
type CVHandler struct {
	Storage   cvStorage
	Logger    *slog.Logger
	ClamdAddr string
	Upload    config.UploadConfig
}

// NewCVHandler 返回 CVHandler 实例。
func NewCVHandler(storageClient *storage.Client, logger *slog.Logger, clamdAddr string, upload config.UploadConfig) *CVHandler {
	return &CVHandler{
		Storage:   storageClient,
		Logger:    logger,
		ClamdAddr: clamdAddr,
		Upload:    upload,
	}
}

// UploadCV 处理 CV 上传：校验大小与类型，扫描病毒后入库。
func (h *CVHandler) UploadCV(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "missing file")
		return
	}

	if h.Upload.MaxBytes > 0 && file.Size > h.Upload.MaxBytes {
		BadRequest(c, "file too large")
		return
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if !h.mimeAllowed(contentType) {
		BadRequest(c, "unsupported file type")
		return
	}

	// 未配置 clamd 时跳过扫描（本地开发环境）。
	if h.ClamdAddr != "" {
		clamdClient := clamd.NewClamd(h.ClamdAddr)

		fileReader, err := file.Open()
		if err != nil {
			Internal(c, "failed to open file")
			return
		}

		abortChan := make(chan bool)
		scanChan, err := clamdClient.ScanStream(fileReader, abortChan)
		fileReader.Close()
		if err != nil {
			h.Logger.Error("scan file", slog.String("error", err.Error()))
			Internal(c, "failed to scan file")
			return
		}
		defer close(abortChan)

		for result := range scanChan {
			if result.Status != clamd.RES_OK {
				BadRequest(c, "malicious file detected")
				return
			}
		}
	}

	fileReader, err := file.Open()
	if err != nil {
		Internal(c, "failed to reopen file")
		return
	}
	defer fileReader.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		ext = ".bin"
	}
	objectKey := fmt.Sprintf("user-cv/%s/%s%s", userID, uuid.NewString(), ext)

	if _, err := h.Storage.UploadFile(c.Request.Context(), objectKey, fileReader, file.Size, contentType); err != nil {
		h.Logger.Error("upload file", slog.String("error", err.Error()))
		Internal(c, "failed to upload file")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"objectKey": objectKey})
}

// ListCVs 列出用户已上传的 CV 附件。
func (h *CVHandler) ListCVs(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	limitStr := c.DefaultQuery("limit", "60")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 60
	}
	if limit > 200 {
		limit = 200
	}

	prefix := fmt.Sprintf("user-cv/%s/", userID)
	objects, err := h.Storage.ListObjects(c.Request.Context(), prefix, limit)
	if err != nil {
		h.Logger.Error("list cv attachments", slog.String("error", err.Error()))
		Internal(c, "failed to list attachments")
		return
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].LastModified.After(objects[j].LastModified)
	})

	items := make([]gin.H, 0, len(objects))
	for _, obj := range objects {
		url, err := h.Storage.GeneratePresignedURL(c.Request.Context(), obj.Key, 10*time.Minute)
		if err != nil {
			h.Logger.Error("generate cv url", slog.String("objectKey", obj.Key), slog.String("error", err.Error()))
			continue
		}
		items = append(items, gin.H{
			"objectKey":    obj.Key,
			"downloadUrl":  url,
			"size":         obj.Size,
			"lastModified": obj.LastModified,
		})
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetCVURL 返回附件的临时预签名 URL。
func (h *CVHandler) GetCVURL(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	objectKey := c.Query("key")
	if objectKey == "" {
		BadRequest(c, "missing key")
		return
	}

	if !h.ownsObject(userID, objectKey) {
		Forbidden(c, "access denied")
		return
	}

	signedURL, err := h.Storage.GeneratePresignedURL(c.Request.Context(), objectKey, 15*time.Minute)
	if err != nil {
		h.Logger.Error("generate presigned url", slog.String("error", err.Error()))
		Internal(c, "failed to generate url")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": signedURL})
}

// DeleteCV 删除指定附件，不存在也视为成功。
func (h *CVHandler) DeleteCV(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	objectKey := c.Query("key")
	if objectKey == "" {
		BadRequest(c, "missing key")
		return
	}

	if !h.ownsObject(userID, objectKey) {
		Forbidden(c, "access denied")
		return
	}

	if err := h.Storage.DeleteObject(c.Request.Context(), objectKey); err != nil {
		h.Logger.Error("delete cv attachment", slog.String("error", err.Error()))
		Internal(c, "failed to delete attachment")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CVHandler) ownsObject(userID uuid.UUID, objectKey string) bool {
	return strings.HasPrefix(objectKey, fmt.Sprintf("user-cv/%s/", userID))
}

func (h *CVHandler) mimeAllowed(contentType string) bool {
	if len(h.Upload.MIMEWhitelist) == 0 {
		return true
	}
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	for _, allowed := range h.Upload.MIMEWhitelist {
		if mediaType == strings.ToLower(strings.TrimSpace(allowed)) {
			return true
		}
	}
	return false
}
