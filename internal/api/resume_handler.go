package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobhelper/internal/service"
)

// ResumeHandler 负责处理与简历相关的 API 请求。
type ResumeHandler struct {
	resumes *service.ResumeService
}

// NewResumeHandler 构造 ResumeHandler。
func NewResumeHandler(resumes *service.ResumeService) *ResumeHandler {
	return &ResumeHandler{resumes: resumes}
}

// ListResumes 列出用户的简历摘要（id + 姓名）。
func (h *ResumeHandler) ListResumes(c *gin.Context) {
	sessionUserID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	userID, ok := uuidParam(c, "userId")
	if !ok {
		BadRequest(c, "invalid user id")
		return
	}
	if userID != sessionUserID {
		NotFound(c, "user not found")
		return
	}

	resumes, err := h.resumes.ListByUser(c.Request.Context(), userID)
	if err != nil {
		Internal(c, "failed to list resumes")
		return
	}

	items := make([]ResumeSummary, 0, len(resumes))
	for _, r := range resumes {
		items = append(items, ResumeSummary{
			ID:   r.ID,
			Name: r.PersonalDetails.Data().Name,
		})
	}

	c.JSON(http.StatusOK, items)
}

// CreateResume 为用户创建一份新简历，所属用户不存在返回 400。
func (h *ResumeHandler) CreateResume(c *gin.Context) {
	sessionUserID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	userID, ok := uuidParam(c, "userId")
	if !ok {
		BadRequest(c, "invalid user id")
		return
	}
	if userID != sessionUserID {
		NotFound(c, "user not found")
		return
	}

	var req APIResume
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	created, err := h.resumes.Create(c.Request.Context(), userID, ResumeFromAPI(req))
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		BadRequest(c, "user not found")
		return
	case err != nil:
		Internal(c, "failed to create resume")
		return
	}

	c.JSON(http.StatusCreated, ResumeToAPI(*created))
}

// GetResume 返回指定 ID 的完整简历。
func (h *ResumeHandler) GetResume(c *gin.Context) {
	sessionUserID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	resumeID, ok := uuidParam(c, "resumeId")
	if !ok {
		BadRequest(c, "invalid resume id")
		return
	}

	resume, err := h.resumes.GetByID(c.Request.Context(), resumeID)
	switch {
	case errors.Is(err, service.ErrResumeNotFound):
		NotFound(c, "resume not found")
		return
	case err != nil:
		Internal(c, "failed to query resume")
		return
	}
	if resume.UserID != sessionUserID {
		NotFound(c, "resume not found")
		return
	}

	c.JSON(http.StatusOK, ResumeToAPI(*resume))
}

// UpdateResume 整体覆盖指定简历：JSON 文档字段全量替换，
// 教育/工作经历清空后按提交内容重建。
func (h *ResumeHandler) UpdateResume(c *gin.Context) {
	sessionUserID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	resumeID, ok := uuidParam(c, "resumeId")
	if !ok {
		BadRequest(c, "invalid resume id")
		return
	}

	existing, err := h.resumes.GetByID(c.Request.Context(), resumeID)
	switch {
	case errors.Is(err, service.ErrResumeNotFound):
		NotFound(c, "resume not found")
		return
	case err != nil:
		Internal(c, "failed to query resume")
		return
	}
	if existing.UserID != sessionUserID {
		NotFound(c, "resume not found")
		return
	}

	var req APIResume
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	updated, err := h.resumes.Update(c.Request.Context(), resumeID, ResumeFromAPI(req))
	switch {
	case errors.Is(err, service.ErrResumeNotFound):
		NotFound(c, "resume not found")
		return
	case err != nil:
		Internal(c, "failed to update resume")
		return
	}

	c.JSON(http.StatusOK, ResumeToAPI(*updated))
}

// DeleteResume 删除指定简历及其子表行。
func (h *ResumeHandler) DeleteResume(c *gin.Context) {
	sessionUserID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	resumeID, ok := uuidParam(c, "resumeId")
	if !ok {
		BadRequest(c, "invalid resume id")
		return
	}

	existing, err := h.resumes.GetByID(c.Request.Context(), resumeID)
	switch {
	case errors.Is(err, service.ErrResumeNotFound):
		NotFound(c, "resume not found")
		return
	case err != nil:
		Internal(c, "failed to query resume")
		return
	}
	if existing.UserID != sessionUserID {
		NotFound(c, "resume not found")
		return
	}

	found, err := h.resumes.Delete(c.Request.Context(), resumeID)
	if err != nil {
		Internal(c, "failed to delete resume")
		return
	}
	if !found {
		NotFound(c, "resume not found")
		return
	}

	c.Status(http.StatusNoContent)
}
