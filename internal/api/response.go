package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobhelper/internal/errcode"
)

func Error(c *gin.Context, status, code int, msg string) {
	c.JSON(status, gin.H{"error": msg, "code": code})
}

func AbortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "code": errcode.Validation})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, errcode.Validation, "unauthorized")
}
func BadRequest(c *gin.Context, msg string) { Error(c, http.StatusBadRequest, errcode.Validation, msg) }
func Forbidden(c *gin.Context, msg string)  { Error(c, http.StatusForbidden, errcode.Validation, msg) }
func NotFound(c *gin.Context, msg string) {
	Error(c, http.StatusNotFound, errcode.ResourceMissing, msg)
}
func Conflict(c *gin.Context, msg string) { Error(c, http.StatusConflict, errcode.Conflict, msg) }
func Internal(c *gin.Context, msg string) {
	Error(c, http.StatusInternalServerError, errcode.SystemError, msg)
}
