package handlers

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-task-dashboard/internal/application"
	"github.com/oksasatya/go-ddd-task-dashboard/internal/domain/entity"
	"github.com/oksasatya/go-ddd-task-dashboard/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-task-dashboard/pkg/response"
)

const (
	maxAvatarBytes = 5 << 20
	// maxAvatarForm leaves room for the multipart framing around the file.
	maxAvatarForm = maxAvatarBytes + 64<<10
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// A JSON null is treated the same as an absent field.
type updateProfileRequest struct {
	Name   *string `json:"name"`
	Bio    *string `json:"bio"`
	Avatar *string `json:"avatar"`
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toProfile(u), "")
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), c.GetString(middleware.ContextUserID), entity.ProfilePatch{
		Name:      req.Name,
		Bio:       req.Bio,
		AvatarURL: req.Avatar,
	})
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toProfile(u), "Profile updated")
}

func avatarTooLarge(c *gin.Context) {
	response.Error(c, http.StatusBadRequest, "Avatar too large", map[string]string{"avatar": "must be at most 5 MB"})
}

// UploadAvatar accepts a multipart form with the image in the "avatar" field.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAvatarForm)
	fh, err := c.FormFile("avatar")
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		avatarTooLarge(c)
		return
	}
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Avatar file is required", map[string]string{"avatar": "is required"})
		return
	}
	if fh.Size > maxAvatarBytes {
		avatarTooLarge(c)
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mime.TypeByExtension(filepath.Ext(fh.Filename))
	}

	f, err := fh.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Avatar file is unreadable", nil)
		return
	}
	defer func() { _ = f.Close() }()

	u, err := h.Svc.UploadAvatar(c.Request.Context(), c.GetString(middleware.ContextUserID), f, fh.Filename, contentType)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toProfile(u), "Profile updated")
}
