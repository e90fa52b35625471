package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/locshare-api/internal/application"
	"github.com/oksasatya/locshare-api/internal/interface/middleware"
	"github.com/oksasatya/locshare-api/pkg/response"
	"github.com/oksasatya/locshare-api/pkg/validation"
)

type SharingHandler struct {
	Svc    *application.SharingService
	Logger *logrus.Logger
}

func NewSharingHandler(svc *application.SharingService, logger *logrus.Logger) *SharingHandler {
	return &SharingHandler{Svc: svc, Logger: logger}
}

type allowRequest struct {
	Emails []string `json:"emails" binding:"required,min=1,dive,email"`
}

func (h *SharingHandler) Allow(c *gin.Context) {
	var req allowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u := middleware.UserFromCtx(c)
	if err := h.Svc.AllowToSee(c.Request.Context(), u, req.Emails); err != nil {
		response.Error[any](c, application.StatusFor(err), "failed to allow", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"allowed": len(req.Emails)}, "sharing granted", nil)
}

func (h *SharingHandler) Deny(c *gin.Context) {
	targetID := c.Param("targetID")
	u := middleware.UserFromCtx(c)
	if err := h.Svc.DenyToSee(c.Request.Context(), u.ID, targetID); err != nil {
		response.Error[any](c, application.StatusFor(err), "failed to deny", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"denied": targetID}, "sharing revoked", nil)
}

func (h *SharingHandler) RequestLocationUpdates(c *gin.Context) {
	u := middleware.UserFromCtx(c)
	if err := h.Svc.RequestLocationUpdates(c.Request.Context(), u.ID); err != nil {
		response.Error[any](c, application.StatusFor(err), "failed to request updates", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"requested": true}, "location updates requested", nil)
}
