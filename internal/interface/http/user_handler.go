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

type UserHandler struct {
	Dashboards *application.DashboardService
	Profiles   *application.ProfileService
	Logger     *logrus.Logger
}

func NewUserHandler(dashboards *application.DashboardService, profiles *application.ProfileService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Dashboards: dashboards, Profiles: profiles, Logger: logger}
}

func (h *UserHandler) Dashboard(c *gin.Context) {
	u := middleware.UserFromCtx(c)
	d, err := h.Dashboards.Build(c.Request.Context(), u)
	if err != nil {
		response.Error[any](c, application.StatusFor(err), "failed to build dashboard", nil)
		return
	}
	response.Success(c, http.StatusOK, d, "dashboard", nil)
}

type locationRequest struct {
	Lat     float64 `json:"lat" binding:"latitude"`
	Lon     float64 `json:"lon" binding:"longitude"`
	Acc     float64 `json:"acc" binding:"gte=0"`
	Battery string  `json:"battery"`
}

func (h *UserHandler) ReportLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u := middleware.UserFromCtx(c)
	err := h.Profiles.UpdateLocation(c.Request.Context(), u, application.LocationInput{
		Lat: req.Lat, Lon: req.Lon, Acc: req.Acc, Battery: req.Battery,
	})
	if err != nil {
		response.Error[any](c, application.StatusFor(err), "failed to store location", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"stored": true}, "location stored", nil)
}

type visibilityRequest struct {
	Visibility *bool `json:"visibility" binding:"required"`
}

func (h *UserHandler) SetVisibility(c *gin.Context) {
	var req visibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u := middleware.UserFromCtx(c)
	if err := h.Profiles.SetVisibility(c.Request.Context(), u, *req.Visibility); err != nil {
		response.Error[any](c, application.StatusFor(err), "failed to set visibility", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"visibility": *req.Visibility}, "visibility updated", nil)
}

type languageRequest struct {
	Language string `json:"language" binding:"required,langcode"`
}

func (h *UserHandler) SetLanguage(c *gin.Context) {
	var req languageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u := middleware.UserFromCtx(c)
	if err := h.Profiles.SetLanguage(c.Request.Context(), u, req.Language); err != nil {
		response.Error[any](c, application.StatusFor(err), "failed to set language", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"language": req.Language}, "language updated", nil)
}

type pushTokenRequest struct {
	Token string `json:"token"`
}

// PushToken returns a handler bound to one token platform so each route
// stays a one-liner in the module.
func (h *UserHandler) PushToken(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req pushTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
			return
		}
		u := middleware.UserFromCtx(c)
		if err := h.Profiles.SetPushToken(c.Request.Context(), u, kind, req.Token); err != nil {
			response.Error[any](c, application.StatusFor(err), "failed to set push token", nil)
			return
		}
		response.Success[any](c, http.StatusOK, gin.H{"updated": true}, "push token updated", nil)
	}
}

type crashReportRequest struct {
	OSType     string `json:"osType" binding:"required,oneof=android ios wp"`
	Title      string `json:"title"`
	Report     string `json:"report" binding:"required"`
	AppVersion string `json:"appVersion"`
}

func (h *UserHandler) CrashReport(c *gin.Context) {
	var req crashReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u := middleware.UserFromCtx(c)
	err := h.Profiles.StoreCrashReport(c.Request.Context(), u.ID, application.CrashReportInput{
		OSType: req.OSType, Title: req.Title, Report: req.Report, AppVersion: req.AppVersion,
	})
	if err != nil {
		response.Error[any](c, application.StatusFor(err), "failed to store crash report", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"stored": true}, "crash report stored", nil)
}
