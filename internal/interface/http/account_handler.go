package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/locshare-api/internal/application"
	"github.com/oksasatya/locshare-api/internal/domain/repository"
	"github.com/oksasatya/locshare-api/pkg/response"
	"github.com/oksasatya/locshare-api/pkg/validation"
)

// Per-account flood limits on the unauthenticated endpoints.
const (
	signupFloodMax   = 10
	resetFloodMax    = 5
	accountFloodSpan = time.Hour
)

type AccountHandler struct {
	Svc    *application.AccountService
	Flood  repository.FloodRepository
	Logger *logrus.Logger
}

func NewAccountHandler(svc *application.AccountService, flood repository.FloodRepository, logger *logrus.Logger) *AccountHandler {
	return &AccountHandler{Svc: svc, Flood: flood, Logger: logger}
}

type signUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	DeviceID string `json:"device_id" binding:"required"`
	Language string `json:"language" binding:"omitempty,langcode"`
}

func (h *AccountHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	floodKey := "signup:" + h.Svc.UserID(strings.ToLower(req.Email))
	if ok, err := h.Flood.Check(c.Request.Context(), floodKey, accountFloodSpan, signupFloodMax); err == nil && !ok {
		response.Error[any](c, http.StatusTooManyRequests, "too many signup attempts", nil)
		return
	}

	res, err := h.Svc.SignUp(c.Request.Context(), application.SignUpInput{
		Email:    req.Email,
		DeviceID: req.DeviceID,
		Language: req.Language,
	})
	if err != nil {
		response.Error[any](c, application.StatusFor(err), "signup failed", nil)
		return
	}
	response.Success(c, http.StatusOK, res, "signed up", nil)
}

// Reset consumes an emailed recovery link. It is the only account endpoint
// reached from a browser rather than the app.
func (h *AccountHandler) Reset(c *gin.Context) {
	resetID := c.Param("resetID")

	floodKey := "reset:" + c.GetString("real_ip")
	if ok, err := h.Flood.Check(c.Request.Context(), floodKey, accountFloodSpan, resetFloodMax); err == nil && !ok {
		response.Error[any](c, http.StatusTooManyRequests, "too many reset attempts", nil)
		return
	}

	msg, err := h.Svc.ConsumeResetCode(c.Request.Context(), resetID)
	if err != nil {
		response.Error[any](c, application.StatusFor(err), "reset link is invalid or expired", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": msg}, "recovery mode enabled", nil)
}
