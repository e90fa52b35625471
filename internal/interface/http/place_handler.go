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

type PlaceHandler struct {
	Svc    *application.ProfileService
	Logger *logrus.Logger
}

func NewPlaceHandler(svc *application.ProfileService, logger *logrus.Logger) *PlaceHandler {
	return &PlaceHandler{Svc: svc, Logger: logger}
}

type placeRequest struct {
	Name string  `json:"name" binding:"required"`
	Lat  float64 `json:"lat" binding:"latitude"`
	Lon  float64 `json:"lon" binding:"longitude"`
	Rad  float64 `json:"rad" binding:"required,gt=0"`
	Img  string  `json:"img"`
}

func (r placeRequest) toInput() application.PlaceInput {
	return application.PlaceInput{Name: r.Name, Lat: r.Lat, Lon: r.Lon, Rad: r.Rad, Img: r.Img}
}

func (h *PlaceHandler) List(c *gin.Context) {
	u := middleware.UserFromCtx(c)
	response.Success(c, http.StatusOK, h.Svc.Places(u), "places", nil)
}

func (h *PlaceHandler) Create(c *gin.Context) {
	var req placeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u := middleware.UserFromCtx(c)
	placeID, err := h.Svc.AddPlace(c.Request.Context(), u, req.toInput())
	if err != nil {
		response.Error[any](c, application.StatusFor(err), "failed to create place", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"id": placeID}, "place created", nil)
}

func (h *PlaceHandler) Update(c *gin.Context) {
	var req placeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u := middleware.UserFromCtx(c)
	placeID := c.Param("placeID")
	if err := h.Svc.UpdatePlace(c.Request.Context(), u, placeID, req.toInput()); err != nil {
		response.Error[any](c, application.StatusFor(err), "failed to update place", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"id": placeID}, "place updated", nil)
}

func (h *PlaceHandler) Delete(c *gin.Context) {
	u := middleware.UserFromCtx(c)
	placeID := c.Param("placeID")
	if err := h.Svc.RemovePlace(c.Request.Context(), u, placeID); err != nil {
		response.Error[any](c, application.StatusFor(err), "failed to delete place", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"id": placeID}, "place deleted", nil)
}
