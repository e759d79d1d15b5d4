package api

import (
	"net/http"

	"github.com/Domenick1991/flightbooking/internal/service/airplanes"
	"github.com/gin-gonic/gin"
)

type AirplaneHandler struct {
	service airplanes.AirplaneUseCase
}

func NewAirplaneHandler(service airplanes.AirplaneUseCase) *AirplaneHandler {
	return &AirplaneHandler{service: service}
}

func (h *AirplaneHandler) Register(public, enterprise *gin.RouterGroup) {
	public.GET("/airplanes", h.list)
	public.GET("/airplanes/:plate", h.get)

	enterprise.POST("/airplanes", h.create)
	enterprise.PUT("/airplanes/:plate", h.update)
	enterprise.DELETE("/airplanes/:plate", h.delete)
}

func (h *AirplaneHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *AirplaneHandler) get(c *gin.Context) {
	plane, err := h.service.GetByPlate(c.Request.Context(), c.Param("plate"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, plane)
}

func (h *AirplaneHandler) create(c *gin.Context) {
	var req airplanes.AirplaneInput
	if !bindJSON(c, &req) {
		return
	}
	plane, err := h.service.Create(c.Request.Context(), currentUser(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plane)
}

func (h *AirplaneHandler) update(c *gin.Context) {
	var req airplanes.AirplaneInput
	if !bindJSON(c, &req) {
		return
	}
	plane, err := h.service.Update(c.Request.Context(), currentUser(c), c.Param("plate"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, plane)
}

func (h *AirplaneHandler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), currentUser(c), c.Param("plate")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
