package api

import (
	"net/http"

	"github.com/Domenick1991/flightbooking/internal/service/airlines"
	"github.com/gin-gonic/gin"
)

type AirlineHandler struct {
	service airlines.AirlineUseCase
}

func NewAirlineHandler(service airlines.AirlineUseCase) *AirlineHandler {
	return &AirlineHandler{service: service}
}

func (h *AirlineHandler) Register(public, enterprise *gin.RouterGroup) {
	public.GET("/airlines", h.list)
	public.GET("/airlines/:id", h.get)

	enterprise.GET("/airlines", h.listOwned)
	enterprise.POST("/airlines", h.create)
	enterprise.PUT("/airlines/:id", h.update)
	enterprise.DELETE("/airlines/:id", h.delete)
}

func (h *AirlineHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *AirlineHandler) get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	airline, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, airline)
}

func (h *AirlineHandler) listOwned(c *gin.Context) {
	list, err := h.service.ListOwned(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *AirlineHandler) create(c *gin.Context) {
	var req airlines.AirlineInput
	if !bindJSON(c, &req) {
		return
	}
	airline, err := h.service.Create(c.Request.Context(), currentUser(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, airline)
}

func (h *AirlineHandler) update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req airlines.AirlineInput
	if !bindJSON(c, &req) {
		return
	}
	airline, err := h.service.Update(c.Request.Context(), currentUser(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, airline)
}

func (h *AirlineHandler) delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
