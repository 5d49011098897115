// Package api provides the JSON handlers for processing images and reading
// back recorded results.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ayusman/mudra/internal/app"
)

// Service is what the handlers need from app.Service.
type Service interface {
	Process(ctx context.Context, payload string) (*app.Result, error)
	Recent(ctx context.Context, limit int) ([]app.Result, error)
	Get(ctx context.Context, id string) (*app.Result, error)
}

// ReadingsHandler serves /api/process and /api/results.
type ReadingsHandler struct {
	service Service
	timeout time.Duration
}

// NewReadingsHandler creates a handler. A non-positive timeout leaves request
// contexts untouched.
func NewReadingsHandler(s Service, timeout time.Duration) *ReadingsHandler {
	return &ReadingsHandler{service: s, timeout: timeout}
}

// Register mounts the handler's routes.
func (h *ReadingsHandler) Register(r gin.IRoutes) {
	r.POST("/api/process", h.process)
	r.GET("/api/results", h.list)
	r.GET("/api/results/:id", h.get)
}

type processRequest struct {
	Image string `json:"image" binding:"required"`
}

type listResultsResponse struct {
	Results []app.Result `json:"results"`
}

func (h *ReadingsHandler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// process handles POST /api/process.
func (h *ReadingsHandler) process(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, "request body too large", err)
			return
		}
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.service.Process(ctx, req.Image)
	if err != nil {
		code := statusFor(err)
		message := "failed to process image"
		if code == http.StatusBadRequest {
			message = "invalid image"
		}
		respondError(c, code, message, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// list handles GET /api/results?limit=n.
func (h *ReadingsHandler) list(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(c, http.StatusBadRequest, "limit must be a non-negative integer", err)
			return
		}
		limit = n
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	results, err := h.service.Recent(ctx, limit)
	if err != nil {
		respondError(c, statusFor(err), "failed to list results", err)
		return
	}
	if results == nil {
		results = []app.Result{}
	}

	c.JSON(http.StatusOK, listResultsResponse{Results: results})
}

// get handles GET /api/results/:id.
func (h *ReadingsHandler) get(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.service.Get(ctx, c.Param("id"))
	if err != nil {
		code := statusFor(err)
		message := "failed to get result"
		if code == http.StatusNotFound {
			message = "result not found"
		}
		respondError(c, code, message, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
