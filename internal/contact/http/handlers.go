package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/RinkiBai/portfolio-backend/internal/auth"
	"github.com/RinkiBai/portfolio-backend/internal/contact/domain"
	"github.com/RinkiBai/portfolio-backend/internal/contact/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the contact endpoints.
type Handler struct {
	svc         *service.ContactService
	logger      *zap.Logger
	exposeError bool
}

// NewHandler creates a Handler. When exposeErrors is set, server-side error
// details are included in 500 responses (non-production only).
func NewHandler(svc *service.ContactService, logger *zap.Logger, exposeErrors bool) *Handler {
	return &Handler{svc: svc, logger: logger, exposeError: exposeErrors}
}

// Ping answers the reachability probe used by the front-end.
func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Contact route is reachable!"})
}

// Submit accepts one contact-form submission
func (h *Handler) Submit(c *gin.Context) {
	var body submitRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: "Invalid request body."})
		return
	}

	sub, err := h.svc.Submit(c.Request.Context(), domain.SubmissionInput{
		Name:     body.Name,
		Email:    body.Email,
		Message:  body.Message,
		Token:    body.Token,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		h.writeError(c, err, "Server error. Please try again later.")
		return
	}

	c.JSON(http.StatusOK, submitResponse{
		Success: true,
		Message: "Message received! I'll get back to you soon.",
		Data:    submitData{ID: sub.ID, Timestamp: sub.CreatedAt},
	})
}

// List returns stored submissions, newest first
func (h *Handler) List(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", domain.DefaultPageSize)

	res, err := h.svc.List(c.Request.Context(), page, limit)
	if err != nil {
		h.writeError(c, err, "Failed to fetch contacts.")
		return
	}

	c.JSON(http.StatusOK, listResponse{
		Success:     true,
		Data:        res.Items,
		Total:       res.Total,
		TotalPages:  res.TotalPages,
		CurrentPage: res.Page,
	})
}

// Delete removes one submission by id
func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Message: "Contact ID is required."})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "Failed to delete contact.")
		return
	}
	h.logger.Info("operator deleted submission",
		zap.String("submission_id", id),
		zap.String("operator", auth.Operator(c)),
	)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Contact message deleted."})
}

func (h *Handler) writeError(c *gin.Context, err error, serverMsg string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, errorResponse{Message: "Validation failed.", Errors: verr.Fields})
	case errors.Is(err, domain.ErrVerificationFailed):
		c.JSON(http.StatusBadRequest, errorResponse{Message: "Captcha verification failed or suspicious activity detected."})
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, errorResponse{Message: "Too many requests, please try again later."})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Message: "Contact not found."})
	default:
		h.logger.Error("contact request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err),
		)
		resp := errorResponse{Message: serverMsg}
		if h.exposeError {
			resp.Error = err.Error()
		}
		c.JSON(http.StatusInternalServerError, resp)
	}
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}
