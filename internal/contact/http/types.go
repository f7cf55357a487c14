package http

import (
	"time"

	"github.com/RinkiBai/portfolio-backend/internal/contact/domain"
)

type submitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

type submitData struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

type submitResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Data    submitData `json:"data"`
}

type errorResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
	Error   string              `json:"error,omitempty"`
}

type listResponse struct {
	Success     bool                `json:"success"`
	Data        []domain.Submission `json:"data"`
	Total       int                 `json:"total"`
	TotalPages  int                 `json:"totalPages"`
	CurrentPage int                 `json:"currentPage"`
}
