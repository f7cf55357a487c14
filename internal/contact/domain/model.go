package domain

import "time"

// Submission is one accepted contact-form record. It is never updated after creation.
type Submission struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubmissionInput is the raw payload received from the contact form.
type SubmissionInput struct {
	Name     string
	Email    string
	Message  string
	Token    string
	ClientIP string
}

// Fields are validated and sanitized submission fields ready to be stored.
type Fields struct {
	Name    string
	Email   string
	Message string
}

// Page is one slice of the newest-first submission listing.
type Page struct {
	Items      []Submission `json:"data"`
	Total      int          `json:"total"`
	Page       int          `json:"currentPage"`
	Limit      int          `json:"limit"`
	TotalPages int          `json:"totalPages"`
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// NormalizePage clamps page and limit to the supported range.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// NewPage computes TotalPages from total and limit.
func NewPage(items []Submission, total, page, limit int) *Page {
	if items == nil {
		items = []Submission{}
	}
	pages := 0
	if total > 0 {
		pages = (total + limit - 1) / limit
	}
	return &Page{Items: items, Total: total, Page: page, Limit: limit, TotalPages: pages}
}
