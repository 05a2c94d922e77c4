package handler

import "github.com/fieldworks/backoffice/internal/core/domain"

// errorResponse is the error envelope rendered by the API error handler.
// Field is set for validation failures only.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type paginationResponse struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

type listResponse[T any] struct {
	Data       []T                `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type recordResponse[T any] struct {
	Data       T                           `json:"data"`
	References map[string][]domain.RefView `json:"references,omitempty"`
}
