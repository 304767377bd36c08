package dto

import (
	appdto "github.com/iftm/client-service/internal/application/dto"
	"github.com/iftm/client-service/internal/domain"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// PageResponse is the envelope for paged client listings.
type PageResponse struct {
	Content       []appdto.ClientDTO `json:"content"`
	TotalElements int64              `json:"totalElements"`
	TotalPages    int                `json:"totalPages"`
	Number        int                `json:"number"`
	Size          int                `json:"size"`
}

func NewPageResponse(page *domain.Page[appdto.ClientDTO]) PageResponse {
	content := page.Content
	if content == nil {
		content = []appdto.ClientDTO{}
	}
	return PageResponse{
		Content:       content,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		Number:        page.Number,
		Size:          page.Size,
	}
}
