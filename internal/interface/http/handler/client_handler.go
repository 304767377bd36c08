package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	appdto "github.com/iftm/client-service/internal/application/dto"
	"github.com/iftm/client-service/internal/application/service"
	"github.com/iftm/client-service/internal/domain"
	"github.com/iftm/client-service/internal/interface/http/dto"
	"go.uber.org/zap"
)

// ClientService is the set of operations the client endpoints need.
type ClientService interface {
	FindByID(ctx context.Context, id int64) (appdto.ClientDTO, error)
	FindAll(ctx context.Context) ([]appdto.ClientDTO, error)
	FindAllPaged(ctx context.Context, req domain.PageRequest) (*domain.Page[appdto.ClientDTO], error)
	FindByIncome(ctx context.Context, minIncome float64, req domain.PageRequest) (*domain.Page[appdto.ClientDTO], error)
	Insert(ctx context.Context, in appdto.ClientDTO) (appdto.ClientDTO, error)
	Update(ctx context.Context, id int64, in appdto.ClientDTO) (appdto.ClientDTO, error)
	Delete(ctx context.Context, id int64) error
}

// kindStatus maps service error kinds to HTTP status codes.
var kindStatus = map[service.ErrorKind]int{
	service.KindResourceNotFound: http.StatusNotFound,
	service.KindDatabase:         http.StatusConflict,
}

type ClientHandler struct {
	clientService ClientService
	logger        *zap.Logger
}

func NewClientHandler(clientService ClientService, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		logger:        logger,
	}
}

// FindAllPaged returns a page of clients
func (h *ClientHandler) FindAllPaged(w http.ResponseWriter, r *http.Request) {
	req, err := dto.ParsePageRequest(r.URL.Query())
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_page_request", err)
		return
	}

	page, err := h.clientService.FindAllPaged(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, r, "failed to list clients", err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.NewPageResponse(page))
}

// FindAll returns every client without paging
func (h *ClientHandler) FindAll(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clientService.FindAll(r.Context())
	if err != nil {
		h.respondServiceError(w, r, "failed to list clients", err)
		return
	}

	if clients == nil {
		clients = []appdto.ClientDTO{}
	}

	h.respondJSON(w, http.StatusOK, clients)
}

// FindByIncome returns a page of clients whose income is at least minIncome
func (h *ClientHandler) FindByIncome(w http.ResponseWriter, r *http.Request) {
	minIncome, err := dto.ParseMinIncome(r.URL.Query())
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_min_income", err)
		return
	}

	req, err := dto.ParsePageRequest(r.URL.Query())
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_page_request", err)
		return
	}

	page, err := h.clientService.FindByIncome(r.Context(), minIncome, req)
	if err != nil {
		h.respondServiceError(w, r, "failed to list clients by income", err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.NewPageResponse(page))
}

func (h *ClientHandler) FindByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.clientID(w, r)
	if !ok {
		return
	}

	client, err := h.clientService.FindByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, "failed to get client", err)
		return
	}

	h.respondJSON(w, http.StatusOK, client)
}

func (h *ClientHandler) Insert(w http.ResponseWriter, r *http.Request) {
	var in appdto.ClientDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_request_body", err)
		return
	}

	client, err := h.clientService.Insert(r.Context(), in)
	if err != nil {
		h.respondServiceError(w, r, "failed to insert client", err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/clients/%d", client.ID))
	h.respondJSON(w, http.StatusCreated, client)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.clientID(w, r)
	if !ok {
		return
	}

	var in appdto.ClientDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_request_body", err)
		return
	}

	client, err := h.clientService.Update(r.Context(), id, in)
	if err != nil {
		h.respondServiceError(w, r, "failed to update client", err)
		return
	}

	h.respondJSON(w, http.StatusOK, client)
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.clientID(w, r)
	if !ok {
		return
	}

	if err := h.clientService.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, r, "failed to delete client", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles health check endpoint
func (h *ClientHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func (h *ClientHandler) clientID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := dto.ParseClientID(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_client_id", err)
		return 0, false
	}
	return id, true
}

func (h *ClientHandler) respondServiceError(w http.ResponseWriter, r *http.Request, message string, err error) {
	kind := service.KindOf(err)
	if status, ok := kindStatus[kind]; ok {
		h.respondError(w, status, kind.String(), err)
		return
	}

	if errors.Is(err, domain.ErrInvalidPageRequest) {
		h.respondError(w, http.StatusBadRequest, "invalid_page_request", err)
		return
	}

	h.logger.Error(message,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
	h.respondError(w, http.StatusInternalServerError, "internal_error", errors.New(message))
}

func (h *ClientHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *ClientHandler) respondError(w http.ResponseWriter, status int, code string, err error) {
	response := dto.ErrorResponse{
		Error: code,
	}

	if err != nil {
		response.Message = err.Error()
	}

	h.respondJSON(w, status, response)
}
