package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iftm/client-service/internal/application/dto"
	"github.com/iftm/client-service/internal/domain"
	"go.uber.org/zap"
)

type ClientService struct {
	clientRepo     domain.ClientRepository
	eventPublisher domain.EventPublisher // Optional - can be nil
	logger         *zap.Logger
}

// NewClientService creates a client service with optional event publishing
func NewClientService(
	clientRepo domain.ClientRepository,
	eventPublisher domain.EventPublisher,
	logger *zap.Logger,
) *ClientService {
	return &ClientService{
		clientRepo:     clientRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

func (s *ClientService) FindByID(ctx context.Context, id int64) (dto.ClientDTO, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return dto.ClientDTO{}, newError(KindResourceNotFound, fmt.Sprintf("client %d not found", id), err)
		}
		s.logger.Error("failed to get client", zap.Error(err), zap.Int64("client_id", id))
		return dto.ClientDTO{}, fmt.Errorf("failed to get client: %w", err)
	}

	return dto.NewClientDTO(client), nil
}

func (s *ClientService) FindAll(ctx context.Context) ([]dto.ClientDTO, error) {
	clients, err := s.clientRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("failed to list clients", zap.Error(err))
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	return dto.NewClientDTOs(clients), nil
}

func (s *ClientService) FindAllPaged(ctx context.Context, req domain.PageRequest) (*domain.Page[dto.ClientDTO], error) {
	page, err := s.clientRepo.FindPage(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to get clients page: %w", err)
	}

	return domain.MapPage(page, dto.NewClientDTO), nil
}

// FindByIncome pages through clients whose income is at least minIncome.
func (s *ClientService) FindByIncome(ctx context.Context, minIncome float64, req domain.PageRequest) (*domain.Page[dto.ClientDTO], error) {
	page, err := s.clientRepo.FindPageByIncome(ctx, minIncome, req)
	if err != nil {
		return nil, fmt.Errorf("failed to get clients by income: %w", err)
	}

	s.logger.Debug("retrieved clients by income",
		zap.Float64("min_income", minIncome),
		zap.Int64("total", page.TotalElements),
	)

	return domain.MapPage(page, dto.NewClientDTO), nil
}

// Insert stores a new client. Any ID carried by the DTO is ignored.
func (s *ClientService) Insert(ctx context.Context, in dto.ClientDTO) (dto.ClientDTO, error) {
	client, err := s.clientRepo.Insert(ctx, in.ToEntity())
	if err != nil {
		s.logger.Error("failed to insert client", zap.Error(err))
		return dto.ClientDTO{}, fmt.Errorf("failed to insert client: %w", err)
	}

	s.logger.Info("client created", zap.Int64("client_id", client.ID))
	s.publish(domain.EventTypeClientCreated, client.ID, client)

	return dto.NewClientDTO(client), nil
}

// Update overwrites every field of the client except its ID. Unset DTO
// fields overwrite with their zero value.
func (s *ClientService) Update(ctx context.Context, id int64, in dto.ClientDTO) (dto.ClientDTO, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return dto.ClientDTO{}, newError(KindResourceNotFound, fmt.Sprintf("client %d not found", id), err)
		}
		s.logger.Error("failed to get client for update", zap.Error(err), zap.Int64("client_id", id))
		return dto.ClientDTO{}, fmt.Errorf("failed to get client: %w", err)
	}

	client.Overwrite(in.ToEntity())

	if err := s.clientRepo.Update(ctx, client); err != nil {
		// deleted between the read and the write
		if errors.Is(err, domain.ErrClientNotFound) {
			return dto.ClientDTO{}, newError(KindResourceNotFound, fmt.Sprintf("client %d not found", id), err)
		}
		s.logger.Error("failed to update client", zap.Error(err), zap.Int64("client_id", id))
		return dto.ClientDTO{}, fmt.Errorf("failed to update client: %w", err)
	}

	s.logger.Info("client updated", zap.Int64("client_id", id))
	s.publish(domain.EventTypeClientUpdated, id, client)

	return dto.NewClientDTO(client), nil
}

func (s *ClientService) Delete(ctx context.Context, id int64) error {
	err := s.clientRepo.DeleteByID(ctx, id)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrClientNotFound):
		return newError(KindResourceNotFound, fmt.Sprintf("client %d not found", id), err)
	case errors.Is(err, domain.ErrIntegrityConflict):
		s.logger.Warn("client delete blocked by dependent records", zap.Int64("client_id", id))
		return newError(KindDatabase, "integrity violation", err)
	default:
		s.logger.Error("failed to delete client", zap.Error(err), zap.Int64("client_id", id))
		return fmt.Errorf("failed to delete client: %w", err)
	}

	s.logger.Info("client deleted", zap.Int64("client_id", id))
	s.publish(domain.EventTypeClientDeleted, id, nil)

	return nil
}

func (s *ClientService) publish(eventType string, clientID int64, client *domain.Client) {
	if s.eventPublisher == nil {
		return
	}
	var snapshot *domain.Client
	if client != nil {
		snapshot = client.Clone()
	}
	go s.publishClientEvent(eventType, clientID, snapshot)
}

func (s *ClientService) publishClientEvent(eventType string, clientID int64, client *domain.Client) {
	// Use background context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	event := domain.NewClientEvent(eventType, clientID, client)

	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish client event",
			zap.Error(err),
			zap.Int64("client_id", clientID),
			zap.String("event_type", eventType),
			zap.String("event_id", event.GetEventID()),
		)
		return
	}

	s.logger.Debug("client event published",
		zap.String("event_id", event.GetEventID()),
		zap.String("event_type", eventType),
		zap.Int64("client_id", clientID),
	)
}
