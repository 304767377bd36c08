package handler

import (
	"github.com/iftm/client-service/internal/application/service"
	"github.com/iftm/client-service/internal/domain"
	"go.uber.org/zap"
)

type Handlers struct {
	Client *ClientHandler
}

func NewHandlers(clientRepo domain.ClientRepository, eventPublisher domain.EventPublisher, logger *zap.Logger) *Handlers {
	clientService := service.NewClientService(clientRepo, eventPublisher, logger)
	return &Handlers{
		Client: NewClientHandler(clientService, logger),
	}
}
