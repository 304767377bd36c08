package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/iftm/client-service/internal/domain"
	"go.uber.org/zap"
)

// AuditEntry is one recorded client lifecycle change.
type AuditEntry struct {
	EventID   string
	EventType string
	ClientID  int64
}

// auditTrailSize bounds how many recent entries the worker keeps in memory.
const auditTrailSize = 1000

// AuditService consumes client events and keeps the most recent of them.
type AuditService struct {
	logger *zap.Logger
	limit  int

	mu      sync.Mutex
	entries []AuditEntry
	handled int64
}

func NewAuditService(logger *zap.Logger) *AuditService {
	return &AuditService{
		logger: logger,
		limit:  auditTrailSize,
	}
}

// HandleClientEvent handles client created, updated and deleted events
func (s *AuditService) HandleClientEvent(ctx context.Context, event domain.DomainEvent) error {
	clientEvent, ok := event.(*domain.ClientEvent)
	if !ok {
		return fmt.Errorf("invalid event type")
	}

	payload := clientEvent.Payload

	fields := []zap.Field{
		zap.String("event_id", event.GetEventID()),
		zap.String("event_type", event.GetEventType()),
		zap.Int64("client_id", payload.ClientID),
		zap.Time("occurred_at", event.GetOccurredAt()),
	}
	if event.GetEventType() != domain.EventTypeClientDeleted {
		fields = append(fields,
			zap.String("name", payload.Name),
			zap.Float64("income", payload.Income),
			zap.Int("children", payload.Children),
		)
	}
	s.logger.Info("client audit", fields...)

	s.mu.Lock()
	s.entries = append(s.entries, AuditEntry{
		EventID:   event.GetEventID(),
		EventType: event.GetEventType(),
		ClientID:  payload.ClientID,
	})
	if len(s.entries) > s.limit {
		// copy down so the backing array does not keep growing
		n := copy(s.entries, s.entries[len(s.entries)-s.limit:])
		s.entries = s.entries[:n]
	}
	s.handled++
	s.mu.Unlock()

	return nil
}

// Handled returns how many events were recorded since start.
func (s *AuditService) Handled() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handled
}

// Entries returns a copy of the most recent audit entries, oldest first.
func (s *AuditService) Entries() []AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]AuditEntry, len(s.entries))
	copy(out, s.entries)
	return out
}
