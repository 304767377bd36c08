package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iftm/client-service/internal/application/dto"
	"github.com/iftm/client-service/internal/domain"
	memoryrepository "github.com/iftm/client-service/internal/infrastructure/repository/memory"
	"github.com/iftm/client-service/internal/infrastructure/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockClientRepository is a mock implementation of ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id int64) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context) ([]*domain.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Client), args.Error(1)
}

func (m *MockClientRepository) FindPage(ctx context.Context, req domain.PageRequest) (*domain.Page[*domain.Client], error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[*domain.Client]), args.Error(1)
}

func (m *MockClientRepository) FindPageByIncome(ctx context.Context, minIncome float64, req domain.PageRequest) (*domain.Page[*domain.Client], error) {
	args := m.Called(ctx, minIncome, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[*domain.Client]), args.Error(1)
}

func (m *MockClientRepository) Insert(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	args := m.Called(ctx, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) Update(ctx context.Context, client *domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) DeleteByID(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// recordingPublisher collects published events on a channel
type recordingPublisher struct {
	events chan domain.DomainEvent
	err    error
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{events: make(chan domain.DomainEvent, 16)}
}

func (p *recordingPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	p.events <- event
	return p.err
}

func (p *recordingPublisher) next(t *testing.T) domain.DomainEvent {
	t.Helper()
	select {
	case e := <-p.events:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("no event published")
		return nil
	}
}

const (
	existingID    int64 = 1
	nonExistingID int64 = 1000
	dependentID   int64 = 4

	countTotalClients    = 12
	countClientsByIncome = 5
)

func createClient() *domain.Client {
	return &domain.Client{
		ID:        1,
		Name:      "Pablo Alberto",
		CPF:       "10510824592",
		Income:    2000.0,
		BirthDate: time.Date(1958, 9, 20, 8, 0, 0, 0, time.UTC),
		Children:  1,
	}
}

// newSeededService returns a service over a memory store holding the
// reference clients, with dependentID marked as referenced.
func newSeededService() (*ClientService, *memoryrepository.ClientRepository) {
	repo := memoryrepository.NewClientRepository(seed.Clients()...)
	repo.MarkReferenced(dependentID)
	return NewClientService(repo, nil, zap.NewNop()), repo
}

// Store call translation

func TestDelete_DoesNothingWhenIDExists(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := new(MockClientRepository)
	repo.On("DeleteByID", ctx, existingID).Return(nil)
	service := NewClientService(repo, nil, zap.NewNop())

	// Act
	err := service.Delete(ctx, existingID)

	// Assert
	assert.NoError(t, err)
	repo.AssertNumberOfCalls(t, "DeleteByID", 1)
}

func TestDelete_ResourceNotFoundWhenIDDoesNotExist(t *testing.T) {
	ctx := context.Background()
	repo := new(MockClientRepository)
	repo.On("DeleteByID", ctx, nonExistingID).Return(domain.ErrClientNotFound)
	service := NewClientService(repo, nil, zap.NewNop())

	err := service.Delete(ctx, nonExistingID)

	assert.ErrorIs(t, err, ErrResourceNotFound)
	assert.Equal(t, KindResourceNotFound, KindOf(err))
	repo.AssertNumberOfCalls(t, "DeleteByID", 1)
}

func TestDelete_DatabaseErrorWhenIDHasDependentRecords(t *testing.T) {
	ctx := context.Background()
	repo := new(MockClientRepository)
	repo.On("DeleteByID", ctx, dependentID).Return(domain.ErrIntegrityConflict)
	service := NewClientService(repo, nil, zap.NewNop())

	err := service.Delete(ctx, dependentID)

	assert.ErrorIs(t, err, ErrDatabase)
	assert.Equal(t, KindDatabase, KindOf(err))
	repo.AssertNumberOfCalls(t, "DeleteByID", 1)
}

func TestDelete_UnclassifiedStoreErrorPropagates(t *testing.T) {
	ctx := context.Background()
	storeErr := errors.New("database connection error")
	repo := new(MockClientRepository)
	repo.On("DeleteByID", ctx, existingID).Return(storeErr)
	service := NewClientService(repo, nil, zap.NewNop())

	err := service.Delete(ctx, existingID)

	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, KindUnknown, KindOf(err))
}

func TestFindAllPaged_DelegatesToStore(t *testing.T) {
	ctx := context.Background()
	req := domain.NewPageRequest(0, 6)
	repo := new(MockClientRepository)
	repo.On("FindPage", ctx, req).Return(domain.NewPage([]*domain.Client{createClient()}, req, 1), nil)
	service := NewClientService(repo, nil, zap.NewNop())

	result, err := service.FindAllPaged(ctx, req)

	require.NoError(t, err)
	assert.False(t, result.IsEmpty())
	assert.Equal(t, "Pablo Alberto", result.Content[0].Name)
	repo.AssertNumberOfCalls(t, "FindPage", 1)
}

func TestFindByIncome_DelegatesToStore(t *testing.T) {
	ctx := context.Background()
	req := domain.NewPageRequest(0, 6)
	repo := new(MockClientRepository)
	repo.On("FindPageByIncome", ctx, 4000.0, req).Return(domain.NewPage([]*domain.Client{createClient()}, req, 1), nil)
	service := NewClientService(repo, nil, zap.NewNop())

	result, err := service.FindByIncome(ctx, 4000.0, req)

	require.NoError(t, err)
	assert.NotNil(t, result)
	repo.AssertExpectations(t)
}

func TestFindByIncome_StoreErrorPropagates(t *testing.T) {
	ctx := context.Background()
	req := domain.NewPageRequest(0, 0)
	repo := new(MockClientRepository)
	repo.On("FindPageByIncome", ctx, 4000.0, req).Return(nil, domain.ErrInvalidPageRequest)
	service := NewClientService(repo, nil, zap.NewNop())

	result, err := service.FindByIncome(ctx, 4000.0, req)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInvalidPageRequest)
}

func TestFindByID_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := new(MockClientRepository)
	repo.On("FindByID", ctx, existingID).Return(nil, context.Canceled)
	service := NewClientService(repo, nil, zap.NewNop())

	_, err := service.FindByID(ctx, existingID)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, KindUnknown, KindOf(err))
}

func TestUpdate_DoesNotWriteWhenIDDoesNotExist(t *testing.T) {
	ctx := context.Background()
	repo := new(MockClientRepository)
	repo.On("FindByID", ctx, nonExistingID).Return(nil, domain.ErrClientNotFound)
	service := NewClientService(repo, nil, zap.NewNop())

	_, err := service.Update(ctx, nonExistingID, dto.ClientDTO{Name: "x"})

	assert.ErrorIs(t, err, ErrResourceNotFound)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdate_ConcurrentDeleteIsResourceNotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockClientRepository)
	repo.On("FindByID", ctx, existingID).Return(createClient(), nil)
	repo.On("Update", ctx, mock.AnythingOfType("*domain.Client")).Return(domain.ErrClientNotFound)
	service := NewClientService(repo, nil, zap.NewNop())

	_, err := service.Update(ctx, existingID, dto.ClientDTO{Name: "x"})

	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestInsert_IgnoresDTOID(t *testing.T) {
	ctx := context.Background()
	repo := new(MockClientRepository)
	repo.On("Insert", ctx, mock.MatchedBy(func(c *domain.Client) bool { return c.ID == 0 })).
		Return(&domain.Client{ID: 13, Name: "New"}, nil)
	service := NewClientService(repo, nil, zap.NewNop())

	result, err := service.Insert(ctx, dto.ClientDTO{ID: 77, Name: "New"})

	require.NoError(t, err)
	assert.Equal(t, int64(13), result.ID)
	repo.AssertExpectations(t)
}

// Behaviour against the seeded memory store

func TestFindByID_ReturnsClientWhenIDExists(t *testing.T) {
	service, _ := newSeededService()

	result, err := service.FindByID(context.Background(), existingID)

	require.NoError(t, err)
	assert.Equal(t, existingID, result.ID)
	assert.Equal(t, "Conceição Evaristo", result.Name)
	assert.Equal(t, "10619244881", result.CPF)
}

func TestFindByID_ReturnsSameIDForEveryExistingClient(t *testing.T) {
	service, _ := newSeededService()

	for _, c := range seed.Clients() {
		result, err := service.FindByID(context.Background(), c.ID)
		require.NoError(t, err)
		assert.Equal(t, c.ID, result.ID)
	}
}

func TestNonExistingID_ResourceNotFound(t *testing.T) {
	service, _ := newSeededService()
	ctx := context.Background()

	_, err := service.FindByID(ctx, nonExistingID)
	assert.ErrorIs(t, err, ErrResourceNotFound)

	_, err = service.Update(ctx, nonExistingID, dto.ClientDTO{Name: "Nobody"})
	assert.ErrorIs(t, err, ErrResourceNotFound)

	err = service.Delete(ctx, nonExistingID)
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestFindAll_ReturnsAllClients(t *testing.T) {
	service, _ := newSeededService()

	result, err := service.FindAll(context.Background())

	require.NoError(t, err)
	assert.Len(t, result, countTotalClients)
	assert.Equal(t, int64(1), result[0].ID)
}

func TestFindByIncome_CountsQualifyingClients(t *testing.T) {
	service, _ := newSeededService()

	result, err := service.FindByIncome(context.Background(), 4000.0, domain.NewPageRequest(0, 6))

	require.NoError(t, err)
	assert.False(t, result.IsEmpty())
	assert.Equal(t, int64(countClientsByIncome), result.TotalElements)
	for _, c := range result.Content {
		assert.GreaterOrEqual(t, c.Income, 4000.0)
	}
}

func TestFindByIncome_TotalIndependentOfPageSize(t *testing.T) {
	service, _ := newSeededService()
	ctx := context.Background()

	for _, size := range []int{1, 2, 3, 5, 10, 50} {
		result, err := service.FindByIncome(ctx, 4000.0, domain.NewPageRequest(0, size))
		require.NoError(t, err)
		assert.Equal(t, int64(countClientsByIncome), result.TotalElements, "size %d", size)
		assert.LessOrEqual(t, len(result.Content), size)
	}
}

func TestFindByIncome_ThresholdIsInclusive(t *testing.T) {
	service, _ := newSeededService()
	ctx := context.Background()

	// Djamila Ribeiro and Silvio Almeida sit exactly on 4500
	atThreshold, err := service.FindByIncome(ctx, 4500.0, domain.NewPageRequest(0, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(5), atThreshold.TotalElements)

	above, err := service.FindByIncome(ctx, 4500.01, domain.NewPageRequest(0, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(3), above.TotalElements)
}

func TestFindAllPaged_PagesThroughAllClients(t *testing.T) {
	service, _ := newSeededService()
	ctx := context.Background()

	seen := make(map[int64]bool)
	for page := 0; page < 3; page++ {
		result, err := service.FindAllPaged(ctx, domain.NewPageRequest(page, 5))
		require.NoError(t, err)
		assert.Equal(t, int64(countTotalClients), result.TotalElements)
		assert.Equal(t, 3, result.TotalPages)
		assert.Equal(t, page, result.Number)
		for _, c := range result.Content {
			assert.False(t, seen[c.ID], "client %d returned twice", c.ID)
			seen[c.ID] = true
		}
	}
	assert.Len(t, seen, countTotalClients)
}

func TestFindAllPaged_SortsByRequestedField(t *testing.T) {
	service, _ := newSeededService()

	req := domain.PageRequest{Page: 0, Size: 3, OrderBy: "income", Direction: domain.DirectionDesc}
	result, err := service.FindAllPaged(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, result.Content, 3)
	assert.Equal(t, "Toni Morrison", result.Content[0].Name)
	assert.Equal(t, "Carolina Maria de Jesus", result.Content[1].Name)
	assert.Equal(t, "Jose Saramago", result.Content[2].Name)
}

func TestFindAllPaged_InvalidPageRequest(t *testing.T) {
	service, _ := newSeededService()
	ctx := context.Background()

	for _, req := range []domain.PageRequest{
		domain.NewPageRequest(-1, 5),
		domain.NewPageRequest(0, 0),
		{Page: 0, Size: 5, OrderBy: "password"},
		{Page: 0, Size: 5, Direction: "SIDEWAYS"},
	} {
		_, err := service.FindAllPaged(ctx, req)
		assert.ErrorIs(t, err, domain.ErrInvalidPageRequest)
	}
}

func TestInsert_AssignsFreshIDAndRoundTrips(t *testing.T) {
	service, _ := newSeededService()
	ctx := context.Background()

	in := dto.NewClientDTO(createClient())
	in.ID = existingID

	created, err := service.Insert(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(countTotalClients+1), created.ID)

	fetched, err := service.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)
	assert.Equal(t, in.Name, fetched.Name)
	assert.Equal(t, in.CPF, fetched.CPF)
	assert.Equal(t, in.Income, fetched.Income)
	assert.True(t, in.BirthDate.Equal(fetched.BirthDate))
	assert.Equal(t, in.Children, fetched.Children)

	original, err := service.FindByID(ctx, existingID)
	require.NoError(t, err)
	assert.Equal(t, "Conceição Evaristo", original.Name)
}

func TestInsert_EmptyDTO(t *testing.T) {
	service, _ := newSeededService()
	ctx := context.Background()

	created, err := service.Insert(ctx, dto.ClientDTO{})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	all, err := service.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, countTotalClients+1)
}

func TestUpdate_OverwritesFieldsAndKeepsID(t *testing.T) {
	service, _ := newSeededService()
	ctx := context.Background()

	in, err := service.FindByID(ctx, existingID)
	require.NoError(t, err)

	in.ID = 999
	in.Name = "Conceição Evaristo da Silva"
	in.Income = 10000.0
	in.Children = 5

	updated, err := service.Update(ctx, existingID, in)
	require.NoError(t, err)
	assert.Equal(t, existingID, updated.ID)
	assert.Equal(t, "Conceição Evaristo da Silva", updated.Name)
	assert.Equal(t, 10000.0, updated.Income)
	assert.Equal(t, 5, updated.Children)

	fetched, err := service.FindByID(ctx, existingID)
	require.NoError(t, err)
	assert.Equal(t, updated, fetched)

	_, err = service.FindByID(ctx, 999)
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestUpdate_UnsetFieldsOverwriteWithZeroValues(t *testing.T) {
	service, _ := newSeededService()
	ctx := context.Background()

	updated, err := service.Update(ctx, existingID, dto.ClientDTO{Name: "Only Name"})

	require.NoError(t, err)
	assert.Equal(t, "Only Name", updated.Name)
	assert.Empty(t, updated.CPF)
	assert.Zero(t, updated.Income)
	assert.True(t, updated.BirthDate.IsZero())
	assert.Zero(t, updated.Children)
}

func TestDelete_DependentClientStaysIntact(t *testing.T) {
	service, _ := newSeededService()
	ctx := context.Background()

	err := service.Delete(ctx, dependentID)
	assert.ErrorIs(t, err, ErrDatabase)

	fetched, err := service.FindByID(ctx, dependentID)
	require.NoError(t, err)
	assert.Equal(t, "Carolina Maria de Jesus", fetched.Name)
}

func TestDelete_SecondCallFailsResourceNotFound(t *testing.T) {
	service, _ := newSeededService()
	ctx := context.Background()

	require.NoError(t, service.Delete(ctx, existingID))

	err := service.Delete(ctx, existingID)
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestEndToEnd_SeededLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("find by income", func(t *testing.T) {
		service, _ := newSeededService()

		page, err := service.FindByIncome(ctx, 4000.0, domain.NewPageRequest(0, 10))

		require.NoError(t, err)
		assert.Equal(t, int64(5), page.TotalElements)
	})

	t.Run("delete reduces count", func(t *testing.T) {
		service, _ := newSeededService()

		before, err := service.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, before, 12)

		require.NoError(t, service.Delete(ctx, existingID))

		after, err := service.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, after, 11)
	})

	t.Run("insert increases count with unseen id", func(t *testing.T) {
		service, _ := newSeededService()

		before, err := service.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, before, 12)

		created, err := service.Insert(ctx, dto.ClientDTO{})
		require.NoError(t, err)

		after, err := service.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, after, 13)
		for _, c := range before {
			assert.NotEqual(t, c.ID, created.ID)
		}
	})
}

// Event publishing

func TestInsert_PublishesCreatedEvent(t *testing.T) {
	repo := memoryrepository.NewClientRepository(seed.Clients()...)
	publisher := newRecordingPublisher()
	service := NewClientService(repo, publisher, zap.NewNop())

	created, err := service.Insert(context.Background(), dto.NewClientDTO(createClient()))
	require.NoError(t, err)

	event := publisher.next(t)
	assert.Equal(t, domain.EventTypeClientCreated, event.GetEventType())
	assert.Equal(t, created.ID, event.GetAggregateID())
	assert.Equal(t, "Pablo Alberto", event.(*domain.ClientEvent).Payload.Name)
}

func TestDelete_PublishesOnlyOnSuccess(t *testing.T) {
	repo := memoryrepository.NewClientRepository(seed.Clients()...)
	repo.MarkReferenced(dependentID)
	publisher := newRecordingPublisher()
	service := NewClientService(repo, publisher, zap.NewNop())
	ctx := context.Background()

	assert.Error(t, service.Delete(ctx, dependentID))
	require.NoError(t, service.Delete(ctx, existingID))

	event := publisher.next(t)
	assert.Equal(t, domain.EventTypeClientDeleted, event.GetEventType())
	assert.Equal(t, existingID, event.GetAggregateID())
}

func TestUpdate_PublishFailureDoesNotFailUpdate(t *testing.T) {
	repo := memoryrepository.NewClientRepository(seed.Clients()...)
	publisher := newRecordingPublisher()
	publisher.err = errors.New("redis unavailable")
	service := NewClientService(repo, publisher, zap.NewNop())

	_, err := service.Update(context.Background(), existingID, dto.ClientDTO{Name: "Renamed"})
	require.NoError(t, err)

	event := publisher.next(t)
	assert.Equal(t, domain.EventTypeClientUpdated, event.GetEventType())
}
