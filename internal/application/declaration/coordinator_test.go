package declaration

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/customs/backend/internal/domain/declaration"
	"github.com/customs/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDeclarationRepository is a mock implementation of declaration.Repository
type MockDeclarationRepository struct {
	mock.Mock
}

func (m *MockDeclarationRepository) Save(ctx context.Context, d *domain.Declaration) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeclarationRepository) Update(ctx context.Context, d *domain.Declaration) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeclarationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Declaration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Declaration), args.Error(1)
}

func (m *MockDeclarationRepository) FindByCustomsReference(ctx context.Context, reference string) (*domain.Declaration, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Declaration), args.Error(1)
}

func (m *MockDeclarationRepository) ExistsWithReference(ctx context.Context, customsReference, assessmentSerial string) (bool, error) {
	args := m.Called(ctx, customsReference, assessmentSerial)
	return args.Bool(0), args.Error(1)
}

func (m *MockDeclarationRepository) FindAll(ctx context.Context, scope domain.VisibilityScope, filter shared.Filter) ([]domain.Declaration, int64, error) {
	args := m.Called(ctx, scope, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Declaration), args.Get(1).(int64), args.Error(2)
}

// MockSequenceRepository is a mock implementation of declaration.SequenceRepository
type MockSequenceRepository struct {
	mock.Mock
}

func (m *MockSequenceRepository) Increment(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSequenceRepository) Current(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

// newTestCoordinator builds a coordinator pinned to 2024 with no retry delays
func newTestCoordinator(sequences *MockSequenceRepository, declarations *MockDeclarationRepository) *AssessmentCoordinator {
	c := NewAssessmentCoordinator(sequences, declarations)
	c.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	c.baseDelay = 0
	c.jitterRange = 0
	return c
}

func TestAssessmentCoordinator_FirstAttemptSucceeds(t *testing.T) {
	sequences := new(MockSequenceRepository)
	declarations := new(MockDeclarationRepository)
	coordinator := newTestCoordinator(sequences, declarations)

	sequences.On("Increment", mock.Anything, "customsRef2024").Return(int64(1), nil).Once()
	declarations.On("ExistsWithReference", mock.Anything, "P12024", "L12024").Return(false, nil).Once()

	var persisted domain.ReferencePair
	pair, err := coordinator.Execute(context.Background(), func(p domain.ReferencePair) error {
		persisted = p
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "P12024", pair.CustomsReferenceNumber)
	assert.Equal(t, "L12024", pair.AssessmentSerial)
	assert.Equal(t, pair, persisted)
	sequences.AssertExpectations(t)
	declarations.AssertExpectations(t)
}

func TestAssessmentCoordinator_PrecheckCollisionRetriesWithFreshNumber(t *testing.T) {
	sequences := new(MockSequenceRepository)
	declarations := new(MockDeclarationRepository)
	coordinator := newTestCoordinator(sequences, declarations)

	sequences.On("Increment", mock.Anything, "customsRef2024").Return(int64(7), nil).Once()
	sequences.On("Increment", mock.Anything, "customsRef2024").Return(int64(8), nil).Once()
	declarations.On("ExistsWithReference", mock.Anything, "P72024", "L72024").Return(true, nil).Once()
	declarations.On("ExistsWithReference", mock.Anything, "P82024", "L82024").Return(false, nil).Once()

	pair, err := coordinator.Execute(context.Background(), func(p domain.ReferencePair) error {
		return nil
	})

	require.NoError(t, err)
	// The retry drew a fresh counter value; the burned one is never reused
	assert.Equal(t, "P82024", pair.CustomsReferenceNumber)
	sequences.AssertExpectations(t)
	declarations.AssertExpectations(t)
}

func TestAssessmentCoordinator_PersistConflictRetries(t *testing.T) {
	sequences := new(MockSequenceRepository)
	declarations := new(MockDeclarationRepository)
	coordinator := newTestCoordinator(sequences, declarations)

	sequences.On("Increment", mock.Anything, "customsRef2024").Return(int64(3), nil).Once()
	sequences.On("Increment", mock.Anything, "customsRef2024").Return(int64(4), nil).Once()
	declarations.On("ExistsWithReference", mock.Anything, mock.Anything, mock.Anything).Return(false, nil).Twice()

	attempts := 0
	pair, err := coordinator.Execute(context.Background(), func(p domain.ReferencePair) error {
		attempts++
		if attempts == 1 {
			// Simulates losing the race to the unique index
			return shared.ErrReferenceConflict
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, "P42024", pair.CustomsReferenceNumber)
}

func TestAssessmentCoordinator_ExhaustedRetriesFailWithAssessmentFailed(t *testing.T) {
	sequences := new(MockSequenceRepository)
	declarations := new(MockDeclarationRepository)
	coordinator := newTestCoordinator(sequences, declarations)

	sequences.On("Increment", mock.Anything, "customsRef2024").Return(int64(1), nil).Times(3)
	declarations.On("ExistsWithReference", mock.Anything, mock.Anything, mock.Anything).Return(true, nil).Times(3)

	_, err := coordinator.Execute(context.Background(), func(p domain.ReferencePair) error {
		t.Fatal("persist must not be called when the pre-check keeps failing")
		return nil
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ASSESSMENT_FAILED", domainErr.Code)
	assert.ErrorIs(t, err, shared.ErrReferenceConflict)
	sequences.AssertNumberOfCalls(t, "Increment", 3)
}

func TestAssessmentCoordinator_NonConflictErrorAbortsImmediately(t *testing.T) {
	sequences := new(MockSequenceRepository)
	declarations := new(MockDeclarationRepository)
	coordinator := newTestCoordinator(sequences, declarations)

	sequences.On("Increment", mock.Anything, "customsRef2024").Return(int64(1), nil).Once()
	declarations.On("ExistsWithReference", mock.Anything, mock.Anything, mock.Anything).Return(false, nil).Once()

	boom := errors.New("disk full")
	_, err := coordinator.Execute(context.Background(), func(p domain.ReferencePair) error {
		return boom
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	sequences.AssertNumberOfCalls(t, "Increment", 1)
}

func TestAssessmentCoordinator_CounterFailureAbortsImmediately(t *testing.T) {
	sequences := new(MockSequenceRepository)
	declarations := new(MockDeclarationRepository)
	coordinator := newTestCoordinator(sequences, declarations)

	sequences.On("Increment", mock.Anything, "customsRef2024").Return(int64(0), errors.New("connection refused")).Once()

	_, err := coordinator.Execute(context.Background(), func(p domain.ReferencePair) error {
		t.Fatal("persist must not be called when the counter is unreachable")
		return nil
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PERSISTENCE_ERROR", domainErr.Code)
	sequences.AssertNumberOfCalls(t, "Increment", 1)
}

func TestAssessmentCoordinator_YearScopedKey(t *testing.T) {
	sequences := new(MockSequenceRepository)
	declarations := new(MockDeclarationRepository)
	coordinator := newTestCoordinator(sequences, declarations)
	coordinator.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 5, 0, time.UTC) }

	// A new year starts over at 1 regardless of the prior year's counter
	sequences.On("Increment", mock.Anything, "customsRef2025").Return(int64(1), nil).Once()
	declarations.On("ExistsWithReference", mock.Anything, "P12025", "L12025").Return(false, nil).Once()

	pair, err := coordinator.Execute(context.Background(), func(p domain.ReferencePair) error {
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "P12025", pair.CustomsReferenceNumber)
	assert.Equal(t, "L12025", pair.AssessmentSerial)
}
