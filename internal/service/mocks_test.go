package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain"
	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain/doctor"
	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain/patient"
	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain/prediction"
	"github.com/Jeevanbnj/glaucoma-ai-insights/pkg/metrics"
)

// One collector per test binary; registering twice would panic.
var testMetrics = metrics.NewCollector("glaucoma_service_test")

// stubAuditRepo discards entries. The audit worker runs asynchronously, so
// tests use a no-op sink instead of a mock with expectations.
type stubAuditRepo struct{}

func (stubAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error { return nil }

func newTestAuditService() *AuditService {
	return NewAuditService(stubAuditRepo{}, zap.NewNop(), testMetrics)
}

// MockPatientRepository is a mock implementation of patient.Repository.
type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) Create(ctx context.Context, p *patient.Patient) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPatientRepository) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*patient.Patient), args.Error(1)
}

func (m *MockPatientRepository) List(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*patient.PagedPatients), args.Error(1)
}

func (m *MockPatientRepository) CountByDoctor(ctx context.Context, doctorID uuid.UUID) (int64, error) {
	args := m.Called(ctx, doctorID)
	return args.Get(0).(int64), args.Error(1)
}

// MockPredictionRepository is a mock implementation of prediction.Repository.
type MockPredictionRepository struct {
	mock.Mock
}

func (m *MockPredictionRepository) Create(ctx context.Context, p *prediction.Prediction) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPredictionRepository) GetByID(ctx context.Context, id uuid.UUID) (*prediction.Prediction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*prediction.Prediction), args.Error(1)
}

func (m *MockPredictionRepository) ListByPatient(ctx context.Context, q *prediction.ListPredictionsQuery) (*prediction.PagedPredictions, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*prediction.PagedPredictions), args.Error(1)
}

func (m *MockPredictionRepository) ListRecentByDoctor(ctx context.Context, doctorID uuid.UUID, limit int) ([]*prediction.Prediction, error) {
	args := m.Called(ctx, doctorID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*prediction.Prediction), args.Error(1)
}

func (m *MockPredictionRepository) CountByDoctor(ctx context.Context, doctorID uuid.UUID) (int64, error) {
	args := m.Called(ctx, doctorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPredictionRepository) CountByDoctorSince(ctx context.Context, doctorID uuid.UUID, since time.Time) (int64, error) {
	args := m.Called(ctx, doctorID, since)
	return args.Get(0).(int64), args.Error(1)
}

// MockDoctorRepository is a mock implementation of doctor.Repository.
type MockDoctorRepository struct {
	mock.Mock
}

func (m *MockDoctorRepository) Create(ctx context.Context, d *doctor.Doctor) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDoctorRepository) GetByID(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*doctor.Doctor), args.Error(1)
}

func (m *MockDoctorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*doctor.Doctor, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*doctor.Doctor), args.Error(1)
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateLoginAttempt(ctx context.Context, id uuid.UUID, success bool) error {
	args := m.Called(ctx, id, success)
	return args.Error(0)
}

func (m *MockUserRepository) LinkDoctor(ctx context.Context, id uuid.UUID, doctorID uuid.UUID) error {
	args := m.Called(ctx, id, doctorID)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTokenStore is a mock implementation of TokenStore.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uuid.UUID, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uuid.UUID, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenStore) RevokeAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsAccessTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}
