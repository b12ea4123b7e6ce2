package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain/doctor"
	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain/prediction"
)

func newDoctorService(doctors *MockDoctorRepository, patients *MockPatientRepository, predictions *MockPredictionRepository) *DoctorService {
	return NewDoctorService(doctors, patients, predictions, zap.NewNop())
}

func TestDoctorService_GetCurrentDoctor(t *testing.T) {
	userID := uuid.New()
	d := &doctor.Doctor{ID: uuid.New(), UserID: userID, Name: "Dr. Asha Rao"}

	mockDoctors := new(MockDoctorRepository)
	mockDoctors.On("GetByUserID", mock.Anything, userID).Return(d, nil)

	svc := newDoctorService(mockDoctors, new(MockPatientRepository), new(MockPredictionRepository))
	got, err := svc.GetCurrentDoctor(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestDoctorService_GetCurrentDoctorMissingProfile(t *testing.T) {
	userID := uuid.New()

	mockDoctors := new(MockDoctorRepository)
	mockDoctors.On("GetByUserID", mock.Anything, userID).Return(nil, doctor.ErrDoctorNotFound)

	svc := newDoctorService(mockDoctors, new(MockPatientRepository), new(MockPredictionRepository))
	_, err := svc.GetCurrentDoctor(context.Background(), userID)

	assert.ErrorIs(t, err, doctor.ErrDoctorNotFound)
}

func TestDoctorService_DashboardStats(t *testing.T) {
	doctorID := uuid.New()

	mockPatients := new(MockPatientRepository)
	mockPatients.On("CountByDoctor", mock.Anything, doctorID).Return(int64(7), nil)

	mockPredictions := new(MockPredictionRepository)
	mockPredictions.On("CountByDoctor", mock.Anything, doctorID).Return(int64(23), nil)
	mockPredictions.On("CountByDoctorSince", mock.Anything, doctorID, mock.Anything).Return(int64(3), nil)

	svc := newDoctorService(new(MockDoctorRepository), mockPatients, mockPredictions)
	stats, err := svc.DashboardStats(context.Background(), doctorID)

	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.TotalPatients)
	assert.Equal(t, int64(23), stats.TotalPredictions)
	assert.Equal(t, int64(3), stats.TodayCases)
}

func TestDoctorService_RecentPredictionsClampsLimit(t *testing.T) {
	doctorID := uuid.New()

	tests := []struct {
		name      string
		requested int
		effective int
	}{
		{"default", 0, 5},
		{"negative", -3, 5},
		{"explicit", 10, 10},
		{"above cap", 500, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPredictions := new(MockPredictionRepository)
			mockPredictions.On("ListRecentByDoctor", mock.Anything, doctorID, tt.effective).
				Return([]*prediction.Prediction{}, nil)

			svc := newDoctorService(new(MockDoctorRepository), new(MockPatientRepository), mockPredictions)
			_, err := svc.RecentPredictions(context.Background(), doctorID, tt.requested)

			require.NoError(t, err)
			mockPredictions.AssertExpectations(t)
		})
	}
}
