package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/servicecatalog"
)

type stubServiceRepo struct {
	services map[int64]*domain.Service
	err      error
}

func (s *stubServiceRepo) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	if s.err != nil {
		return nil, s.err
	}
	svc, ok := s.services[id]
	if !ok {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return svc, nil
}

func (s *stubServiceRepo) GetAllActive(_ context.Context) ([]*domain.Service, error) {
	if s.err != nil {
		return nil, s.err
	}
	result := make([]*domain.Service, 0, len(s.services))
	for _, svc := range s.services {
		result = append(result, svc)
	}
	return result, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func ptrInt64(v int64) *int64 {
	return &v
}

func TestResolveDuration_ByServiceID(t *testing.T) {
	repo := &stubServiceRepo{services: map[int64]*domain.Service{
		5: {ID: 5, Name: "Corte de Cabelo", DurationMinutes: 45},
	}}
	svc := NewService(repo, nopLogger{})

	assert.Equal(t, 45, svc.ResolveDuration(context.Background(), ptrInt64(5), ""))
}

func TestResolveDuration_FallsBackToNamePrefix(t *testing.T) {
	// Legacy-записи хранят только текстовое описание - длительность
	// восстанавливается по префиксу названия
	svc := NewService(&stubServiceRepo{services: map[int64]*domain.Service{}}, nopLogger{})

	testCases := []struct {
		description string
		expected    int
	}{
		{"Barba & Cabelo", 60},
		{"Cabelo & Barba", 60},
		{"Barba & Cabelo - promoção", 60},
		{"Corte simples", domain.DefaultServiceDurationMinutes},
		{"", domain.DefaultServiceDurationMinutes},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, svc.ResolveDuration(context.Background(), nil, tc.description))
		})
	}
}

func TestResolveDuration_UnknownServiceIDFallsBackToDescription(t *testing.T) {
	svc := NewService(&stubServiceRepo{services: map[int64]*domain.Service{}}, nopLogger{})

	duration := svc.ResolveDuration(context.Background(), ptrInt64(999), "Barba & Cabelo")
	assert.Equal(t, 60, duration)
}

func TestResolveDuration_RepositoryErrorFallsBackToDefault(t *testing.T) {
	// Отказ хранилища не роняет расчёт - применяется дефолт
	svc := NewService(&stubServiceRepo{err: errors.New("connection refused")}, nopLogger{})

	duration := svc.ResolveDuration(context.Background(), ptrInt64(5), "Corte simples")
	assert.Equal(t, domain.DefaultServiceDurationMinutes, duration)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := NewService(&stubServiceRepo{services: map[int64]*domain.Service{}}, nopLogger{})

	_, err := svc.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestGetByID_ReturnsService(t *testing.T) {
	repo := &stubServiceRepo{services: map[int64]*domain.Service{
		5: {ID: 5, Name: "Corte de Cabelo", DurationMinutes: 45, Price: 50, IsActive: true},
	}}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.ID)
	assert.Equal(t, "Corte de Cabelo", resp.Name)
	assert.Equal(t, 45, resp.DurationMinutes)
}
