package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/servicecatalog"
	"github.com/m04kA/SMC-BarberService/internal/service/catalog/models"
)

// durationByNamePrefix legacy-справочник длительностей по префиксу названия услуги.
// Исторические записи хранят только текстовое описание услуги, без service_id -
// для них длительность восстанавливается по префиксу. Новые записи всегда
// резолвятся через каталог по ID.
var durationByNamePrefix = []struct {
	prefix  string
	minutes int
}{
	{"Barba & Cabelo", 60},
	{"Cabelo & Barba", 60},
}

// Service сервис каталога услуг барбершопа
type Service struct {
	serviceRepo ServiceRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(serviceRepo ServiceRepository, logger Logger) *Service {
	return &Service{
		serviceRepo: serviceRepo,
		logger:      logger,
	}
}

// List получает все активные услуги каталога
func (s *Service) List(ctx context.Context) (*models.ServiceListResponse, error) {
	s.logger.Info("List: fetching active services")

	services, err := s.serviceRepo.GetAllActive(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d services", len(services))
	return models.FromDomainServiceList(services), nil
}

// GetByID получает услугу по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ServiceResponse, error) {
	s.logger.Info("GetByID: fetching service id=%d", id)

	svc, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("GetByID: service id=%d not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetByID: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainService(svc), nil
}

// ResolveDuration определяет длительность услуги в минутах.
// Порядок резолва:
// 1. По serviceID через каталог, если ID задан и услуга найдена
// 2. По префиксу текстового описания (legacy-записи без service_id)
// 3. Значение по умолчанию
// Отсутствие маппинга - не ошибка: применяется дефолт, расчёт слотов продолжается.
func (s *Service) ResolveDuration(ctx context.Context, serviceID *int64, description string) int {
	if serviceID != nil {
		svc, err := s.serviceRepo.GetByID(ctx, *serviceID)
		if err == nil {
			return svc.DurationMinutes
		}
		if !errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("ResolveDuration: repository error for service id=%d, falling back to description: %v", *serviceID, err)
		}
	}

	for _, entry := range durationByNamePrefix {
		if strings.HasPrefix(description, entry.prefix) {
			return entry.minutes
		}
	}

	return domain.DefaultServiceDurationMinutes
}
