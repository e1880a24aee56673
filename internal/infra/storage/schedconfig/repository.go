package schedconfig

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	"github.com/m04kA/SMC-BarberService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberService/pkg/psqlbuilder"
)

var configColumns = []string{
	"id",
	"barber_id",
	"slot_step_minutes",
	"advance_booking_days",
	"min_booking_notice_minutes",
	"created_at",
	"updated_at",
}

// Repository репозиторий конфигурации генерации слотов
// Конфигурация двухуровневая: персональная для барбера (barber_id задан)
// и общая для барбершопа (barber_id IS NULL)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория конфигураций
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByBarber получает конфигурацию по точному значению barber_id
// nil соответствует общей конфигурации барбершопа
func (r *Repository) GetByBarber(ctx context.Context, barberID *int64) (*domain.SchedulingConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(configColumns...).
		From("scheduling_config").
		Where(squirrel.Eq{"barber_id": barberID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBarber - build select query: %v", ErrBuildQuery, err)
	}

	cfg, err := r.scanConfig(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBarber - scan config: %v", ErrScanRow, err)
	}

	return cfg, nil
}

// GetConfigWithHierarchy получает действующую конфигурацию для барбера
// с учетом иерархии: персональная конфигурация барбера приоритетнее общей.
// Одним запросом достаем обе и берем первую по приоритету.
func (r *Repository) GetConfigWithHierarchy(ctx context.Context, barberID int64) (*domain.SchedulingConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(configColumns...).
		From("scheduling_config").
		Where(squirrel.Or{
			squirrel.Eq{"barber_id": barberID},
			squirrel.Eq{"barber_id": nil},
		}).
		OrderBy("barber_id ASC NULLS LAST").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetConfigWithHierarchy - build select query: %v", ErrBuildQuery, err)
	}

	cfg, err := r.scanConfig(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetConfigWithHierarchy - scan config: %v", ErrScanRow, err)
	}

	return cfg, nil
}

// Upsert создает или заменяет конфигурацию для barber_id (nil = общая)
// Уникальный индекс UNIQUE NULLS NOT DISTINCT гарантирует одну запись на уровень
func (r *Repository) Upsert(ctx context.Context, cfg *domain.SchedulingConfig) (*domain.SchedulingConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("scheduling_config").
		Columns("barber_id", "slot_step_minutes", "advance_booking_days", "min_booking_notice_minutes").
		Values(cfg.BarberID, cfg.SlotStepMinutes, cfg.AdvanceBookingDays, cfg.MinBookingNoticeMinutes).
		Suffix(`ON CONFLICT (barber_id) DO UPDATE
			SET slot_step_minutes = EXCLUDED.slot_step_minutes,
			    advance_booking_days = EXCLUDED.advance_booking_days,
			    min_booking_notice_minutes = EXCLUDED.min_booking_notice_minutes,
			    updated_at = NOW()
			RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cfg.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	return cfg, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanConfig(row rowScanner) (*domain.SchedulingConfig, error) {
	var cfg domain.SchedulingConfig
	var barberID sql.NullInt64
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&cfg.ID,
		&barberID,
		&cfg.SlotStepMinutes,
		&cfg.AdvanceBookingDays,
		&cfg.MinBookingNoticeMinutes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if barberID.Valid {
		cfg.BarberID = &barberID.Int64
	}

	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	return &cfg, nil
}
