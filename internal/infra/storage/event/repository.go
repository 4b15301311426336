package event

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/psqlbuilder"
)

const tableEvents = "events"

var eventColumns = []string{
	"id",
	"kind",
	"starts_at",
	"ends_at",
	"weekly_recurring",
	"days_to_week",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с событиями (opening и appointment)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория событий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое событие
// Ключ дня недели (days_to_week) пересчитывается из starts_at перед вставкой
func (r *Repository) Create(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	event.RefreshWeekdayKey()

	query, args, err := psqlbuilder.Insert(tableEvents).
		Columns(
			"kind",
			"starts_at",
			"ends_at",
			"weekly_recurring",
			"days_to_week",
		).
		Values(
			event.Kind,
			event.StartsAt,
			event.EndsAt,
			event.WeeklyRecurring,
			event.WeekdayKey,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&event.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	event.CreatedAt = createdAt.Time
	event.UpdatedAt = updatedAt.Time

	return event, nil
}

// GetByID получает событие по ID
// Внутри транзакции строка блокируется (FOR UPDATE) до её завершения
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(eventColumns...).
		From(tableEvents).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	event, err := scanEvent(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan event: %v", ErrScanRow, err)
	}

	return event, nil
}

// FetchEventsUpTo получает все события с starts_at <= upTo (граница включительно)
// Используется расчётом доступности: один запрос на всё окно
func (r *Repository) FetchEventsUpTo(ctx context.Context, upTo time.Time) ([]*domain.Event, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildFetchUpToQuery(upTo)
	if err != nil {
		return nil, fmt.Errorf("%w: FetchEventsUpTo - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FetchEventsUpTo - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListAll получает все события, отсортированные по времени начала
func (r *Repository) ListAll(ctx context.Context) ([]*domain.Event, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(eventColumns...).
		From(tableEvents).
		OrderBy("starts_at ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListAll - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAll - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// Update обновляет событие целиком, days_to_week пересчитывается из starts_at
func (r *Repository) Update(ctx context.Context, event *domain.Event) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	event.RefreshWeekdayKey()

	query, args, err := psqlbuilder.Update(tableEvents).
		Set("kind", event.Kind).
		Set("starts_at", event.StartsAt).
		Set("ends_at", event.EndsAt).
		Set("weekly_recurring", event.WeeklyRecurring).
		Set("days_to_week", event.WeekdayKey).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": event.ID}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if err == sql.ErrNoRows {
		return ErrEventNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	event.UpdatedAt = updatedAt.Time

	return nil
}

// Delete удаляет событие
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableEvents).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

// DeleteExpired удаляет неповторяющиеся события, закончившиеся раньше before
// Повторяющиеся opening не удаляются никогда: они действуют бессрочно
func (r *Repository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildDeleteExpiredQuery(before)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

func buildFetchUpToQuery(upTo time.Time) (string, []interface{}, error) {
	return psqlbuilder.Select(eventColumns...).
		From(tableEvents).
		Where(squirrel.LtOrEq{"starts_at": upTo}).
		OrderBy("starts_at ASC", "id ASC").
		ToSql()
}

func buildDeleteExpiredQuery(before time.Time) (string, []interface{}, error) {
	return psqlbuilder.Delete(tableEvents).
		Where(squirrel.Lt{"ends_at": before}).
		Where(squirrel.Or{
			squirrel.Eq{"kind": string(domain.KindAppointment)},
			squirrel.Eq{"weekly_recurring": false},
		}).
		ToSql()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanEvent сканирует одну строку в событие
func scanEvent(row rowScanner) (*domain.Event, error) {
	var event domain.Event
	var weeklyRecurring sql.NullBool
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&event.ID,
		&event.Kind,
		&event.StartsAt,
		&event.EndsAt,
		&weeklyRecurring,
		&event.WeekdayKey,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	event.WeeklyRecurring = weeklyRecurring.Bool
	event.CreatedAt = createdAt.Time
	event.UpdatedAt = updatedAt.Time

	return &event, nil
}

// scanEvents сканирует результаты запроса в слайс событий
func scanEvents(rows *sql.Rows) ([]*domain.Event, error) {
	events := make([]*domain.Event, 0)

	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanEvents - scan row: %v", ErrScanRow, err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanEvents - rows error: %v", ErrScanRow, err)
	}

	return events, nil
}
