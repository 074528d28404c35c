package pgdb

import (
	"context"
	"fmt"
	"time"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/repository/pgdb/converter"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/usecase"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/e"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// OutboxChannel — канал LISTEN/NOTIFY, в который сообщается о новых событиях.
const OutboxChannel = "outbox_pending"

const outboxColumns = `id, event_id, event_type, aggregate_id, payload, status, created_at, processed_at`

// OutboxEventRepo хранит события об изменениях снимка до их отправки в Kafka.
type OutboxEventRepo struct {
	pool *pgxpool.Pool
	conv converter.OutboxEventConverter
}

func NewOutboxEventRepo(pool *pgxpool.Pool, conv converter.OutboxEventConverter) *OutboxEventRepo {
	return &OutboxEventRepo{
		pool: pool,
		conv: conv,
	}
}

// Create добавляет событие в транзакции из контекста. NOTIFY доставляется
// слушателям только после коммита, поэтому воркер не увидит незакоммиченную запись.
func (o *OutboxEventRepo) Create(ctx context.Context, event *usecase.OutboxEvent) (*usecase.OutboxEvent, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model := o.conv.ToModel(event)
	query := `
		INSERT INTO outbox_events (event_id, event_type, aggregate_id, payload, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	if err := tx.QueryRow(ctx, query,
		model.EventID,
		model.EventType,
		model.AggregateID,
		model.Payload,
		model.Status,
		model.CreatedAt,
	).Scan(&model.ID, &model.CreatedAt); err != nil {
		if postgresDuplicate(err) {
			return nil, fmt.Errorf("%s: outbox event %s: %w", whereami.WhereAmI(), event.EventID, e.ErrDuplicateID)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if _, err := tx.Exec(ctx, "SELECT pg_notify($1, $2)", OutboxChannel, model.AggregateID); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToEntity(model), nil
}

// GetAndMarkAsProcessing забирает до limit самых старых ожидающих событий и переводит их в processing
// одним запросом. SKIP LOCKED не даёт двум воркерам взять одно событие.
func (o *OutboxEventRepo) GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*usecase.OutboxEvent, error) {
	query := `
		UPDATE outbox_events
		SET status = $1, processing_started_at = NOW()
		WHERE id IN (
			SELECT id FROM outbox_events
			WHERE status = $2
			ORDER BY created_at, id
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + outboxColumns

	rows, err := tr.QuerierFromCtx(ctx, o.pool).Query(ctx, query, usecase.Processing, usecase.Pending, limit)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[converter.OutboxEventModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToArrEntity(models), nil
}

// MarkAsProcessed помечает событие отправленным. Событие не в processing не меняется.
func (o *OutboxEventRepo) MarkAsProcessed(ctx context.Context, id int64) error {
	return o.transition(ctx, id, usecase.Processing, usecase.Processed, "processed_at = NOW()")
}

// ReleaseToPending возвращает недоставленное событие в очередь.
func (o *OutboxEventRepo) ReleaseToPending(ctx context.Context, id int64) error {
	return o.transition(ctx, id, usecase.Processing, usecase.Pending, "processing_started_at = NULL")
}

// RequeueStale возвращает в очередь события, застрявшие в processing дольше olderThan,
// например после падения процесса посреди отправки.
func (o *OutboxEventRepo) RequeueStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	query := `
		UPDATE outbox_events
		SET status = $1, processing_started_at = NULL
		WHERE status = $2 AND processing_started_at < NOW() - make_interval(secs => $3)
	`

	tag, err := tr.QuerierFromCtx(ctx, o.pool).Exec(ctx, query, usecase.Pending, usecase.Processing, olderThan.Seconds())
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return tag.RowsAffected(), nil
}

func (o *OutboxEventRepo) transition(ctx context.Context, id int64, from, to usecase.OutboxStatus, set string) error {
	query := `UPDATE outbox_events SET status = $1, ` + set + ` WHERE id = $2 AND status = $3`

	if _, err := tr.QuerierFromCtx(ctx, o.pool).Exec(ctx, query, to, id, from); err != nil {
		return fmt.Errorf("%s: outbox event %d %s -> %s: %w", whereami.WhereAmI(), id, from, to, err)
	}

	return nil
}
