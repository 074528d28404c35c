package pgdb

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/cfg"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/domain"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/repository/converter"
	pgdbConv "github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/repository/pgdb/converter"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/usecase"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/e"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/tr"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// SnapshotRepo хранит снимок магазина строкой таблицы ledger_snapshots.
// Каждое сохранение в той же транзакции добавляет событие в outbox.
type SnapshotRepo struct {
	pool       *pgxpool.Pool
	conv       converter.SnapshotConverter
	outboxRepo usecase.OutboxRepository
	namespace  string
}

func NewSnapshotRepo(pool *pgxpool.Pool, conv converter.SnapshotConverter,
	outboxRepo usecase.OutboxRepository, cfg *cfg.StorageCfg) *SnapshotRepo {
	return &SnapshotRepo{
		pool:       pool,
		conv:       conv,
		outboxRepo: outboxRepo,
		namespace:  cfg.Namespace,
	}
}

// Load читает документ пространства имён.
func (s *SnapshotRepo) Load(ctx context.Context) (*domain.Snapshot, error) {
	query := `
		SELECT namespace, revision, document, updated_at
		FROM ledger_snapshots
		WHERE namespace = $1
	`

	rows, err := tr.QuerierFromCtx(ctx, s.pool).Query(ctx, query, s.namespace)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[pgdbConv.LedgerSnapshotModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrSnapshotNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	snap, err := s.conv.Unmarshal(model.Document)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return snap, nil
}

// Save записывает документ и событие ledger.snapshot_saved в одной транзакции.
func (s *SnapshotRepo) Save(ctx context.Context, snap *domain.Snapshot) error {
	const op = "SnapshotRepo.Save"

	document, err := s.conv.Marshal(snap)
	if err != nil {
		return e.Wrap(op, err)
	}

	payload, event, err := s.newSavedEvent(snap)
	if err != nil {
		return e.Wrap(op, err)
	}
	event.Payload = payload

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, s.pool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	pgxTx, ok := tx.Transaction().(pgx.Tx)
	if !ok {
		err = e.ErrTransactionNotFound
		return e.Wrap(op, err)
	}
	ctx = tr.WithTx(ctx, pgxTx)

	if err = s.upsert(ctx, document, snap.Revision); err != nil {
		return e.Wrap(op, err)
	}

	if _, err = s.outboxRepo.Create(ctx, event); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

func (s *SnapshotRepo) upsert(ctx context.Context, document []byte, revision uint64) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO ledger_snapshots (namespace, revision, document, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (namespace)
		DO UPDATE SET
			revision = EXCLUDED.revision,
			document = EXCLUDED.document,
			updated_at = NOW()
	`

	if _, err := tx.Exec(ctx, query, s.namespace, int64(revision), document); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (s *SnapshotRepo) newSavedEvent(snap *domain.Snapshot) ([]byte, *usecase.OutboxEvent, error) {
	lowStock := 0
	for i := range snap.Products {
		if snap.Products[i].IsLowStock() {
			lowStock++
		}
	}

	now := time.Now().UTC()
	eventID := uuid.NewString()
	payload, err := json.Marshal(usecase.SnapshotSavedPayload{
		EventID:       eventID,
		Namespace:     s.namespace,
		Revision:      snap.Revision,
		ProductCount:  len(snap.Products),
		SaleCount:     len(snap.Sales),
		ExpenseCount:  len(snap.Expenses),
		LowStockCount: lowStock,
		SavedAt:       now,
	})
	if err != nil {
		return nil, nil, err
	}

	return payload, usecase.NewOutboxEvent(eventID, usecase.SnapshotSaved, s.namespace, nil, now), nil
}
