package converter

import "time"

// LedgerSnapshotModel представляет запись таблицы ledger_snapshots в PostgreSQL.
type LedgerSnapshotModel struct {
	Namespace string    `db:"namespace"`
	Revision  int64     `db:"revision"`
	Document  []byte    `db:"document"`
	UpdatedAt time.Time `db:"updated_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	AggregateID string     `db:"aggregate_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
