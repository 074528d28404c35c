package usecase

import (
	"context"
	"time"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/domain"
)

// SnapshotRepository хранит документ магазина целиком.
// Load возвращает e.ErrSnapshotNotFound, если документ ещё не сохранялся,
// и e.ErrCorruptSnapshot, если его не удалось разобрать.
type SnapshotRepository interface {
	Load(ctx context.Context) (*domain.Snapshot, error)
	Save(ctx context.Context, snap *domain.Snapshot) error
}

// ReportRepository сохраняет выгруженные отчёты в объектное хранилище.
type ReportRepository interface {
	Upload(ctx context.Context, report *ReportFile) (string, error)
}

// OutboxRepository хранит события об изменении снимка до отправки в брокер.
type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	ReleaseToPending(ctx context.Context, id int64) error
	RequeueStale(ctx context.Context, olderThan time.Duration) (int64, error)
}
