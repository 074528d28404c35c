package minio

import (
	"context"
	"fmt"
	"time"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/usecase"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/e"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
)

const keyDateLayout = "2006-01-02"

// ObjectStore — запись объекта в бакет, реализуется clients.MinIOClient.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// ReportRepo складывает выгруженные отчёты в объектное хранилище по дням.
type ReportRepo struct {
	store ObjectStore
	newID func() string
}

func NewReportRepo(store ObjectStore) *ReportRepo {
	return &ReportRepo{
		store: store,
		newID: uuid.NewString,
	}
}

// Upload загружает файл отчёта и возвращает ключ объекта.
func (r *ReportRepo) Upload(ctx context.Context, report *usecase.ReportFile) (string, error) {
	if report == nil || len(report.Data) == 0 {
		return "", e.Wrap(whereami.WhereAmI(), e.ErrMissingFields)
	}

	key, err := r.store.Put(ctx, objectKey(report.CreatedAt, r.newID(), report.Name), report.Data, report.ContentType)
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return key, nil
}

// objectKey строит ключ вида reports/2026-10-14/<id>-<имя файла>.
func objectKey(createdAt time.Time, id, name string) string {
	return fmt.Sprintf("reports/%s/%s-%s", createdAt.Format(keyDateLayout), id, name)
}
