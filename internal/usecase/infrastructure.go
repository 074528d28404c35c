package usecase

import (
	"context"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/ledger"
)

// ReportExporter строит файл отчёта для скачивания.
type ReportExporter interface {
	Export(report *ledger.Report) (*ReportFile, error)
}

// MessageProducer публикует события из outbox.
type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}
