package usecase

import (
	"context"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/domain"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/ledger"
	"github.com/stretchr/testify/mock"
)

type snapshotRepoMock struct {
	mock.Mock
}

func (m *snapshotRepoMock) Load(ctx context.Context) (*domain.Snapshot, error) {
	args := m.Called(ctx)
	snap, _ := args.Get(0).(*domain.Snapshot)
	return snap, args.Error(1)
}

func (m *snapshotRepoMock) Save(ctx context.Context, snap *domain.Snapshot) error {
	return m.Called(ctx, snap).Error(0)
}

type reportRepoMock struct {
	mock.Mock
}

func (m *reportRepoMock) Upload(ctx context.Context, report *ReportFile) (string, error) {
	args := m.Called(ctx, report)
	return args.String(0), args.Error(1)
}

type exporterMock struct {
	mock.Mock
}

func (m *exporterMock) Export(report *ledger.Report) (*ReportFile, error) {
	args := m.Called(report)
	file, _ := args.Get(0).(*ReportFile)
	return file, args.Error(1)
}
