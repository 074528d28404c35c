package minio

import (
	"context"
	"testing"
	"time"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/usecase"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type objectStoreMock struct {
	mock.Mock
}

func (m *objectStoreMock) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}

func newTestRepo(store ObjectStore) *ReportRepo {
	repo := NewReportRepo(store)
	repo.newID = func() string { return "0b7c" }
	return repo
}

func TestUpload(t *testing.T) {
	store := &objectStoreMock{}
	repo := newTestRepo(store)

	report := &usecase.ReportFile{
		Name:        "aldjiday_gestion_rapport_2026-10-14.csv",
		ContentType: "text/csv; charset=utf-8",
		Data:        []byte("RAPPORT"),
		CreatedAt:   time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC),
	}
	wantKey := "reports/2026-10-14/0b7c-aldjiday_gestion_rapport_2026-10-14.csv"

	store.On("Put", mock.Anything, wantKey, report.Data, report.ContentType).Return(wantKey, nil).Once()

	key, err := repo.Upload(context.Background(), report)
	require.NoError(t, err)
	assert.Equal(t, wantKey, key)
	store.AssertExpectations(t)
}

func TestUploadErrors(t *testing.T) {
	store := &objectStoreMock{}
	repo := newTestRepo(store)

	_, err := repo.Upload(context.Background(), &usecase.ReportFile{Name: "empty.csv"})
	require.ErrorIs(t, err, e.ErrMissingFields)

	store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", assert.AnError).Once()
	_, err = repo.Upload(context.Background(), &usecase.ReportFile{Name: "r.csv", Data: []byte("x")})
	require.ErrorIs(t, err, assert.AnError)
}
