package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/cfg"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/domain"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/repository/converter"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/e"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*SnapshotRepo, string) {
	t.Helper()

	dir := t.TempDir()
	repo := NewSnapshotRepo(&cfg.StorageCfg{DataDir: dir, Namespace: "appData"}, converter.NewSnapshotConverterImpl())
	return repo, filepath.Join(dir, "appData.json")
}

func TestSnapshotRepo_LoadMissing(t *testing.T) {
	repo, _ := newRepo(t)

	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, e.ErrSnapshotNotFound)
}

func TestSnapshotRepo_SaveLoad(t *testing.T) {
	repo, path := newRepo(t)
	ctx := context.Background()

	snap := domain.NewSnapshot()
	snap.Products = append(snap.Products, domain.Product{
		ID: "p1", Name: "Soda", Category: "Boissons",
		PurchasePrice: decimal.NewFromInt(300), SellingPrice: decimal.NewFromInt(500),
		Stock: 10, MinStockAlert: 5, UpdatedAt: time.UnixMilli(1760400000000),
	})
	snap.Revision = 3

	require.NoError(t, repo.Save(ctx, snap))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(filePerm), info.Mode().Perm())

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), got.Revision)
	require.Len(t, got.Products, 1)
	assert.Equal(t, "Soda", got.Products[0].Name)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestSnapshotRepo_LoadCorrupt(t *testing.T) {
	repo, path := newRepo(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), filePerm))

	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, e.ErrCorruptSnapshot)
}

func TestSnapshotRepo_LoadEmptyFile(t *testing.T) {
	repo, path := newRepo(t)
	require.NoError(t, os.WriteFile(path, nil, filePerm))

	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, e.ErrSnapshotNotFound)
}

func TestSnapshotRepo_SaveCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	repo := NewSnapshotRepo(&cfg.StorageCfg{DataDir: dir, Namespace: "shop"}, converter.NewSnapshotConverterImpl())

	require.NoError(t, repo.Save(context.Background(), domain.NewSnapshot()))
	assert.FileExists(t, filepath.Join(dir, "shop.json"))
}
