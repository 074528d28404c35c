package file

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/cfg"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/domain"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/repository/converter"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/e"
	"github.com/jimlawless/whereami"
)

const (
	dirPerm  = 0o755
	filePerm = 0o600
)

// SnapshotRepo хранит снимок в JSON-файле <DataDir>/<Namespace>.json.
type SnapshotRepo struct {
	path string
	conv converter.SnapshotConverter
}

func NewSnapshotRepo(cfg *cfg.StorageCfg, conv converter.SnapshotConverter) *SnapshotRepo {
	return &SnapshotRepo{
		path: filepath.Join(cfg.DataDir, cfg.Namespace+".json"),
		conv: conv,
	}
}

// Load читает файл снимка. Отсутствующий или пустой файл даёт e.ErrSnapshotNotFound.
func (r *SnapshotRepo) Load(_ context.Context) (*domain.Snapshot, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrSnapshotNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if len(data) == 0 {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrSnapshotNotFound)
	}

	snap, err := r.conv.Unmarshal(data)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return snap, nil
}

// Save записывает снимок во временный файл и переименовывает его поверх старого,
// так что читатель видит либо прежний, либо новый документ целиком.
func (r *SnapshotRepo) Save(ctx context.Context, snap *domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	data, err := r.conv.Marshal(snap)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if err := tmp.Close(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
