package redis

import (
	"context"
	"errors"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/cfg"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/domain"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/repository/converter"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/clients"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/e"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// SnapshotRepo хранит снимок магазина в одном ключе Redis.
type SnapshotRepo struct {
	client *clients.RedisClient
	conv   converter.SnapshotConverter
	key    string
	logger logger.Logger
}

func NewSnapshotRepo(client *clients.RedisClient, conv converter.SnapshotConverter,
	cfg *cfg.StorageCfg, logger logger.Logger) *SnapshotRepo {
	return &SnapshotRepo{
		client: client,
		conv:   conv,
		key:    clients.Key(cfg.Namespace),
		logger: logger,
	}
}

// Load читает документ. Отсутствующий ключ даёт e.ErrSnapshotNotFound.
func (s *SnapshotRepo) Load(ctx context.Context) (*domain.Snapshot, error) {
	data, err := s.client.Client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrSnapshotNotFound)
		}
		s.logger.Warnf("Redis GET failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	snap, err := s.conv.Unmarshal(data)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return snap, nil
}

// Save перезаписывает документ целиком без TTL.
func (s *SnapshotRepo) Save(ctx context.Context, snap *domain.Snapshot) error {
	data, err := s.conv.Marshal(snap)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := s.client.Client.Set(ctx, s.key, data, 0).Err(); err != nil {
		s.logger.Warnf("Redis SET failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
