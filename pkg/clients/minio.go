package clients

import (
	"bytes"
	"context"

	config "github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/cfg"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOClient — клиент объектного хранилища, привязанный к бакету отчётов.
type MinIOClient struct {
	Client *minio.Client
	Bucket string
}

// NewMinIOClient подключается к MinIO и создаёт бакет, если его нет.
func NewMinIOClient(ctx context.Context, cfg *config.MinIOCfg) (*MinIOClient, error) {
	mc, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioRootUser, cfg.MinioRootPassword, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	client := &MinIOClient{Client: mc, Bucket: cfg.BucketName}
	if err := client.ensureBucket(ctx); err != nil {
		return nil, err
	}

	return client, nil
}

func (c *MinIOClient) ensureBucket(ctx context.Context) error {
	exists, err := c.Client.BucketExists(ctx, c.Bucket)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if exists {
		return nil
	}

	if err := c.Client.MakeBucket(ctx, c.Bucket, minio.MakeBucketOptions{}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	return nil
}

// Put сохраняет data под ключом key и возвращает итоговый ключ объекта.
func (c *MinIOClient) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	info, err := c.Client.PutObject(ctx, c.Bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}
	return info.Key, nil
}
