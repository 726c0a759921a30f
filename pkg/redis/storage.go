package redis

import (
	"context"

	"github.com/go-redis/redis/v7"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// RemoteStorage keeps the counter under a single redis key.
type RemoteStorage struct {
	client *redis.Client
	key    string
	logger *logrus.Logger
}

func NewRemoteStorage(client *redis.Client, key string, logger *logrus.Logger) *RemoteStorage {
	return &RemoteStorage{
		client: client,
		key:    key,
		logger: logger,
	}
}

func (s *RemoteStorage) Get(ctx context.Context) (uint64, error) {
	c, err := s.client.Get(s.key).Uint64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "redis storage get failure")
	}

	return c, nil
}

func (s *RemoteStorage) Set(ctx context.Context, value uint64) error {
	if err := s.client.Set(s.key, value, 0).Err(); err != nil {
		return errors.Wrap(err, "redis storage set failure")
	}

	return nil
}
