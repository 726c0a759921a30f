package cassandra

import (
	"context"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// RemoteStorage keeps the counter in a single row of the counters table,
// keyed by counter name.
type RemoteStorage struct {
	session *gocql.Session
	name    string
	logger  *logrus.Logger
}

func NewRemoteStorage(logger *logrus.Logger, session *gocql.Session, name string) *RemoteStorage {
	return &RemoteStorage{
		session: session,
		name:    name,
		logger:  logger,
	}
}

func (s *RemoteStorage) Get(ctx context.Context) (uint64, error) {
	var value uint64

	err := s.session.
		Query(`SELECT value FROM counters WHERE name = ? LIMIT 1`, s.name).
		Consistency(gocql.LocalQuorum).
		WithContext(ctx).
		Scan(&value)

	if err == gocql.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "cassandra storage get failure")
	}

	return value, nil
}

func (s *RemoteStorage) Set(ctx context.Context, value uint64) error {
	err := s.session.
		Query(`INSERT INTO counters (name, value) VALUES (?, ?)`, s.name, value).
		Consistency(gocql.LocalQuorum).
		WithContext(ctx).
		Exec()

	if err != nil {
		return errors.Wrap(err, "cassandra storage set failure")
	}

	return nil
}
