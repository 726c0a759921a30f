package file

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/samueltorres/countd/pkg/counter"
)

// Storage persists the counter as decimal text in a single file.
type Storage struct {
	fs     afero.Fs
	path   string
	logger *logrus.Logger
}

func NewStorage(fs afero.Fs, path string, logger *logrus.Logger) *Storage {
	return &Storage{
		fs:     fs,
		path:   path,
		logger: logger,
	}
}

// Get reads the counter file. A missing file means the counter was never
// written and reads as 0. Unparseable content is surfaced, not coerced to 0.
func (s *Storage) Get(ctx context.Context) (uint64, error) {
	b, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "file storage read failure")
	}

	value, err := strconv.ParseUint(strings.TrimSpace(string(b)), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(counter.ErrCorruptValue, "file storage: %q", string(b))
	}

	return value, nil
}

// Set replaces the stored counter with value. The content is written to a
// temporary file and renamed over the target so a reader never observes a
// partially written value.
func (s *Storage) Set(ctx context.Context, value uint64) error {
	tmp := s.path + ".tmp"

	err := afero.WriteFile(s.fs, tmp, []byte(strconv.FormatUint(value, 10)), 0644)
	if err != nil {
		return errors.Wrap(err, "file storage write failure")
	}

	if err := s.fs.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "file storage rename failure")
	}

	return nil
}
