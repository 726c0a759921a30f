package counter

import (
	"context"
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var ErrCorruptValue = errors.New("stored counter value is not a non-negative integer")

type counterMetrics struct {
	incrementTotal  prometheus.Counter
	storageFailures prometheus.Counter
}

func newCounterMetrics(r prometheus.Registerer) *counterMetrics {
	var m counterMetrics

	m.incrementTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "counter_increment_total",
		Help: "Total number of counter increments",
	})

	m.storageFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "counter_storage_failures_total",
		Help: "Total number of counter storage failures",
	})

	r.MustRegister(m.incrementTotal, m.storageFailures)
	return &m
}

// CounterService serves the request counter off a single-value storage.
// The storage is the sole owner of state: every operation re-reads it,
// no value is cached across requests.
type CounterService struct {
	storage Storage
	logger  *logrus.Logger
	metrics *counterMetrics

	// mux guards the read-modify-write cycle in Increment. The guard is
	// process-wide only; concurrent writers in separate processes sharing
	// one store can still lose updates.
	mux sync.Mutex
}

// NewCounterService creates a new counter service
func NewCounterService(storage Storage, logger *logrus.Logger, registerer prometheus.Registerer) *CounterService {
	return &CounterService{
		storage: storage,
		logger:  logger,
		metrics: newCounterMetrics(registerer),
	}
}

// Current returns the current counter value without changing it.
func (cs *CounterService) Current(ctx context.Context) (uint64, error) {
	count, err := cs.storage.Get(ctx)
	if err != nil {
		cs.metrics.storageFailures.Inc()
		return 0, err
	}

	return count, nil
}

// Increment adds one to the stored counter and returns the new value.
func (cs *CounterService) Increment(ctx context.Context) (uint64, error) {
	cs.mux.Lock()
	defer cs.mux.Unlock()

	count, err := cs.storage.Get(ctx)
	if err != nil {
		cs.metrics.storageFailures.Inc()
		return 0, err
	}

	count++
	if err := cs.storage.Set(ctx, count); err != nil {
		cs.metrics.storageFailures.Inc()
		return 0, err
	}

	cs.metrics.incrementTotal.Inc()
	return count, nil
}

// Check performs a storage read as a liveness probe, discarding the value.
func (cs *CounterService) Check(ctx context.Context) error {
	if _, err := cs.storage.Get(ctx); err != nil {
		cs.metrics.storageFailures.Inc()
		return err
	}

	return nil
}
