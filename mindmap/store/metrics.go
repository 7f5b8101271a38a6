package store

import (
	"context"
	"errors"
	"time"

	"github.com/bluesky-social/mindmap/mindmap"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	StatusOK       = "ok"
	StatusError    = "error"
	StatusNotFound = "not_found"
)

var storeOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "mindmap_store_operations_total",
	Help: "Mind map store operations, by backend, operation and result",
}, []string{"backend", "op", "status"})

var storeOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "mindmap_store_operation_duration_seconds",
	Help:    "Time taken by mind map store operations",
	Buckets: prometheus.ExponentialBucketsRange(0.0001, 2, 20),
}, []string{"backend", "op"})

var documentBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "mindmap_store_document_bytes",
	Help:    "Size of mind map documents written to the store",
	Buckets: prometheus.ExponentialBuckets(64, 4, 10),
}, []string{"backend"})

var cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "mindmap_store_cache_hits_total",
	Help: "Mind map document cache hits",
}, []string{"cache"})

var cacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "mindmap_store_cache_misses_total",
	Help: "Mind map document cache misses",
}, []string{"cache"})

func statusFor(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, mindmap.ErrMapNotFound):
		return StatusNotFound
	default:
		return StatusError
	}
}

// InstrumentedStore records prometheus metrics around every call to Inner.
type InstrumentedStore struct {
	Inner   mindmap.Store
	Backend string
}

var _ mindmap.Store = (*InstrumentedStore)(nil)

func Instrument(backend string, inner mindmap.Store) *InstrumentedStore {
	return &InstrumentedStore{Inner: inner, Backend: backend}
}

func (s *InstrumentedStore) observe(op string, start time.Time, err error) {
	storeOperations.WithLabelValues(s.Backend, op, statusFor(err)).Inc()
	storeOperationDuration.WithLabelValues(s.Backend, op).Observe(time.Since(start).Seconds())
}

func (s *InstrumentedStore) GetMap(ctx context.Context, name string) (*mindmap.Node, error) {
	start := time.Now()
	root, err := s.Inner.GetMap(ctx, name)
	s.observe("get", start, err)
	return root, err
}

func (s *InstrumentedStore) PutMap(ctx context.Context, root *mindmap.Node) error {
	start := time.Now()
	err := s.Inner.PutMap(ctx, root)
	s.observe("put", start, err)
	return err
}

func (s *InstrumentedStore) CreateMap(ctx context.Context, name string) error {
	start := time.Now()
	err := s.Inner.CreateMap(ctx, name)
	s.observe("create", start, err)
	return err
}
