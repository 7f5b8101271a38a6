package mindmap

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("mindmap")

// Service implements the mind map operations as explicit load / mutate / save
// steps against a Store. It holds no tree state of its own.
//
// There is no locking between load and save: concurrent AddLeaf calls against
// the same map race, and the last save wins.
type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		logger: logger.With("system", "mindmap"),
	}
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// CreateMap creates an empty map with the given name. Creating a map which
// already exists leaves the existing map untouched.
func (s *Service) CreateMap(ctx context.Context, name string) error {
	ctx, span := s.startSpan(ctx, "CreateMap", attribute.String("map", name))
	defer span.End()

	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidMapName)
	}
	if err := s.store.CreateMap(ctx, name); err != nil {
		return fmt.Errorf("creating mind map %q: %w", name, err)
	}
	s.logger.Debug("created map", "map", name)
	return nil
}

// GetMap loads the full tree for a map.
func (s *Service) GetMap(ctx context.Context, name string) (*Node, error) {
	ctx, span := s.startSpan(ctx, "GetMap", attribute.String("map", name))
	defer span.End()

	return s.load(ctx, name)
}

// AddLeaf inserts path (with text on its final segment) into the named map and
// persists the whole tree. An insert which would make the tree deeper than
// MaxDepth fails with ErrTooDeep and nothing is saved.
func (s *Service) AddLeaf(ctx context.Context, mapName, path, text string) error {
	ctx, span := s.startSpan(ctx, "AddLeaf", attribute.String("map", mapName), attribute.String("path", path))
	defer span.End()

	root, err := s.load(ctx, mapName)
	if err != nil {
		return err
	}

	root.Insert(path, text)
	if d := root.Depth(); d > MaxDepth {
		return fmt.Errorf("adding leaf to mind map %q: %w: depth %d exceeds %d", mapName, ErrTooDeep, d, MaxDepth)
	}

	if err := s.store.PutMap(ctx, root); err != nil {
		return fmt.Errorf("saving mind map %q: %w", mapName, err)
	}
	s.logger.Debug("added leaf", "map", mapName, "path", path, "nodes", root.Count())
	return nil
}

// ReadLeaf resolves a node by name. The returned path is relative to the map
// root.
func (s *Service) ReadLeaf(ctx context.Context, mapName, leafName string) (Leaf, error) {
	ctx, span := s.startSpan(ctx, "ReadLeaf", attribute.String("map", mapName), attribute.String("leaf", leafName))
	defer span.End()

	root, err := s.load(ctx, mapName)
	if err != nil {
		return Leaf{}, err
	}

	leaf, ok := root.Lookup(leafName)
	if !ok {
		return Leaf{}, ErrLeafNotFound
	}
	leaf.Path = leaf.RelativePath(root.Name)
	return leaf, nil
}

// PrettyPrint renders the named map as indented text.
func (s *Service) PrettyPrint(ctx context.Context, mapName string) (string, error) {
	ctx, span := s.startSpan(ctx, "PrettyPrint", attribute.String("map", mapName))
	defer span.End()

	root, err := s.load(ctx, mapName)
	if err != nil {
		return "", err
	}
	return root.Render(), nil
}

func (s *Service) load(ctx context.Context, name string) (*Node, error) {
	root, err := s.store.GetMap(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("loading mind map %q: %w", name, err)
	}
	return root, nil
}
