// Package logic ties the coordinator cache to the entity registry and the
// publisher, and carries the bridge's service operations.
package logic

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/anicoll/smartthings-integration/internal/pkg/entity"
	"github.com/anicoll/smartthings-integration/internal/pkg/model"
	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

var (
	ErrEntityNotFound  = errors.New("entity not found")
	ErrNotActionable   = errors.New("entity does not accept actions")
	ErrNotCamera       = errors.New("entity is not a camera")
	ErrHistoryDisabled = errors.New("state history is not configured")
	ErrInvalidRequest  = errors.New("invalid request")
)

type coordinatorService interface {
	Devices() []smartthings.Device
	SendCommand(ctx context.Context, deviceID string, commands ...smartthings.Command) error
	RequestRefresh(ctx context.Context) error
}

type sceneService interface {
	ExecuteScene(ctx context.Context, sceneID string) error
}

type discoverer interface {
	Discover(devices []smartthings.Device) []entity.Entity
}

type stateSink interface {
	Sync(ctx context.Context, devices []model.Device, entities []model.Entity, states model.EntityStates) int
	Forget(uniqueIDs ...string)
}

type database interface {
	History(ctx context.Context, uniqueID string, from, to *time.Time) (model.EntityStates, error)
}

type logic struct {
	coordinator coordinatorService
	scenes      sceneService
	registry    discoverer
	sink        stateSink
	db          database
	logger      *zap.Logger

	// updateMu serialises Update; mu guards entities.
	updateMu sync.Mutex
	mu       sync.RWMutex
	entities map[string]entity.Entity
}

// NewLogicSvc builds the bridge service. db may be nil when no history store
// is configured.
func NewLogicSvc(coordinator coordinatorService, scenes sceneService, registry discoverer, sink stateSink, db database) *logic {
	return &logic{
		coordinator: coordinator,
		scenes:      scenes,
		registry:    registry,
		sink:        sink,
		db:          db,
		logger:      zap.L(),
		entities:    map[string]entity.Entity{},
	}
}

// Update rediscovers entities from the current cache and pushes their state
// to the publisher. Entities whose device has gone are forgotten.
func (l *logic) Update(ctx context.Context) {
	l.updateMu.Lock()
	defer l.updateMu.Unlock()

	devices := l.coordinator.Devices()
	discovered := map[string]entity.Entity{}
	for _, e := range l.registry.Discover(devices) {
		if _, ok := discovered[e.UniqueID()]; ok {
			l.logger.Debug("duplicate unique id", zap.String("key", entity.Key(e)))
			continue
		}
		discovered[e.UniqueID()] = e
	}

	l.mu.Lock()
	removed := lo.Filter(lo.Keys(l.entities), func(id string, _ int) bool {
		_, ok := discovered[id]
		return !ok
	})
	l.entities = discovered
	l.mu.Unlock()

	if len(removed) > 0 {
		l.logger.Info("entities removed", zap.Strings("unique_ids", removed))
		l.sink.Forget(removed...)
	}

	models := make([]model.Entity, 0, len(discovered))
	states := make(model.EntityStates, 0, len(discovered))
	for _, e := range sortedEntities(discovered) {
		models = append(models, toModel(e))
		states = append(states, toState(e))
	}
	changed := l.sink.Sync(ctx, lo.Map(devices, func(d smartthings.Device, _ int) model.Device {
		return toDevice(d)
	}), models, states)
	l.logger.Debug("published states", zap.Int("changed", changed), zap.Int("entities", len(states)))
}

func sortedEntities(m map[string]entity.Entity) []entity.Entity {
	out := lo.Values(m)
	slices.SortFunc(out, func(a, b entity.Entity) int {
		return strings.Compare(a.UniqueID(), b.UniqueID())
	})
	return out
}

func (l *logic) lookup(uniqueID string) (entity.Entity, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.entities[uniqueID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, uniqueID)
	}
	return e, nil
}

// Entities lists every discovered entity with its current state.
func (l *logic) Entities() []EntityView {
	l.mu.RLock()
	entities := sortedEntities(l.entities)
	l.mu.RUnlock()
	return lo.Map(entities, func(e entity.Entity, _ int) EntityView {
		return view(e)
	})
}

func (l *logic) Entity(uniqueID string) (EntityView, error) {
	e, err := l.lookup(uniqueID)
	if err != nil {
		return EntityView{}, err
	}
	return view(e), nil
}

// Dispatch runs action against an entity. The error covers lookup failures
// only; the outcome of the write itself is in the Result.
func (l *logic) Dispatch(ctx context.Context, uniqueID string, action entity.Action) (entity.Result, error) {
	e, err := l.lookup(uniqueID)
	if err != nil {
		return entity.Result{}, err
	}
	a, ok := e.(entity.Actionable)
	if !ok {
		return entity.Result{}, fmt.Errorf("%w: %s", ErrNotActionable, uniqueID)
	}
	res := a.Handle(ctx, action)
	if res.Err != nil {
		l.logger.Warn("action failed",
			zap.String("unique_id", uniqueID),
			zap.String("action", action.Name),
			zap.Error(res.Err))
	}
	return res, nil
}

// Image returns a snapshot from a camera entity.
func (l *logic) Image(ctx context.Context, uniqueID string) ([]byte, error) {
	e, err := l.lookup(uniqueID)
	if err != nil {
		return nil, err
	}
	cam, ok := e.(entity.Camera)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotCamera, uniqueID)
	}
	return cam.Image(ctx)
}

func (l *logic) History(ctx context.Context, uniqueID string, from, to *time.Time) (model.EntityStates, error) {
	if l.db == nil {
		return nil, ErrHistoryDisabled
	}
	return l.db.History(ctx, uniqueID, from, to)
}
