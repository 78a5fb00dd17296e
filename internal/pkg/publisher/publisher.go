package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/anicoll/smartthings-integration/internal/pkg/model"
)

var errAlreadyRegistered = errors.New("publisher already registered")

type publisher interface {
	RegisterDevice(ctx context.Context, device model.Device) error
	RegisterEntity(ctx context.Context, entity model.Entity) error
	// Write publishes the states that changed since the last write.
	Write(ctx context.Context, states model.EntityStates) error
}

// Publisher fans registrations and state changes out to named sinks.
type Publisher struct {
	mu         sync.Mutex
	publishers map[string]publisher
	registered map[string]struct{}
	// last holds, per sink, the fingerprint of the last state that sink
	// accepted for each entity.
	last   map[string]map[string]string
	logger *zap.Logger
	now    func() time.Time
}

func New() *Publisher {
	return &Publisher{
		publishers: map[string]publisher{},
		registered: map[string]struct{}{},
		last:       map[string]map[string]string{},
		logger:     zap.L(),
		now:        time.Now,
	}
}

func (p *Publisher) RegisterPublisher(name string, pub publisher) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.publishers[name]; ok {
		return errAlreadyRegistered
	}
	p.publishers[name] = pub
	p.last[name] = map[string]string{}
	return nil
}

type named struct {
	name string
	pub  publisher
}

func (p *Publisher) sinks() []named {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]named, 0, len(p.publishers))
	for name, pub := range p.publishers {
		out = append(out, named{name, pub})
	}
	slices.SortFunc(out, func(a, b named) int {
		return strings.Compare(a.name, b.name)
	})
	return out
}

// once runs fn for a sink the first time key is seen for it. A failed call
// is retried on the next sync.
func (p *Publisher) once(sink, key string, fn func() error) {
	id := sink + "/" + key
	p.mu.Lock()
	_, done := p.registered[id]
	p.mu.Unlock()
	if done {
		return
	}
	if err := fn(); err != nil {
		p.logger.Error("failed to register", zap.Error(err), zap.String("publisher", sink), zap.String("key", key))
		return
	}
	p.mu.Lock()
	p.registered[id] = struct{}{}
	p.mu.Unlock()
}

func (p *Publisher) RegisterDevice(ctx context.Context, device model.Device) {
	for _, s := range p.sinks() {
		p.once(s.name, "device/"+device.ID, func() error {
			return s.pub.RegisterDevice(ctx, device)
		})
	}
}

func (p *Publisher) RegisterEntity(ctx context.Context, entity model.Entity) {
	for _, s := range p.sinks() {
		p.once(s.name, "entity/"+entity.UniqueID, func() error {
			return s.pub.RegisterEntity(ctx, entity)
		})
	}
}

// PublishData writes, to each sink, the states that differ from the last
// value that sink accepted. A sink whose Write fails gets the same states
// again on the next call. It returns the number of states that changed for
// at least one sink.
func (p *Publisher) PublishData(ctx context.Context, states model.EntityStates) int {
	states = slices.Clone(states)
	ts := p.now()
	for i := range states {
		if states[i].TimeStamp.IsZero() {
			states[i].TimeStamp = ts
		}
	}

	changedIDs := map[string]struct{}{}
	for _, s := range p.sinks() {
		changed, fps := p.pending(s.name, states)
		if len(changed) == 0 {
			continue
		}
		for _, st := range changed {
			changedIDs[st.UniqueID] = struct{}{}
		}
		if err := s.pub.Write(ctx, changed); err != nil {
			p.logger.Error("failed to publish data", zap.Error(err), zap.String("publisher", s.name))
			continue
		}
		p.commit(s.name, fps)
		p.logger.Debug("updated entities", zap.Int("count", len(changed)), zap.String("publisher", s.name))
	}
	return len(changedIDs)
}

// Sync registers any new devices and entities, then publishes changed states.
func (p *Publisher) Sync(ctx context.Context, devices []model.Device, entities []model.Entity, states model.EntityStates) int {
	for _, d := range devices {
		p.RegisterDevice(ctx, d)
	}
	for _, e := range entities {
		p.RegisterEntity(ctx, e)
	}
	return p.PublishData(ctx, states)
}

func fingerprint(st model.EntityState) string {
	attrs, err := json.Marshal(st.Attributes)
	if err != nil {
		attrs = nil
	}
	available := "0"
	if st.Available {
		available = "1"
	}
	return available + "|" + model.FormatValue(st.Value) + "|" + string(attrs)
}

// pending returns the states sink has not accepted yet with their fingerprints.
func (p *Publisher) pending(sink string, states model.EntityStates) (model.EntityStates, map[string]string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	last := p.last[sink]
	changed := make(model.EntityStates, 0, len(states))
	fps := map[string]string{}
	for _, st := range states {
		fp := fingerprint(st)
		old, exists := last[st.UniqueID]
		if exists && old == fp {
			continue
		}
		if !exists {
			p.logger.Info("configured entity",
				zap.String("unique_id", st.UniqueID),
				zap.String("state", model.FormatValue(st.Value)),
				zap.String("publisher", sink))
		}
		changed = append(changed, st)
		fps[st.UniqueID] = fp
	}
	return changed, fps
}

func (p *Publisher) commit(sink string, fps map[string]string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	last, ok := p.last[sink]
	if !ok {
		return
	}
	maps.Copy(last, fps)
}

// Forget drops change tracking for entities that no longer exist so they are
// published again if they reappear.
func (p *Publisher) Forget(uniqueIDs ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, last := range p.last {
		for _, id := range uniqueIDs {
			delete(last, id)
		}
	}
}

// Reset forgets everything sink has been sent, so the next Sync registers
// every device and entity and writes every state to it again.
func (p *Publisher) Reset(sink string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.publishers[sink]; !ok {
		return
	}
	prefix := sink + "/"
	for id := range p.registered {
		if strings.HasPrefix(id, prefix) {
			delete(p.registered, id)
		}
	}
	p.last[sink] = map[string]string{}
	p.logger.Info("publisher reset", zap.String("publisher", sink))
}
