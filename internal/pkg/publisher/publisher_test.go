package publisher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/anicoll/smartthings-integration/internal/pkg/model"
)

type mockPublisher struct {
	RegisterDeviceFunc func(ctx context.Context, device model.Device) error
	RegisterEntityFunc func(ctx context.Context, entity model.Entity) error
	WriteFunc          func(ctx context.Context, states model.EntityStates) error

	devices  []string
	entities []string
	writes   []model.EntityStates
}

func (m *mockPublisher) RegisterDevice(ctx context.Context, device model.Device) error {
	m.devices = append(m.devices, device.ID)
	if m.RegisterDeviceFunc != nil {
		return m.RegisterDeviceFunc(ctx, device)
	}
	return nil
}

func (m *mockPublisher) RegisterEntity(ctx context.Context, entity model.Entity) error {
	m.entities = append(m.entities, entity.UniqueID)
	if m.RegisterEntityFunc != nil {
		return m.RegisterEntityFunc(ctx, entity)
	}
	return nil
}

func (m *mockPublisher) Write(ctx context.Context, states model.EntityStates) error {
	m.writes = append(m.writes, states)
	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, states)
	}
	return nil
}

func newPublisher(t *testing.T) *Publisher {
	t.Helper()
	zap.ReplaceGlobals(zaptest.NewLogger(t))
	p := New()
	p.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return p
}

func TestRegisterPublisher_Duplicate(t *testing.T) {
	p := newPublisher(t)
	require.NoError(t, p.RegisterPublisher("mqtt", &mockPublisher{}))
	assert.ErrorIs(t, p.RegisterPublisher("mqtt", &mockPublisher{}), errAlreadyRegistered)
}

func TestPublishData_SkipsUnchanged(t *testing.T) {
	p := newPublisher(t)
	sink := &mockPublisher{}
	require.NoError(t, p.RegisterPublisher("mqtt", sink))
	ctx := context.Background()

	first := model.EntityStates{
		{UniqueID: "a", Value: "on", Available: true},
		{UniqueID: "b", Value: 21.5, Available: true, Attributes: map[string]any{"x": 1}},
	}
	assert.Equal(t, 2, p.PublishData(ctx, first))
	assert.Equal(t, 0, p.PublishData(ctx, first))

	second := model.EntityStates{
		{UniqueID: "a", Value: "on", Available: false},
		{UniqueID: "b", Value: 21.5, Available: true, Attributes: map[string]any{"x": 2}},
	}
	assert.Equal(t, 2, p.PublishData(ctx, second))

	require.Len(t, sink.writes, 2)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), sink.writes[0][0].TimeStamp)
}

func TestPublishData_SinkFailureDoesNotStopOthers(t *testing.T) {
	p := newPublisher(t)
	broken := &mockPublisher{WriteFunc: func(context.Context, model.EntityStates) error { return errors.New("down") }}
	healthy := &mockPublisher{}
	require.NoError(t, p.RegisterPublisher("a-broken", broken))
	require.NoError(t, p.RegisterPublisher("b-healthy", healthy))

	p.PublishData(context.Background(), model.EntityStates{{UniqueID: "a", Value: "on"}})

	assert.Len(t, broken.writes, 1)
	assert.Len(t, healthy.writes, 1)
}

func TestPublishData_RetriesFailedWrite(t *testing.T) {
	p := newPublisher(t)
	down := true
	mqtt := &mockPublisher{WriteFunc: func(context.Context, model.EntityStates) error {
		if down {
			return errors.New("publish timed out")
		}
		return nil
	}}
	db := &mockPublisher{}
	require.NoError(t, p.RegisterPublisher("mqtt", mqtt))
	require.NoError(t, p.RegisterPublisher("postgres", db))
	ctx := context.Background()
	states := model.EntityStates{{UniqueID: "a", Value: "on", Available: true}}

	assert.Equal(t, 1, p.PublishData(ctx, states))
	down = false
	assert.Equal(t, 1, p.PublishData(ctx, states))
	assert.Equal(t, 0, p.PublishData(ctx, states))

	assert.Len(t, mqtt.writes, 2)
	assert.Len(t, db.writes, 1)
}

func TestReset(t *testing.T) {
	p := newPublisher(t)
	mqtt := &mockPublisher{}
	db := &mockPublisher{}
	require.NoError(t, p.RegisterPublisher("mqtt", mqtt))
	require.NoError(t, p.RegisterPublisher("postgres", db))
	ctx := context.Background()

	devices := []model.Device{{ID: "dev-1"}}
	entities := []model.Entity{{UniqueID: "a"}}
	states := model.EntityStates{{UniqueID: "a", Value: "on"}}

	assert.Equal(t, 1, p.Sync(ctx, devices, entities, states))
	assert.Equal(t, 0, p.Sync(ctx, devices, entities, states))

	p.Reset("mqtt")
	p.Reset("unknown")
	assert.Equal(t, 1, p.Sync(ctx, devices, entities, states))

	assert.Equal(t, []string{"dev-1", "dev-1"}, mqtt.devices)
	assert.Equal(t, []string{"a", "a"}, mqtt.entities)
	assert.Len(t, mqtt.writes, 2)
	assert.Equal(t, []string{"dev-1"}, db.devices)
	assert.Len(t, db.writes, 1)
}

func TestSync_RegistersOnceAndRetriesFailures(t *testing.T) {
	p := newPublisher(t)
	fail := true
	sink := &mockPublisher{
		RegisterEntityFunc: func(_ context.Context, e model.Entity) error {
			if e.UniqueID == "b" && fail {
				return errors.New("broker busy")
			}
			return nil
		},
	}
	require.NoError(t, p.RegisterPublisher("mqtt", sink))
	ctx := context.Background()

	devices := []model.Device{{ID: "dev-1"}}
	entities := []model.Entity{{UniqueID: "a"}, {UniqueID: "b"}}

	p.Sync(ctx, devices, entities, nil)
	fail = false
	p.Sync(ctx, devices, entities, nil)

	assert.Equal(t, []string{"dev-1"}, sink.devices)
	assert.Equal(t, []string{"a", "b", "b"}, sink.entities)
}

func TestForget(t *testing.T) {
	p := newPublisher(t)
	require.NoError(t, p.RegisterPublisher("mqtt", &mockPublisher{}))
	ctx := context.Background()
	states := model.EntityStates{{UniqueID: "a", Value: "on"}}

	assert.Equal(t, 1, p.PublishData(ctx, states))
	p.Forget("a")
	assert.Equal(t, 1, p.PublishData(ctx, states))
}
