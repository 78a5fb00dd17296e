package entity

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

// fakeHub stands in for the coordinator on both the read and write side.
type fakeHub struct {
	mu        sync.Mutex
	devices   map[string]smartthings.Device
	commands  []smartthings.Command
	refreshes int

	SendCommandFunc func(cmd smartthings.Command) error
	RefreshFunc     func(h *fakeHub) error
	unavailable     bool
}

func newHub(devices ...smartthings.Device) *fakeHub {
	h := &fakeHub{devices: map[string]smartthings.Device{}}
	for _, d := range devices {
		h.devices[d.DeviceID] = d
	}
	return h
}

func (h *fakeHub) Device(deviceID string) (smartthings.Device, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	d, ok := h.devices[deviceID]
	return d, ok
}

func (h *fakeHub) Available(deviceID string) bool {
	d, ok := h.Device(deviceID)
	return ok && d.Status != nil && !h.unavailable
}

func (h *fakeHub) SendCommand(_ context.Context, _ string, commands ...smartthings.Command) error {
	for _, cmd := range commands {
		if h.SendCommandFunc != nil {
			if err := h.SendCommandFunc(cmd); err != nil {
				return err
			}
		}
		h.mu.Lock()
		h.commands = append(h.commands, cmd)
		h.mu.Unlock()
	}
	return nil
}

func (h *fakeHub) RequestRefresh(_ context.Context) error {
	h.mu.Lock()
	h.refreshes++
	h.mu.Unlock()
	if h.RefreshFunc != nil {
		return h.RefreshFunc(h)
	}
	return nil
}

func (h *fakeHub) setStatus(deviceID string, status smartthings.Status) {
	h.mu.Lock()
	defer h.mu.Unlock()
	d := h.devices[deviceID]
	d.Status = status
	h.devices[deviceID] = d
}

func (h *fakeHub) deps() Deps {
	return Deps{Source: h, Commander: h}
}

func newDevice(id, label string, components ...smartthings.Component) smartthings.Device {
	return smartthings.Device{DeviceID: id, Label: label, Components: components}
}

func component(id string, caps ...string) smartthings.Component {
	c := smartthings.Component{ID: id}
	for _, cap := range caps {
		c.Capabilities = append(c.Capabilities, smartthings.CapabilityRef{ID: cap, Version: 1})
	}
	return c
}

func status(component, capabilityID, attribute string, value any) smartthings.Status {
	return smartthings.Status{component: {capabilityID: {attribute: {Value: value}}}}
}

// merge folds several single-attribute statuses into one.
func merge(statuses ...smartthings.Status) smartthings.Status {
	out := smartthings.Status{}
	for _, s := range statuses {
		for comp, caps := range s {
			if out[comp] == nil {
				out[comp] = smartthings.ComponentStatus{}
			}
			for cap, attrs := range caps {
				if out[comp][cap] == nil {
					out[comp][cap] = smartthings.CapabilityStatus{}
				}
				for name, st := range attrs {
					out[comp][cap][name] = st
				}
			}
		}
	}
	return out
}

func discover(t *testing.T, hub *fakeHub) map[string]Entity {
	t.Helper()
	zap.ReplaceGlobals(zaptest.NewLogger(t))
	devices := []smartthings.Device{}
	for _, d := range hub.devices {
		devices = append(devices, d)
	}
	out := map[string]Entity{}
	for _, e := range NewRegistry(hub.deps()).Discover(devices) {
		out[Key(e)] = e
	}
	return out
}

func actionable(t *testing.T, entities map[string]Entity, key string) Actionable {
	t.Helper()
	e, ok := entities[key]
	require.True(t, ok, "missing entity %s", key)
	a, ok := e.(Actionable)
	require.True(t, ok, "%s is not actionable", key)
	return a
}

func TestSwitchToggle_SendsOneCommandAndOneRefresh(t *testing.T) {
	d := newDevice("d1", "Lamp", component("main", "switch"))
	d.Status = status("main", "switch", "switch", "off")
	hub := newHub(d)
	sw := actionable(t, discover(t, hub), "switch.smartthingsce_d1_switch")

	res := sw.Handle(context.Background(), Action{Name: ActionToggle})

	require.True(t, res.OK)
	require.Len(t, hub.commands, 1)
	assert.Equal(t, smartthings.NewCommand("switch", "on"), hub.commands[0])
	assert.Equal(t, 1, hub.refreshes)
}

func TestSend_FailureSkipsRefresh(t *testing.T) {
	sendErr := errors.New("boom")
	d := newDevice("d1", "Lamp", component("main", "switch"))
	d.Status = status("main", "switch", "switch", "on")
	hub := newHub(d)
	hub.SendCommandFunc = func(smartthings.Command) error { return sendErr }
	sw := actionable(t, discover(t, hub), "switch.smartthingsce_d1_switch")

	res := sw.Handle(context.Background(), Action{Name: ActionTurnOff})

	assert.False(t, res.OK)
	assert.ErrorIs(t, res.Err, sendErr)
	assert.Equal(t, 0, hub.refreshes)
}

func TestSend_StopsAtFirstFailure(t *testing.T) {
	d := newDevice("d1", "Bulb", component("main", "switch", "switchLevel"))
	d.Status = status("main", "switch", "switch", "off")
	hub := newHub(d)
	hub.SendCommandFunc = func(cmd smartthings.Command) error {
		if cmd.Capability == "switchLevel" {
			return errors.New("level rejected")
		}
		return nil
	}
	light := actionable(t, discover(t, hub), "light.smartthingsce_d1_light")

	res := light.Handle(context.Background(), Action{Name: ActionTurnOn, Params: map[string]any{"brightness": 255.0, "color_temp_kelvin": 3000.0}})

	assert.False(t, res.OK)
	require.Len(t, hub.commands, 1)
	assert.Equal(t, "switch", hub.commands[0].Capability)
	assert.Equal(t, 0, hub.refreshes)
}

func TestSend_RefreshFailureIsReported(t *testing.T) {
	d := newDevice("d1", "Door", component("main", "lock"))
	d.Status = status("main", "lock", "lock", "unlocked")
	hub := newHub(d)
	hub.RefreshFunc = func(*fakeHub) error { return errors.New("api down") }
	lock := actionable(t, discover(t, hub), "lock.smartthingsce_d1_lock")

	res := lock.Handle(context.Background(), Action{Name: ActionLock})

	assert.True(t, res.OK)
	assert.Contains(t, res.Reason, "refresh failed")
	assert.Equal(t, []smartthings.Command{smartthings.NewCommand("lock", "lock")}, hub.commands)
}

func TestUnsupportedAction(t *testing.T) {
	d := newDevice("d1", "Door", component("main", "lock"))
	d.Status = smartthings.Status{}
	hub := newHub(d)
	lock := actionable(t, discover(t, hub), "lock.smartthingsce_d1_lock")

	res := lock.Handle(context.Background(), Action{Name: "explode"})

	assert.False(t, res.OK)
	assert.ErrorIs(t, res.Err, ErrUnsupportedAction)
	assert.Empty(t, hub.commands)
}

func TestAvailable_FollowsSource(t *testing.T) {
	d := newDevice("d1", "Lamp", component("main", "switch"))
	hub := newHub(d)
	sw := discover(t, hub)["switch.smartthingsce_d1_switch"]
	require.NotNil(t, sw)

	assert.False(t, sw.Available())
	assert.Equal(t, "off", sw.State().Value)

	hub.setStatus("d1", status("main", "switch", "switch", "on"))
	assert.True(t, sw.Available())
	assert.Equal(t, "on", sw.State().Value)

	hub.unavailable = true
	assert.False(t, sw.Available())
}
