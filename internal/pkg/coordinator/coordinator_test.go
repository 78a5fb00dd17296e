package coordinator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

type mockAPI struct {
	LocationsFunc    func(ctx context.Context) ([]smartthings.Location, error)
	DevicesFunc      func(ctx context.Context, locationID string) ([]smartthings.Device, error)
	RoomsFunc        func(ctx context.Context, locationID string) ([]smartthings.Room, error)
	ScenesFunc       func(ctx context.Context, locationID string) ([]smartthings.Scene, error)
	DeviceStatusFunc func(ctx context.Context, deviceID string) (smartthings.Status, error)
	SendCommandFunc  func(ctx context.Context, deviceID string, commands ...smartthings.Command) error
}

func (m *mockAPI) Locations(ctx context.Context) ([]smartthings.Location, error) {
	if m.LocationsFunc != nil {
		return m.LocationsFunc(ctx)
	}
	return nil, nil
}

func (m *mockAPI) Devices(ctx context.Context, locationID string) ([]smartthings.Device, error) {
	if m.DevicesFunc != nil {
		return m.DevicesFunc(ctx, locationID)
	}
	return nil, nil
}

func (m *mockAPI) Rooms(ctx context.Context, locationID string) ([]smartthings.Room, error) {
	if m.RoomsFunc != nil {
		return m.RoomsFunc(ctx, locationID)
	}
	return nil, nil
}

func (m *mockAPI) Scenes(ctx context.Context, locationID string) ([]smartthings.Scene, error) {
	if m.ScenesFunc != nil {
		return m.ScenesFunc(ctx, locationID)
	}
	return nil, nil
}

func (m *mockAPI) DeviceStatus(ctx context.Context, deviceID string) (smartthings.Status, error) {
	if m.DeviceStatusFunc != nil {
		return m.DeviceStatusFunc(ctx, deviceID)
	}
	return smartthings.Status{}, nil
}

func (m *mockAPI) SendCommand(ctx context.Context, deviceID string, commands ...smartthings.Command) error {
	if m.SendCommandFunc != nil {
		return m.SendCommandFunc(ctx, deviceID, commands...)
	}
	return nil
}

func switchStatus(value string) smartthings.Status {
	return smartthings.Status{"main": {"switch": {"switch": {Value: value}}}}
}

func newTestCoordinator(t *testing.T, api API) *Coordinator {
	t.Helper()
	zap.ReplaceGlobals(zaptest.NewLogger(t))
	return New(api, NewStore(), "loc-1", time.Minute)
}

func TestRefresh(t *testing.T) {
	api := &mockAPI{
		DevicesFunc: func(ctx context.Context, locationID string) ([]smartthings.Device, error) {
			assert.Equal(t, "loc-1", locationID)
			return []smartthings.Device{{DeviceID: "b"}, {DeviceID: "a"}}, nil
		},
		RoomsFunc: func(ctx context.Context, locationID string) ([]smartthings.Room, error) {
			return []smartthings.Room{{RoomID: "r1", Name: "Kitchen"}}, nil
		},
		ScenesFunc: func(ctx context.Context, locationID string) ([]smartthings.Scene, error) {
			return []smartthings.Scene{{SceneID: "s1", SceneName: "Night"}}, nil
		},
		DeviceStatusFunc: func(ctx context.Context, deviceID string) (smartthings.Status, error) {
			return switchStatus("on"), nil
		},
	}
	c := newTestCoordinator(t, api)

	var notified atomic.Int32
	c.Subscribe(func() { notified.Add(1) })

	require.NoError(t, c.Refresh(context.Background()))

	devices := c.Devices()
	require.Len(t, devices, 2)
	assert.Equal(t, "a", devices[0].DeviceID)
	assert.Equal(t, "on", devices[1].Status["main"]["switch"]["switch"].Value)
	assert.Len(t, c.Rooms(), 1)
	assert.Len(t, c.Scenes(), 1)
	assert.True(t, c.LastUpdateSuccess())
	assert.True(t, c.Available("a"))
	assert.False(t, c.Available("missing"))
	assert.Equal(t, int32(1), notified.Load())
}

func TestRefresh_PartialStatusFailureKeepsPreviousStatus(t *testing.T) {
	value := "on"
	failB := false
	api := &mockAPI{
		DevicesFunc: func(ctx context.Context, locationID string) ([]smartthings.Device, error) {
			return []smartthings.Device{{DeviceID: "a"}, {DeviceID: "b"}}, nil
		},
		DeviceStatusFunc: func(ctx context.Context, deviceID string) (smartthings.Status, error) {
			if deviceID == "b" && failB {
				return nil, smartthings.ErrNetwork
			}
			return switchStatus(value), nil
		},
	}
	c := newTestCoordinator(t, api)
	require.NoError(t, c.Refresh(context.Background()))

	value = "off"
	failB = true
	require.NoError(t, c.Refresh(context.Background()))

	a, _ := c.Device("a")
	b, _ := c.Device("b")
	assert.Equal(t, "off", a.Status["main"]["switch"]["switch"].Value)
	assert.Equal(t, "on", b.Status["main"]["switch"]["switch"].Value)
	assert.True(t, c.Available("b"))
}

func TestRefresh_StatusNeverFetchedIsUnavailable(t *testing.T) {
	api := &mockAPI{
		DevicesFunc: func(ctx context.Context, locationID string) ([]smartthings.Device, error) {
			return []smartthings.Device{{DeviceID: "a"}}, nil
		},
		DeviceStatusFunc: func(ctx context.Context, deviceID string) (smartthings.Status, error) {
			return nil, smartthings.ErrForbidden
		},
	}
	c := newTestCoordinator(t, api)
	require.NoError(t, c.Refresh(context.Background()))

	_, ok := c.Device("a")
	assert.True(t, ok)
	assert.False(t, c.Available("a"))
}

func TestRefresh_ListFailure(t *testing.T) {
	tests := map[string]*mockAPI{
		"devices": {DevicesFunc: func(ctx context.Context, locationID string) ([]smartthings.Device, error) {
			return nil, smartthings.ErrAuthentication
		}},
		"rooms": {RoomsFunc: func(ctx context.Context, locationID string) ([]smartthings.Room, error) {
			return nil, smartthings.ErrAuthentication
		}},
		"scenes": {ScenesFunc: func(ctx context.Context, locationID string) ([]smartthings.Scene, error) {
			return nil, smartthings.ErrAuthentication
		}},
	}
	for name, api := range tests {
		t.Run(name, func(t *testing.T) {
			c := newTestCoordinator(t, api)
			c.lastSuccess.Store(true)

			err := c.Refresh(context.Background())
			var updateErr *UpdateFailedError
			require.ErrorAs(t, err, &updateErr)
			assert.ErrorIs(t, err, smartthings.ErrAuthentication)
			assert.Contains(t, err.Error(), name)
			assert.False(t, c.LastUpdateSuccess())
		})
	}
}

func TestAvailable_FalseAfterFailedRefresh(t *testing.T) {
	fail := false
	api := &mockAPI{
		DevicesFunc: func(ctx context.Context, locationID string) ([]smartthings.Device, error) {
			return []smartthings.Device{{DeviceID: "a"}}, nil
		},
		ScenesFunc: func(ctx context.Context, locationID string) ([]smartthings.Scene, error) {
			if fail {
				return nil, errors.New("boom")
			}
			return nil, nil
		},
	}
	c := newTestCoordinator(t, api)
	require.NoError(t, c.Refresh(context.Background()))
	assert.True(t, c.Available("a"))

	fail = true
	require.Error(t, c.Refresh(context.Background()))
	assert.False(t, c.Available("a"))
}

func TestRequestRefresh_Coalesces(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	api := &mockAPI{
		DevicesFunc: func(ctx context.Context, locationID string) ([]smartthings.Device, error) {
			if calls.Add(1) == 1 {
				<-release
			}
			return nil, nil
		},
	}
	c := newTestCoordinator(t, api)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, c.RequestRefresh(ctx))
	}()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.RequestRefresh(ctx))
		}()
	}
	require.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return len(c.waiters) == 3
	}, time.Second, 5*time.Millisecond)

	close(release)
	wg.Wait()
	assert.Equal(t, int32(2), calls.Load())
}

func TestRequestRefresh_ReturnsRefreshError(t *testing.T) {
	api := &mockAPI{
		DevicesFunc: func(ctx context.Context, locationID string) ([]smartthings.Device, error) {
			return nil, smartthings.ErrNetwork
		},
	}
	c := newTestCoordinator(t, api)

	err := c.RequestRefresh(context.Background())
	assert.ErrorIs(t, err, smartthings.ErrNetwork)
}

func TestPatchAttribute(t *testing.T) {
	api := &mockAPI{
		DevicesFunc: func(ctx context.Context, locationID string) ([]smartthings.Device, error) {
			return []smartthings.Device{{DeviceID: "a"}}, nil
		},
		DeviceStatusFunc: func(ctx context.Context, deviceID string) (smartthings.Status, error) {
			return nil, errors.New("unavailable")
		},
	}
	c := newTestCoordinator(t, api)
	require.NoError(t, c.Refresh(context.Background()))

	var notified atomic.Int32
	c.Subscribe(func() { notified.Add(1) })

	assert.True(t, c.PatchAttribute("a", "", "contactSensor", "contact", "open"))
	assert.False(t, c.PatchAttribute("unknown", "main", "switch", "switch", "on"))

	a, _ := c.Device("a")
	assert.Equal(t, "open", a.Status["main"]["contactSensor"]["contact"].Value)
	assert.Equal(t, int32(1), notified.Load())
}

func TestStore_ReadsAreCopies(t *testing.T) {
	s := NewStore()
	s.ReplaceDevices([]smartthings.Device{{DeviceID: "a", Components: []smartthings.Component{{ID: "main"}}}})
	s.SetStatus("a", switchStatus("on"))

	d, _ := s.Device("a")
	d.Status["main"]["switch"]["switch"] = smartthings.AttributeState{Value: "off"}
	d.Components[0].ID = "changed"

	again, _ := s.Device("a")
	assert.Equal(t, "on", again.Status["main"]["switch"]["switch"].Value)
	assert.Equal(t, "main", again.Components[0].ID)
}

func TestStore_ReplaceDevicesDropsMissing(t *testing.T) {
	s := NewStore()
	s.ReplaceDevices([]smartthings.Device{{DeviceID: "a"}, {DeviceID: "b"}})
	s.SetStatus("a", switchStatus("on"))
	s.ReplaceDevices([]smartthings.Device{{DeviceID: "a", Label: "renamed"}})

	_, ok := s.Device("b")
	assert.False(t, ok)
	a, _ := s.Device("a")
	assert.Equal(t, "renamed", a.Label)
	assert.NotNil(t, a.Status)
	assert.False(t, s.SetStatus("b", switchStatus("on")))
}

func TestVerifyLocation(t *testing.T) {
	api := &mockAPI{
		LocationsFunc: func(ctx context.Context) ([]smartthings.Location, error) {
			return []smartthings.Location{{LocationID: "other"}}, nil
		},
	}
	c := newTestCoordinator(t, api)
	assert.ErrorIs(t, c.VerifyLocation(context.Background()), ErrLocationNotFound)

	api.LocationsFunc = func(ctx context.Context) ([]smartthings.Location, error) {
		return []smartthings.Location{{LocationID: "loc-1"}}, nil
	}
	assert.NoError(t, c.VerifyLocation(context.Background()))

	api.LocationsFunc = func(ctx context.Context) ([]smartthings.Location, error) {
		return nil, smartthings.ErrNetwork
	}
	assert.ErrorIs(t, c.VerifyLocation(context.Background()), smartthings.ErrNetwork)
}

func TestSendCommand(t *testing.T) {
	var got []smartthings.Command
	api := &mockAPI{
		SendCommandFunc: func(ctx context.Context, deviceID string, commands ...smartthings.Command) error {
			assert.Equal(t, "a", deviceID)
			got = commands
			return nil
		},
	}
	c := newTestCoordinator(t, api)
	require.NoError(t, c.SendCommand(context.Background(), "a", smartthings.NewCommand("switch", "on")))
	require.Len(t, got, 1)
	assert.Equal(t, "on", got[0].Command)
}
