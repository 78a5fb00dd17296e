// Package coordinator polls the SmartThings API and owns the cached view of
// devices, rooms and scenes for one location.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/anicoll/smartthings-integration/internal/pkg/metrics"
	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

const DefaultInterval = 30 * time.Second

var ErrLocationNotFound = errors.New("selected location not found")

// UpdateFailedError is returned when a refresh could not fetch the device,
// room or scene lists.
type UpdateFailedError struct {
	Err error
}

func (e *UpdateFailedError) Error() string {
	return fmt.Sprintf("error communicating with SmartThings API: %v", e.Err)
}

func (e *UpdateFailedError) Unwrap() error {
	return e.Err
}

// API is the subset of the SmartThings client the coordinator drives.
type API interface {
	Locations(ctx context.Context) ([]smartthings.Location, error)
	Devices(ctx context.Context, locationID string) ([]smartthings.Device, error)
	Rooms(ctx context.Context, locationID string) ([]smartthings.Room, error)
	Scenes(ctx context.Context, locationID string) ([]smartthings.Scene, error)
	DeviceStatus(ctx context.Context, deviceID string) (smartthings.Status, error)
	SendCommand(ctx context.Context, deviceID string, commands ...smartthings.Command) error
}

type Coordinator struct {
	api        API
	store      Store
	locationID string
	interval   time.Duration
	logger     *zap.Logger

	lastSuccess atomic.Bool

	mu        sync.Mutex
	running   bool
	waiters   []chan error
	listeners []func()
}

func New(api API, store Store, locationID string, interval time.Duration) *Coordinator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Coordinator{
		api:        api,
		store:      store,
		locationID: locationID,
		interval:   interval,
		logger:     zap.L(),
	}
}

// VerifyLocation checks the configured location is visible to the token.
func (c *Coordinator) VerifyLocation(ctx context.Context) error {
	locations, err := c.api.Locations(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to SmartThings API: %w", err)
	}
	for _, l := range locations {
		if l.LocationID == c.locationID {
			return nil
		}
	}
	return ErrLocationNotFound
}

// Refresh fetches devices, rooms and scenes, then each device's status.
// A failed status fetch leaves the device's previous status in place.
func (c *Coordinator) Refresh(ctx context.Context) error {
	timer := prometheus.NewTimer(metrics.RefreshDuration)
	defer timer.ObserveDuration()

	if err := c.refresh(ctx); err != nil {
		c.lastSuccess.Store(false)
		metrics.RefreshFailures.Inc()
		c.logger.Error("refresh failed", zap.Error(err))
		c.notify()
		return &UpdateFailedError{Err: err}
	}
	c.lastSuccess.Store(true)
	metrics.LastRefresh.SetToCurrentTime()
	c.notify()
	return nil
}

func (c *Coordinator) refresh(ctx context.Context) error {
	devices, err := c.api.Devices(ctx, c.locationID)
	if err != nil {
		return fmt.Errorf("devices: %w", err)
	}
	c.logger.Debug("fetched devices", zap.Int("count", len(devices)))
	c.store.ReplaceDevices(devices)
	metrics.Devices.Set(float64(len(devices)))

	rooms, err := c.api.Rooms(ctx, c.locationID)
	if err != nil {
		return fmt.Errorf("rooms: %w", err)
	}
	c.store.ReplaceRooms(rooms)

	scenes, err := c.api.Scenes(ctx, c.locationID)
	if err != nil {
		return fmt.Errorf("scenes: %w", err)
	}
	c.store.ReplaceScenes(scenes)

	for _, d := range c.store.Devices() {
		status, err := c.api.DeviceStatus(ctx, d.DeviceID)
		if err != nil {
			metrics.StatusFailures.Inc()
			c.logger.Warn("failed to get device status", zap.String("device_id", d.DeviceID), zap.Error(err))
			continue
		}
		c.store.SetStatus(d.DeviceID, status)
	}
	return nil
}

// RequestRefresh asks for a refresh and waits for it. Requests that arrive
// while a refresh is running share the single refresh that follows it.
func (c *Coordinator) RequestRefresh(ctx context.Context) error {
	done := make(chan error, 1)

	c.mu.Lock()
	c.waiters = append(c.waiters, done)
	start := !c.running
	c.running = true
	c.mu.Unlock()

	if start {
		go c.drain(context.WithoutCancel(ctx))
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) drain(ctx context.Context) {
	for {
		c.mu.Lock()
		if len(c.waiters) == 0 {
			c.running = false
			c.mu.Unlock()
			return
		}
		waiters := c.waiters
		c.waiters = nil
		c.mu.Unlock()

		err := c.Refresh(ctx)
		for _, w := range waiters {
			w <- err
		}
	}
}

// Start schedules a refresh every interval until ctx is cancelled.
func (c *Coordinator) Start(ctx context.Context) error {
	cr := cron.New()
	if _, err := cr.AddFunc(fmt.Sprintf("@every %s", c.interval), func() {
		if err := c.RequestRefresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
			c.logger.Warn("scheduled refresh failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}
	cr.Start()
	c.logger.Info("polling started", zap.Duration("interval", c.interval))

	<-ctx.Done()
	<-cr.Stop().Done()
	return nil
}

// Subscribe registers fn to run after every refresh and attribute patch.
func (c *Coordinator) Subscribe(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Coordinator) notify() {
	c.mu.Lock()
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// PatchAttribute applies a pushed attribute change to a known device.
func (c *Coordinator) PatchAttribute(deviceID, component, capability, attribute string, value any) bool {
	if !c.store.PatchAttribute(deviceID, component, capability, attribute, value) {
		return false
	}
	c.notify()
	return true
}

func (c *Coordinator) LastUpdateSuccess() bool {
	return c.lastSuccess.Load()
}

// Available reports whether the device is cached with a fetched status and
// the last refresh succeeded.
func (c *Coordinator) Available(deviceID string) bool {
	if !c.lastSuccess.Load() {
		return false
	}
	d, ok := c.store.Device(deviceID)
	return ok && d.Status != nil
}

func (c *Coordinator) Device(deviceID string) (smartthings.Device, bool) {
	return c.store.Device(deviceID)
}

func (c *Coordinator) Devices() []smartthings.Device {
	return c.store.Devices()
}

func (c *Coordinator) Rooms() []smartthings.Room {
	return c.store.Rooms()
}

func (c *Coordinator) Scenes() []smartthings.Scene {
	return c.store.Scenes()
}

func (c *Coordinator) SendCommand(ctx context.Context, deviceID string, commands ...smartthings.Command) error {
	err := c.api.SendCommand(ctx, deviceID, commands...)
	result := "ok"
	if err != nil {
		result = "error"
	}
	for _, cmd := range commands {
		metrics.Commands.WithLabelValues(cmd.Capability, result).Inc()
	}
	return err
}
