// Package entity turns cached SmartThings devices into Home Assistant style
// entities: read-only sensors plus actionable switches, lights, covers and the
// rest. Every entity reads the coordinator's store on demand, so state is never
// copied into the entity itself.
package entity

import (
	"context"
	"errors"
	"fmt"

	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

const (
	// Prefix is the integration domain used in unique ids.
	Prefix      = "smartthingsce"
	Version     = "1.5.0"
	Attribution = "Data provided by SmartThings API"
)

var (
	ErrUnsupportedAction = errors.New("unsupported action")
	ErrInvalidParam      = errors.New("invalid parameter")
)

type Domain string

const (
	DomainSensor       Domain = "sensor"
	DomainBinarySensor Domain = "binary_sensor"
	DomainSwitch       Domain = "switch"
	DomainLight        Domain = "light"
	DomainClimate      Domain = "climate"
	DomainCover        Domain = "cover"
	DomainFan          Domain = "fan"
	DomainLock         Domain = "lock"
	DomainValve        Domain = "valve"
	DomainSiren        Domain = "siren"
	DomainCamera       Domain = "camera"
	DomainMediaPlayer  Domain = "media_player"
	DomainVacuum       Domain = "vacuum"
	DomainButton       Domain = "button"
)

func (d Domain) String() string {
	return string(d)
}

// Meta is the descriptive part of an entity. Icon may depend on the current value.
type Meta struct {
	Icon           string   `json:"icon,omitempty"`
	Unit           string   `json:"unit_of_measurement,omitempty"`
	DeviceClass    string   `json:"device_class,omitempty"`
	StateClass     string   `json:"state_class,omitempty"`
	EntityCategory string   `json:"entity_category,omitempty"`
	Options        []string `json:"options,omitempty"`
	Attribution    string   `json:"attribution,omitempty"`
}

// State is the current value of an entity. A nil Value means unknown.
type State struct {
	Value      any            `json:"state"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

type Entity interface {
	UniqueID() string
	DeviceID() string
	Domain() Domain
	Name() string
	Meta() Meta
	Available() bool
	State() State
}

type Action struct {
	Name   string         `json:"action"`
	Params map[string]any `json:"params,omitempty"`
}

// Result reports the outcome of a write. OK with a Reason means the command
// was accepted but something after it (usually the refresh) failed.
type Result struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
	Err    error  `json:"-"`
}

func failed(err error) Result {
	return Result{Err: err, Reason: err.Error()}
}

func unsupported(action string) Result {
	return failed(fmt.Errorf("%w: %s", ErrUnsupportedAction, action))
}

// Actionable entities accept write actions.
type Actionable interface {
	Entity
	Actions() []string
	Handle(ctx context.Context, action Action) Result
}

// Source is the read side of the coordinator.
type Source interface {
	Device(deviceID string) (smartthings.Device, bool)
	Available(deviceID string) bool
}

// Commander is the write side of the coordinator.
type Commander interface {
	SendCommand(ctx context.Context, deviceID string, commands ...smartthings.Command) error
	RequestRefresh(ctx context.Context) error
}

type Deps struct {
	Source    Source
	Commander Commander
	// Images fetches camera snapshots. Defaults to a client with a 10s timeout.
	Images ImageFetcher
}

type base struct {
	deps     Deps
	deviceID string
	uniqueID string
	domain   Domain
	name     string
	icon     string
}

func newBase(deps Deps, device smartthings.Device, domain Domain, uniqueID, name, icon string) base {
	return base{
		deps:     deps,
		deviceID: device.DeviceID,
		uniqueID: uniqueID,
		domain:   domain,
		name:     name,
		icon:     icon,
	}
}

func (b *base) UniqueID() string { return b.uniqueID }
func (b *base) DeviceID() string { return b.deviceID }
func (b *base) Domain() Domain   { return b.domain }
func (b *base) Name() string     { return b.name }

func (b *base) Meta() Meta {
	return Meta{Icon: b.icon, Attribution: Attribution}
}

func (b *base) Available() bool {
	return b.deps.Source.Available(b.deviceID)
}

// device returns the current snapshot of the entity's device. A device that
// has dropped out of the cache reads as empty.
func (b *base) device() smartthings.Device {
	d, _ := b.deps.Source.Device(b.deviceID)
	return d
}

// send issues commands one at a time, stopping at the first failure, then
// requests a single refresh.
func (b *base) send(ctx context.Context, commands ...smartthings.Command) Result {
	for _, cmd := range commands {
		if err := b.deps.Commander.SendCommand(ctx, b.deviceID, cmd); err != nil {
			return failed(fmt.Errorf("%s %s.%s: %w", b.uniqueID, cmd.Capability, cmd.Command, err))
		}
	}
	if err := b.deps.Commander.RequestRefresh(ctx); err != nil {
		return Result{OK: true, Reason: fmt.Sprintf("refresh failed: %v", err)}
	}
	return Result{OK: true}
}

func uid(deviceID, suffix string) string {
	return fmt.Sprintf("%s_%s_%s", Prefix, deviceID, suffix)
}

// onOff renders a boolean the way Home Assistant expects for binary states.
func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
