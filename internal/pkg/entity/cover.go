package entity

import (
	"context"

	"github.com/anicoll/smartthings-integration/internal/pkg/capability"
	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

const (
	ActionOpen        = "open"
	ActionClose       = "close"
	ActionStop        = "stop"
	ActionSetPosition = "set_position"
)

type coverKind int

const (
	coverShade coverKind = iota
	coverDoor
	coverGarage
)

type cover struct {
	base
	kind        coverKind
	capability  string
	deviceClass string
	caps        []string
}

func (c *cover) Meta() Meta {
	m := c.base.Meta()
	m.DeviceClass = c.deviceClass
	return m
}

// Position is only reported by window shades: the shade level when present,
// otherwise derived from the open/closed state.
func (c *cover) Position(device smartthings.Device) (int, bool) {
	if c.kind != coverShade {
		return 0, false
	}
	if v, ok := capability.Value(device, "windowShadeLevel", "shadeLevel"); ok {
		if level, ok := capability.Int(v); ok {
			return level, true
		}
	}
	v, _ := capability.Value(device, "windowShade", "windowShade")
	switch v {
	case "open":
		return 100, true
	case "closed":
		return 0, true
	case "partially open":
		return 50, true
	}
	return 0, false
}

func (c *cover) closed(device smartthings.Device) (bool, bool) {
	if pos, ok := c.Position(device); ok {
		return pos == 0, true
	}
	attribute := "door"
	if c.kind == coverShade {
		attribute = "windowShade"
	}
	if !capability.HasStatus(device, c.capability) {
		return false, false
	}
	v, _ := capability.Value(device, c.capability, attribute)
	return v == "closed", true
}

func (c *cover) features(device smartthings.Device) []string {
	features := []string{"open", "close"}
	if c.kind != coverShade {
		return features
	}
	if capability.Has(c.caps, "windowShadeLevel") {
		features = append(features, "set_position")
	}
	if capability.HasStatus(device, "windowShade") {
		features = append(features, "stop")
	}
	return features
}

func (c *cover) State() State {
	device := c.device()
	attrs := map[string]any{"supported_features_list": c.features(device)}
	if pos, ok := c.Position(device); ok {
		attrs["current_position"] = pos
	}
	closed, ok := c.closed(device)
	if !ok {
		return State{Attributes: attrs}
	}
	if closed {
		return State{Value: "closed", Attributes: attrs}
	}
	return State{Value: "open", Attributes: attrs}
}

func (c *cover) Actions() []string {
	if c.kind == coverShade {
		return []string{ActionOpen, ActionClose, ActionStop, ActionSetPosition}
	}
	return []string{ActionOpen, ActionClose}
}

func (c *cover) Handle(ctx context.Context, action Action) Result {
	switch action.Name {
	case ActionOpen:
		return c.send(ctx, smartthings.NewCommand(c.capability, "open"))
	case ActionClose:
		return c.send(ctx, smartthings.NewCommand(c.capability, "close"))
	case ActionStop:
		if c.kind == coverShade {
			return c.send(ctx, smartthings.NewCommand("windowShade", "pause"))
		}
	case ActionSetPosition:
		if c.kind != coverShade {
			break
		}
		pos, ok := paramFloat(action.Params, "position")
		if !ok {
			return missingParam("position")
		}
		return c.send(ctx, smartthings.NewCommand("windowShadeLevel", "setShadeLevel", int(pos)))
	}
	return unsupported(action.Name)
}

func coverRule() Rule {
	return Rule{
		Name:         "cover",
		Domain:       DomainCover,
		Capabilities: []string{"windowShade", "doorControl", "garageDoorControl"},
		Scope:        ScopeMain,
		Build: func(deps Deps, device smartthings.Device, caps []string) []Entity {
			var (
				kind                          coverKind
				id, suffix, deviceClass, icon string
			)
			switch {
			case capability.Has(caps, "windowShade"):
				kind, id, suffix, deviceClass, icon = coverShade, "windowShade", "window_shade", "shade", "mdi:window-shutter"
			case capability.Has(caps, "doorControl"):
				kind, id, suffix, deviceClass, icon = coverDoor, "doorControl", "door_control", "door", "mdi:door"
			default:
				kind, id, suffix, deviceClass, icon = coverGarage, "garageDoorControl", "garage_door", "garage", "mdi:garage"
			}
			return []Entity{&cover{
				base:        newBase(deps, device, DomainCover, uid(device.DeviceID, suffix), device.DisplayName(), icon),
				kind:        kind,
				capability:  id,
				deviceClass: deviceClass,
				caps:        caps,
			}}
		},
	}
}
