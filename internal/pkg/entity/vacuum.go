package entity

import (
	"context"

	"github.com/anicoll/smartthings-integration/internal/pkg/capability"
	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

const (
	ActionStart        = "start"
	ActionPause        = "pause"
	ActionReturnToBase = "return_to_base"
)

var vacuumActivities = map[string]string{
	"idle":     "idle",
	"cleaning": "cleaning",
	"charging": "docked",
	"homing":   "returning",
	"paused":   "paused",
	"alarm":    "error",
	"powerOff": "idle",
}

type vacuum struct {
	base
}

func (v *vacuum) activity(device smartthings.Device) string {
	movement, _ := capability.StringValue(device, "robotCleanerMovement", "robotCleanerMovement")
	if a, ok := vacuumActivities[movement]; ok {
		return a
	}
	return "idle"
}

// FanSpeed is turbo when turbo mode is on, otherwise the cleaning mode.
func (v *vacuum) fanSpeed(device smartthings.Device) string {
	if turbo, _ := capability.MainValue(device, "robotCleanerTurboMode", "robotCleanerTurboMode"); turbo == "on" {
		return "turbo"
	}
	if mode, ok := capability.MainValue(device, "robotCleanerCleaningMode", "robotCleanerCleaningMode"); ok && mode != "" {
		return capability.String(mode)
	}
	return "auto"
}

func (v *vacuum) State() State {
	device := v.device()
	attrs := map[string]any{
		"device_id":               v.deviceID,
		"fan_speed":               v.fanSpeed(device),
		"supported_features_list": []string{"start", "stop", "pause", "return_home", "state", "battery"},
	}
	if b, ok := capability.MainValue(device, "battery", "battery"); ok {
		if level, ok := capability.Int(b); ok {
			attrs["battery_level"] = level
		}
	}
	if mode, ok := capability.MainValue(device, "robotCleanerCleaningMode", "robotCleanerCleaningMode"); ok && mode != "" {
		attrs["cleaning_mode"] = mode
	}
	if turbo, ok := capability.MainValue(device, "robotCleanerTurboMode", "robotCleanerTurboMode"); ok && turbo != "" {
		attrs["turbo_mode"] = turbo
	}
	if area, ok := capability.MainValue(device, "samsungce.robotCleanerCleaningArea", "cleaningArea"); ok && area != "" {
		attrs["cleaning_area"] = area
	}
	return State{Value: v.activity(device), Attributes: attrs}
}

func (v *vacuum) Actions() []string {
	return []string{ActionStart, ActionStop, ActionPause, ActionReturnToBase}
}

func (v *vacuum) Handle(ctx context.Context, action Action) Result {
	switch action.Name {
	case ActionStart:
		return v.send(ctx, smartthings.NewCommand("robotCleanerMovement", "start"))
	case ActionStop:
		return v.send(ctx, smartthings.NewCommand("robotCleanerMovement", "stop"))
	case ActionPause:
		return v.send(ctx, smartthings.NewCommand("robotCleanerMovement", "pause"))
	case ActionReturnToBase:
		return v.send(ctx, smartthings.NewCommand("robotCleanerMovement", "setRobotCleanerMovement", "homing"))
	}
	return unsupported(action.Name)
}

func vacuumRule() Rule {
	return Rule{
		Name:         "vacuum",
		Domain:       DomainVacuum,
		Capabilities: []string{"robotCleanerMovement"},
		Scope:        ScopeMain,
		Build: func(deps Deps, device smartthings.Device, _ []string) []Entity {
			name := device.Label
			if name == "" {
				name = "Robot Vacuum"
			}
			return []Entity{&vacuum{
				base: newBase(deps, device, DomainVacuum, uid(device.DeviceID, "vacuum"), name, "mdi:robot-vacuum"),
			}}
		},
	}
}
