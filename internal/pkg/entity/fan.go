package entity

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/anicoll/smartthings-integration/internal/pkg/capability"
	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

const ActionSetPercentage = "set_percentage"

var namedFanSpeeds = []string{"low", "medium", "high"}

// FanPercentage maps a fanSpeed value to 0-100. Values up to 5 are treated as
// a level scale, larger numbers as a percentage, and low/medium/high as thirds.
func FanPercentage(v any) int {
	if v == nil || v == "off" {
		return 0
	}
	var f float64
	switch n := v.(type) {
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			for idx, name := range namedFanSpeeds {
				if strings.ToLower(n) == name {
					return (idx + 1) * 100 / len(namedFanSpeeds)
				}
			}
			return 0
		}
		f = float64(i)
	default:
		var ok bool
		if f, ok = capability.Float(v); !ok {
			return 0
		}
	}
	switch {
	case f <= 0:
		return 0
	case f <= 5:
		return int(f * 20)
	case f <= 100:
		return int(f)
	}
	return 100
}

// FanSpeed maps a percentage to the 0-4 speed scale.
func FanSpeed(percentage float64) int {
	if percentage <= 0 {
		return 0
	}
	speed := int(math.Ceil(percentage / 25))
	return max(1, min(4, speed))
}

type speedFan struct {
	base
}

func (f *speedFan) isOn(device smartthings.Device) bool {
	if capability.HasStatus(device, "fanSpeed") {
		v, _ := capability.Value(device, "fanSpeed", "fanSpeed")
		if v == nil || v == "off" {
			return false
		}
		if n, ok := capability.Float(v); ok && n == 0 {
			return false
		}
		return true
	}
	if capability.HasStatus(device, "switch") {
		v, _ := capability.Value(device, "switch", "switch")
		return v == "on"
	}
	return false
}

func (f *speedFan) State() State {
	device := f.device()
	v, _ := capability.Value(device, "fanSpeed", "fanSpeed")
	return State{
		Value: onOff(f.isOn(device)),
		Attributes: map[string]any{
			"percentage":              FanPercentage(v),
			"speed_count":             len(namedFanSpeeds),
			"supported_features_list": []string{"set_speed"},
		},
	}
}

func (f *speedFan) Actions() []string {
	return []string{ActionTurnOn, ActionTurnOff, ActionSetPercentage}
}

func (f *speedFan) Handle(ctx context.Context, action Action) Result {
	switch action.Name {
	case ActionTurnOn:
		if p, ok := paramFloat(action.Params, "percentage"); ok {
			return f.send(ctx, smartthings.NewCommand("fanSpeed", "setFanSpeed", FanSpeed(p)))
		}
		return f.send(ctx, smartthings.NewCommand("fanSpeed", "setFanSpeed", 2))
	case ActionTurnOff:
		return f.send(ctx, smartthings.NewCommand("fanSpeed", "setFanSpeed", 0))
	case ActionSetPercentage:
		p, ok := paramFloat(action.Params, "percentage")
		if !ok {
			return missingParam("percentage")
		}
		return f.send(ctx, smartthings.NewCommand("fanSpeed", "setFanSpeed", FanSpeed(p)))
	}
	return unsupported(action.Name)
}

func fanRule() Rule {
	return Rule{
		Name:         "fan",
		Domain:       DomainFan,
		Capabilities: []string{"fanSpeed", "switch"},
		Scope:        ScopeMain,
		Match: func(device smartthings.Device, caps []string) bool {
			return capability.Has(caps, "fanSpeed") || (capability.Has(caps, "switch") && IsFanDevice(device))
		},
		Build: func(deps Deps, device smartthings.Device, caps []string) []Entity {
			if capability.Has(caps, "fanSpeed") {
				return []Entity{&speedFan{
					base: newBase(deps, device, DomainFan, uid(device.DeviceID, "fan_speed"), device.DisplayName(), "mdi:fan"),
				}}
			}
			return []Entity{newToggle(deps, device, toggleSpec{
				domain: DomainFan,
				suffix: "fan_switch",
				name:   device.DisplayName(),
				icon:   "mdi:fan",
				isOn:   mainSwitchOn,
				on:     smartthings.NewCommand("switch", "on"),
				off:    smartthings.NewCommand("switch", "off"),
			})}
		},
	}
}
