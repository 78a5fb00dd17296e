package entity

import (
	"context"

	"github.com/anicoll/smartthings-integration/internal/pkg/capability"
	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

const (
	ActionTurnOn  = "turn_on"
	ActionTurnOff = "turn_off"
	ActionToggle  = "toggle"
)

// toggleSpec describes an on/off entity backed by a pair of commands.
type toggleSpec struct {
	domain Domain
	suffix string
	name   string
	icon   string
	isOn   func(device smartthings.Device) (on bool, known bool)
	on     smartthings.Command
	off    smartthings.Command
	attrs  func(device smartthings.Device) map[string]any
	// iconFor picks an icon from the current on state.
	iconFor func(on bool) string
}

type toggle struct {
	base
	spec toggleSpec
}

func newToggle(deps Deps, device smartthings.Device, spec toggleSpec) *toggle {
	return &toggle{
		base: newBase(deps, device, spec.domain, uid(device.DeviceID, spec.suffix), spec.name, spec.icon),
		spec: spec,
	}
}

func (t *toggle) Meta() Meta {
	m := t.base.Meta()
	if t.spec.iconFor != nil {
		on, _ := t.spec.isOn(t.device())
		m.Icon = t.spec.iconFor(on)
	}
	return m
}

func (t *toggle) State() State {
	device := t.device()
	on, known := t.spec.isOn(device)
	st := State{}
	if known {
		st.Value = onOff(on)
	}
	if t.spec.attrs != nil {
		st.Attributes = t.spec.attrs(device)
	}
	return st
}

func (t *toggle) Actions() []string {
	return []string{ActionTurnOn, ActionTurnOff, ActionToggle}
}

func (t *toggle) Handle(ctx context.Context, action Action) Result {
	switch action.Name {
	case ActionTurnOn:
		return t.send(ctx, t.spec.on)
	case ActionTurnOff:
		return t.send(ctx, t.spec.off)
	case ActionToggle:
		if on, _ := t.spec.isOn(t.device()); on {
			return t.send(ctx, t.spec.off)
		}
		return t.send(ctx, t.spec.on)
	}
	return unsupported(action.Name)
}

// mainSwitchOn reads switch.switch on the main component only.
func mainSwitchOn(device smartthings.Device) (bool, bool) {
	v, ok := capability.MainValue(device, "switch", "switch")
	return ok && v == "on", true
}

// activated reads the first component carrying cap. Missing or null means off.
func activated(cap string) func(device smartthings.Device) (bool, bool) {
	return func(device smartthings.Device) (bool, bool) {
		component := capability.FindComponent(device, cap)
		if component == "" {
			return false, true
		}
		v, ok := capability.ComponentValue(device, component, cap, "activated")
		if !ok {
			return false, true
		}
		return v == true || v == "on", true
	}
}

func switchRules() []Rule {
	return []Rule{
		{
			Name:         "switch",
			Domain:       DomainSwitch,
			Capabilities: []string{"switch"},
			Scope:        ScopeAll,
			Build: func(deps Deps, device smartthings.Device, _ []string) []Entity {
				return []Entity{newToggle(deps, device, toggleSpec{
					domain: DomainSwitch,
					suffix: "switch",
					name:   device.DisplayName(),
					icon:   "mdi:toggle-switch",
					isOn:   mainSwitchOn,
					on:     smartthings.NewCommand("switch", "on"),
					off:    smartthings.NewCommand("switch", "off"),
				})}
			},
		},
		{
			Name:         "power_cool",
			Domain:       DomainSwitch,
			Capabilities: []string{"samsungce.powerCool"},
			Scope:        ScopeAll,
			Match: func(device smartthings.Device, caps []string) bool {
				return capability.Has(caps, "samsungce.powerCool") && !capability.Disabled(device, "samsungce.powerCool")
			},
			Build: func(deps Deps, device smartthings.Device, _ []string) []Entity {
				return []Entity{newToggle(deps, device, toggleSpec{
					domain: DomainSwitch,
					suffix: "power_cool",
					name:   "Power Cool",
					icon:   "mdi:snowflake-alert",
					isOn:   activated("samsungce.powerCool"),
					on:     smartthings.NewCommand("samsungce.powerCool", "setActivate", true),
					off:    smartthings.NewCommand("samsungce.powerCool", "setActivate", false),
				})}
			},
		},
		{
			Name:         "power_freeze",
			Domain:       DomainSwitch,
			Capabilities: []string{"samsungce.powerFreeze"},
			Scope:        ScopeAll,
			Match: func(device smartthings.Device, caps []string) bool {
				return capability.Has(caps, "samsungce.powerFreeze") && !capability.Disabled(device, "samsungce.powerFreeze")
			},
			Build: func(deps Deps, device smartthings.Device, _ []string) []Entity {
				return []Entity{newToggle(deps, device, toggleSpec{
					domain: DomainSwitch,
					suffix: "power_freeze",
					name:   "Power Freeze",
					icon:   "mdi:snowflake",
					isOn:   activated("samsungce.powerFreeze"),
					on:     smartthings.NewCommand("samsungce.powerFreeze", "setActivate", true),
					off:    smartthings.NewCommand("samsungce.powerFreeze", "setActivate", false),
				})}
			},
		},
	}
}
