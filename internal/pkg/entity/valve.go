package entity

import (
	"context"

	"github.com/anicoll/smartthings-integration/internal/pkg/capability"
	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

type valve struct {
	base
	class string
}

func (v *valve) Meta() Meta {
	m := v.base.Meta()
	m.DeviceClass = v.class
	return m
}

// Position is 0 when closed, 50 while moving and 100 otherwise.
func valvePosition(state string) int {
	switch state {
	case "closed":
		return 0
	case "opening", "closing":
		return 50
	}
	return 100
}

func (v *valve) State() State {
	device := v.device()
	raw, ok := capability.Value(device, "valve", "valve")
	if !ok {
		return State{}
	}
	state := capability.String(raw)
	attrs := map[string]any{
		"valve_state":             state,
		"current_position":        valvePosition(state),
		"reports_position":        false,
		"supported_features_list": []string{"open", "close"},
	}
	if component := capability.FindComponent(device, "valve"); component != "" {
		for key, st := range device.Status[component]["valve"] {
			if key == "valve" {
				continue
			}
			attrs["valve_"+key] = st.Value
		}
	}
	value := "open"
	switch state {
	case "closed", "opening", "closing":
		value = state
	}
	return State{Value: value, Attributes: attrs}
}

func (v *valve) Actions() []string {
	return []string{ActionOpen, ActionClose}
}

func (v *valve) Handle(ctx context.Context, action Action) Result {
	switch action.Name {
	case ActionOpen:
		return v.send(ctx, smartthings.NewCommand("valve", "open"))
	case ActionClose:
		return v.send(ctx, smartthings.NewCommand("valve", "close"))
	}
	return unsupported(action.Name)
}

func valveRule() Rule {
	return Rule{
		Name:         "valve",
		Domain:       DomainValve,
		Capabilities: []string{"valve"},
		Scope:        ScopeMain,
		Build: func(deps Deps, device smartthings.Device, _ []string) []Entity {
			class := ValveClass(device)
			icon := "mdi:water-pump"
			if class == "gas" {
				icon = "mdi:gas-cylinder"
			}
			return []Entity{&valve{
				base:  newBase(deps, device, DomainValve, uid(device.DeviceID, "valve"), device.DisplayName(), icon),
				class: class,
			}}
		},
	}
}
