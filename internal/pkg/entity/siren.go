package entity

import (
	"context"

	"github.com/anicoll/smartthings-integration/internal/pkg/capability"
	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

type sirenKind int

const (
	sirenAlarm sirenKind = iota
	sirenTone
	sirenChime
)

type siren struct {
	base
	kind sirenKind
}

func (s *siren) isOn(device smartthings.Device) bool {
	switch s.kind {
	case sirenAlarm:
		v, _ := capability.Value(device, "alarm", "alarm")
		switch v {
		case "siren", "strobe", "both":
			return true
		}
	case sirenTone:
		v, ok := capability.Value(device, "tone", "tone")
		return ok && v != "off"
	}
	return false
}

func (s *siren) availableTones(device smartthings.Device) []any {
	v, _ := capability.Value(device, "tone", "availableTones")
	list, _ := v.([]any)
	return list
}

func (s *siren) State() State {
	device := s.device()
	st := State{Value: onOff(s.isOn(device))}
	if s.kind == sirenTone {
		features := []string{"turn_on", "turn_off", "tones"}
		st.Attributes = map[string]any{
			"available_tones":         s.availableTones(device),
			"supported_features_list": features,
		}
		return st
	}
	features := []string{"turn_on"}
	if s.kind == sirenAlarm {
		features = append(features, "turn_off")
	}
	st.Attributes = map[string]any{"supported_features_list": features}
	return st
}

func (s *siren) Actions() []string {
	if s.kind == sirenChime {
		return []string{ActionTurnOn}
	}
	return []string{ActionTurnOn, ActionTurnOff}
}

func (s *siren) Handle(ctx context.Context, action Action) Result {
	switch action.Name {
	case ActionTurnOn:
		switch s.kind {
		case sirenAlarm:
			return s.send(ctx, smartthings.NewCommand("alarm", "both"))
		case sirenTone:
			return s.send(ctx, smartthings.NewCommand("tone", "beep", s.tone(action.Params)))
		default:
			return s.send(ctx, smartthings.NewCommand("chime", "chime"))
		}
	case ActionTurnOff:
		switch s.kind {
		case sirenAlarm:
			return s.send(ctx, smartthings.NewCommand("alarm", "off"))
		case sirenTone:
			return s.send(ctx, smartthings.NewCommand("tone", "off"))
		default:
			return Result{OK: true, Reason: "chime cannot be turned off"}
		}
	}
	return unsupported(action.Name)
}

// tone picks the requested tone, then the first available one, then 1.
func (s *siren) tone(params map[string]any) any {
	if v, ok := params["tone"]; ok && v != nil {
		return v
	}
	if tones := s.availableTones(s.device()); len(tones) > 0 {
		return tones[0]
	}
	return 1
}

func sirenRule() Rule {
	return Rule{
		Name:         "siren",
		Domain:       DomainSiren,
		Capabilities: []string{"alarm", "tone", "chime"},
		Scope:        ScopeMain,
		Build: func(deps Deps, device smartthings.Device, caps []string) []Entity {
			var (
				kind         sirenKind
				suffix, icon string
			)
			switch {
			case capability.Has(caps, "alarm"):
				kind, suffix, icon = sirenAlarm, "alarm_siren", "mdi:alarm-light"
			case capability.Has(caps, "tone"):
				kind, suffix, icon = sirenTone, "tone_siren", "mdi:volume-high"
			default:
				kind, suffix, icon = sirenChime, "chime_siren", "mdi:bell-ring"
			}
			return []Entity{&siren{
				base: newBase(deps, device, DomainSiren, uid(device.DeviceID, suffix), device.DisplayName(), icon),
				kind: kind,
			}}
		},
	}
}
