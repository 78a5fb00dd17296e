package entity

import (
	"context"

	"github.com/anicoll/smartthings-integration/internal/pkg/capability"
	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

type ColorMode string

const (
	ColorModeHS         ColorMode = "hs"
	ColorModeColorTemp  ColorMode = "color_temp"
	ColorModeBrightness ColorMode = "brightness"
	ColorModeOnOff      ColorMode = "onoff"
)

// LightColorMode picks the richest mode the capabilities allow.
func LightColorMode(caps []string) ColorMode {
	switch {
	case capability.Has(caps, "colorControl"):
		return ColorModeHS
	case capability.Has(caps, "colorTemperature"):
		return ColorModeColorTemp
	case capability.Has(caps, "switchLevel"):
		return ColorModeBrightness
	}
	return ColorModeOnOff
}

type light struct {
	base
	mode ColorMode
}

func (l *light) State() State {
	device := l.device()
	on, _ := mainSwitchOn(device)
	attrs := map[string]any{
		"color_mode":            string(l.mode),
		"supported_color_modes": []string{string(l.mode)},
	}
	if level, ok := capability.MainValue(device, "switchLevel", "level"); ok {
		if f, ok := capability.Float(level); ok {
			attrs["brightness"] = int(f * 255 / 100)
		}
	}
	hue, okH := capability.MainValue(device, "colorControl", "hue")
	sat, okS := capability.MainValue(device, "colorControl", "saturation")
	if okH && okS {
		h, okH := capability.Float(hue)
		s, okS := capability.Float(sat)
		if okH && okS {
			attrs["hs_color"] = []float64{h * 360 / 100, s}
		}
	}
	if kelvin, ok := capability.MainValue(device, "colorTemperature", "colorTemperature"); ok {
		if k, ok := capability.Float(kelvin); ok && k > 0 {
			attrs["color_temp_kelvin"] = int(k)
			attrs["color_temp"] = int(1_000_000 / k)
		}
	}
	return State{Value: onOff(on), Attributes: attrs}
}

func (l *light) Actions() []string {
	return []string{ActionTurnOn, ActionTurnOff, ActionToggle}
}

// Handle turn_on accepts brightness (0-255), hs_color [hue 0-360, saturation
// 0-100] and color_temp_kelvin.
func (l *light) Handle(ctx context.Context, action Action) Result {
	switch action.Name {
	case ActionTurnOn:
		return l.send(ctx, l.turnOnCommands(action.Params)...)
	case ActionTurnOff:
		return l.send(ctx, smartthings.NewCommand("switch", "off"))
	case ActionToggle:
		if on, _ := mainSwitchOn(l.device()); on {
			return l.send(ctx, smartthings.NewCommand("switch", "off"))
		}
		return l.send(ctx, l.turnOnCommands(nil)...)
	}
	return unsupported(action.Name)
}

func (l *light) turnOnCommands(params map[string]any) []smartthings.Command {
	cmds := []smartthings.Command{smartthings.NewCommand("switch", "on")}
	if b, ok := paramFloat(params, "brightness"); ok {
		cmds = append(cmds, smartthings.NewCommand("switchLevel", "setLevel", int(b*100/255)))
	}
	if h, s, ok := paramPair(params, "hs_color"); ok {
		cmds = append(cmds, smartthings.NewCommand("colorControl", "setColor", map[string]any{
			"hue":        int(h * 100 / 360),
			"saturation": int(s),
		}))
	}
	if k, ok := paramFloat(params, "color_temp_kelvin"); ok {
		cmds = append(cmds, smartthings.NewCommand("colorTemperature", "setColorTemperature", int(k)))
	}
	return cmds
}

func lightRule() Rule {
	return Rule{
		Name:         "light",
		Domain:       DomainLight,
		Capabilities: []string{"switchLevel", "colorControl", "colorTemperature"},
		Scope:        ScopeMain,
		Build: func(deps Deps, device smartthings.Device, caps []string) []Entity {
			return []Entity{&light{
				base: newBase(deps, device, DomainLight, uid(device.DeviceID, "light"), device.DisplayName(), "mdi:lightbulb"),
				mode: LightColorMode(caps),
			}}
		},
	}
}
