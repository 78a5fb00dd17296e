package entity

import (
	"context"
	"fmt"

	"github.com/anicoll/smartthings-integration/internal/pkg/capability"
	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

const (
	ActionSetTemperature = "set_temperature"
	ActionSetHVACMode    = "set_hvac_mode"
	ActionSetFanMode     = "set_fan_mode"
)

const (
	HVACOff     = "off"
	HVACHeat    = "heat"
	HVACCool    = "cool"
	HVACAuto    = "auto"
	HVACFanOnly = "fan_only"
	HVACDry     = "dry"
)

type modeMapping struct {
	vendor string
	ha     string
}

// hvacModes is ordered so the reverse lookup of heat yields "heat", not "emergencyHeat".
var hvacModes = []modeMapping{
	{"auto", HVACAuto},
	{"cool", HVACCool},
	{"heat", HVACHeat},
	{"emergencyHeat", HVACHeat},
	{"off", HVACOff},
	{"fanOnly", HVACFanOnly},
	{"dryair", HVACDry},
}

var hvacActions = map[string]string{
	"heating":  "heating",
	"cooling":  "cooling",
	"fan only": "fan",
	"idle":     "idle",
	"off":      "off",
}

var fanModes = []modeMapping{
	{"auto", "auto"},
	{"on", "on"},
	{"circulate", "circulate"},
	{"followschedule", "followschedule"},
}

func toHA(mappings []modeMapping, vendor string) (string, bool) {
	for _, m := range mappings {
		if m.vendor == vendor {
			return m.ha, true
		}
	}
	return "", false
}

func toVendor(mappings []modeMapping, ha string) (string, bool) {
	for _, m := range mappings {
		if m.ha == ha {
			return m.vendor, true
		}
	}
	return "", false
}

// refrigeratorClimate controls a cooling-only setpoint, typically a fridge or
// freezer compartment.
type refrigeratorClimate struct {
	base
}

func (c *refrigeratorClimate) setpointRange(device smartthings.Device) (minTemp, maxTemp, step float64) {
	minTemp, maxTemp, step = -30, 10, 1
	component := capability.FindComponent(device, "thermostatCoolingSetpoint")
	if component == "" {
		return minTemp, maxTemp, step
	}
	v, ok := capability.ComponentValue(device, component, "thermostatCoolingSetpoint", "coolingSetpointRange")
	if !ok {
		return minTemp, maxTemp, step
	}
	r, ok := v.(map[string]any)
	if !ok {
		return minTemp, maxTemp, step
	}
	if f, ok := capability.Float(r["minimum"]); ok {
		minTemp = f
	}
	if f, ok := capability.Float(r["maximum"]); ok {
		maxTemp = f
	}
	if f, ok := capability.Float(r["step"]); ok {
		step = f
	}
	return minTemp, maxTemp, step
}

func (c *refrigeratorClimate) TargetTemperature() (float64, bool) {
	return capability.FloatValue(c.device(), "thermostatCoolingSetpoint", "coolingSetpoint")
}

func (c *refrigeratorClimate) State() State {
	device := c.device()
	minTemp, maxTemp, step := c.setpointRange(device)
	attrs := map[string]any{
		"hvac_modes":              []string{HVACCool},
		"min_temp":                minTemp,
		"max_temp":                maxTemp,
		"target_temp_step":        step,
		"temperature_unit":        "°C",
		"current_temperature":     nil,
		"temperature":             nil,
		"supported_features_list": []string{"target_temperature"},
	}
	if f, ok := capability.FloatValue(device, "temperatureMeasurement", "temperature"); ok {
		attrs["current_temperature"] = f
	}
	if f, ok := c.TargetTemperature(); ok {
		attrs["temperature"] = f
	}
	return State{Value: HVACCool, Attributes: attrs}
}

func (c *refrigeratorClimate) Actions() []string {
	return []string{ActionSetTemperature}
}

func (c *refrigeratorClimate) Handle(ctx context.Context, action Action) Result {
	if action.Name != ActionSetTemperature {
		return unsupported(action.Name)
	}
	t, ok := paramFloat(action.Params, "temperature")
	if !ok {
		return missingParam("temperature")
	}
	component := capability.ComponentFor(c.device(), "thermostatCoolingSetpoint")
	cmd := smartthings.NewCommand("thermostatCoolingSetpoint", "setCoolingSetpoint", int(t)).OnComponent(component)
	return c.send(ctx, cmd)
}

func climateRule() Rule {
	return Rule{
		Name:         "climate",
		Domain:       DomainClimate,
		Capabilities: []string{"thermostatCoolingSetpoint"},
		Scope:        ScopeMain,
		Match: func(_ smartthings.Device, caps []string) bool {
			return capability.Has(caps, "thermostatCoolingSetpoint") && !capability.Has(caps, "thermostatMode")
		},
		Build: func(deps Deps, device smartthings.Device, _ []string) []Entity {
			e := &refrigeratorClimate{
				base: newBase(deps, device, DomainClimate, device.DeviceID+"_thermostat", "Temperature Control", "mdi:thermometer"),
			}
			return []Entity{e}
		},
	}
}

// thermostat is a heating/cooling thermostat with modes.
type thermostat struct {
	base
	caps []string
}

func (t *thermostat) mode(device smartthings.Device) string {
	if !capability.HasStatus(device, "thermostatMode") {
		return HVACOff
	}
	v, _ := capability.Value(device, "thermostatMode", "thermostatMode")
	if m, ok := toHA(hvacModes, capability.String(v)); ok {
		return m
	}
	return HVACOff
}

func (t *thermostat) modes(device smartthings.Device) []string {
	v, ok := capability.Value(device, "thermostatMode", "supportedThermostatModes")
	list, _ := v.([]any)
	if !ok || len(list) == 0 {
		return []string{HVACOff, HVACHeat, HVACCool, HVACAuto}
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		m, ok := toHA(hvacModes, capability.String(item))
		if !ok {
			m = HVACOff
		}
		out = append(out, m)
	}
	return out
}

func (t *thermostat) action(device smartthings.Device) string {
	v, ok := capability.Value(device, "thermostatOperatingState", "thermostatOperatingState")
	if !ok {
		return "idle"
	}
	if a, ok := hvacActions[capability.String(v)]; ok {
		return a
	}
	return "idle"
}

// TargetTemperature follows the mode: the heating setpoint in heat, the
// cooling setpoint in cool and their mean in auto.
func (t *thermostat) TargetTemperature(device smartthings.Device) (float64, bool) {
	low, okLow := capability.FloatValue(device, "thermostatHeatingSetpoint", "heatingSetpoint")
	high, okHigh := capability.FloatValue(device, "thermostatCoolingSetpoint", "coolingSetpoint")
	switch t.mode(device) {
	case HVACHeat:
		return low, okLow
	case HVACCool:
		return high, okHigh
	case HVACAuto:
		if okLow && okHigh {
			return (low + high) / 2, true
		}
	}
	return 0, false
}

func (t *thermostat) features() []string {
	features := []string{}
	hasHeat := capability.Has(t.caps, "thermostatHeatingSetpoint")
	if hasHeat {
		features = append(features, "target_temperature")
	}
	if capability.Has(t.caps, "thermostatCoolingSetpoint") {
		if hasHeat {
			features = append(features, "target_temperature_range")
		} else {
			features = append(features, "target_temperature")
		}
	}
	if capability.Has(t.caps, "thermostatFanMode") {
		features = append(features, "fan_mode")
	}
	return features
}

func (t *thermostat) State() State {
	device := t.device()
	attrs := map[string]any{
		"hvac_modes":              t.modes(device),
		"hvac_action":             t.action(device),
		"min_temp":                7.0,
		"max_temp":                35.0,
		"target_temp_step":        0.5,
		"temperature_unit":        "°C",
		"supported_features_list": t.features(),
		"current_temperature":     nil,
		"temperature":             nil,
		"target_temp_low":         nil,
		"target_temp_high":        nil,
	}
	if f, ok := capability.FloatValue(device, "temperatureMeasurement", "temperature"); ok {
		attrs["current_temperature"] = f
	}
	if f, ok := t.TargetTemperature(device); ok {
		attrs["temperature"] = f
	}
	if f, ok := capability.FloatValue(device, "thermostatHeatingSetpoint", "heatingSetpoint"); ok {
		attrs["target_temp_low"] = f
	}
	if f, ok := capability.FloatValue(device, "thermostatCoolingSetpoint", "coolingSetpoint"); ok {
		attrs["target_temp_high"] = f
	}
	if capability.HasStatus(device, "thermostatFanMode") {
		v, _ := capability.Value(device, "thermostatFanMode", "thermostatFanMode")
		attrs["fan_mode"] = mapFanMode(v)
		if list, ok := capability.Value(device, "thermostatFanMode", "supportedThermostatFanModes"); ok {
			if items, ok := list.([]any); ok && len(items) > 0 {
				modes := make([]any, 0, len(items))
				for _, item := range items {
					modes = append(modes, mapFanMode(item))
				}
				attrs["fan_modes"] = modes
			}
		}
	}
	return State{Value: t.mode(device), Attributes: attrs}
}

func mapFanMode(v any) any {
	if v == nil {
		return nil
	}
	if m, ok := toHA(fanModes, capability.String(v)); ok {
		return m
	}
	return v
}

func (t *thermostat) Actions() []string {
	return []string{ActionSetHVACMode, ActionSetTemperature, ActionSetFanMode}
}

func (t *thermostat) Handle(ctx context.Context, action Action) Result {
	switch action.Name {
	case ActionSetHVACMode:
		mode, ok := paramString(action.Params, "hvac_mode")
		if !ok {
			return missingParam("hvac_mode")
		}
		vendor, ok := toVendor(hvacModes, mode)
		if !ok {
			return Result{OK: true, Reason: fmt.Sprintf("hvac mode %q has no SmartThings equivalent", mode)}
		}
		return t.send(ctx, smartthings.NewCommand("thermostatMode", "setThermostatMode", vendor))
	case ActionSetTemperature:
		return t.setTemperature(ctx, action.Params)
	case ActionSetFanMode:
		mode, ok := paramString(action.Params, "fan_mode")
		if !ok {
			return missingParam("fan_mode")
		}
		vendor, ok := toVendor(fanModes, mode)
		if !ok {
			vendor = mode
		}
		return t.send(ctx, smartthings.NewCommand("thermostatFanMode", "setThermostatFanMode", vendor))
	}
	return unsupported(action.Name)
}

func (t *thermostat) setTemperature(ctx context.Context, params map[string]any) Result {
	low, okLow := paramFloat(params, "target_temp_low")
	high, okHigh := paramFloat(params, "target_temp_high")
	if okLow || okHigh {
		cmds := []smartthings.Command{}
		if okLow {
			cmds = append(cmds, smartthings.NewCommand("thermostatHeatingSetpoint", "setHeatingSetpoint", int(low)))
		}
		if okHigh {
			cmds = append(cmds, smartthings.NewCommand("thermostatCoolingSetpoint", "setCoolingSetpoint", int(high)))
		}
		return t.send(ctx, cmds...)
	}
	temp, ok := paramFloat(params, "temperature")
	if !ok {
		return missingParam("temperature")
	}
	switch mode := t.mode(t.device()); mode {
	case HVACHeat:
		return t.send(ctx, smartthings.NewCommand("thermostatHeatingSetpoint", "setHeatingSetpoint", int(temp)))
	case HVACCool:
		return t.send(ctx, smartthings.NewCommand("thermostatCoolingSetpoint", "setCoolingSetpoint", int(temp)))
	default:
		return failed(fmt.Errorf("%w: cannot set single temperature in mode %s", ErrInvalidParam, mode))
	}
}

func thermostatRule() Rule {
	return Rule{
		Name:         "thermostat",
		Domain:       DomainClimate,
		Capabilities: []string{"thermostatMode"},
		Scope:        ScopeMain,
		Build: func(deps Deps, device smartthings.Device, caps []string) []Entity {
			return []Entity{&thermostat{
				base: newBase(deps, device, DomainClimate, device.DeviceID+"_traditional_thermostat", device.DisplayName(), "mdi:thermostat"),
				caps: caps,
			}}
		},
	}
}
