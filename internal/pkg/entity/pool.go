package entity

import (
	"context"

	"github.com/anicoll/smartthings-integration/internal/pkg/capability"
	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

var poolCapabilities = []string{"poolController", "poolHeater", "poolPump", "poolChlorine", "poolPH"}

var (
	poolControllerStatus = sensorSpec{
		capability: "poolController", suffix: "pool_controller_status", name: "Controller Status",
		attributes: attr("poolStatus"), deviceClass: "enum", icon: "mdi:swimming",
		options: []string{"normal", "service", "timeout", "priming", "freeze", "error"},
		iconFor: func(v any) string {
			return iconByKeyword(v, [][2]string{
				{"normal", "mdi:pool"},
				{"service", "mdi:tools"},
				{"error", "mdi:alert-circle"},
				{"timeout", "mdi:alert-circle"},
				{"freeze", "mdi:snowflake"},
				{"priming", "mdi:pump"},
			}, "mdi:swimming")
		},
	}
	poolPumpSpeed = sensorSpec{
		capability: "poolPump", suffix: "pool_pump_speed", name: "Pump Speed",
		attributes: attr("pumpSpeed"), stateClass: "measurement", unit: "%", numeric: true, icon: "mdi:speedometer",
	}
	poolTemperature = sensorSpec{
		capability: "temperatureMeasurement", suffix: "pool_temperature", name: "Pool Temperature",
		attributes: attr("temperature"), deviceClass: "temperature", stateClass: "measurement", unit: "°C", icon: "mdi:thermometer-water",
	}
	poolChlorine = sensorSpec{
		capability: "poolChlorine", suffix: "pool_chlorine", name: "Chlorine Level",
		attributes: attr("chlorineLevel"), stateClass: "measurement", unit: "ppm", numeric: true, icon: "mdi:water",
		iconFor: func(v any) string {
			level, ok := capability.Float(v)
			switch {
			case !ok:
				return "mdi:water"
			case level < 1:
				return "mdi:water-alert"
			case level > 3:
				return "mdi:water-off"
			}
			return "mdi:water-check"
		},
	}
	poolPH = sensorSpec{
		capability: "poolPH", suffix: "pool_ph", name: "pH Level",
		attributes: attr("phLevel"), stateClass: "measurement", numeric: true, icon: "mdi:test-tube",
		iconFor: func(v any) string {
			ph, ok := capability.Float(v)
			switch {
			case !ok:
				return "mdi:test-tube"
			case ph < 7.2:
				return "mdi:ph-minus"
			case ph > 7.6:
				return "mdi:ph-plus"
			}
			return "mdi:ph"
		},
	}
)

func poolPumpOn(device smartthings.Device) (bool, bool) {
	if v, ok := capability.Value(device, "poolPump", "pumpStatus"); ok {
		return v == "on", true
	}
	v, _ := capability.Value(device, "switch", "switch")
	return v == "on", true
}

// poolHeater is a heat-only climate entity.
type poolHeater struct {
	base
}

func (p *poolHeater) mode(device smartthings.Device) string {
	switch v, _ := capability.Value(device, "poolHeater", "heaterStatus"); v {
	case "heating":
		return HVACHeat
	case "off":
		return HVACOff
	}
	if v, _ := capability.Value(device, "switch", "switch"); v == "on" {
		return HVACHeat
	}
	return HVACOff
}

func (p *poolHeater) State() State {
	device := p.device()
	attrs := map[string]any{
		"hvac_modes":              []string{HVACHeat, HVACOff},
		"min_temp":                10.0,
		"max_temp":                45.0,
		"target_temp_step":        0.5,
		"temperature_unit":        "°C",
		"supported_features_list": []string{"target_temperature"},
		"current_temperature":     nil,
		"temperature":             nil,
	}
	if f, ok := capability.FloatValue(device, "temperatureMeasurement", "temperature"); ok {
		attrs["current_temperature"] = f
	}
	if f, ok := capability.FloatValue(device, "thermostatHeatingSetpoint", "heatingSetpoint"); ok {
		attrs["temperature"] = f
	} else if f, ok := capability.FloatValue(device, "poolHeater", "targetTemperature"); ok {
		attrs["temperature"] = f
	}
	return State{Value: p.mode(device), Attributes: attrs}
}

func (p *poolHeater) Actions() []string {
	return []string{ActionSetHVACMode, ActionSetTemperature}
}

func (p *poolHeater) Handle(ctx context.Context, action Action) Result {
	switch action.Name {
	case ActionSetHVACMode:
		mode, ok := paramString(action.Params, "hvac_mode")
		if !ok {
			return missingParam("hvac_mode")
		}
		switch mode {
		case HVACHeat:
			return p.send(ctx, smartthings.NewCommand("switch", "on"))
		case HVACOff:
			return p.send(ctx, smartthings.NewCommand("switch", "off"))
		}
		return Result{OK: true, Reason: "pool heater only supports heat and off"}
	case ActionSetTemperature:
		t, ok := paramFloat(action.Params, "temperature")
		if !ok {
			return missingParam("temperature")
		}
		return p.send(ctx, smartthings.NewCommand("thermostatHeatingSetpoint", "setHeatingSetpoint", int(t)))
	}
	return unsupported(action.Name)
}

func poolRule() Rule {
	return Rule{
		Name:         "pool",
		Domain:       DomainSensor,
		Capabilities: poolCapabilities,
		Scope:        ScopeMain,
		Match: func(device smartthings.Device, caps []string) bool {
			return capability.HasAny(caps, poolCapabilities...) || IsPoolDevice(device)
		},
		Build: func(deps Deps, device smartthings.Device, caps []string) []Entity {
			out := []Entity{}
			if capability.Has(caps, "poolController") {
				out = append(out, newAttributeSensor(deps, device, poolControllerStatus))
			}
			if capability.Has(caps, "poolHeater") ||
				(capability.Has(caps, "temperatureMeasurement") && capability.Has(caps, "thermostatHeatingSetpoint")) {
				out = append(out, &poolHeater{
					base: newBase(deps, device, DomainClimate, uid(device.DeviceID, "pool_heater"), "Pool Heater", "mdi:water-thermometer"),
				})
			}
			if capability.Has(caps, "poolPump") {
				out = append(out,
					newToggle(deps, device, toggleSpec{
						domain: DomainSwitch,
						suffix: "pool_pump_control",
						name:   "Pool Pump",
						icon:   "mdi:pump",
						isOn:   poolPumpOn,
						on:     smartthings.NewCommand("poolPump", "on"),
						off:    smartthings.NewCommand("poolPump", "off"),
					}),
					newAttributeSensor(deps, device, poolPumpSpeed),
				)
			}
			if capability.Has(caps, "temperatureMeasurement") {
				out = append(out, newAttributeSensor(deps, device, poolTemperature))
			}
			if capability.Has(caps, "poolChlorine") {
				out = append(out, newAttributeSensor(deps, device, poolChlorine))
			}
			if capability.Has(caps, "poolPH") {
				out = append(out, newAttributeSensor(deps, device, poolPH))
			}
			return out
		},
	}
}
