package entity

import (
	"fmt"

	"github.com/anicoll/smartthings-integration/internal/pkg/capability"
	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

var solarCapabilities = []string{"powerSource", "solarPanel", "inverter", "batteryLevel"}

// BatteryIcon rounds a charge percentage up to the nearest ten.
func BatteryIcon(v any) string {
	level, ok := capability.Float(v)
	if !ok {
		return "mdi:battery-unknown"
	}
	for step := 10; step < 100; step += 10 {
		if level <= float64(step) {
			return fmt.Sprintf("mdi:battery-%d", step)
		}
	}
	return "mdi:battery"
}

var solarTable = []sensorSpec{
	{
		capability: "powerSource", suffix: "solar_power_source", name: "Power Source",
		attributes: attr("powerSource"), deviceClass: "enum", icon: "mdi:lightning-bolt",
		options: []string{"solar", "battery", "grid", "generator", "unknown"},
		iconFor: func(v any) string {
			return iconByKeyword(v, [][2]string{
				{"solar", "mdi:solar-panel"},
				{"battery", "mdi:battery"},
				{"grid", "mdi:transmission-tower"},
				{"generator", "mdi:engine"},
			}, "mdi:lightning-bolt")
		},
	},
	{
		capability: "solarPanel", suffix: "solar_panel_power", name: "Solar Power Generation",
		attributes: attr("powerGeneration"), deviceClass: "power", stateClass: "measurement", unit: "W", icon: "mdi:solar-panel-large",
		extra: func(device smartthings.Device) map[string]any {
			return prefixed(device, "solarPanel", "solar_", "powerGeneration")
		},
	},
	{
		capability: "solarPanel", suffix: "solar_panel_energy", name: "Solar Energy Generated",
		attributes: attr("energyGeneration"), deviceClass: "energy", stateClass: "total_increasing", unit: "kWh", divisor: 1000, icon: "mdi:solar-power",
	},
	{
		capability: "inverter", suffix: "solar_inverter_status", name: "Inverter Status",
		attributes: attr("inverterStatus"), deviceClass: "enum", icon: "mdi:power-plug",
		options: []string{"operating", "fault", "standby", "shutdown", "starting", "mppt"},
		iconFor: func(v any) string {
			return iconByKeyword(v, [][2]string{
				{"operating", "mdi:flash"},
				{"mppt", "mdi:flash"},
				{"fault", "mdi:alert-circle"},
				{"standby", "mdi:pause-circle"},
				{"shutdown", "mdi:pause-circle"},
				{"starting", "mdi:play-circle"},
			}, "mdi:power-plug")
		},
	},
	{
		capability: "inverter", suffix: "solar_inverter_efficiency", name: "Inverter Efficiency",
		attributes: attr("efficiency"), stateClass: "measurement", unit: "%", numeric: true, icon: "mdi:speedometer",
	},
	{
		capability: "batteryLevel", suffix: "solar_battery_level", name: "Battery Level",
		attributes: attr("battery"), deviceClass: "battery", stateClass: "measurement", unit: "%", icon: "mdi:battery-unknown",
		iconFor: BatteryIcon,
	},
	{
		capability: "energyMeter", suffix: "solar_energy_production", name: "Total Energy Production",
		attributes: attr("energy"), deviceClass: "energy", stateClass: "total_increasing", unit: "kWh", divisor: 1000, icon: "mdi:solar-panel",
	},
}

func solarRule() Rule {
	rule := tableRule("solar", solarTable)
	rule.Capabilities = solarCapabilities
	rule.Match = func(device smartthings.Device, caps []string) bool {
		return capability.HasAny(caps, solarCapabilities...) || IsSolarDevice(device)
	}
	return rule
}
