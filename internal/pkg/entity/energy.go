package entity

import (
	"maps"

	"github.com/anicoll/smartthings-integration/internal/pkg/capability"
	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

var energyTable = []sensorSpec{
	{
		capability: "energyMeter", suffix: "energy_meter", name: "Energy",
		attributes: attr("energy"), deviceClass: "energy", stateClass: "total_increasing", unit: "kWh", divisor: 1000, icon: "mdi:lightning-bolt",
		extra: func(device smartthings.Device) map[string]any {
			attrs := prefixed(device, "energyMeter", "energy_", "energy", "deltaEnergy")
			if v, ok := capability.Value(device, "energyMeter", "energy"); ok {
				attrs["energy_wh"] = v
			}
			if v, ok := capability.Value(device, "energyMeter", "deltaEnergy"); ok {
				attrs["delta_energy_wh"] = v
			}
			return attrs
		},
	},
	{
		capability: "powerMeter", suffix: "power_meter", name: "Power",
		attributes: attr("power"), deviceClass: "power", stateClass: "measurement", unit: "W", icon: "mdi:flash",
		extra: func(device smartthings.Device) map[string]any {
			attrs := map[string]any{}
			if v, ok := capability.Value(device, "powerMeter", "powerConsumptionReport"); ok {
				if report, ok := v.(map[string]any); ok {
					for key, value := range report {
						attrs["power_"+key] = value
					}
				}
			}
			maps.Copy(attrs, prefixed(device, "powerMeter", "power_", "power", "powerConsumptionReport"))
			return attrs
		},
	},
	{
		capability: "voltageMeasurement", suffix: "voltage", name: "Voltage",
		attributes: attr("voltage"), deviceClass: "voltage", stateClass: "measurement", unit: "V", icon: "mdi:sine-wave",
	},
	{
		capability: "currentMeasurement", suffix: "current", name: "Current",
		attributes: attr("current"), deviceClass: "current", stateClass: "measurement", unit: "A", numeric: true, icon: "mdi:current-ac",
	},
}

func energyRule() Rule {
	return tableRule("energy", energyTable)
}
