package entity

import (
	"github.com/anicoll/smartthings-integration/internal/pkg/capability"
	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

var aqiDescriptions = map[int]string{
	1: "Good",
	2: "Moderate",
	3: "Unhealthy for Sensitive Groups",
	4: "Unhealthy",
	5: "Very Unhealthy",
	6: "Hazardous",
}

var healthConcernIcons = [][2]string{
	{"good", "mdi:emoticon-happy"},
	{"moderate", "mdi:emoticon-neutral"},
	{"unhealthy", "mdi:emoticon-sad"},
	{"hazardous", "mdi:emoticon-dead"},
}

var airQualityTable = []sensorSpec{
	{
		capability: "airQualityDetector", suffix: "air_quality_index", name: "Air Quality Index",
		attributes: attr("airQuality"), deviceClass: "aqi", stateClass: "measurement", integer: true, icon: "mdi:air-filter",
		extra: func(device smartthings.Device) map[string]any {
			v, ok := capability.Value(device, "airQualityDetector", "airQuality")
			if !ok {
				return nil
			}
			aqi, ok := capability.Int(v)
			if !ok {
				return nil
			}
			desc, ok := aqiDescriptions[aqi]
			if !ok {
				desc = "Unknown"
			}
			return map[string]any{"aqi_description": desc}
		},
	},
	{
		capability: "dustSensor", suffix: "dust_sensor", name: "Particulate Matter",
		attributes: attr("fineDustLevel", "dustLevel"), deviceClass: "pm25", stateClass: "measurement", unit: "µg/m³", numeric: true, icon: "mdi:blur",
		extra: func(device smartthings.Device) map[string]any {
			attrs := map[string]any{}
			if v, ok := capability.Value(device, "dustSensor", "dustLevel"); ok {
				attrs["pm10"] = v
			}
			if v, ok := capability.Value(device, "dustSensor", "fineDustLevel"); ok {
				attrs["pm25"] = v
			}
			return attrs
		},
	},
	{
		capability: "tvocMeasurement", suffix: "tvoc_sensor", name: "TVOC",
		attributes: attr("tvocLevel"), deviceClass: "volatile_organic_compounds", stateClass: "measurement", unit: "µg/m³", numeric: true, icon: "mdi:chemical-weapon",
	},
	{
		capability: "formaldehydeMeasurement", suffix: "formaldehyde_sensor", name: "Formaldehyde",
		attributes: attr("formaldehydeLevel"), stateClass: "measurement", unit: "ppm", numeric: true, icon: "mdi:molecule",
	},
	{
		capability: "airQualityHealthConcern", suffix: "air_quality_health_concern", name: "Air Quality Health Concern",
		attributes: attr("airQualityHealthConcern"), icon: "mdi:air-filter",
		iconFor: func(v any) string {
			return iconByKeyword(v, healthConcernIcons, "mdi:air-filter")
		},
	},
}

// tableRule builds one sensor per table row whose capability is present.
func tableRule(name string, table []sensorSpec) Rule {
	caps := make([]string, 0, len(table))
	for _, spec := range table {
		caps = append(caps, spec.capability)
	}
	return Rule{
		Name:         name,
		Domain:       DomainSensor,
		Capabilities: caps,
		Scope:        ScopeMain,
		Build: func(deps Deps, device smartthings.Device, caps []string) []Entity {
			out := []Entity{}
			for _, spec := range table {
				if capability.Has(caps, spec.capability) {
					out = append(out, newAttributeSensor(deps, device, spec))
				}
			}
			return out
		},
	}
}

func airQualityRule() Rule {
	return tableRule("air_quality", airQualityTable)
}
