package entity

import (
	"strings"

	"github.com/anicoll/smartthings-integration/internal/pkg/capability"
	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

var plantCapabilities = []string{"soilMoisture", "plantMoisture", "plantHealth", "plantNutrient"}

var (
	soilMoisture = sensorSpec{
		capability: "soilMoisture", suffix: "soil_moisture", name: "Soil Moisture",
		attributes: attr("soilMoisture"), deviceClass: "moisture", stateClass: "measurement", unit: "%", numeric: true, icon: "mdi:water-percent",
		iconFor: func(v any) string {
			moisture, ok := capability.Float(v)
			switch {
			case !ok:
				return "mdi:water-percent"
			case moisture <= 20:
				return "mdi:water-outline"
			case moisture <= 40:
				return "mdi:water-percent"
			}
			return "mdi:water"
		},
	}
	plantMoisture = sensorSpec{
		capability: "plantMoisture", suffix: "plant_moisture", name: "Plant Moisture",
		attributes: attr("plantMoisture"), deviceClass: "moisture", stateClass: "measurement", unit: "%", numeric: true, icon: "mdi:sprout",
	}
	plantHealth = sensorSpec{
		capability: "plantHealth", suffix: "plant_health", name: "Plant Health",
		attributes: attr("plantHealth"), deviceClass: "enum", icon: "mdi:sprout",
		options: []string{"excellent", "good", "fair", "poor", "critical"},
		iconFor: func(v any) string {
			switch strings.ToLower(capability.String(v)) {
			case "excellent", "good":
				return "mdi:leaf"
			case "fair":
				return "mdi:leaf-maple"
			case "poor":
				return "mdi:tree"
			case "critical":
				return "mdi:alert-circle"
			}
			return "mdi:sprout"
		},
	}
	plantNutrient = sensorSpec{
		capability: "plantNutrient", suffix: "plant_nutrient", name: "Plant Nutrient Level",
		attributes: attr("nutrientLevel"), stateClass: "measurement", numeric: true, icon: "mdi:nutrition",
		extra: func(device smartthings.Device) map[string]any {
			return prefixed(device, "plantNutrient", "nutrient_", "nutrientLevel")
		},
	}
	plantTemperature = sensorSpec{
		capability: "temperatureMeasurement", suffix: "plant_temperature", name: "Temperature",
		attributes: attr("temperature"), deviceClass: "temperature", stateClass: "measurement", unit: "°C", icon: "mdi:thermometer",
	}
	plantLight = sensorSpec{
		capability: "illuminanceMeasurement", suffix: "plant_light", name: "Light Level",
		attributes: attr("illuminance"), deviceClass: "illuminance", stateClass: "measurement", unit: "lx", icon: "mdi:brightness-6",
	}
)

func plantRule() Rule {
	return Rule{
		Name:         "plant",
		Domain:       DomainSensor,
		Capabilities: plantCapabilities,
		Scope:        ScopeMain,
		Match: func(device smartthings.Device, caps []string) bool {
			return capability.HasAny(caps, plantCapabilities...) || IsPlantMonitor(device)
		},
		Build: func(deps Deps, device smartthings.Device, caps []string) []Entity {
			out := []Entity{}
			add := func(spec sensorSpec) {
				out = append(out, newAttributeSensor(deps, device, spec))
			}
			switch {
			case capability.Has(caps, "soilMoisture"):
				add(soilMoisture)
			case capability.Has(caps, "plantMoisture"):
				add(plantMoisture)
			}
			if capability.Has(caps, "plantHealth") {
				add(plantHealth)
			}
			if capability.Has(caps, "plantNutrient") {
				add(plantNutrient)
			}
			if capability.Has(caps, "temperatureMeasurement") {
				add(plantTemperature)
			}
			if capability.Has(caps, "illuminanceMeasurement") {
				add(plantLight)
			}
			return out
		},
	}
}
