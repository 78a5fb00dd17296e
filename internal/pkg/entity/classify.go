package entity

import (
	"strings"

	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

var (
	plantKeywords = []string{"plant", "soil", "garden", "moisture"}
	solarKeywords = []string{"solar", "inverter", "panel", "renewable", "generator"}
	poolKeywords  = []string{"pool", "spa", "hot tub", "chlorine", "heater"}
	fanKeywords   = []string{"fan", "ventilator", "exhaust"}
	gasKeywords   = []string{"gas", "fuel"}
)

// IsPlantMonitor guesses from the device type or label.
func IsPlantMonitor(device smartthings.Device) bool {
	return typeOrLabelContains(device, plantKeywords)
}

func IsSolarDevice(device smartthings.Device) bool {
	return typeOrLabelContains(device, solarKeywords)
}

func IsPoolDevice(device smartthings.Device) bool {
	return typeOrLabelContains(device, poolKeywords)
}

// IsFanDevice only looks at the device type; a label containing "fan" is not enough.
func IsFanDevice(device smartthings.Device) bool {
	return containsAny(strings.ToLower(device.DeviceTypeName), fanKeywords)
}

// ValveClass returns "gas" for gas or fuel valves and "water" otherwise.
func ValveClass(device smartthings.Device) string {
	if typeOrLabelContains(device, gasKeywords) {
		return "gas"
	}
	return "water"
}

func typeOrLabelContains(device smartthings.Device, keywords []string) bool {
	return containsAny(strings.ToLower(device.DeviceTypeName), keywords) ||
		containsAny(strings.ToLower(device.Label), keywords)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
