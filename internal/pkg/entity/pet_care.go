package entity

import (
	"fmt"

	"github.com/anicoll/smartthings-integration/internal/pkg/capability"
	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

var petFeederStateIcons = map[string]string{
	"feeding": "mdi:bowl",
	"jammed":  "mdi:alert-circle",
	"empty":   "mdi:bowl-outline",
	"error":   "mdi:alert",
}

func feederFeeding(device smartthings.Device) (bool, bool) {
	v, _ := capability.Value(device, "petFeederOperatingState", "operatingState")
	return v == "feeding" || v == "dispensing", true
}

var (
	petFeederState = sensorSpec{
		capability: "petFeederOperatingState", suffix: "pet_feeder_state", name: "Operating State",
		attributes: attr("operatingState"), deviceClass: "enum",
		options: []string{"idle", "feeding", "dispensing", "jammed", "empty", "error"},
		icon:    "mdi:food-variant",
		iconFor: func(v any) string {
			if icon, ok := petFeederStateIcons[capability.String(v)]; ok {
				return icon
			}
			return "mdi:food-variant"
		},
	}
	petFeederFoodLevel = sensorSpec{
		capability: "petFeederFoodLevel", suffix: "pet_feeder_food_level", name: "Food Level",
		attributes: attr("foodLevel"), stateClass: "measurement", unit: "%", numeric: true, icon: "mdi:food-variant",
		iconFor: func(v any) string {
			level, ok := capability.Float(v)
			switch {
			case !ok:
				return "mdi:food-variant"
			case level <= 10:
				return "mdi:food-variant-off"
			case level <= 30:
				return "mdi:food-variant"
			}
			return "mdi:food"
		},
	}
	petFeederSchedule = sensorSpec{
		capability: "petFeederSchedule", suffix: "pet_feeder_schedule", name: "Feeding Schedule",
		attributes: attr("schedule"), icon: "mdi:calendar-clock",
		format: func(v any) any {
			switch s := v.(type) {
			case map[string]any:
				if next, ok := s["nextFeeding"]; ok && next != nil && next != "" {
					return fmt.Sprintf("Next: %v", next)
				}
				return nil
			case string:
				return s
			}
			return nil
		},
		extra: func(device smartthings.Device) map[string]any {
			attrs := map[string]any{}
			v, _ := capability.Value(device, "petFeederSchedule", "schedule")
			if schedule, ok := v.(map[string]any); ok {
				for key, value := range schedule {
					attrs["schedule_"+key] = value
				}
			}
			return attrs
		},
	}
)

func petCareRule() Rule {
	return Rule{
		Name:         "pet_care",
		Domain:       DomainSensor,
		Capabilities: []string{"petFeederOperatingState"},
		Scope:        ScopeMain,
		Build: func(deps Deps, device smartthings.Device, caps []string) []Entity {
			out := []Entity{newAttributeSensor(deps, device, petFeederState)}
			if capability.Has(caps, "petFeederFoodLevel") {
				out = append(out, newAttributeSensor(deps, device, petFeederFoodLevel))
			}
			if capability.Has(caps, "petFeederSchedule") {
				out = append(out, newAttributeSensor(deps, device, petFeederSchedule))
			}
			if capability.Has(caps, "petFeederFeed") {
				out = append(out, newToggle(deps, device, toggleSpec{
					domain: DomainSwitch,
					suffix: "pet_feeder_feed",
					name:   "Feed Now",
					icon:   "mdi:food-variant",
					isOn:   feederFeeding,
					on:     smartthings.NewCommand("petFeederFeed", "feed"),
					off:    smartthings.NewCommand("petFeederFeed", "stop"),
					iconFor: func(on bool) string {
						if on {
							return "mdi:bowl"
						}
						return "mdi:food-variant"
					},
				}))
			}
			return out
		},
	}
}
