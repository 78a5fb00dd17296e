package entity

import (
	"github.com/anicoll/smartthings-integration/internal/pkg/capability"
	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

type binarySpec struct {
	capability  string
	name        string
	attribute   string
	onValue     string
	deviceClass string
	icon        string
}

var binarySensorTable = []binarySpec{
	{capability: "contactSensor", name: "Contact", attribute: "contact", onValue: "open", deviceClass: "door", icon: "mdi:door"},
	{capability: "motionSensor", name: "Motion", attribute: "motion", onValue: "active", deviceClass: "motion", icon: "mdi:motion-sensor"},
	{capability: "presenceSensor", name: "Presence", attribute: "presence", onValue: "present", deviceClass: "presence", icon: "mdi:account"},
	{capability: "waterSensor", name: "Water", attribute: "water", onValue: "wet", deviceClass: "moisture", icon: "mdi:water"},
	{capability: "smokeDetector", name: "Smoke", attribute: "smoke", onValue: "detected", deviceClass: "smoke", icon: "mdi:smoke-detector"},
	{capability: "carbonMonoxideDetector", name: "Carbon Monoxide", attribute: "carbonMonoxide", onValue: "detected", deviceClass: "carbon_monoxide", icon: "mdi:smoke-detector-alert"},
	{capability: "washerOperatingState", name: "Washer Running", attribute: "machineState", onValue: "run", deviceClass: "running"},
	{capability: "dryerOperatingState", name: "Dryer Running", attribute: "machineState", onValue: "run", deviceClass: "running"},
	{capability: "ovenOperatingState", name: "Oven Running", attribute: "machineState", onValue: "run", deviceClass: "running"},
	{capability: "dishwasherOperatingState", name: "Dishwasher Running", attribute: "machineState", onValue: "run", deviceClass: "running"},
	{capability: "custom.error", name: "Error", attribute: "error", onValue: "detected", deviceClass: "problem"},
	{capability: "samsungce.kidsLock", name: "Kids Lock", attribute: "lockState", onValue: "locked", deviceClass: "lock", icon: "mdi:lock-outline"},
}

type binarySensor struct {
	base
	spec binarySpec
}

func (b *binarySensor) Meta() Meta {
	m := b.base.Meta()
	m.DeviceClass = b.spec.deviceClass
	return m
}

// State is on when the attribute equals the on value. A missing attribute is unknown.
func (b *binarySensor) State() State {
	v, ok := capability.Value(b.device(), b.spec.capability, b.spec.attribute)
	if !ok {
		return State{}
	}
	return State{Value: onOff(capability.String(v) == b.spec.onValue)}
}

func binarySensorRules() []Rule {
	caps := make([]string, 0, len(binarySensorTable))
	for _, spec := range binarySensorTable {
		caps = append(caps, spec.capability)
	}
	return []Rule{{
		Name:         "binary_sensor",
		Domain:       DomainBinarySensor,
		Capabilities: caps,
		Scope:        ScopeMain,
		Build: func(deps Deps, device smartthings.Device, caps []string) []Entity {
			out := []Entity{}
			for _, cap := range caps {
				for _, spec := range binarySensorTable {
					if spec.capability != cap {
						continue
					}
					out = append(out, &binarySensor{
						base: newBase(deps, device, DomainBinarySensor, uid(device.DeviceID, spec.capability), spec.name, spec.icon),
						spec: spec,
					})
				}
			}
			return out
		},
	}}
}
