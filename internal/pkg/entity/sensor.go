package entity

import (
	"slices"
	"strings"

	"github.com/anicoll/smartthings-integration/internal/pkg/capability"
	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

// Device classes whose values are coerced to float.
var numericClasses = map[string]bool{
	"temperature": true,
	"humidity":    true,
	"power":       true,
	"energy":      true,
	"battery":     true,
	"voltage":     true,
	"illuminance": true,
}

// sensorSpec describes a sensor that reads one capability attribute.
type sensorSpec struct {
	suffix      string
	name        string
	capability  string
	attributes  []string
	deviceClass string
	stateClass  string
	unit        string
	icon        string
	options     []string
	// numeric forces float coercion regardless of device class.
	numeric bool
	integer bool
	// divisor scales numeric values, for example Wh to kWh.
	divisor float64
	format  func(v any) any
	iconFor func(value any) string
	extra   func(device smartthings.Device) map[string]any
}

type attributeSensor struct {
	base
	spec sensorSpec
}

func newAttributeSensor(deps Deps, device smartthings.Device, spec sensorSpec) *attributeSensor {
	suffix := spec.suffix
	if suffix == "" {
		suffix = spec.capability
	}
	return &attributeSensor{
		base: newBase(deps, device, DomainSensor, uid(device.DeviceID, suffix), spec.name, spec.icon),
		spec: spec,
	}
}

func (s *attributeSensor) Meta() Meta {
	m := s.base.Meta()
	m.Unit = s.spec.unit
	m.DeviceClass = s.spec.deviceClass
	m.StateClass = s.spec.stateClass
	m.Options = s.spec.options
	if s.spec.iconFor != nil {
		if icon := s.spec.iconFor(s.value(s.device())); icon != "" {
			m.Icon = icon
		}
	}
	return m
}

func (s *attributeSensor) value(device smartthings.Device) any {
	raw, ok := capability.FirstValue(device, s.spec.capability, s.spec.attributes...)
	if !ok {
		return nil
	}
	if s.spec.format != nil {
		return s.spec.format(raw)
	}
	if s.spec.numeric || s.spec.integer || s.spec.divisor != 0 || numericClasses[s.spec.deviceClass] {
		f, ok := capability.Float(raw)
		if !ok {
			return nil
		}
		if s.spec.divisor != 0 {
			f /= s.spec.divisor
		}
		if s.spec.integer {
			return int(f)
		}
		return f
	}
	return capability.String(raw)
}

func (s *attributeSensor) State() State {
	device := s.device()
	st := State{Value: s.value(device)}
	if s.spec.extra != nil {
		st.Attributes = s.spec.extra(device)
	}
	return st
}

func attr(names ...string) []string { return names }

var sensorTable = []sensorSpec{
	{capability: "temperatureMeasurement", name: "Temperature", attributes: attr("temperature"), deviceClass: "temperature", stateClass: "measurement", unit: "°C", icon: "mdi:thermometer"},
	{capability: "relativeHumidityMeasurement", name: "Humidity", attributes: attr("humidity"), deviceClass: "humidity", stateClass: "measurement", unit: "%", icon: "mdi:water-percent"},
	{capability: "illuminanceMeasurement", name: "Illuminance", attributes: attr("illuminance"), deviceClass: "illuminance", stateClass: "measurement", unit: "lx", icon: "mdi:brightness-5"},
	{capability: "powerMeter", name: "Power", attributes: attr("power"), deviceClass: "power", stateClass: "measurement", unit: "W", icon: "mdi:flash"},
	{capability: "energyMeter", name: "Energy", attributes: attr("energy"), deviceClass: "energy", stateClass: "total_increasing", unit: "kWh", icon: "mdi:lightning-bolt"},
	{capability: "battery", name: "Battery", attributes: attr("battery"), deviceClass: "battery", stateClass: "measurement", unit: "%", icon: "mdi:battery"},
	{capability: "voltage", name: "Voltage", attributes: attr("voltage"), deviceClass: "voltage", stateClass: "measurement", unit: "V", icon: "mdi:sine-wave"},
	{capability: "refrigerationSetpoint", name: "Refrigeration Setpoint", attributes: attr("refrigerationSetpoint"), deviceClass: "temperature", unit: "°C", icon: "mdi:fridge-outline"},
	{capability: "ovenSetpoint", name: "Oven Setpoint", attributes: attr("ovenSetpoint"), deviceClass: "temperature", unit: "°C", icon: "mdi:thermometer"},
	{capability: "washerOperatingState", name: "Washer State", attributes: attr("machineState"), icon: "mdi:washing-machine"},
	{capability: "dryerOperatingState", name: "Dryer State", attributes: attr("machineState"), icon: "mdi:tumble-dryer"},
	{capability: "ovenOperatingState", name: "Oven State", attributes: attr("machineState"), icon: "mdi:stove"},
	{capability: "dishwasherOperatingState", name: "Dishwasher State", attributes: attr("machineState"), icon: "mdi:dishwasher"},
	{capability: "washerMode", name: "Washer Mode", attributes: attr("washerMode"), icon: "mdi:washing-machine"},
	{capability: "dryerMode", name: "Dryer Mode", attributes: attr("dryerMode"), icon: "mdi:tumble-dryer"},
	{capability: "ovenMode", name: "Oven Mode", attributes: attr("ovenMode"), icon: "mdi:stove"},
	{capability: "dishwasherMode", name: "Dishwasher Mode", attributes: attr("dishwasherMode"), icon: "mdi:dishwasher"},
	{capability: "refrigeration", name: "Refrigeration Status", attributes: attr("rapidFreezing", "rapidCooling"), icon: "mdi:fridge"},
	{capability: "custom.runningTime", name: "Running Time", attributes: attr("runningTime"), stateClass: "measurement", unit: "min", icon: "mdi:timer"},
	{capability: "custom.completionTime", name: "Completion Time", attributes: attr("completionTime"), deviceClass: "timestamp", icon: "mdi:clock-end"},
	{capability: "custom.runningCourse", name: "Running Course", attributes: attr("course"), icon: "mdi:playlist-check"},
	{capability: "custom.error", name: "Error", attributes: attr("error"), icon: "mdi:alert-circle"},
}

func sensorRules() []Rule {
	caps := make([]string, 0, len(sensorTable))
	for _, spec := range sensorTable {
		caps = append(caps, spec.capability)
	}
	return []Rule{{
		Name:         "sensor",
		Domain:       DomainSensor,
		Capabilities: caps,
		Scope:        ScopeMain,
		Build: func(deps Deps, device smartthings.Device, caps []string) []Entity {
			out := []Entity{}
			for _, cap := range caps {
				for _, spec := range sensorTable {
					if spec.capability == cap {
						out = append(out, newAttributeSensor(deps, device, spec))
					}
				}
			}
			return out
		},
	}}
}

// prefixed copies the attributes of the first component carrying capabilityID
// under prefix+name, skipping the listed attributes.
func prefixed(device smartthings.Device, capabilityID, prefix string, skip ...string) map[string]any {
	out := map[string]any{}
	component := capability.FindComponent(device, capabilityID)
	if component == "" {
		return out
	}
	for key, st := range device.Status[component][capabilityID] {
		if st.Value == nil || slices.Contains(skip, key) {
			continue
		}
		out[prefix+key] = st.Value
	}
	return out
}

// iconByKeyword returns the icon of the first keyword contained in the
// lower-cased value, or fallback.
func iconByKeyword(value any, table [][2]string, fallback string) string {
	s := strings.ToLower(capability.String(value))
	if s == "" {
		return fallback
	}
	for _, row := range table {
		if strings.Contains(s, row[0]) {
			return row[1]
		}
	}
	return fallback
}
