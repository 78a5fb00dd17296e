package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

func TestAttributeSensor_Coercion(t *testing.T) {
	tests := []struct {
		name   string
		caps   []string
		status smartthings.Status
		key    string
		want   any
	}{
		{
			name:   "numeric string temperature",
			caps:   []string{"temperatureMeasurement"},
			status: status("main", "temperatureMeasurement", "temperature", "21.5"),
			key:    "sensor.smartthingsce_d1_temperatureMeasurement",
			want:   21.5,
		},
		{
			name:   "unparseable numeric is unknown",
			caps:   []string{"relativeHumidityMeasurement"},
			status: status("main", "relativeHumidityMeasurement", "humidity", "n/a"),
			key:    "sensor.smartthingsce_d1_relativeHumidityMeasurement",
			want:   nil,
		},
		{
			name:   "text state stays text",
			caps:   []string{"washerOperatingState"},
			status: status("main", "washerOperatingState", "machineState", "stop"),
			key:    "sensor.smartthingsce_d1_washerOperatingState",
			want:   "stop",
		},
		{
			name:   "second attribute used when first missing",
			caps:   []string{"refrigeration"},
			status: status("main", "refrigeration", "rapidCooling", "on"),
			key:    "sensor.smartthingsce_d1_refrigeration",
			want:   "on",
		},
		{
			name:   "energy meter divides to kWh",
			caps:   []string{"energyMeter"},
			status: status("main", "energyMeter", "energy", 12500.0),
			key:    "sensor.smartthingsce_d1_energy_meter",
			want:   12.5,
		},
		{
			name:   "air quality index is an integer",
			caps:   []string{"airQualityDetector"},
			status: status("main", "airQualityDetector", "airQuality", "3"),
			key:    "sensor.smartthingsce_d1_air_quality_index",
			want:   3,
		},
		{
			name:   "missing status is unknown",
			caps:   []string{"battery"},
			status: smartthings.Status{},
			key:    "sensor.smartthingsce_d1_battery",
			want:   nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDevice("d1", "Device", component("main", tt.caps...))
			d.Status = tt.status
			e, ok := discover(t, newHub(d))[tt.key]
			require.True(t, ok)
			assert.Equal(t, tt.want, e.State().Value)
		})
	}
}

func TestAttributeSensor_Meta(t *testing.T) {
	d := newDevice("d1", "Device", component("main", "temperatureMeasurement"))
	e := discover(t, newHub(d))["sensor.smartthingsce_d1_temperatureMeasurement"]
	require.NotNil(t, e)

	m := e.Meta()
	assert.Equal(t, "°C", m.Unit)
	assert.Equal(t, "temperature", m.DeviceClass)
	assert.Equal(t, "measurement", m.StateClass)
	assert.Equal(t, "mdi:thermometer", m.Icon)
	assert.Equal(t, Attribution, m.Attribution)
	assert.Equal(t, "Temperature", e.Name())
}

func TestAttributeSensor_DynamicIcon(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{value: "Good", want: "mdi:emoticon-happy"},
		{value: "unhealthy for sensitive groups", want: "mdi:emoticon-sad"},
		{value: "Hazardous", want: "mdi:emoticon-dead"},
		{value: nil, want: "mdi:air-filter"},
	}
	for _, tt := range tests {
		d := newDevice("d1", "Device", component("main", "airQualityHealthConcern"))
		d.Status = status("main", "airQualityHealthConcern", "airQualityHealthConcern", tt.value)
		e := discover(t, newHub(d))["sensor.smartthingsce_d1_air_quality_health_concern"]
		require.NotNil(t, e)
		assert.Equal(t, tt.want, e.Meta().Icon, "value %v", tt.value)
	}
}

func TestBatteryIcon(t *testing.T) {
	assert.Equal(t, "mdi:battery-10", BatteryIcon(5))
	assert.Equal(t, "mdi:battery-50", BatteryIcon(41.0))
	assert.Equal(t, "mdi:battery-90", BatteryIcon("90"))
	assert.Equal(t, "mdi:battery", BatteryIcon(95))
	assert.Equal(t, "mdi:battery-unknown", BatteryIcon(nil))
}

func TestPowerMeterAttributes(t *testing.T) {
	d := newDevice("d1", "Plug", component("main", "powerMeter"))
	d.Status = merge(
		status("main", "powerMeter", "power", 120.0),
		status("main", "powerMeter", "powerConsumptionReport", map[string]any{"deltaEnergy": 5.0}),
	)
	e := discover(t, newHub(d))["sensor.smartthingsce_d1_power_meter"]
	require.NotNil(t, e)

	st := e.State()
	assert.Equal(t, 120.0, st.Value)
	assert.Equal(t, 5.0, st.Attributes["power_deltaEnergy"])
	assert.NotContains(t, st.Attributes, "power_power")
}

func TestPetFeederSchedule(t *testing.T) {
	d := newDevice("d1", "Feeder", component("main", "petFeederOperatingState", "petFeederSchedule"))
	d.Status = merge(
		status("main", "petFeederOperatingState", "operatingState", "jammed"),
		status("main", "petFeederSchedule", "schedule", map[string]any{"nextFeeding": "08:00"}),
	)
	entities := discover(t, newHub(d))

	schedule := entities["sensor.smartthingsce_d1_pet_feeder_schedule"]
	require.NotNil(t, schedule)
	assert.Equal(t, "Next: 08:00", schedule.State().Value)
	assert.Equal(t, "08:00", schedule.State().Attributes["schedule_nextFeeding"])

	state := entities["sensor.smartthingsce_d1_pet_feeder_state"]
	require.NotNil(t, state)
	assert.Equal(t, "mdi:alert-circle", state.Meta().Icon)
	assert.Equal(t, []string{"idle", "feeding", "dispensing", "jammed", "empty", "error"}, state.Meta().Options)
}
