package entity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

func keys(entities map[string]Entity) []string {
	out := make([]string, 0, len(entities))
	for k := range entities {
		out = append(out, k)
	}
	return out
}

func TestDiscover_Refrigerator(t *testing.T) {
	d := newDevice("fridge", "Fridge",
		component("main", "temperatureMeasurement", "thermostatCoolingSetpoint", "custom.disabledCapabilities", "samsungce.powerCool"),
		component("freezer", "samsungce.powerFreeze", "temperatureMeasurement"),
	)
	d.Status = merge(
		status("main", "temperatureMeasurement", "temperature", 3.0),
		status("main", "thermostatCoolingSetpoint", "coolingSetpoint", 3.0),
	)
	entities := discover(t, newHub(d))

	assert.ElementsMatch(t, []string{
		"sensor.smartthingsce_fridge_temperatureMeasurement",
		"climate.fridge_thermostat",
		"switch.smartthingsce_fridge_power_cool",
		"switch.smartthingsce_fridge_power_freeze",
	}, keys(entities))
}

func TestDiscover_DisabledCapabilitySkipped(t *testing.T) {
	d := newDevice("fridge", "Fridge",
		component("main", "custom.disabledCapabilities", "samsungce.powerCool", "samsungce.powerFreeze"),
	)
	d.Status = status("main", "custom.disabledCapabilities", "disabledCapabilities", []any{"samsungce.powerCool"})
	entities := discover(t, newHub(d))

	assert.NotContains(t, entities, "switch.smartthingsce_fridge_power_cool")
	assert.Contains(t, entities, "switch.smartthingsce_fridge_power_freeze")
}

func TestDiscover_SensorAndBinarySensorShareUniqueID(t *testing.T) {
	d := newDevice("w1", "Washer", component("main", "washerOperatingState"))
	d.Status = status("main", "washerOperatingState", "machineState", "run")
	entities := discover(t, newHub(d))

	sensor := entities["sensor.smartthingsce_w1_washerOperatingState"]
	binary := entities["binary_sensor.smartthingsce_w1_washerOperatingState"]
	require.NotNil(t, sensor)
	require.NotNil(t, binary)
	assert.Equal(t, sensor.UniqueID(), binary.UniqueID())
	assert.Equal(t, "run", sensor.State().Value)
	assert.Equal(t, "on", binary.State().Value)
}

func TestDiscover_DeduplicatesByKey(t *testing.T) {
	d := newDevice("d1", "Lamp", component("main", "switch"))
	rule := switchRules()[0]
	reg := NewRegistry(newHub(d).deps(), rule, rule)

	entities := reg.Discover([]smartthings.Device{d})

	require.Len(t, entities, 1)
	assert.Equal(t, "switch.smartthingsce_d1_switch", Key(entities[0]))
}

func TestDiscover_ThermostatIsNotRefrigerator(t *testing.T) {
	d := newDevice("t1", "Hall", component("main", "thermostatMode", "thermostatCoolingSetpoint", "thermostatHeatingSetpoint"))
	d.Status = smartthings.Status{}
	entities := discover(t, newHub(d))

	assert.Contains(t, entities, "climate.t1_traditional_thermostat")
	assert.NotContains(t, entities, "climate.t1_thermostat")
}

func TestDiscover_LightOnlyFromMainComponent(t *testing.T) {
	d := newDevice("l1", "Strip",
		component("main", "switch"),
		component("accent", "switchLevel"),
	)
	entities := discover(t, newHub(d))

	assert.NotContains(t, entities, "light.smartthingsce_l1_light")
	assert.Contains(t, entities, "switch.smartthingsce_l1_switch")
}

func TestDiscover_VerticalKeywords(t *testing.T) {
	plant := newDevice("p1", "Garden Sensor", component("main", "temperatureMeasurement", "illuminanceMeasurement"))
	pool := newDevice("pool", "Backyard", component("main", "temperatureMeasurement", "thermostatHeatingSetpoint", "switch"))
	pool.DeviceTypeName = "Pool Controller"
	entities := discover(t, newHub(plant, pool))

	assert.Contains(t, entities, "sensor.smartthingsce_p1_plant_temperature")
	assert.Contains(t, entities, "sensor.smartthingsce_p1_plant_light")
	assert.Contains(t, entities, "climate.smartthingsce_pool_pool_heater")
	assert.Contains(t, entities, "sensor.smartthingsce_pool_pool_temperature")
}

func TestRefrigerator_SetTemperatureThenRefresh(t *testing.T) {
	d := newDevice("fridge", "Fridge", component("main", "thermostatCoolingSetpoint"))
	d.Status = status("main", "thermostatCoolingSetpoint", "coolingSetpoint", 3.0)
	hub := newHub(d)
	hub.RefreshFunc = func(h *fakeHub) error {
		h.setStatus("fridge", status("main", "thermostatCoolingSetpoint", "coolingSetpoint", 4.0))
		return nil
	}
	climate := actionable(t, discover(t, hub), "climate.fridge_thermostat")

	res := climate.Handle(context.Background(), Action{Name: ActionSetTemperature, Params: map[string]any{"temperature": 4.0}})

	require.True(t, res.OK)
	assert.Equal(t, []smartthings.Command{smartthings.NewCommand("thermostatCoolingSetpoint", "setCoolingSetpoint", 4)}, hub.commands)
	assert.Equal(t, 4.0, climate.State().Attributes["temperature"])
}
