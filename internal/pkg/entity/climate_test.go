package entity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

func thermostatDevice(mode string) smartthings.Device {
	d := newDevice("t1", "Hall", component("main",
		"thermostatMode", "thermostatHeatingSetpoint", "thermostatCoolingSetpoint",
		"thermostatOperatingState", "thermostatFanMode", "temperatureMeasurement"))
	d.Status = merge(
		status("main", "thermostatMode", "thermostatMode", mode),
		status("main", "thermostatMode", "supportedThermostatModes", []any{"off", "heat", "emergencyHeat", "cool", "auto"}),
		status("main", "thermostatHeatingSetpoint", "heatingSetpoint", 19.0),
		status("main", "thermostatCoolingSetpoint", "coolingSetpoint", 25.0),
		status("main", "thermostatOperatingState", "thermostatOperatingState", "fan only"),
		status("main", "thermostatFanMode", "thermostatFanMode", "circulate"),
		status("main", "temperatureMeasurement", "temperature", 21.0),
	)
	return d
}

func TestThermostat_State(t *testing.T) {
	tests := []struct {
		mode       string
		wantMode   string
		wantTarget any
	}{
		{mode: "heat", wantMode: HVACHeat, wantTarget: 19.0},
		{mode: "emergencyHeat", wantMode: HVACHeat, wantTarget: 19.0},
		{mode: "cool", wantMode: HVACCool, wantTarget: 25.0},
		{mode: "auto", wantMode: HVACAuto, wantTarget: 22.0},
		{mode: "off", wantMode: HVACOff, wantTarget: nil},
		{mode: "rush hour", wantMode: HVACOff, wantTarget: nil},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			e := discover(t, newHub(thermostatDevice(tt.mode)))["climate.t1_traditional_thermostat"]
			require.NotNil(t, e)

			st := e.State()
			assert.Equal(t, tt.wantMode, st.Value)
			assert.Equal(t, tt.wantTarget, st.Attributes["temperature"])
			assert.Equal(t, "fan", st.Attributes["hvac_action"])
			assert.Equal(t, "circulate", st.Attributes["fan_mode"])
			assert.Equal(t, []string{HVACOff, HVACHeat, HVACHeat, HVACCool, HVACAuto}, st.Attributes["hvac_modes"])
			assert.Equal(t, []string{"target_temperature", "target_temperature_range", "fan_mode"}, st.Attributes["supported_features_list"])
		})
	}
}

func TestThermostat_SetHVACMode(t *testing.T) {
	hub := newHub(thermostatDevice("off"))
	e := actionable(t, discover(t, hub), "climate.t1_traditional_thermostat")

	res := e.Handle(context.Background(), Action{Name: ActionSetHVACMode, Params: map[string]any{"hvac_mode": HVACHeat}})
	require.True(t, res.OK)

	res = e.Handle(context.Background(), Action{Name: ActionSetHVACMode, Params: map[string]any{"hvac_mode": "heat_cool"}})
	assert.True(t, res.OK)
	assert.NotEmpty(t, res.Reason)

	assert.Equal(t, []smartthings.Command{smartthings.NewCommand("thermostatMode", "setThermostatMode", "heat")}, hub.commands)
	assert.Equal(t, 1, hub.refreshes)
}

func TestThermostat_SetTemperature(t *testing.T) {
	t.Run("range sets both setpoints", func(t *testing.T) {
		hub := newHub(thermostatDevice("auto"))
		e := actionable(t, discover(t, hub), "climate.t1_traditional_thermostat")

		res := e.Handle(context.Background(), Action{Name: ActionSetTemperature, Params: map[string]any{
			"target_temp_low":  18.0,
			"target_temp_high": 24.5,
		}})

		require.True(t, res.OK)
		assert.Equal(t, []smartthings.Command{
			smartthings.NewCommand("thermostatHeatingSetpoint", "setHeatingSetpoint", 18),
			smartthings.NewCommand("thermostatCoolingSetpoint", "setCoolingSetpoint", 24),
		}, hub.commands)
		assert.Equal(t, 1, hub.refreshes)
	})

	t.Run("single temperature follows mode", func(t *testing.T) {
		hub := newHub(thermostatDevice("cool"))
		e := actionable(t, discover(t, hub), "climate.t1_traditional_thermostat")

		res := e.Handle(context.Background(), Action{Name: ActionSetTemperature, Params: map[string]any{"temperature": 23.0}})

		require.True(t, res.OK)
		assert.Equal(t, []smartthings.Command{smartthings.NewCommand("thermostatCoolingSetpoint", "setCoolingSetpoint", 23)}, hub.commands)
	})

	t.Run("single temperature in auto is rejected", func(t *testing.T) {
		hub := newHub(thermostatDevice("auto"))
		e := actionable(t, discover(t, hub), "climate.t1_traditional_thermostat")

		res := e.Handle(context.Background(), Action{Name: ActionSetTemperature, Params: map[string]any{"temperature": 23.0}})

		assert.False(t, res.OK)
		assert.ErrorIs(t, res.Err, ErrInvalidParam)
		assert.Empty(t, hub.commands)
	})
}

func TestRefrigeratorClimate_Range(t *testing.T) {
	d := newDevice("f1", "Fridge", component("main"), component("cooler", "thermostatCoolingSetpoint"))
	d.Components[0].Capabilities = []smartthings.CapabilityRef{{ID: "thermostatCoolingSetpoint"}}
	d.Status = merge(
		status("cooler", "thermostatCoolingSetpoint", "coolingSetpoint", 2.0),
		status("cooler", "thermostatCoolingSetpoint", "coolingSetpointRange", map[string]any{"minimum": 1.0, "maximum": 7.0, "step": 1.0}),
	)
	hub := newHub(d)
	e := actionable(t, discover(t, hub), "climate.f1_thermostat")

	st := e.State()
	assert.Equal(t, HVACCool, st.Value)
	assert.Equal(t, 1.0, st.Attributes["min_temp"])
	assert.Equal(t, 7.0, st.Attributes["max_temp"])
	assert.Equal(t, 2.0, st.Attributes["temperature"])

	res := e.Handle(context.Background(), Action{Name: ActionSetTemperature, Params: map[string]any{"temperature": 5}})
	require.True(t, res.OK)
	require.Len(t, hub.commands, 1)
	assert.Equal(t, "cooler", hub.commands[0].Component)
}

func TestRefrigeratorClimate_DefaultRange(t *testing.T) {
	d := newDevice("f1", "Fridge", component("main", "thermostatCoolingSetpoint"))
	d.Status = smartthings.Status{}
	e := discover(t, newHub(d))["climate.f1_thermostat"]
	require.NotNil(t, e)

	st := e.State()
	assert.Equal(t, -30.0, st.Attributes["min_temp"])
	assert.Equal(t, 10.0, st.Attributes["max_temp"])
	assert.Nil(t, st.Attributes["temperature"])
}

func TestPoolHeater(t *testing.T) {
	d := newDevice("p1", "Spa", component("main", "poolHeater", "switch", "temperatureMeasurement"))
	d.Status = merge(
		status("main", "poolHeater", "heaterStatus", "idle"),
		status("main", "poolHeater", "targetTemperature", 30.0),
		status("main", "switch", "switch", "on"),
	)
	hub := newHub(d)
	e := actionable(t, discover(t, hub), "climate.smartthingsce_p1_pool_heater")

	st := e.State()
	assert.Equal(t, HVACHeat, st.Value)
	assert.Equal(t, 30.0, st.Attributes["temperature"])

	res := e.Handle(context.Background(), Action{Name: ActionSetHVACMode, Params: map[string]any{"hvac_mode": HVACOff}})
	require.True(t, res.OK)
	assert.Equal(t, []smartthings.Command{smartthings.NewCommand("switch", "off")}, hub.commands)
}
