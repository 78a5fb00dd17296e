package entity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

func TestLightColorMode(t *testing.T) {
	assert.Equal(t, ColorModeHS, LightColorMode([]string{"switch", "switchLevel", "colorControl", "colorTemperature"}))
	assert.Equal(t, ColorModeColorTemp, LightColorMode([]string{"switchLevel", "colorTemperature"}))
	assert.Equal(t, ColorModeBrightness, LightColorMode([]string{"switchLevel"}))
	assert.Equal(t, ColorModeOnOff, LightColorMode([]string{"switch"}))
}

func TestLight_State(t *testing.T) {
	d := newDevice("l1", "Bulb", component("main", "switch", "switchLevel", "colorControl", "colorTemperature"))
	d.Status = merge(
		status("main", "switch", "switch", "on"),
		status("main", "switchLevel", "level", 100),
		status("main", "colorControl", "hue", 50.0),
		status("main", "colorControl", "saturation", 80.0),
		status("main", "colorTemperature", "colorTemperature", 4000),
	)
	e := discover(t, newHub(d))["light.smartthingsce_l1_light"]
	require.NotNil(t, e)

	st := e.State()
	assert.Equal(t, "on", st.Value)
	assert.Equal(t, 255, st.Attributes["brightness"])
	assert.Equal(t, []float64{180, 80}, st.Attributes["hs_color"])
	assert.Equal(t, 4000, st.Attributes["color_temp_kelvin"])
	assert.Equal(t, 250, st.Attributes["color_temp"])
	assert.Equal(t, "hs", st.Attributes["color_mode"])
}

func TestLight_TurnOnWithParams(t *testing.T) {
	d := newDevice("l1", "Bulb", component("main", "switch", "switchLevel", "colorControl"))
	d.Status = status("main", "switch", "switch", "off")
	hub := newHub(d)
	e := actionable(t, discover(t, hub), "light.smartthingsce_l1_light")

	res := e.Handle(context.Background(), Action{Name: ActionTurnOn, Params: map[string]any{
		"brightness": 128.0,
		"hs_color":   []any{90.0, 40.0},
	}})

	require.True(t, res.OK)
	assert.Equal(t, []smartthings.Command{
		smartthings.NewCommand("switch", "on"),
		smartthings.NewCommand("switchLevel", "setLevel", 50),
		smartthings.NewCommand("colorControl", "setColor", map[string]any{"hue": 25, "saturation": 40}),
	}, hub.commands)
	assert.Equal(t, 1, hub.refreshes)
}
