package entity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

func TestValve(t *testing.T) {
	d := newDevice("v1", "Gas Main", component("main", "valve"))
	d.Status = merge(
		status("main", "valve", "valve", "opening"),
		status("main", "valve", "lastActivity", "manual"),
	)
	hub := newHub(d)
	e := actionable(t, discover(t, hub), "valve.smartthingsce_v1_valve")

	st := e.State()
	assert.Equal(t, "opening", st.Value)
	assert.Equal(t, 50, st.Attributes["current_position"])
	assert.Equal(t, "manual", st.Attributes["valve_lastActivity"])
	assert.Equal(t, "gas", e.Meta().DeviceClass)
	assert.Equal(t, "mdi:gas-cylinder", e.Meta().Icon)

	require.True(t, e.Handle(context.Background(), Action{Name: ActionClose}).OK)
	assert.Equal(t, []smartthings.Command{smartthings.NewCommand("valve", "close")}, hub.commands)
}

func TestSiren_Priority(t *testing.T) {
	d := newDevice("s1", "Alarm", component("main", "alarm", "tone", "chime"))
	d.Status = status("main", "alarm", "alarm", "strobe")
	entities := discover(t, newHub(d))

	assert.Contains(t, entities, "siren.smartthingsce_s1_alarm_siren")
	assert.NotContains(t, entities, "siren.smartthingsce_s1_tone_siren")
	assert.Equal(t, "on", entities["siren.smartthingsce_s1_alarm_siren"].State().Value)
}

func TestSiren_ToneSelection(t *testing.T) {
	d := newDevice("s1", "Beeper", component("main", "tone"))
	d.Status = status("main", "tone", "availableTones", []any{"ding", "dong"})
	hub := newHub(d)
	e := actionable(t, discover(t, hub), "siren.smartthingsce_s1_tone_siren")

	require.True(t, e.Handle(context.Background(), Action{Name: ActionTurnOn}).OK)
	require.True(t, e.Handle(context.Background(), Action{Name: ActionTurnOn, Params: map[string]any{"tone": "dong"}}).OK)

	assert.Equal(t, []smartthings.Command{
		smartthings.NewCommand("tone", "beep", "ding"),
		smartthings.NewCommand("tone", "beep", "dong"),
	}, hub.commands)
}

func TestMediaPlayer(t *testing.T) {
	d := newDevice("tv", "Lounge TV", component("main", "switch", "mediaPlayback", "audioVolume", "tvChannel"))
	d.Status = merge(
		status("main", "switch", "switch", "on"),
		status("main", "mediaPlayback", "playbackStatus", "stopped"),
		status("main", "audioVolume", "volume", 0),
		status("main", "tvChannel", "tvChannel", "7"),
	)
	hub := newHub(d)
	e := actionable(t, discover(t, hub), "media_player.smartthingsce_tv_media_player")

	st := e.State()
	assert.Equal(t, "idle", st.Value)
	assert.Equal(t, 0.0, st.Attributes["volume_level"])
	assert.Equal(t, true, st.Attributes["is_volume_muted"])
	assert.Equal(t, "Channel 7", st.Attributes["source"])

	require.True(t, e.Handle(context.Background(), Action{Name: ActionVolumeSet, Params: map[string]any{"volume_level": 0.5}}).OK)
	require.True(t, e.Handle(context.Background(), Action{Name: ActionNextTrack}).OK)
	require.True(t, e.Handle(context.Background(), Action{Name: ActionVolumeMute, Params: map[string]any{"is_volume_muted": true}}).OK)
	assert.Equal(t, []smartthings.Command{
		smartthings.NewCommand("audioVolume", "setVolume", 50),
		smartthings.NewCommand("mediaPlayback", "fastForward"),
		smartthings.NewCommand("audioMute", "mute"),
	}, hub.commands)
}

func TestVacuum(t *testing.T) {
	d := newDevice("r1", "", component("main", "robotCleanerMovement", "battery", "robotCleanerCleaningMode", "robotCleanerTurboMode"))
	d.Status = merge(
		status("main", "robotCleanerMovement", "robotCleanerMovement", "charging"),
		status("main", "battery", "battery", 87.0),
		status("main", "robotCleanerCleaningMode", "robotCleanerCleaningMode", "auto"),
		status("main", "robotCleanerTurboMode", "robotCleanerTurboMode", "on"),
	)
	hub := newHub(d)
	e := actionable(t, discover(t, hub), "vacuum.smartthingsce_r1_vacuum")

	assert.Equal(t, "Robot Vacuum", e.Name())
	st := e.State()
	assert.Equal(t, "docked", st.Value)
	assert.Equal(t, 87, st.Attributes["battery_level"])
	assert.Equal(t, "turbo", st.Attributes["fan_speed"])

	require.True(t, e.Handle(context.Background(), Action{Name: ActionReturnToBase}).OK)
	assert.Equal(t, []smartthings.Command{smartthings.NewCommand("robotCleanerMovement", "setRobotCleanerMovement", "homing")}, hub.commands)
}

func TestButtons(t *testing.T) {
	d := newDevice("b1", "Remote", component("main", "button"))
	d.Status = merge(
		status("main", "button", "numberOfButtons", 2),
		status("main", "button", "button", map[string]any{"buttonNumber": 2.0, "action": "pushed"}),
	)
	hub := newHub(d)
	entities := discover(t, hub)

	first := actionable(t, entities, "button.smartthingsce_b1_button_1")
	second := actionable(t, entities, "button.smartthingsce_b1_button_2")
	assert.Equal(t, "Remote Button 1", first.Name())
	assert.Equal(t, "pushed", second.State().Attributes["last_pressed_action"])
	assert.Nil(t, second.State().Value)

	require.True(t, second.Handle(context.Background(), Action{Name: ActionPress}).OK)
	assert.NotNil(t, second.State().Value)
	assert.Equal(t, []smartthings.Command{smartthings.NewCommand("button", "push", 2)}, hub.commands)
}

func TestHoldableButton_SingleUsesDeviceName(t *testing.T) {
	d := newDevice("b1", "Scene Switch", component("main", "holdableButton"))
	d.Status = smartthings.Status{}
	e := discover(t, newHub(d))["button.smartthingsce_b1_holdable_button_1"]
	require.NotNil(t, e)

	assert.Equal(t, "Scene Switch", e.Name())
	assert.Equal(t, "mdi:gesture-tap-hold", e.Meta().Icon)
}

func TestPetFeeder_FeedSwitch(t *testing.T) {
	d := newDevice("p1", "Feeder", component("main", "petFeederOperatingState", "petFeederFeed"))
	d.Status = status("main", "petFeederOperatingState", "operatingState", "dispensing")
	hub := newHub(d)
	e := actionable(t, discover(t, hub), "switch.smartthingsce_p1_pet_feeder_feed")

	assert.Equal(t, "on", e.State().Value)
	assert.Equal(t, "mdi:bowl", e.Meta().Icon)
	require.True(t, e.Handle(context.Background(), Action{Name: ActionToggle}).OK)
	assert.Equal(t, []smartthings.Command{smartthings.NewCommand("petFeederFeed", "stop")}, hub.commands)
}

func TestPoolPump(t *testing.T) {
	d := newDevice("p1", "Pool", component("main", "poolPump"))
	d.Status = merge(
		status("main", "poolPump", "pumpStatus", "on"),
		status("main", "poolPump", "pumpSpeed", "65"),
	)
	hub := newHub(d)
	entities := discover(t, hub)

	pump := actionable(t, entities, "switch.smartthingsce_p1_pool_pump_control")
	assert.Equal(t, "on", pump.State().Value)
	assert.Equal(t, 65.0, entities["sensor.smartthingsce_p1_pool_pump_speed"].State().Value)

	require.True(t, pump.Handle(context.Background(), Action{Name: ActionTurnOff}).OK)
	assert.Equal(t, []smartthings.Command{smartthings.NewCommand("poolPump", "off")}, hub.commands)
}
