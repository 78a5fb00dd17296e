package entity

import (
	"context"
	"fmt"

	"github.com/anicoll/smartthings-integration/internal/pkg/capability"
	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

const (
	ActionMediaPlay     = "media_play"
	ActionMediaPause    = "media_pause"
	ActionMediaStop     = "media_stop"
	ActionPreviousTrack = "media_previous_track"
	ActionNextTrack     = "media_next_track"
	ActionVolumeSet     = "volume_set"
	ActionVolumeUp      = "volume_up"
	ActionVolumeDown    = "volume_down"
	ActionVolumeMute    = "volume_mute"
	ActionSelectSource  = "select_source"
)

type mediaPlayer struct {
	base
	caps []string
}

func (m *mediaPlayer) state(device smartthings.Device) string {
	if v, ok := capability.Value(device, "switch", "switch"); ok && v == "off" {
		return "off"
	}
	v, _ := capability.Value(device, "mediaPlayback", "playbackStatus")
	switch v {
	case "playing":
		return "playing"
	case "paused":
		return "paused"
	case "stopped":
		return "idle"
	}
	return "on"
}

func (m *mediaPlayer) features() []string {
	features := []string{}
	if capability.Has(m.caps, "mediaPlayback") {
		features = append(features, "play", "pause", "stop", "previous_track", "next_track")
	}
	if capability.Has(m.caps, "audioVolume") {
		features = append(features, "volume_set", "volume_step", "volume_mute")
	}
	if capability.Has(m.caps, "switch") {
		features = append(features, "turn_on", "turn_off")
	}
	if capability.Has(m.caps, "mediaInputSource") {
		features = append(features, "select_source")
	}
	return features
}

func (m *mediaPlayer) State() State {
	device := m.device()
	attrs := map[string]any{
		"supported_features_list": m.features(),
		"media_content_type":      "video",
	}
	volume, hasVolume := capability.FloatValue(device, "audioVolume", "volume")
	if hasVolume {
		attrs["volume_level"] = volume / 100
	}
	if v, ok := capability.Value(device, "audioMute", "mute"); ok {
		attrs["is_volume_muted"] = v == "muted"
	} else if hasVolume {
		attrs["is_volume_muted"] = volume == 0
	}
	if v, ok := capability.Value(device, "mediaInputSource", "inputSource"); ok {
		attrs["source"] = v
	} else if v, ok := capability.Value(device, "tvChannel", "tvChannel"); ok && v != "" {
		attrs["source"] = fmt.Sprintf("Channel %s", capability.String(v))
	}
	if v, ok := capability.Value(device, "mediaInputSource", "supportedInputSources"); ok {
		attrs["source_list"] = v
	}
	return State{Value: m.state(device), Attributes: attrs}
}

func (m *mediaPlayer) Actions() []string {
	return []string{
		ActionTurnOn, ActionTurnOff,
		ActionMediaPlay, ActionMediaPause, ActionMediaStop, ActionPreviousTrack, ActionNextTrack,
		ActionVolumeSet, ActionVolumeUp, ActionVolumeDown, ActionVolumeMute,
		ActionSelectSource,
	}
}

func (m *mediaPlayer) Handle(ctx context.Context, action Action) Result {
	switch action.Name {
	case ActionTurnOn:
		return m.send(ctx, smartthings.NewCommand("switch", "on"))
	case ActionTurnOff:
		return m.send(ctx, smartthings.NewCommand("switch", "off"))
	case ActionMediaPlay:
		return m.send(ctx, smartthings.NewCommand("mediaPlayback", "play"))
	case ActionMediaPause:
		return m.send(ctx, smartthings.NewCommand("mediaPlayback", "pause"))
	case ActionMediaStop:
		return m.send(ctx, smartthings.NewCommand("mediaPlayback", "stop"))
	case ActionPreviousTrack:
		return m.send(ctx, smartthings.NewCommand("mediaPlayback", "rewind"))
	case ActionNextTrack:
		return m.send(ctx, smartthings.NewCommand("mediaPlayback", "fastForward"))
	case ActionVolumeSet:
		level, ok := paramFloat(action.Params, "volume_level")
		if !ok {
			return missingParam("volume_level")
		}
		return m.send(ctx, smartthings.NewCommand("audioVolume", "setVolume", int(level*100)))
	case ActionVolumeUp:
		return m.send(ctx, smartthings.NewCommand("audioVolume", "volumeUp"))
	case ActionVolumeDown:
		return m.send(ctx, smartthings.NewCommand("audioVolume", "volumeDown"))
	case ActionVolumeMute:
		mute, ok := paramBool(action.Params, "is_volume_muted")
		if !ok {
			return missingParam("is_volume_muted")
		}
		if mute {
			return m.send(ctx, smartthings.NewCommand("audioMute", "mute"))
		}
		return m.send(ctx, smartthings.NewCommand("audioMute", "unmute"))
	case ActionSelectSource:
		source, ok := paramString(action.Params, "source")
		if !ok {
			return missingParam("source")
		}
		return m.send(ctx, smartthings.NewCommand("mediaInputSource", "setInputSource", source))
	}
	return unsupported(action.Name)
}

func mediaPlayerRule() Rule {
	return Rule{
		Name:         "media_player",
		Domain:       DomainMediaPlayer,
		Capabilities: []string{"mediaPlayback", "audioVolume", "tvChannel", "mediaInputSource"},
		Scope:        ScopeMain,
		Build: func(deps Deps, device smartthings.Device, caps []string) []Entity {
			return []Entity{&mediaPlayer{
				base: newBase(deps, device, DomainMediaPlayer, uid(device.DeviceID, "media_player"), device.DisplayName(), "mdi:television"),
				caps: caps,
			}}
		},
	}
}
