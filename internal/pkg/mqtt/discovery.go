package mqtt

import (
	"slices"

	"github.com/anicoll/smartthings-integration/internal/pkg/entity"
	"github.com/anicoll/smartthings-integration/internal/pkg/model"
)

const (
	valueTemplate      = "{{ value_json.state }}"
	attributesTemplate = "{{ value_json.attributes | tojson }}"
)

type discoveryDevice struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	Model        string   `json:"model,omitempty"`
	SWVersion    string   `json:"sw_version,omitempty"`
	HWVersion    string   `json:"hw_version,omitempty"`
}

type availability struct {
	Topic string `json:"topic"`
}

// Component maps an entity domain to the Home Assistant MQTT component it is
// advertised as. Domains MQTT cannot represent fall back to sensor.
func Component(domain string) string {
	switch entity.Domain(domain) {
	case entity.DomainMediaPlayer, entity.DomainCamera:
		return string(entity.DomainSensor)
	}
	return domain
}

func attributeTemplate(name string) string {
	return "{{ value_json.attributes." + name + " }}"
}

func (s *service) discovery(e model.Entity, d model.Device, objectID string) (string, map[string]any) {
	component := Component(e.Domain)
	stateTopic := s.stateTopic(objectID)
	commandTopic := s.commandTopic(objectID)

	msg := map[string]any{
		"unique_id":                e.UniqueID,
		"object_id":                objectID,
		"name":                     e.Name,
		"state_topic":              stateTopic,
		"json_attributes_topic":    stateTopic,
		"json_attributes_template": attributesTemplate,
		"availability": []availability{
			{Topic: s.statusTopic()},
			{Topic: s.availabilityTopic(objectID)},
		},
		"availability_mode": "all",
		"device": discoveryDevice{
			Identifiers:  []string{d.Identifier},
			Name:         d.Name,
			Manufacturer: d.Manufacturer,
			Model:        d.Model,
			SWVersion:    d.SWVersion,
			HWVersion:    d.HWVersion,
		},
	}
	setIf(msg, "icon", e.Icon)
	setIf(msg, "device_class", e.DeviceClass)
	setIf(msg, "entity_category", e.EntityCategory)

	switch component {
	case string(entity.DomainSensor):
		msg["value_template"] = valueTemplate
		setIf(msg, "unit_of_measurement", e.Unit)
		setIf(msg, "state_class", e.StateClass)
		if len(e.Options) > 0 {
			msg["options"] = e.Options
		}
		// media players and cameras report their own device classes
		if entity.Domain(e.Domain) != entity.DomainSensor {
			delete(msg, "device_class")
		}
	case string(entity.DomainBinarySensor):
		msg["value_template"] = valueTemplate
		msg["payload_on"] = "on"
		msg["payload_off"] = "off"
	case string(entity.DomainSwitch), string(entity.DomainSiren):
		msg["value_template"] = valueTemplate
		msg["command_topic"] = commandTopic
		msg["payload_on"] = "ON"
		msg["payload_off"] = "OFF"
		msg["state_on"] = "on"
		msg["state_off"] = "off"
	case string(entity.DomainLight):
		msg["state_value_template"] = valueTemplate
		msg["command_topic"] = commandTopic
		msg["payload_on"] = "on"
		msg["payload_off"] = "off"
		msg["brightness_state_topic"] = stateTopic
		msg["brightness_value_template"] = attributeTemplate("brightness")
		msg["brightness_command_topic"] = commandTopic + "/" + entity.ActionTurnOn
	case string(entity.DomainFan):
		msg["state_value_template"] = valueTemplate
		msg["command_topic"] = commandTopic
		msg["payload_on"] = "on"
		msg["payload_off"] = "off"
		msg["percentage_state_topic"] = stateTopic
		msg["percentage_value_template"] = attributeTemplate("percentage")
		msg["percentage_command_topic"] = commandTopic + "/" + entity.ActionSetPercentage
	case string(entity.DomainLock):
		msg["value_template"] = valueTemplate
		msg["command_topic"] = commandTopic
		msg["payload_lock"] = "LOCK"
		msg["payload_unlock"] = "UNLOCK"
		msg["state_locked"] = "locked"
		msg["state_unlocked"] = "unlocked"
	case string(entity.DomainCover):
		msg["value_template"] = valueTemplate
		msg["command_topic"] = commandTopic
		msg["payload_open"] = "OPEN"
		msg["payload_close"] = "CLOSE"
		msg["payload_stop"] = "STOP"
		msg["state_open"] = "open"
		msg["state_closed"] = "closed"
		if hasAction(e, entity.ActionSetPosition) {
			msg["position_topic"] = stateTopic
			msg["position_template"] = attributeTemplate("current_position")
			msg["set_position_topic"] = commandTopic + "/" + entity.ActionSetPosition
		}
	case string(entity.DomainValve):
		msg["value_template"] = valueTemplate
		msg["command_topic"] = commandTopic
		msg["payload_open"] = "OPEN"
		msg["payload_close"] = "CLOSE"
		msg["state_open"] = "open"
		msg["state_opening"] = "opening"
		msg["state_closed"] = "closed"
		msg["state_closing"] = "closing"
	case string(entity.DomainButton):
		msg["command_topic"] = commandTopic
		msg["payload_press"] = "PRESS"
		delete(msg, "json_attributes_topic")
		delete(msg, "json_attributes_template")
		delete(msg, "state_topic")
	case string(entity.DomainVacuum):
		msg["command_topic"] = commandTopic
		msg["supported_features"] = []string{"start", "stop", "pause", "return_home", "status", "fan_speed"}
		msg["payload_start"] = "START"
		msg["payload_stop"] = "STOP"
		msg["payload_pause"] = "PAUSE"
		msg["payload_return_to_base"] = "RETURN_TO_BASE"
	case string(entity.DomainClimate):
		msg["mode_state_topic"] = stateTopic
		msg["mode_state_template"] = valueTemplate
		msg["current_temperature_topic"] = stateTopic
		msg["current_temperature_template"] = attributeTemplate("current_temperature")
		msg["temperature_state_topic"] = stateTopic
		msg["temperature_state_template"] = attributeTemplate("temperature")
		msg["temperature_command_topic"] = commandTopic + "/" + entity.ActionSetTemperature
		msg["temperature_unit"] = "C"
		if hasAction(e, entity.ActionSetHVACMode) {
			msg["mode_command_topic"] = commandTopic + "/" + entity.ActionSetHVACMode
		} else {
			msg["modes"] = []string{entity.HVACCool}
		}
		if hasAction(e, entity.ActionSetFanMode) {
			msg["fan_mode_state_topic"] = stateTopic
			msg["fan_mode_state_template"] = attributeTemplate("fan_mode")
			msg["fan_mode_command_topic"] = commandTopic + "/" + entity.ActionSetFanMode
		}
		delete(msg, "state_topic")
		delete(msg, "device_class")
	default:
		msg["value_template"] = valueTemplate
	}
	return component, msg
}

func setIf(msg map[string]any, key, value string) {
	if value != "" {
		msg[key] = value
	}
}

func hasAction(e model.Entity, action string) bool {
	return slices.Contains(e.Actions, action)
}
