// Package model holds the records exchanged between the publisher and its
// sinks (MQTT discovery, state history).
package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Device is the physical device entities are grouped under.
type Device struct {
	ID           string `json:"id"`
	Identifier   string `json:"identifier"`
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model,omitempty"`
	SWVersion    string `json:"sw_version,omitempty"`
	HWVersion    string `json:"hw_version,omitempty"`
	RoomID       string `json:"room_id,omitempty"`
}

type Entity struct {
	UniqueID       string   `json:"unique_id"`
	DeviceID       string   `json:"device_id"`
	Domain         string   `json:"domain"`
	Name           string   `json:"name"`
	Icon           string   `json:"icon,omitempty"`
	Unit           string   `json:"unit_of_measurement,omitempty"`
	DeviceClass    string   `json:"device_class,omitempty"`
	StateClass     string   `json:"state_class,omitempty"`
	EntityCategory string   `json:"entity_category,omitempty"`
	Options        []string `json:"options,omitempty"`
	// Actions is empty for read-only entities.
	Actions []string `json:"actions,omitempty"`
}

func (e Entity) Commandable() bool {
	return len(e.Actions) > 0
}

// EntityState is one observation of an entity.
type EntityState struct {
	ID         int64          `json:"id,omitempty"`
	TimeStamp  time.Time      `json:"timestamp"`
	UniqueID   string         `json:"unique_id"`
	DeviceID   string         `json:"device_id"`
	Domain     string         `json:"domain"`
	Value      any            `json:"state"`
	Unit       string         `json:"unit_of_measurement,omitempty"`
	Available  bool           `json:"available"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

type EntityStates []EntityState

// Unknown is how a missing value is rendered.
const Unknown = "unknown"

// FormatValue renders a state value as text. Nil reads as unknown.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return Unknown
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case fmt.Stringer:
		return t.String()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
