package capability

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

// Value returns the first non-nil value of capability.attribute across all
// components in ComponentOrder.
func Value(device smartthings.Device, capability, attribute string) (any, bool) {
	for _, component := range ComponentOrder(device) {
		if v, ok := ComponentValue(device, component, capability, attribute); ok {
			return v, true
		}
	}
	return nil, false
}

// FirstValue tries each attribute in turn and returns the first one present.
func FirstValue(device smartthings.Device, capability string, attributes ...string) (any, bool) {
	for _, component := range ComponentOrder(device) {
		for _, attr := range attributes {
			if v, ok := ComponentValue(device, component, capability, attr); ok {
				return v, true
			}
		}
	}
	return nil, false
}

// MainValue reads only the main component.
func MainValue(device smartthings.Device, capability, attribute string) (any, bool) {
	return ComponentValue(device, smartthings.MainComponent, capability, attribute)
}

func ComponentValue(device smartthings.Device, component, capability, attribute string) (any, bool) {
	caps, ok := device.Status[component]
	if !ok {
		return nil, false
	}
	attrs, ok := caps[capability]
	if !ok {
		return nil, false
	}
	state, ok := attrs[attribute]
	if !ok || state.Value == nil {
		return nil, false
	}
	return state.Value, true
}

// HasStatus reports whether any component's status carries capability.
func HasStatus(device smartthings.Device, capability string) bool {
	return FindComponent(device, capability) != ""
}

// FindComponent returns the first component whose status carries capability,
// or an empty string.
func FindComponent(device smartthings.Device, capability string) string {
	for _, component := range ComponentOrder(device) {
		if _, ok := device.Status[component][capability]; ok {
			return component
		}
	}
	return ""
}

// ComponentFor is FindComponent defaulting to main.
func ComponentFor(device smartthings.Device, capability string) string {
	if c := FindComponent(device, capability); c != "" {
		return c
	}
	return smartthings.MainComponent
}

// Disabled reports whether capability is listed in the main component's
// custom.disabledCapabilities attribute.
func Disabled(device smartthings.Device, capability string) bool {
	v, ok := MainValue(device, "custom.disabledCapabilities", "disabledCapabilities")
	if !ok {
		return false
	}
	list, ok := v.([]any)
	if !ok {
		return false
	}
	for _, item := range list {
		if s, ok := item.(string); ok && s == capability {
			return true
		}
	}
	return false
}

// Float coerces numbers and numeric strings.
func Float(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Int truncates like a numeric cast.
func Int(v any) (int, bool) {
	f, ok := Float(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// String renders any value as text. nil becomes an empty string.
func String(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	}
	return fmt.Sprint(v)
}

// FloatValue is Value followed by Float.
func FloatValue(device smartthings.Device, capability, attribute string) (float64, bool) {
	v, ok := Value(device, capability, attribute)
	if !ok {
		return 0, false
	}
	return Float(v)
}

// StringValue is Value followed by String.
func StringValue(device smartthings.Device, capability, attribute string) (string, bool) {
	v, ok := Value(device, capability, attribute)
	if !ok {
		return "", false
	}
	return String(v), true
}
