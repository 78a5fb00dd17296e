package entity

import (
	"fmt"
	"strings"

	"github.com/anicoll/smartthings-integration/internal/pkg/capability"
)

func paramFloat(params map[string]any, key string) (float64, bool) {
	v, ok := params[key]
	if !ok {
		return 0, false
	}
	return capability.Float(v)
}

func paramString(params map[string]any, key string) (string, bool) {
	v, ok := params[key]
	if !ok || v == nil {
		return "", false
	}
	s := capability.String(v)
	return s, s != ""
}

func paramBool(params map[string]any, key string) (bool, bool) {
	switch v := params[key].(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(v) {
		case "true", "on", "1", "yes":
			return true, true
		case "false", "off", "0", "no":
			return false, true
		}
	}
	return false, false
}

// paramPair reads a two element numeric list such as hs_color.
func paramPair(params map[string]any, key string) (float64, float64, bool) {
	list, ok := params[key].([]any)
	if !ok || len(list) != 2 {
		return 0, 0, false
	}
	a, okA := capability.Float(list[0])
	b, okB := capability.Float(list[1])
	return a, b, okA && okB
}

func missingParam(key string) Result {
	return failed(fmt.Errorf("%w: %s is required", ErrInvalidParam, key))
}
