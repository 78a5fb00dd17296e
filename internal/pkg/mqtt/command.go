package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	paho_mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/anicoll/smartthings-integration/internal/pkg/entity"
)

const commandTimeout = 30 * time.Second

var (
	errUnknownTopic   = errors.New("unknown command topic")
	errUnknownCommand = errors.New("unknown command payload")
)

// plainCommands maps bare payloads to actions.
var plainCommands = map[string]string{
	"ON":             entity.ActionTurnOn,
	"OFF":            entity.ActionTurnOff,
	"TOGGLE":         entity.ActionToggle,
	"LOCK":           entity.ActionLock,
	"UNLOCK":         entity.ActionUnlock,
	"OPEN":           entity.ActionOpen,
	"CLOSE":          entity.ActionClose,
	"STOP":           entity.ActionStop,
	"PRESS":          entity.ActionPress,
	"START":          entity.ActionStart,
	"PAUSE":          entity.ActionPause,
	"RETURN_TO_BASE": entity.ActionReturnToBase,
	"PLAY":           entity.ActionMediaPlay,
}

// subtopicParams names the parameter a raw payload on <slug>/set/<action>
// carries.
var subtopicParams = map[string]string{
	entity.ActionTurnOn:         "brightness",
	entity.ActionSetTemperature: "temperature",
	entity.ActionSetHVACMode:    "hvac_mode",
	entity.ActionSetFanMode:     "fan_mode",
	entity.ActionSetPercentage:  "percentage",
	entity.ActionSetPosition:    "position",
	entity.ActionVolumeSet:      "volume_level",
	entity.ActionVolumeMute:     "is_volume_muted",
	entity.ActionSelectSource:   "source",
}

func (s *service) onCommand(_ paho_mqtt.Client, msg paho_mqtt.Message) {
	uniqueID, action, err := s.parseCommand(msg.Topic(), msg.Payload())
	if err != nil {
		s.logger.Warn("ignoring mqtt command", zap.String("topic", msg.Topic()), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	res, err := s.dispatcher.Dispatch(ctx, uniqueID, action)
	if err != nil {
		s.logger.Warn("mqtt command failed", zap.String("unique_id", uniqueID), zap.String("action", action.Name), zap.Error(err))
		return
	}
	if !res.OK {
		s.logger.Warn("mqtt command rejected", zap.String("unique_id", uniqueID), zap.String("action", action.Name), zap.String("reason", res.Reason))
		return
	}
	s.logger.Debug("mqtt command handled", zap.String("unique_id", uniqueID), zap.String("action", action.Name), zap.String("reason", res.Reason))
}

// parseCommand resolves <root>/<slug>/set[/<action>] and its payload.
func (s *service) parseCommand(topic string, payload []byte) (string, entity.Action, error) {
	rest, ok := strings.CutPrefix(topic, s.cfg.Root+"/")
	if !ok {
		return "", entity.Action{}, errUnknownTopic
	}
	parts := strings.Split(rest, "/")
	if len(parts) < 2 || len(parts) > 3 || parts[1] != "set" {
		return "", entity.Action{}, errUnknownTopic
	}

	s.mu.RLock()
	uniqueID, ok := s.slugs[parts[0]]
	s.mu.RUnlock()
	if !ok {
		return "", entity.Action{}, fmt.Errorf("%w: %s", errUnknownTopic, parts[0])
	}

	if len(parts) == 3 {
		return uniqueID, subtopicAction(parts[2], payload), nil
	}
	action, err := decodeAction(payload)
	return uniqueID, action, err
}

func subtopicAction(name string, payload []byte) entity.Action {
	action := entity.Action{Name: name, Params: map[string]any{}}
	param, ok := subtopicParams[name]
	if !ok || len(payload) == 0 {
		return action
	}
	var v any
	if err := json.Unmarshal(payload, &v); err != nil {
		v = strings.TrimSpace(string(payload))
	}
	action.Params[param] = v
	return action
}

// decodeAction accepts {"action": "...", ...params} or a plain word.
func decodeAction(payload []byte) (entity.Action, error) {
	trimmed := strings.TrimSpace(string(payload))
	if strings.HasPrefix(trimmed, "{") {
		var body map[string]any
		if err := json.Unmarshal([]byte(trimmed), &body); err != nil {
			return entity.Action{}, fmt.Errorf("decode command: %w", err)
		}
		name, _ := body["action"].(string)
		if name == "" {
			return entity.Action{}, fmt.Errorf("%w: missing action", errUnknownCommand)
		}
		delete(body, "action")
		if nested, ok := body["params"].(map[string]any); ok {
			body = nested
		}
		return entity.Action{Name: name, Params: body}, nil
	}
	name, ok := plainCommands[strings.ToUpper(trimmed)]
	if !ok {
		return entity.Action{}, fmt.Errorf("%w: %q", errUnknownCommand, trimmed)
	}
	return entity.Action{Name: name, Params: map[string]any{}}, nil
}
