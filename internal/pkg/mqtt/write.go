package mqtt

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gosimple/slug"

	"github.com/anicoll/smartthings-integration/internal/pkg/model"
)

type statePayload struct {
	State      any            `json:"state"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

func (s *service) RegisterDevice(_ context.Context, device model.Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices[device.ID] = device
	return nil
}

// RegisterEntity publishes the retained Home Assistant discovery config.
func (s *service) RegisterEntity(_ context.Context, e model.Entity) error {
	objectID := slug.Make(e.UniqueID)

	s.mu.Lock()
	device, ok := s.devices[e.DeviceID]
	s.entities[e.UniqueID] = e
	s.slugs[objectID] = e.UniqueID
	s.mu.Unlock()
	if !ok {
		device = model.Device{ID: e.DeviceID, Identifier: e.DeviceID, Name: e.Name}
	}

	component, msg := s.discovery(e, device, objectID)
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	topic := fmt.Sprintf("%s/%s/%s/config", s.cfg.DiscoveryPrefix, component, objectID)
	return s.publish(topic, 1, true, payload)
}

// Write publishes state and availability for each changed entity.
func (s *service) Write(_ context.Context, states model.EntityStates) error {
	for _, st := range states {
		objectID := slug.Make(st.UniqueID)
		payload, err := json.Marshal(statePayload{State: stateValue(st.Value), Attributes: st.Attributes})
		if err != nil {
			return fmt.Errorf("encode state %s: %w", st.UniqueID, err)
		}
		if err := s.publish(s.stateTopic(objectID), 0, true, payload); err != nil {
			return err
		}
		availability := payloadOffline
		if st.Available {
			availability = payloadOnline
		}
		if err := s.publish(s.availabilityTopic(objectID), 0, true, []byte(availability)); err != nil {
			return err
		}
	}
	return nil
}

// stateValue renders unknown values as None so Home Assistant shows unknown.
func stateValue(v any) any {
	if v == nil {
		return "None"
	}
	return v
}
