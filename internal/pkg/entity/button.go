package entity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/anicoll/smartthings-integration/internal/pkg/capability"
	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

const ActionPress = "press"

// ButtonCount reads numberOfButtons, then the number of supported values,
// defaulting to one.
func ButtonCount(device smartthings.Device, capabilityID string) int {
	component := capability.FindComponent(device, capabilityID)
	if component == "" {
		return 1
	}
	if v, ok := capability.ComponentValue(device, component, capabilityID, "numberOfButtons"); ok {
		if n, ok := capability.Int(v); ok && n > 0 {
			return n
		}
	}
	if v, ok := capability.ComponentValue(device, component, capabilityID, "supportedButtonValues"); ok {
		if list, ok := v.([]any); ok && len(list) > 0 {
			return len(list)
		}
	}
	return 1
}

type button struct {
	base
	capability string
	number     int

	mu          sync.Mutex
	lastPressed time.Time
}

func (b *button) Meta() Meta {
	m := b.base.Meta()
	m.DeviceClass = "identify"
	return m
}

func (b *button) Name() string {
	device := b.device()
	if ButtonCount(device, b.capability) == 1 {
		return b.name
	}
	return fmt.Sprintf("%s Button %d", b.name, b.number)
}

func (b *button) State() State {
	device := b.device()
	attrs := map[string]any{}
	if component := capability.FindComponent(device, b.capability); component != "" {
		if v, ok := capability.ComponentValue(device, component, b.capability, "button"); ok {
			if last, ok := v.(map[string]any); ok {
				attrs["last_pressed_button"] = last["buttonNumber"]
				attrs["last_pressed_action"] = last["action"]
			}
		}
		if v, ok := capability.ComponentValue(device, component, b.capability, "supportedButtonValues"); ok {
			attrs["supported_actions"] = v
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lastPressed.IsZero() {
		return State{Attributes: attrs}
	}
	return State{Value: b.lastPressed.Format(time.RFC3339), Attributes: attrs}
}

func (b *button) Actions() []string {
	return []string{ActionPress}
}

func (b *button) Handle(ctx context.Context, action Action) Result {
	if action.Name != ActionPress {
		return unsupported(action.Name)
	}
	b.mu.Lock()
	b.lastPressed = time.Now().UTC()
	b.mu.Unlock()
	return b.send(ctx, smartthings.NewCommand(b.capability, "push", b.number))
}

func buttonRule() Rule {
	return Rule{
		Name:         "button",
		Domain:       DomainButton,
		Capabilities: []string{"button", "holdableButton"},
		Scope:        ScopeMain,
		Build: func(deps Deps, device smartthings.Device, caps []string) []Entity {
			id, prefix, icon := "button", "button", "mdi:gesture-tap-button"
			if !capability.Has(caps, "button") {
				id, prefix, icon = "holdableButton", "holdable_button", "mdi:gesture-tap-hold"
			}
			count := ButtonCount(device, id)
			out := make([]Entity, 0, count)
			for n := 1; n <= count; n++ {
				out = append(out, &button{
					base:       newBase(deps, device, DomainButton, uid(device.DeviceID, fmt.Sprintf("%s_%d", prefix, n)), device.DisplayName(), icon),
					capability: id,
					number:     n,
				})
			}
			return out
		},
	}
}
