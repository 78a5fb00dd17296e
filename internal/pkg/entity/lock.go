package entity

import (
	"context"

	"github.com/anicoll/smartthings-integration/internal/pkg/capability"
	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

const (
	ActionLock   = "lock"
	ActionUnlock = "unlock"
)

type lock struct {
	base
}

func (l *lock) State() State {
	v, ok := capability.MainValue(l.device(), "lock", "lock")
	if !ok {
		return State{}
	}
	// HA reports lock states by name; anything but locked reads as unlocked.
	if v == "locked" {
		return State{Value: "locked"}
	}
	return State{Value: "unlocked"}
}

func (l *lock) Actions() []string {
	return []string{ActionLock, ActionUnlock}
}

func (l *lock) Handle(ctx context.Context, action Action) Result {
	switch action.Name {
	case ActionLock:
		return l.send(ctx, smartthings.NewCommand("lock", "lock"))
	case ActionUnlock:
		return l.send(ctx, smartthings.NewCommand("lock", "unlock"))
	}
	return unsupported(action.Name)
}

func lockRule() Rule {
	return Rule{
		Name:         "lock",
		Domain:       DomainLock,
		Capabilities: []string{"lock"},
		Scope:        ScopeAll,
		Build: func(deps Deps, device smartthings.Device, _ []string) []Entity {
			return []Entity{&lock{
				base: newBase(deps, device, DomainLock, uid(device.DeviceID, "lock"), device.DisplayName(), "mdi:lock"),
			}}
		},
	}
}
