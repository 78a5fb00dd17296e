package entity

import (
	"go.uber.org/zap"

	"github.com/anicoll/smartthings-integration/internal/pkg/capability"
	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

// Scope selects which components' capabilities a rule matches against.
type Scope int

const (
	ScopeMain Scope = iota
	ScopeAll
)

func (s Scope) String() string {
	if s == ScopeAll {
		return "all"
	}
	return "main"
}

// Rule maps a capability signature to the entities built for it.
type Rule struct {
	Name         string
	Domain       Domain
	Capabilities []string
	Scope        Scope
	// Match overrides the default any-of capability test.
	Match func(device smartthings.Device, caps []string) bool
	Build func(deps Deps, device smartthings.Device, caps []string) []Entity
}

func (r Rule) matches(device smartthings.Device, caps []string) bool {
	if r.Match != nil {
		return r.Match(device, caps)
	}
	return capability.HasAny(caps, r.Capabilities...)
}

type Registry struct {
	deps   Deps
	rules  []Rule
	logger *zap.Logger
}

// NewRegistry builds a registry over rules, or DefaultRules when none are given.
func NewRegistry(deps Deps, rules ...Rule) *Registry {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	if deps.Images == nil {
		deps.Images = NewHTTPImageFetcher()
	}
	return &Registry{deps: deps, rules: rules, logger: zap.L()}
}

func (r *Registry) Rules() []Rule {
	return r.rules
}

// Discover builds every entity for devices. Entities are keyed by domain and
// unique id; the first one built for a key wins.
func (r *Registry) Discover(devices []smartthings.Device) []Entity {
	seen := map[string]struct{}{}
	out := []Entity{}
	for _, device := range devices {
		main := capability.Capabilities(device, smartthings.MainComponent)
		all := capability.AllCapabilities(device)
		for _, rule := range r.rules {
			caps := main
			if rule.Scope == ScopeAll {
				caps = all
			}
			if !rule.matches(device, caps) {
				continue
			}
			for _, e := range rule.Build(r.deps, device, caps) {
				key := Key(e)
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}
				out = append(out, e)
			}
		}
	}
	r.logger.Info("discovered entities", zap.Int("devices", len(devices)), zap.Int("entities", len(out)))
	return out
}

// Key identifies an entity across domains.
func Key(e Entity) string {
	return e.Domain().String() + "." + e.UniqueID()
}

// DefaultRules is the full platform table.
func DefaultRules() []Rule {
	rules := []Rule{}
	rules = append(rules, sensorRules()...)
	rules = append(rules, binarySensorRules()...)
	rules = append(rules, switchRules()...)
	rules = append(rules,
		lightRule(),
		climateRule(),
		thermostatRule(),
		coverRule(),
		fanRule(),
		lockRule(),
		valveRule(),
		sirenRule(),
		cameraRule(),
		mediaPlayerRule(),
		vacuumRule(),
		buttonRule(),
		airQualityRule(),
		energyRule(),
		petCareRule(),
		plantRule(),
		solarRule(),
		poolRule(),
	)
	return rules
}
