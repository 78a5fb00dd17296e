// Package capability resolves which capabilities a device declares and reads
// attribute values out of its cached status.
package capability

import (
	"slices"

	"github.com/samber/lo"

	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

// Capabilities returns the capability ids declared on componentID, or on the
// main component when componentID is empty. Unknown components yield an empty list.
func Capabilities(device smartthings.Device, componentID string) []string {
	if componentID == "" {
		componentID = smartthings.MainComponent
	}
	for _, c := range device.Components {
		if c.ID != componentID {
			continue
		}
		return lo.FilterMap(c.Capabilities, func(ref smartthings.CapabilityRef, _ int) (string, bool) {
			return ref.ID, ref.ID != ""
		})
	}
	return []string{}
}

// AllCapabilities flattens the capabilities of every component in declared
// order, keeping the first occurrence of duplicates.
func AllCapabilities(device smartthings.Device) []string {
	all := []string{}
	for _, c := range device.Components {
		all = append(all, Capabilities(device, c.ID)...)
	}
	return lo.Uniq(all)
}

func Has(caps []string, id string) bool {
	return lo.Contains(caps, id)
}

func HasAny(caps []string, ids ...string) bool {
	return lo.Some(caps, ids)
}

// ComponentOrder is the order status scans visit components: main first, the
// remaining declared components next, then status-only components sorted.
func ComponentOrder(device smartthings.Device) []string {
	order := []string{}
	if _, ok := device.Status[smartthings.MainComponent]; ok || hasComponent(device, smartthings.MainComponent) {
		order = append(order, smartthings.MainComponent)
	}
	for _, c := range device.Components {
		if c.ID != smartthings.MainComponent {
			order = append(order, c.ID)
		}
	}
	extra := []string{}
	for id := range device.Status {
		if !slices.Contains(order, id) {
			extra = append(extra, id)
		}
	}
	slices.Sort(extra)
	return append(order, extra...)
}

func hasComponent(device smartthings.Device, id string) bool {
	return slices.ContainsFunc(device.Components, func(c smartthings.Component) bool {
		return c.ID == id
	})
}
