package coordinator

import (
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

// Store is the single owner of the cached SmartThings state. Readers get
// copies, so callers can never mutate the cache behind the lock.
type Store interface {
	Device(id string) (smartthings.Device, bool)
	Devices() []smartthings.Device
	Rooms() []smartthings.Room
	Scenes() []smartthings.Scene
	ReplaceDevices(devices []smartthings.Device)
	ReplaceRooms(rooms []smartthings.Room)
	ReplaceScenes(scenes []smartthings.Scene)
	SetStatus(deviceID string, status smartthings.Status) bool
	PatchAttribute(deviceID, component, capability, attribute string, value any) bool
}

type memoryStore struct {
	mu      sync.RWMutex
	devices map[string]smartthings.Device
	rooms   map[string]smartthings.Room
	scenes  map[string]smartthings.Scene
}

func NewStore() Store {
	return &memoryStore{
		devices: map[string]smartthings.Device{},
		rooms:   map[string]smartthings.Room{},
		scenes:  map[string]smartthings.Scene{},
	}
}

func (s *memoryStore) Device(id string) (smartthings.Device, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.devices[id]
	if !ok {
		return smartthings.Device{}, false
	}
	return copyDevice(d), true
}

func (s *memoryStore) Devices() []smartthings.Device {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]smartthings.Device, 0, len(s.devices))
	for _, id := range slices.Sorted(maps.Keys(s.devices)) {
		out = append(out, copyDevice(s.devices[id]))
	}
	return out
}

func (s *memoryStore) Rooms() []smartthings.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.SortedFunc(maps.Values(s.rooms), func(a, b smartthings.Room) int {
		return strings.Compare(a.RoomID, b.RoomID)
	})
}

func (s *memoryStore) Scenes() []smartthings.Scene {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.SortedFunc(maps.Values(s.scenes), func(a, b smartthings.Scene) int {
		return strings.Compare(a.SceneID, b.SceneID)
	})
}

// ReplaceDevices swaps the device list. Devices that were already cached keep
// their last fetched status until a new status is set.
func (s *memoryStore) ReplaceDevices(devices []smartthings.Device) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make(map[string]smartthings.Device, len(devices))
	for _, d := range devices {
		d = copyDevice(d)
		if prev, ok := s.devices[d.DeviceID]; ok && d.Status == nil {
			d.Status = prev.Status
		}
		next[d.DeviceID] = d
	}
	s.devices = next
}

func (s *memoryStore) ReplaceRooms(rooms []smartthings.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms = make(map[string]smartthings.Room, len(rooms))
	for _, r := range rooms {
		s.rooms[r.RoomID] = r
	}
}

func (s *memoryStore) ReplaceScenes(scenes []smartthings.Scene) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenes = make(map[string]smartthings.Scene, len(scenes))
	for _, sc := range scenes {
		s.scenes[sc.SceneID] = sc
	}
}

func (s *memoryStore) SetStatus(deviceID string, status smartthings.Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[deviceID]
	if !ok {
		return false
	}
	if status == nil {
		status = smartthings.Status{}
	}
	d.Status = copyStatus(status)
	s.devices[deviceID] = d
	return true
}

// PatchAttribute writes a single attribute value, creating the intermediate
// maps as needed. Unknown devices are ignored.
func (s *memoryStore) PatchAttribute(deviceID, component, capability, attribute string, value any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[deviceID]
	if !ok {
		return false
	}
	if component == "" {
		component = smartthings.MainComponent
	}
	if d.Status == nil {
		d.Status = smartthings.Status{}
	}
	if d.Status[component] == nil {
		d.Status[component] = smartthings.ComponentStatus{}
	}
	if d.Status[component][capability] == nil {
		d.Status[component][capability] = smartthings.CapabilityStatus{}
	}
	d.Status[component][capability][attribute] = smartthings.AttributeState{Value: value}
	s.devices[deviceID] = d
	return true
}

func copyDevice(d smartthings.Device) smartthings.Device {
	d.Components = slices.Clone(d.Components)
	for i, c := range d.Components {
		d.Components[i].Capabilities = slices.Clone(c.Capabilities)
	}
	if d.OCF != nil {
		ocf := *d.OCF
		d.OCF = &ocf
	}
	d.Status = copyStatus(d.Status)
	return d
}

func copyStatus(status smartthings.Status) smartthings.Status {
	if status == nil {
		return nil
	}
	out := make(smartthings.Status, len(status))
	for component, caps := range status {
		cc := make(smartthings.ComponentStatus, len(caps))
		for capability, attrs := range caps {
			cc[capability] = maps.Clone(attrs)
		}
		out[component] = cc
	}
	return out
}
