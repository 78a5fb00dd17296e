package smartthings

import (
	"encoding/json"
	"time"
)

const MainComponent = "main"

type Location struct {
	LocationID  string  `json:"locationId"`
	Name        string  `json:"name"`
	CountryCode string  `json:"countryCode,omitempty"`
	TimeZoneID  string  `json:"timeZoneId,omitempty"`
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
}

type Room struct {
	RoomID     string `json:"roomId"`
	LocationID string `json:"locationId"`
	Name       string `json:"name"`
}

type Scene struct {
	SceneID    string `json:"sceneId"`
	SceneName  string `json:"sceneName"`
	SceneIcon  string `json:"sceneIcon,omitempty"`
	LocationID string `json:"locationId"`
}

type CapabilityRef struct {
	ID      string `json:"id"`
	Version int    `json:"version"`
}

// UnmarshalJSON accepts both {"id":..,"version":..} and a bare capability id.
// Any other shape leaves the ref empty instead of failing the device list.
func (c *CapabilityRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*c = CapabilityRef{ID: id}
		return nil
	}
	type plain CapabilityRef
	var ref plain
	if err := json.Unmarshal(data, &ref); err != nil {
		*c = CapabilityRef{}
		return nil
	}
	*c = CapabilityRef(ref)
	return nil
}

type Component struct {
	ID           string          `json:"id"`
	Label        string          `json:"label,omitempty"`
	Capabilities []CapabilityRef `json:"capabilities"`
}

// OCF carries the optional Open Connectivity Foundation metadata some devices report.
type OCF struct {
	FirmwareVersion  string `json:"firmwareVersion,omitempty"`
	HwVersion        string `json:"hwVersion,omitempty"`
	ModelNumber      string `json:"modelNumber,omitempty"`
	ManufacturerName string `json:"manufacturerName,omitempty"`
}

type Device struct {
	DeviceID         string      `json:"deviceId"`
	Name             string      `json:"name"`
	Label            string      `json:"label"`
	ManufacturerName string      `json:"manufacturerName,omitempty"`
	PresentationID   string      `json:"presentationId,omitempty"`
	DeviceTypeName   string      `json:"deviceTypeName,omitempty"`
	LocationID       string      `json:"locationId"`
	RoomID           string      `json:"roomId,omitempty"`
	Type             string      `json:"type,omitempty"`
	Components       []Component `json:"components"`
	OCF              *OCF        `json:"ocf,omitempty"`
	// Status is nil until the first successful status fetch.
	Status Status `json:"status,omitempty"`
}

// DisplayName returns the label, falling back to the name.
func (d Device) DisplayName() string {
	if d.Label != "" {
		return d.Label
	}
	if d.Name != "" {
		return d.Name
	}
	return "Unknown"
}

// Status is keyed component -> capability -> attribute.
type (
	Status           map[string]ComponentStatus
	ComponentStatus  map[string]CapabilityStatus
	CapabilityStatus map[string]AttributeState
)

type AttributeState struct {
	Value     any    `json:"value"`
	Unit      string `json:"unit,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

type Health struct {
	DeviceID        string    `json:"deviceId"`
	State           string    `json:"state"`
	LastUpdatedDate time.Time `json:"lastUpdatedDate"`
}

type Command struct {
	Component  string `json:"component"`
	Capability string `json:"capability"`
	Command    string `json:"command"`
	Arguments  []any  `json:"arguments"`
}

// NewCommand builds a command for the main component.
func NewCommand(capability, command string, args ...any) Command {
	return Command{
		Component:  MainComponent,
		Capability: capability,
		Command:    command,
		Arguments:  args,
	}
}

// OnComponent returns a copy of the command addressed to component.
func (c Command) OnComponent(component string) Command {
	c.Component = component
	return c
}

func (c Command) normalise() Command {
	if c.Component == "" {
		c.Component = MainComponent
	}
	if c.Arguments == nil {
		c.Arguments = []any{}
	}
	return c
}

type SourceType string

const (
	SourceTypeDevice     SourceType = "DEVICE"
	SourceTypeCapability SourceType = "CAPABILITY"
)

func (s SourceType) String() string {
	return string(s)
}

type DeviceSubscription struct {
	DeviceID    string `json:"deviceId"`
	ComponentID string `json:"componentId"`
	Capability  string `json:"capability"`
	Attribute   string `json:"attribute"`
	Value       any    `json:"value,omitempty"`
	LocationID  string `json:"locationId,omitempty"`
}

type Subscription struct {
	ID             string              `json:"id,omitempty"`
	InstalledAppID string              `json:"installedAppId,omitempty"`
	SourceType     SourceType          `json:"sourceType"`
	Device         *DeviceSubscription `json:"device,omitempty"`
}

type itemsResponse[T any] struct {
	Items []T `json:"items"`
}

type statusResponse struct {
	Components Status `json:"components"`
}

type commandsRequest struct {
	Commands []Command `json:"commands"`
}
