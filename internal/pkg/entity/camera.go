package entity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/anicoll/smartthings-integration/internal/pkg/capability"
	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

const (
	ActionEnableMotionDetection  = "enable_motion_detection"
	ActionDisableMotionDetection = "disable_motion_detection"
)

var ErrNoImage = errors.New("no camera image available")

// ImageFetcher downloads a snapshot from a URL reported by the device.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Doer is satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type HTTPImageFetcher struct {
	client  Doer
	timeout time.Duration
}

func NewHTTPImageFetcher() *HTTPImageFetcher {
	return NewImageFetcher(&http.Client{}, 10*time.Second)
}

func NewImageFetcher(client Doer, timeout time.Duration) *HTTPImageFetcher {
	return &HTTPImageFetcher{client: client, timeout: timeout}
}

func (f *HTTPImageFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch camera image: HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

type camera struct {
	base
	caps   []string
	logger *zap.Logger
	// captureWait is how long to give the device after imageCapture take.
	captureWait time.Duration
}

func (c *camera) isOn(device smartthings.Device) bool {
	if component := capability.FindComponent(device, "switch"); component != "" {
		v, _ := capability.ComponentValue(device, component, "switch", "switch")
		return v == "on"
	}
	return true
}

func (c *camera) State() State {
	device := c.device()
	attrs := map[string]any{
		"is_streaming":             false,
		"motion_detection_enabled": capability.HasStatus(device, "motionSensor"),
	}
	if component := capability.FindComponent(device, "videoStream"); component != "" {
		v, _ := capability.ComponentValue(device, component, "videoStream", "stream")
		attrs["is_streaming"] = v == "active"
	}
	features := []string{}
	if capability.Has(c.caps, "videoStream") {
		features = append(features, "stream")
	}
	attrs["supported_features_list"] = features
	for _, component := range capability.ComponentOrder(device) {
		for key, st := range device.Status[component]["videoStream"] {
			attrs["video_"+key] = st.Value
		}
		for key, st := range device.Status[component]["imageCapture"] {
			attrs["image_"+key] = st.Value
		}
		if _, ok := device.Status[component]["motionSensor"]; ok {
			v, _ := capability.ComponentValue(device, component, "motionSensor", "motion")
			attrs["motion_detected"] = v == "active"
		}
	}
	if c.isOn(device) {
		return State{Value: "idle", Attributes: attrs}
	}
	return State{Value: "off", Attributes: attrs}
}

func imageURL(device smartthings.Device, includeEncrypted bool) string {
	component := capability.FindComponent(device, "imageCapture")
	if component == "" {
		return ""
	}
	v, _ := capability.ComponentValue(device, component, "imageCapture", "image")
	if url := urlOf(v); url != "" {
		return url
	}
	if !includeEncrypted {
		return ""
	}
	v, _ = capability.ComponentValue(device, component, "imageCapture", "encryptedImage")
	if m, ok := v.(map[string]any); ok {
		return capability.String(m["url"])
	}
	return ""
}

func urlOf(v any) string {
	switch u := v.(type) {
	case map[string]any:
		return capability.String(u["url"])
	case string:
		return u
	}
	return ""
}

// Image returns a snapshot. When the device has no image yet it asks for a
// capture, waits, refreshes and tries once more.
func (c *camera) Image(ctx context.Context) ([]byte, error) {
	if url := imageURL(c.device(), true); url != "" {
		img, err := c.deps.Images.Fetch(ctx, url)
		if err == nil {
			return img, nil
		}
		c.logger.Warn("failed to fetch camera image", zap.String("device", c.deviceID), zap.Error(err))
	}
	if err := c.deps.Commander.SendCommand(ctx, c.deviceID, smartthings.NewCommand("imageCapture", "take")); err != nil {
		return nil, fmt.Errorf("capture image: %w", err)
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(c.captureWait):
	}
	if err := c.deps.Commander.RequestRefresh(ctx); err != nil {
		c.logger.Warn("refresh after capture failed", zap.String("device", c.deviceID), zap.Error(err))
	}
	url := imageURL(c.device(), false)
	if url == "" {
		return nil, ErrNoImage
	}
	return c.deps.Images.Fetch(ctx, url)
}

// StreamSource returns the stream url, or an empty string.
func (c *camera) StreamSource() string {
	device := c.device()
	component := capability.FindComponent(device, "videoStream")
	if component == "" {
		return ""
	}
	v, _ := capability.ComponentValue(device, component, "videoStream", "stream")
	switch s := v.(type) {
	case map[string]any:
		return capability.String(s["url"])
	case string:
		if strings.HasPrefix(s, "http") {
			return s
		}
	}
	v, _ = capability.ComponentValue(device, component, "videoStream", "uri")
	return capability.String(v)
}

func (c *camera) Actions() []string {
	return []string{ActionTurnOn, ActionTurnOff, ActionEnableMotionDetection, ActionDisableMotionDetection}
}

func (c *camera) Handle(ctx context.Context, action Action) Result {
	switch action.Name {
	case ActionTurnOn:
		return c.send(ctx, smartthings.NewCommand("switch", "on"))
	case ActionTurnOff:
		return c.send(ctx, smartthings.NewCommand("switch", "off"))
	case ActionEnableMotionDetection:
		return c.send(ctx, smartthings.NewCommand("motionSensor", "enable"))
	case ActionDisableMotionDetection:
		return c.send(ctx, smartthings.NewCommand("motionSensor", "disable"))
	}
	return unsupported(action.Name)
}

// Camera is implemented by entities that serve snapshots and streams.
type Camera interface {
	Entity
	Image(ctx context.Context) ([]byte, error)
	StreamSource() string
}

func cameraRule() Rule {
	return Rule{
		Name:         "camera",
		Domain:       DomainCamera,
		Capabilities: []string{"videoStream", "imageCapture", "videoCapture"},
		Scope:        ScopeMain,
		Build: func(deps Deps, device smartthings.Device, caps []string) []Entity {
			return []Entity{&camera{
				base:        newBase(deps, device, DomainCamera, uid(device.DeviceID, "camera"), device.DisplayName(), "mdi:camera"),
				caps:        caps,
				logger:      zap.L(),
				captureWait: 2 * time.Second,
			}}
		},
	}
}
