// Package webhook receives SmartThings lifecycle callbacks and applies pushed
// device events to the coordinator cache.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/anicoll/smartthings-integration/internal/pkg/config"
	"github.com/anicoll/smartthings-integration/internal/pkg/metrics"
	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

// BasePath is the route prefix; the full path appends the hook id.
const BasePath = "/api/smartthingsce"

const (
	LifecyclePing          = "PING"
	LifecycleConfirmation  = "CONFIRMATION"
	LifecycleEvent         = "EVENT"
	LifecycleConfiguration = "CONFIGURATION"
)

const maxBodyBytes = 1 << 20

var errUnknownHook = errors.New("unknown hook id")

// Cache is the part of the coordinator events are written to.
type Cache interface {
	Devices() []smartthings.Device
	PatchAttribute(deviceID, component, capability, attribute string, value any) bool
}

type Refresher interface {
	RequestRefresh(ctx context.Context) error
}

type SubscriptionAPI interface {
	CreateSubscription(ctx context.Context, installedAppID string, sub smartthings.Subscription) (*smartthings.Subscription, error)
	Subscriptions(ctx context.Context, installedAppID string) ([]smartthings.Subscription, error)
	DeleteSubscription(ctx context.Context, installedAppID, subscriptionID string) error
}

type Manager struct {
	cfg       *config.WebhookConfig
	cache     Cache
	refresher Refresher
	api       SubscriptionAPI
	logger    *zap.Logger

	hookID string
	appID  string

	mu        sync.Mutex
	tunnelURL string
	// refreshes tracks refreshes started by events.
	refreshes sync.WaitGroup
}

func New(cfg *config.WebhookConfig, cache Cache, refresher Refresher, api SubscriptionAPI) *Manager {
	if cfg == nil {
		cfg = &config.WebhookConfig{}
	}
	return &Manager{
		cfg:       cfg,
		cache:     cache,
		refresher: refresher,
		api:       api,
		logger:    zap.L(),
		hookID:    uuid.NewString(),
		appID:     uuid.NewString(),
	}
}

func (m *Manager) HookID() string {
	return m.hookID
}

func (m *Manager) Path() string {
	return BasePath + "/" + m.hookID
}

// PublicURL is the externally reachable webhook address: the configured URL,
// else the tunnel URL once the tunnel is open. Empty when neither is known.
func (m *Manager) PublicURL() string {
	if m.cfg.URL != "" {
		return strings.TrimRight(m.cfg.URL, "/") + m.Path()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tunnelURL == "" {
		return ""
	}
	return strings.TrimRight(m.tunnelURL, "/") + m.Path()
}

func (m *Manager) setTunnelURL(u string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tunnelURL = u
}

type pingData struct {
	Challenge string `json:"challenge"`
}

type confirmationData struct {
	AppID           string `json:"appId"`
	ConfirmationURL string `json:"confirmationUrl"`
}

type eventData struct {
	InstalledApp struct {
		InstalledAppID string `json:"installedAppId"`
		LocationID     string `json:"locationId"`
	} `json:"installedApp"`
	Events []json.RawMessage `json:"events"`
}

type envelope struct {
	Lifecycle        string            `json:"lifecycle"`
	ExecutionID      string            `json:"executionId"`
	PingData         *pingData         `json:"pingData,omitempty"`
	ConfirmationData *confirmationData `json:"confirmationData,omitempty"`
	EventData        *eventData        `json:"eventData,omitempty"`
}

// DeviceEvent is a single attribute change pushed by SmartThings.
type DeviceEvent struct {
	SubscriptionName string `json:"subscriptionName,omitempty"`
	EventID          string `json:"eventId,omitempty"`
	LocationID       string `json:"locationId,omitempty"`
	DeviceID         string `json:"deviceId"`
	ComponentID      string `json:"componentId"`
	Capability       string `json:"capability"`
	Attribute        string `json:"attribute"`
	Value            any    `json:"value"`
	StateChange      bool   `json:"stateChange,omitempty"`
}

func (m *Manager) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := m.checkHook(r); err != nil {
		m.logger.Warn("received webhook for unknown hook id", zap.String("path", r.URL.Path))
		w.WriteHeader(http.StatusNotFound)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil || !gjson.ValidBytes(body) {
		m.logger.Error("error handling webhook: unreadable body", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	lifecycle := gjson.GetBytes(body, "lifecycle").String()
	metrics.WebhookLifecycles.WithLabelValues(lifecycle).Inc()
	m.logger.Debug("received webhook", zap.String("lifecycle", lifecycle))

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		m.logger.Error("error handling webhook", zap.String("lifecycle", lifecycle), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	switch lifecycle {
	case LifecyclePing:
		challenge := ""
		if env.PingData != nil {
			challenge = env.PingData.Challenge
		}
		writeJSON(w, map[string]any{"pingData": map[string]string{"challenge": challenge}})
	case LifecycleConfirmation:
		if env.ConfirmationData != nil && env.ConfirmationData.ConfirmationURL != "" {
			m.logger.Info("webhook confirmation url", zap.String("url", env.ConfirmationData.ConfirmationURL))
		}
		w.WriteHeader(http.StatusOK)
	case LifecycleEvent:
		if err := m.handleEvents(r.Context(), env.EventData); err != nil {
			m.logger.Error("error handling device event", zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	case LifecycleConfiguration:
		writeJSON(w, m.configuration())
	default:
		m.logger.Warn("unknown lifecycle", zap.String("lifecycle", lifecycle))
		w.WriteHeader(http.StatusOK)
	}
}

func (m *Manager) checkHook(r *http.Request) error {
	id, ok := strings.CutPrefix(r.URL.Path, BasePath+"/")
	if !ok || strings.Trim(id, "/") != m.hookID {
		return errUnknownHook
	}
	return nil
}

// handleEvents patches every event for a known device and then requests one
// refresh for the whole envelope.
func (m *Manager) handleEvents(ctx context.Context, data *eventData) error {
	if data == nil {
		data = &eventData{}
	}
	for _, raw := range data.Events {
		ev, err := decodeEvent(raw)
		if err != nil {
			return err
		}
		if ev == nil {
			continue
		}
		m.logger.Debug("device event",
			zap.String("device_id", ev.DeviceID),
			zap.String("component", ev.ComponentID),
			zap.String("capability", ev.Capability),
			zap.String("attribute", ev.Attribute),
			zap.Any("value", ev.Value),
		)
		if !m.cache.PatchAttribute(ev.DeviceID, ev.ComponentID, ev.Capability, ev.Attribute, ev.Value) {
			m.logger.Debug("ignoring event for unknown device", zap.String("device_id", ev.DeviceID))
		}
	}

	m.refreshes.Add(1)
	go func() {
		defer m.refreshes.Done()
		if err := m.refresher.RequestRefresh(context.WithoutCancel(ctx)); err != nil {
			m.logger.Warn("refresh after webhook event failed", zap.Error(err))
		}
	}()
	return nil
}

// decodeEvent accepts both the nested {"deviceEvent": {...}} shape and a flat
// event object. Events of other types return nil.
func decodeEvent(raw json.RawMessage) (*DeviceEvent, error) {
	payload := []byte(raw)
	if nested := gjson.GetBytes(payload, "deviceEvent"); nested.Exists() {
		payload = []byte(nested.Raw)
	} else if !gjson.GetBytes(payload, "deviceId").Exists() {
		return nil, nil
	}
	var ev DeviceEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("decode device event: %w", err)
	}
	if ev.ComponentID == "" {
		ev.ComponentID = "main"
	}
	return &ev, nil
}

func (m *Manager) configuration() map[string]any {
	return map[string]any{
		"configurationData": map[string]any{
			"initialize": map[string]any{
				"name":        "SmartThings Community Edition",
				"description": "Home Assistant Integration",
				"id":          m.appID,
				"permissions": []string{},
				"firstPageId": "1",
			},
		},
	}
}

// Wait blocks until refreshes started by events have finished.
func (m *Manager) Wait() {
	m.refreshes.Wait()
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(body)
}
