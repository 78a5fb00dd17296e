package smartthings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/anicoll/smartthings-integration/internal/pkg/metrics"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.smartthings.com/v1"
	DefaultTimeout = 30 * time.Second
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

func New(token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		token:      strings.TrimSpace(token),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zap.L(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func withToken(token string) func(req *http.Request) {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// do issues a single request. endpoint is the low-cardinality label used for metrics.
func (c *Client) do(ctx context.Context, method, endpoint, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encode %s: %w", ErrUnexpected, endpoint, err)
		}
		reader = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnexpected, err)
	}
	withToken(c.token)(req)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("smartthings request", zap.String("method", method), zap.String("path", path))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.APIRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()
	metrics.APIRequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrAuthentication
	case resp.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &RequestError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	if resp.StatusCode == http.StatusNoContent || out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrUnexpected, endpoint, err)
	}
	return nil
}

func locationQuery(locationID string) url.Values {
	if locationID == "" {
		return nil
	}
	return url.Values{"locationId": []string{locationID}}
}

func (c *Client) Locations(ctx context.Context) ([]Location, error) {
	var res itemsResponse[Location]
	if err := c.do(ctx, http.MethodGet, "locations", "/locations", nil, nil, &res); err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (c *Client) Location(ctx context.Context, locationID string) (*Location, error) {
	var res Location
	if err := c.do(ctx, http.MethodGet, "location", "/locations/"+url.PathEscape(locationID), nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Rooms(ctx context.Context, locationID string) ([]Room, error) {
	var res itemsResponse[Room]
	path := "/locations/" + url.PathEscape(locationID) + "/rooms"
	if err := c.do(ctx, http.MethodGet, "rooms", path, nil, nil, &res); err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (c *Client) Devices(ctx context.Context, locationID string) ([]Device, error) {
	var res itemsResponse[Device]
	if err := c.do(ctx, http.MethodGet, "devices", "/devices", locationQuery(locationID), nil, &res); err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (c *Client) Device(ctx context.Context, deviceID string) (*Device, error) {
	var res Device
	if err := c.do(ctx, http.MethodGet, "device", "/devices/"+url.PathEscape(deviceID), nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) DeviceStatus(ctx context.Context, deviceID string) (Status, error) {
	var res statusResponse
	path := "/devices/" + url.PathEscape(deviceID) + "/status"
	if err := c.do(ctx, http.MethodGet, "device_status", path, nil, nil, &res); err != nil {
		return nil, err
	}
	if res.Components == nil {
		res.Components = Status{}
	}
	return res.Components, nil
}

func (c *Client) DeviceHealth(ctx context.Context, deviceID string) (*Health, error) {
	var res Health
	path := "/devices/" + url.PathEscape(deviceID) + "/health"
	if err := c.do(ctx, http.MethodGet, "device_health", path, nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SendCommand posts all commands in one request.
func (c *Client) SendCommand(ctx context.Context, deviceID string, commands ...Command) error {
	req := commandsRequest{Commands: make([]Command, 0, len(commands))}
	for _, cmd := range commands {
		req.Commands = append(req.Commands, cmd.normalise())
	}
	path := "/devices/" + url.PathEscape(deviceID) + "/commands"
	return c.do(ctx, http.MethodPost, "device_commands", path, nil, req, nil)
}

func (c *Client) Scenes(ctx context.Context, locationID string) ([]Scene, error) {
	var res itemsResponse[Scene]
	if err := c.do(ctx, http.MethodGet, "scenes", "/scenes", locationQuery(locationID), nil, &res); err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (c *Client) ExecuteScene(ctx context.Context, sceneID string) error {
	path := "/scenes/" + url.PathEscape(sceneID) + "/execute"
	return c.do(ctx, http.MethodPost, "scene_execute", path, nil, struct{}{}, nil)
}

func (c *Client) CreateSubscription(ctx context.Context, installedAppID string, sub Subscription) (*Subscription, error) {
	if sub.Device != nil && sub.Device.ComponentID == "" {
		sub.Device.ComponentID = MainComponent
	}
	var res Subscription
	path := "/installedapps/" + url.PathEscape(installedAppID) + "/subscriptions"
	if err := c.do(ctx, http.MethodPost, "subscriptions", path, nil, sub, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Subscriptions(ctx context.Context, installedAppID string) ([]Subscription, error) {
	var res itemsResponse[Subscription]
	path := "/installedapps/" + url.PathEscape(installedAppID) + "/subscriptions"
	if err := c.do(ctx, http.MethodGet, "subscriptions", path, nil, nil, &res); err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (c *Client) DeleteSubscription(ctx context.Context, installedAppID, subscriptionID string) error {
	path := "/installedapps/" + url.PathEscape(installedAppID) + "/subscriptions/" + url.PathEscape(subscriptionID)
	return c.do(ctx, http.MethodDelete, "subscription_delete", path, nil, nil, nil)
}
