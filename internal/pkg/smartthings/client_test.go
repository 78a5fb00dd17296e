package smartthings

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New("  token-123 ", WithBaseURL(srv.URL+"/"))
}

func TestClient_Devices(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		assert.Equal(t, "/devices", r.URL.Path)
		assert.Equal(t, "loc-1", r.URL.Query().Get("locationId"))
		w.Write([]byte(`{"items":[{"deviceId":"d1","label":"Lamp","components":[{"id":"main","capabilities":[{"id":"switch","version":1}]}]}]}`))
	})

	devices, err := c.Devices(context.Background(), "loc-1")
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "d1", devices[0].DeviceID)
	assert.Equal(t, "Lamp", devices[0].DisplayName())
	assert.Equal(t, "switch", devices[0].Components[0].Capabilities[0].ID)
	assert.Nil(t, devices[0].Status)
}

func TestClient_DevicesMixedCapabilityShapes(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[
			{"deviceId":"a","components":[{"id":"main","capabilities":[{"id":"switch","version":1}]}]},
			{"deviceId":"b","components":[{"id":"main","capabilities":["switch","battery",42,null]}]}
		]}`))
	})

	devices, err := c.Devices(context.Background(), "loc-1")
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, []CapabilityRef{{ID: "switch", Version: 1}}, devices[0].Components[0].Capabilities)
	assert.Equal(t, []CapabilityRef{{ID: "switch"}, {ID: "battery"}, {}, {}}, devices[1].Components[0].Capabilities)
}

func TestClient_DevicesWithoutLocationOmitsQuery(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		w.Write([]byte(`{"items":[]}`))
	})
	devices, err := c.Devices(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, devices)
}

func TestClient_DeviceStatus(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/devices/d1/status", r.URL.Path)
		w.Write([]byte(`{"components":{"main":{"switch":{"switch":{"value":"on"}},"temperatureMeasurement":{"temperature":{"value":21.5,"unit":"C"}}}}}`))
	})

	status, err := c.DeviceStatus(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, "on", status["main"]["switch"]["switch"].Value)
	assert.Equal(t, 21.5, status["main"]["temperatureMeasurement"]["temperature"].Value)
	assert.Equal(t, "C", status["main"]["temperatureMeasurement"]["temperature"].Unit)
}

func TestClient_SendCommandDefaults(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/devices/d1/commands", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"commands":[{"component":"main","capability":"switch","command":"on","arguments":[]}]}`, string(body))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"results":[{"id":"x","status":"ACCEPTED"}]}`))
	})

	err := c.SendCommand(context.Background(), "d1", Command{Capability: "switch", Command: "on"})
	require.NoError(t, err)
}

func TestClient_SendCommandArguments(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req commandsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Commands, 1)
		assert.Equal(t, "freezer", req.Commands[0].Component)
		assert.Equal(t, []any{float64(4)}, req.Commands[0].Arguments)
		w.WriteHeader(http.StatusNoContent)
	})

	cmd := NewCommand("thermostatCoolingSetpoint", "setCoolingSetpoint", 4).OnComponent("freezer")
	require.NoError(t, c.SendCommand(context.Background(), "d1", cmd))
}

func TestClient_ExecuteSceneNoContent(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/scenes/s1/execute", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, c.ExecuteScene(context.Background(), "s1"))
}

func TestClient_ErrorMapping(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		status  int
		body    string
		wantErr error
		wantMsg string
	}{
		"unauthorized": {status: http.StatusUnauthorized, wantErr: ErrAuthentication},
		"forbidden":    {status: http.StatusForbidden, wantErr: ErrForbidden},
		"not found json": {
			status:  http.StatusNotFound,
			body:    `{"requestId":"r","error":{"code":"NotFoundError","message":"device not found"}}`,
			wantMsg: "device not found",
		},
		"server error text": {
			status:  http.StatusBadGateway,
			body:    "upstream down",
			wantMsg: "upstream down",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := c.Locations(context.Background())
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, IsAuthError(err))
				return
			}
			var reqErr *RequestError
			require.True(t, errors.As(err, &reqErr))
			assert.Equal(t, tt.status, reqErr.StatusCode)
			assert.Equal(t, tt.wantMsg, reqErr.Message)
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New("token", WithBaseURL(srv.URL))
	_, err := c.Locations(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestClient_DecodeError(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":`))
	})
	_, err := c.Scenes(context.Background(), "loc")
	assert.ErrorIs(t, err, ErrUnexpected)
}

func TestClient_Subscriptions(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, "/installedapps/app-1/subscriptions", r.URL.Path)
			var sub Subscription
			require.NoError(t, json.NewDecoder(r.Body).Decode(&sub))
			assert.Equal(t, SourceTypeDevice, sub.SourceType)
			assert.Equal(t, MainComponent, sub.Device.ComponentID)
			sub.ID = "sub-1"
			json.NewEncoder(w).Encode(sub)
		case http.MethodGet:
			w.Write([]byte(`{"items":[{"id":"sub-1","sourceType":"DEVICE"}]}`))
		case http.MethodDelete:
			assert.Equal(t, "/installedapps/app-1/subscriptions/sub-1", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}
	})
	ctx := context.Background()

	created, err := c.CreateSubscription(ctx, "app-1", Subscription{
		SourceType: SourceTypeDevice,
		Device:     &DeviceSubscription{DeviceID: "d1", Capability: "switch", Attribute: "switch"},
	})
	require.NoError(t, err)
	assert.Equal(t, "sub-1", created.ID)

	subs, err := c.Subscriptions(ctx, "app-1")
	require.NoError(t, err)
	require.Len(t, subs, 1)

	require.NoError(t, c.DeleteSubscription(ctx, "app-1", "sub-1"))
}
