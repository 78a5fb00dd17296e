package cmd

import (
	"context"

	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

// MockSmartThingsAPI is a function-field mock of SmartThingsAPI. Unset
// functions return empty results.
type MockSmartThingsAPI struct {
	LocationsFunc          func(ctx context.Context) ([]smartthings.Location, error)
	DevicesFunc            func(ctx context.Context, locationID string) ([]smartthings.Device, error)
	RoomsFunc              func(ctx context.Context, locationID string) ([]smartthings.Room, error)
	ScenesFunc             func(ctx context.Context, locationID string) ([]smartthings.Scene, error)
	DeviceStatusFunc       func(ctx context.Context, deviceID string) (smartthings.Status, error)
	SendCommandFunc        func(ctx context.Context, deviceID string, commands ...smartthings.Command) error
	ExecuteSceneFunc       func(ctx context.Context, sceneID string) error
	CreateSubscriptionFunc func(ctx context.Context, installedAppID string, sub smartthings.Subscription) (*smartthings.Subscription, error)
	SubscriptionsFunc      func(ctx context.Context, installedAppID string) ([]smartthings.Subscription, error)
	DeleteSubscriptionFunc func(ctx context.Context, installedAppID, subscriptionID string) error
}

var _ SmartThingsAPI = (*MockSmartThingsAPI)(nil)

func (m *MockSmartThingsAPI) Locations(ctx context.Context) ([]smartthings.Location, error) {
	if m.LocationsFunc != nil {
		return m.LocationsFunc(ctx)
	}
	return nil, nil
}

func (m *MockSmartThingsAPI) Devices(ctx context.Context, locationID string) ([]smartthings.Device, error) {
	if m.DevicesFunc != nil {
		return m.DevicesFunc(ctx, locationID)
	}
	return nil, nil
}

func (m *MockSmartThingsAPI) Rooms(ctx context.Context, locationID string) ([]smartthings.Room, error) {
	if m.RoomsFunc != nil {
		return m.RoomsFunc(ctx, locationID)
	}
	return nil, nil
}

func (m *MockSmartThingsAPI) Scenes(ctx context.Context, locationID string) ([]smartthings.Scene, error) {
	if m.ScenesFunc != nil {
		return m.ScenesFunc(ctx, locationID)
	}
	return nil, nil
}

func (m *MockSmartThingsAPI) DeviceStatus(ctx context.Context, deviceID string) (smartthings.Status, error) {
	if m.DeviceStatusFunc != nil {
		return m.DeviceStatusFunc(ctx, deviceID)
	}
	return smartthings.Status{}, nil
}

func (m *MockSmartThingsAPI) SendCommand(ctx context.Context, deviceID string, commands ...smartthings.Command) error {
	if m.SendCommandFunc != nil {
		return m.SendCommandFunc(ctx, deviceID, commands...)
	}
	return nil
}

func (m *MockSmartThingsAPI) ExecuteScene(ctx context.Context, sceneID string) error {
	if m.ExecuteSceneFunc != nil {
		return m.ExecuteSceneFunc(ctx, sceneID)
	}
	return nil
}

func (m *MockSmartThingsAPI) CreateSubscription(ctx context.Context, installedAppID string, sub smartthings.Subscription) (*smartthings.Subscription, error) {
	if m.CreateSubscriptionFunc != nil {
		return m.CreateSubscriptionFunc(ctx, installedAppID, sub)
	}
	return &sub, nil
}

func (m *MockSmartThingsAPI) Subscriptions(ctx context.Context, installedAppID string) ([]smartthings.Subscription, error) {
	if m.SubscriptionsFunc != nil {
		return m.SubscriptionsFunc(ctx, installedAppID)
	}
	return nil, nil
}

func (m *MockSmartThingsAPI) DeleteSubscription(ctx context.Context, installedAppID, subscriptionID string) error {
	if m.DeleteSubscriptionFunc != nil {
		return m.DeleteSubscriptionFunc(ctx, installedAppID, subscriptionID)
	}
	return nil
}
