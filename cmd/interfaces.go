package cmd

import (
	"context"

	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

// SmartThingsAPI defines what cmd.run expects from the SmartThings client.
type SmartThingsAPI interface {
	Locations(ctx context.Context) ([]smartthings.Location, error)
	Devices(ctx context.Context, locationID string) ([]smartthings.Device, error)
	Rooms(ctx context.Context, locationID string) ([]smartthings.Room, error)
	Scenes(ctx context.Context, locationID string) ([]smartthings.Scene, error)
	DeviceStatus(ctx context.Context, deviceID string) (smartthings.Status, error)
	SendCommand(ctx context.Context, deviceID string, commands ...smartthings.Command) error
	// Methods needed by logic.NewLogicSvc and webhook.New
	ExecuteScene(ctx context.Context, sceneID string) error
	CreateSubscription(ctx context.Context, installedAppID string, sub smartthings.Subscription) (*smartthings.Subscription, error)
	Subscriptions(ctx context.Context, installedAppID string) ([]smartthings.Subscription, error)
	DeleteSubscription(ctx context.Context, installedAppID, subscriptionID string) error
}
