package webhook

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

// SetupSubscriptions subscribes the installed app to every attribute of every
// cached device. Without an installed app id there is nothing to register.
func (m *Manager) SetupSubscriptions(ctx context.Context) error {
	appID := m.cfg.InstalledAppID
	if appID == "" || m.api == nil {
		m.logger.Info("no installed app configured, skipping subscription setup")
		return nil
	}
	for _, d := range m.cache.Devices() {
		sub, err := m.api.CreateSubscription(ctx, appID, smartthings.Subscription{
			SourceType: smartthings.SourceTypeDevice,
			Device: &smartthings.DeviceSubscription{
				DeviceID:    d.DeviceID,
				ComponentID: "*",
				Capability:  "*",
				Attribute:   "*",
			},
		})
		if err != nil {
			return fmt.Errorf("subscribe device %s: %w", d.DeviceID, err)
		}
		m.logger.Debug("created subscription", zap.String("device_id", d.DeviceID), zap.String("subscription_id", sub.ID))
	}
	return nil
}

// RemoveSubscriptions deletes every subscription of the installed app.
func (m *Manager) RemoveSubscriptions(ctx context.Context) error {
	appID := m.cfg.InstalledAppID
	if appID == "" || m.api == nil {
		return nil
	}
	subs, err := m.api.Subscriptions(ctx, appID)
	if err != nil {
		return fmt.Errorf("list subscriptions: %w", err)
	}
	var errs []error
	for _, s := range subs {
		m.logger.Debug("deleting subscription", zap.String("subscription_id", s.ID))
		if err := m.api.DeleteSubscription(ctx, appID, s.ID); err != nil {
			errs = append(errs, fmt.Errorf("delete subscription %s: %w", s.ID, err))
		}
	}
	return errors.Join(errs...)
}
