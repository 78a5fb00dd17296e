package logic

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/anicoll/smartthings-integration/internal/pkg/entity"
	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

type SendCommandRequest struct {
	DeviceID   string `json:"device_id"`
	Capability string `json:"capability"`
	Command    string `json:"command"`
	Arguments  []any  `json:"arguments,omitempty"`
	// Component defaults to main.
	Component string `json:"component,omitempty"`
}

func (r SendCommandRequest) validate() error {
	missing := []string{}
	if strings.TrimSpace(r.DeviceID) == "" {
		missing = append(missing, "device_id")
	}
	if strings.TrimSpace(r.Capability) == "" {
		missing = append(missing, "capability")
	}
	if strings.TrimSpace(r.Command) == "" {
		missing = append(missing, "command")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidRequest, strings.Join(missing, ", "))
	}
	return nil
}

// SendCommand sends one raw command to a device and requests a refresh. A
// failed refresh still counts as success and is reported in the Result.
func (l *logic) SendCommand(ctx context.Context, req SendCommandRequest) (entity.Result, error) {
	if err := req.validate(); err != nil {
		return entity.Result{}, err
	}
	cmd := smartthings.NewCommand(req.Capability, req.Command, req.Arguments...)
	if req.Component != "" {
		cmd = cmd.OnComponent(req.Component)
	}
	l.logger.Info("sending command",
		zap.String("device_id", req.DeviceID),
		zap.String("component", cmd.Component),
		zap.String("capability", cmd.Capability),
		zap.String("command", cmd.Command))
	if err := l.coordinator.SendCommand(ctx, req.DeviceID, cmd); err != nil {
		l.logger.Warn("command failed",
			zap.String("device_id", req.DeviceID),
			zap.String("capability", cmd.Capability),
			zap.String("command", cmd.Command),
			zap.Error(err))
		return entity.Result{Err: err, Reason: err.Error()}, nil
	}
	if err := l.coordinator.RequestRefresh(ctx); err != nil {
		return entity.Result{OK: true, Reason: fmt.Sprintf("refresh failed: %v", err)}, nil
	}
	return entity.Result{OK: true}, nil
}

func (l *logic) ExecuteScene(ctx context.Context, sceneID string) error {
	if strings.TrimSpace(sceneID) == "" {
		return fmt.Errorf("%w: missing scene_id", ErrInvalidRequest)
	}
	l.logger.Info("executing scene", zap.String("scene_id", sceneID))
	return l.scenes.ExecuteScene(ctx, sceneID)
}

func (l *logic) RefreshDevices(ctx context.Context) error {
	return l.coordinator.RequestRefresh(ctx)
}
