package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/anicoll/smartthings-integration/internal/pkg/entity"
	"github.com/anicoll/smartthings-integration/internal/pkg/logic"
	"github.com/anicoll/smartthings-integration/internal/pkg/model"
	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
	"github.com/anicoll/smartthings-integration/pkg/api"
)

const maxBodyBytes = 1 << 20

var _ api.ServerInterface = (*Handler)(nil)

type bridge interface {
	SendCommand(ctx context.Context, req logic.SendCommandRequest) (entity.Result, error)
	ExecuteScene(ctx context.Context, sceneID string) error
	RefreshDevices(ctx context.Context) error
	Entities() []logic.EntityView
	Entity(uniqueID string) (logic.EntityView, error)
	Dispatch(ctx context.Context, uniqueID string, action entity.Action) (entity.Result, error)
	Image(ctx context.Context, uniqueID string) ([]byte, error)
	History(ctx context.Context, uniqueID string, from, to *time.Time) (model.EntityStates, error)
}

// Handler serves the generated service and entity routes.
type Handler struct {
	svc bridge
	// commandTimeout bounds writes, which wait for the device refresh that
	// follows a command. It replaces the server write timeout for them.
	commandTimeout time.Duration
	logger         *zap.Logger
}

func New(svc bridge, commandTimeout time.Duration) *Handler {
	return &Handler{svc: svc, commandTimeout: commandTimeout, logger: zap.L()}
}

func (h *Handler) SendCommand(w http.ResponseWriter, r *http.Request) {
	req, err := unmarshalPayload[api.SendCommandRequest](r)
	if err != nil {
		handleError(w, err)
		return
	}
	ctx, cancel := h.commandContext(w, r)
	defer cancel()

	res, err := h.svc.SendCommand(ctx, logic.SendCommandRequest{
		DeviceID:   req.DeviceId,
		Capability: req.Capability,
		Command:    req.Command,
		Arguments:  lo.FromPtr(req.Arguments),
		Component:  lo.FromPtr(req.Component),
	})
	if err != nil {
		handleError(w, err)
		return
	}
	writeResult(w, res)
}

func (h *Handler) ExecuteScene(w http.ResponseWriter, r *http.Request) {
	req, err := unmarshalPayload[api.ExecuteSceneRequest](r)
	if err != nil {
		handleError(w, err)
		return
	}
	ctx, cancel := h.commandContext(w, r)
	defer cancel()

	if err := h.svc.ExecuteScene(ctx, req.SceneId); err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.Result{Ok: true})
}

func (h *Handler) RefreshDevices(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.commandContext(w, r)
	defer cancel()

	if err := h.svc.RefreshDevices(ctx); err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.Result{Ok: true})
}

func (h *Handler) ListEntities(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, lo.Map(h.svc.Entities(), func(v logic.EntityView, _ int) api.Entity {
		return toEntity(v)
	}))
}

func (h *Handler) GetEntity(w http.ResponseWriter, _ *http.Request, uniqueID api.UniqueID) {
	v, err := h.svc.Entity(uniqueID)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntity(v))
}

func (h *Handler) PostEntityAction(w http.ResponseWriter, r *http.Request, uniqueID api.UniqueID) {
	req, err := unmarshalPayload[api.EntityAction](r)
	if err != nil {
		handleError(w, err)
		return
	}
	if req.Action == "" {
		writeError(w, http.StatusBadRequest, api.ValidationError, "action is required")
		return
	}
	ctx, cancel := h.commandContext(w, r)
	defer cancel()

	res, err := h.svc.Dispatch(ctx, uniqueID, entity.Action{Name: req.Action, Params: lo.FromPtr(req.Params)})
	if err != nil {
		handleError(w, err)
		return
	}
	writeResult(w, res)
}

func (h *Handler) GetEntityImage(w http.ResponseWriter, r *http.Request, uniqueID api.UniqueID) {
	img, err := h.svc.Image(r.Context(), uniqueID)
	if err != nil {
		handleError(w, err)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(img))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

// GetEntityHistory requires both bounds or neither.
func (h *Handler) GetEntityHistory(w http.ResponseWriter, r *http.Request, uniqueID api.UniqueID, params api.GetEntityHistoryParams) {
	if (params.From == nil) != (params.To == nil) {
		writeError(w, http.StatusBadRequest, api.ValidationError, "from and to must be given together")
		return
	}
	states, err := h.svc.History(r.Context(), uniqueID, params.From, params.To)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lo.Map(states, func(st model.EntityState, _ int) api.EntityState {
		return toEntityState(st)
	}))
}

// ParamError answers requests whose path or query parameters do not bind.
func ParamError(w http.ResponseWriter, _ *http.Request, err error) {
	writeError(w, http.StatusBadRequest, api.ValidationError, err.Error())
}

func Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// Spec serves the embedded OpenAPI document of the generated routes.
func Spec(w http.ResponseWriter, _ *http.Request) {
	swagger, err := api.GetSwagger()
	if err != nil {
		handleError(w, fmt.Errorf("load openapi document: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, swagger)
}

// commandContext extends the write deadline of w to the command timeout and
// returns a context bounded by it.
func (h *Handler) commandContext(w http.ResponseWriter, r *http.Request) (context.Context, context.CancelFunc) {
	if h.commandTimeout <= 0 {
		return r.Context(), func() {}
	}
	err := http.NewResponseController(w).SetWriteDeadline(time.Now().Add(h.commandTimeout))
	if err != nil && !errors.Is(err, http.ErrNotSupported) {
		h.logger.Debug("failed to extend write deadline", zap.Error(err))
	}
	return context.WithTimeout(r.Context(), h.commandTimeout)
}

func writeResult(w http.ResponseWriter, res entity.Result) {
	if !res.OK {
		err := res.Err
		if err == nil {
			err = errors.New(res.Reason)
		}
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.Result{Ok: true, Reason: lo.EmptyableToPtr(res.Reason)})
}

var errBadPayload = errors.New("invalid payload")

func unmarshalPayload[T any](r *http.Request) (*T, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errBadPayload, err)
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", errBadPayload, err)
	}
	return &out, nil
}

func handleError(w http.ResponseWriter, err error) {
	var reqErr *smartthings.RequestError
	switch {
	case errors.Is(err, errBadPayload):
		writeError(w, http.StatusBadRequest, api.BadRequest, err.Error())
	case errors.Is(err, logic.ErrInvalidRequest), errors.Is(err, entity.ErrInvalidParam):
		writeError(w, http.StatusBadRequest, api.ValidationError, err.Error())
	case errors.Is(err, logic.ErrNotActionable), errors.Is(err, logic.ErrNotCamera), errors.Is(err, entity.ErrUnsupportedAction):
		writeError(w, http.StatusBadRequest, api.BadRequest, err.Error())
	case errors.Is(err, logic.ErrEntityNotFound), errors.Is(err, entity.ErrNoImage):
		writeError(w, http.StatusNotFound, api.NotFound, err.Error())
	case errors.Is(err, logic.ErrHistoryDisabled):
		writeError(w, http.StatusServiceUnavailable, api.Unavailable, err.Error())
	case errors.As(err, &reqErr), smartthings.IsAuthError(err),
		errors.Is(err, smartthings.ErrNetwork), errors.Is(err, smartthings.ErrUnexpected):
		writeError(w, http.StatusBadGateway, api.UpstreamError, err.Error())
	default:
		zap.L().Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, api.InternalError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, code api.ErrorCode, message string) {
	writeJSON(w, status, api.Error{Status: status, Code: code, Message: message})
}
