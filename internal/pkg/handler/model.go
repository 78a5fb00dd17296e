package handler

import (
	"time"

	"github.com/samber/lo"

	"github.com/anicoll/smartthings-integration/internal/pkg/logic"
	"github.com/anicoll/smartthings-integration/internal/pkg/model"
	"github.com/anicoll/smartthings-integration/pkg/api"
)

type TokenRequest struct {
	APIKey string `json:"api_key"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

func toEntity(v logic.EntityView) api.Entity {
	return api.Entity{
		UniqueId:          v.UniqueID,
		DeviceId:          v.DeviceID,
		Domain:            v.Domain,
		Name:              v.Name,
		Icon:              lo.EmptyableToPtr(v.Icon),
		UnitOfMeasurement: lo.EmptyableToPtr(v.Unit),
		DeviceClass:       lo.EmptyableToPtr(v.DeviceClass),
		StateClass:        lo.EmptyableToPtr(v.StateClass),
		EntityCategory:    lo.EmptyableToPtr(v.EntityCategory),
		Options:           sliceToPtr(v.Options),
		Actions:           sliceToPtr(v.Actions),
		State:             v.State,
		Available:         v.Available,
		Attributes:        mapToPtr(v.Attributes),
	}
}

func toEntityState(st model.EntityState) api.EntityState {
	return api.EntityState{
		Id:                lo.EmptyableToPtr(st.ID),
		Timestamp:         st.TimeStamp,
		UniqueId:          st.UniqueID,
		DeviceId:          st.DeviceID,
		Domain:            st.Domain,
		State:             st.Value,
		UnitOfMeasurement: lo.EmptyableToPtr(st.Unit),
		Available:         st.Available,
		Attributes:        mapToPtr(st.Attributes),
	}
}

func sliceToPtr[T any](s []T) *[]T {
	if len(s) == 0 {
		return nil
	}
	return &s
}

func mapToPtr(m map[string]any) *map[string]interface{} {
	if len(m) == 0 {
		return nil
	}
	return &m
}
