package logic

import (
	"maps"

	"github.com/anicoll/smartthings-integration/internal/pkg/entity"
	"github.com/anicoll/smartthings-integration/internal/pkg/model"
	"github.com/anicoll/smartthings-integration/internal/pkg/smartthings"
)

// EntityView is an entity's description together with its current state.
type EntityView struct {
	model.Entity
	State      any            `json:"state"`
	Available  bool           `json:"available"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

func view(e entity.Entity) EntityView {
	st := e.State()
	return EntityView{
		Entity:     toModel(e),
		State:      st.Value,
		Available:  e.Available(),
		Attributes: st.Attributes,
	}
}

func toModel(e entity.Entity) model.Entity {
	meta := e.Meta()
	m := model.Entity{
		UniqueID:       e.UniqueID(),
		DeviceID:       e.DeviceID(),
		Domain:         e.Domain().String(),
		Name:           e.Name(),
		Icon:           meta.Icon,
		Unit:           meta.Unit,
		DeviceClass:    meta.DeviceClass,
		StateClass:     meta.StateClass,
		EntityCategory: meta.EntityCategory,
		Options:        meta.Options,
	}
	if a, ok := e.(entity.Actionable); ok {
		m.Actions = a.Actions()
	}
	return m
}

func toState(e entity.Entity) model.EntityState {
	st := e.State()
	attrs := st.Attributes
	if attribution := e.Meta().Attribution; attribution != "" {
		attrs = make(map[string]any, len(st.Attributes)+1)
		maps.Copy(attrs, st.Attributes)
		attrs["attribution"] = attribution
	}
	return model.EntityState{
		UniqueID:   e.UniqueID(),
		DeviceID:   e.DeviceID(),
		Domain:     e.Domain().String(),
		Value:      st.Value,
		Unit:       e.Meta().Unit,
		Available:  e.Available(),
		Attributes: attrs,
	}
}

func toDevice(d smartthings.Device) model.Device {
	info := entity.Info(d)
	return model.Device{
		ID:           d.DeviceID,
		Identifier:   info.Identifier,
		Name:         info.Name,
		Manufacturer: info.Manufacturer,
		Model:        info.Model,
		SWVersion:    info.SWVersion,
		HWVersion:    info.HWVersion,
		RoomID:       d.RoomID,
	}
}
