package database

import (
	"context"

	"github.com/anicoll/smartthings-integration/internal/pkg/model"
)

// Write inserts all states in one transaction.
func (db *Database) Write(ctx context.Context, states model.EntityStates) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, st := range states {
		ts := st.TimeStamp
		if ts.IsZero() {
			ts = db.now()
		}
		attrs := st.Attributes
		if attrs == nil {
			attrs = map[string]any{}
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO entity_state (time_stamp, unique_id, device_id, domain, value, unit, available, attributes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, ts, st.UniqueID, st.DeviceID, st.Domain, model.FormatValue(st.Value), st.Unit, st.Available, attrs); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (db *Database) RegisterDevice(ctx context.Context, device model.Device) error {
	_, err := db.pool.Exec(ctx, `
		INSERT INTO device (id, label, manufacturer, model, room_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			label = EXCLUDED.label,
			manufacturer = EXCLUDED.manufacturer,
			model = EXCLUDED.model,
			room_id = EXCLUDED.room_id,
			updated_at = EXCLUDED.updated_at;`,
		device.ID, device.Name, device.Manufacturer, device.Model, device.RoomID, db.now())
	return err
}

// RegisterEntity is a no-op: entities are recorded through their states.
func (db *Database) RegisterEntity(context.Context, model.Entity) error {
	return nil
}
