package database

import (
	"context"
	"time"

	"github.com/anicoll/smartthings-integration/internal/pkg/model"
)

const stateColumns = `id, time_stamp, unique_id, device_id, domain, value, unit, available, attributes`

// History returns the states of one entity between from and to, newest
// first. Without a range it covers the last two days.
func (db *Database) History(ctx context.Context, uniqueID string, from, to *time.Time) (model.EntityStates, error) {
	if from == nil || to == nil {
		end := db.now()
		start := end.Add(-defaultHistory)
		from, to = &start, &end
	}

	rows, err := db.pool.Query(ctx, `
	SELECT `+stateColumns+`
	FROM entity_state
	WHERE unique_id = $1 AND time_stamp BETWEEN $2 AND $3
	ORDER BY time_stamp DESC;
	`, uniqueID, *from, *to)
	if err != nil {
		return nil, err
	}
	return scanStates(rows)
}

// LatestStates returns the newest state of every entity.
func (db *Database) LatestStates(ctx context.Context) (model.EntityStates, error) {
	rows, err := db.pool.Query(ctx, `
	SELECT DISTINCT ON (unique_id) `+stateColumns+`
	FROM entity_state
	ORDER BY unique_id, time_stamp DESC;
	`)
	if err != nil {
		return nil, err
	}
	return scanStates(rows)
}
