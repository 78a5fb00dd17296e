package database

import (
	"context"

	"go.uber.org/zap"
)

// Cleanup removes states older than eight days.
func (db *Database) Cleanup(ctx context.Context) error {
	tag, err := db.pool.Exec(ctx, "DELETE FROM entity_state WHERE time_stamp < $1", db.now().Add(-retention))
	if err != nil {
		return err
	}
	db.logger.Info("cleaned up entity states", zap.Int64("deleted", tag.RowsAffected()))
	return nil
}
