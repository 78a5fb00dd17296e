// Package database keeps the state history of every entity in Postgres.
package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/anicoll/smartthings-integration/internal/pkg/model"
)

const (
	defaultHistory = 2 * 24 * time.Hour
	retention      = 8 * 24 * time.Hour
)

type Database struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	now    func() time.Time
}

// Connect opens a pool for dsn and checks it with a ping.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func NewDatabase(pool *pgxpool.Pool) *Database {
	return &Database{
		pool:   pool,
		logger: zap.L(),
		now:    time.Now,
	}
}

func (db *Database) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

func scanStates(rows pgx.Rows) (model.EntityStates, error) {
	defer rows.Close()
	states := model.EntityStates{}
	for rows.Next() {
		var (
			st    model.EntityState
			value string
		)
		if err := rows.Scan(&st.ID, &st.TimeStamp, &st.UniqueID, &st.DeviceID, &st.Domain, &value, &st.Unit, &st.Available, &st.Attributes); err != nil {
			return nil, err
		}
		if value != model.Unknown {
			st.Value = value
		}
		states = append(states, st)
	}
	if err := rows.Err(); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	return states, nil
}
