// Package db wires the configured persistence backend into the user and
// event gateways.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/event-console/internal/core/domain"
	"github.com/99minutos/event-console/internal/core/ports"
	"github.com/99minutos/event-console/internal/infrastructure/config"
	"github.com/99minutos/event-console/internal/infrastructure/db/file"
	"github.com/99minutos/event-console/internal/infrastructure/db/mongo"
	"github.com/99minutos/event-console/internal/infrastructure/db/redis"
	"github.com/99minutos/event-console/internal/infrastructure/db/sqlite"
)

// Collection names shared by every backend.
const (
	CollectionUsers  = "users"
	CollectionEvents = "events"
)

// Stores holds the gateways for one backend and the resources behind them.
type Stores struct {
	Driver string
	Users  ports.UserGateway
	Events ports.EventGateway

	closers []func(context.Context) error
}

// Close releases backend connections.
func (s *Stores) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Open connects to the backend selected by cfg.Store.Driver.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Stores, error) {
	s := &Stores{Driver: cfg.Store.Driver}

	switch cfg.Store.Driver {
	case config.DriverFile:
		users, err := file.NewGateway(cfg.Store.DataDir, CollectionUsers, domain.UserID)
		if err != nil {
			return nil, err
		}
		events, err := file.NewGateway(cfg.Store.DataDir, CollectionEvents, domain.EventID)
		if err != nil {
			return nil, err
		}
		s.Users, s.Events = users, events
		log.Info().Str("dir", cfg.Store.DataDir).Msg("using file store")

	case config.DriverMongo:
		client, database, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Store.Timeout,
		})
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, client.Disconnect)

		users := mongo.NewDocumentGateway(database, CollectionUsers, domain.UserID, cfg.Store.Timeout)
		events := mongo.NewDocumentGateway(database, CollectionEvents, domain.EventID, cfg.Store.Timeout)
		if err := users.EnsureIndexes(ctx, "email"); err != nil {
			log.Warn().Err(err).Msg("failed to ensure user indexes")
		}
		if err := events.EnsureIndexes(ctx, "owner", "published"); err != nil {
			log.Warn().Err(err).Msg("failed to ensure event indexes")
		}
		s.Users, s.Events = users, events
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	case config.DriverRedis:
		client, err := redis.Connect(ctx, redis.Config{
			Addr:    cfg.Redis.Addr,
			DB:      cfg.Redis.DB,
			Timeout: cfg.Store.Timeout,
		})
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func(context.Context) error { return client.Close() })

		s.Users = redis.NewHashGateway(client, cfg.Redis.Prefix, CollectionUsers, domain.UserID)
		s.Events = redis.NewHashGateway(client, cfg.Redis.Prefix, CollectionEvents, domain.EventID)
		log.Info().Str("addr", cfg.Redis.Addr).Int("db", cfg.Redis.DB).Msg("connected to redis")

	case config.DriverSQLite:
		conn, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func(context.Context) error { return conn.Close() })

		users, err := sqlite.NewDocumentGateway(ctx, conn, CollectionUsers, domain.UserID)
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
		events, err := sqlite.NewDocumentGateway(ctx, conn, CollectionEvents, domain.EventID)
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
		s.Users, s.Events = users, events
		log.Info().Str("path", cfg.Store.SQLitePath).Msg("opened sqlite store")

	default:
		return nil, fmt.Errorf("db: unknown driver %q", cfg.Store.Driver)
	}

	return s, nil
}
