package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/hoverrun/internal/config"
	"github.com/zeusync/hoverrun/internal/core/events/bus"
	"github.com/zeusync/hoverrun/internal/core/observability/log"
	"github.com/zeusync/hoverrun/internal/core/physics"
	"github.com/zeusync/hoverrun/internal/core/session"
	"github.com/zeusync/hoverrun/internal/core/track"
	"github.com/zeusync/hoverrun/internal/core/vehicle"
	"github.com/zeusync/hoverrun/internal/server"
)

// App is everything cmd/hoverrun needs for one process.
type App struct {
	Config  *config.Config
	Logger  log.Log
	Session *session.Session
	Server  *server.Server
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideEventBus,
	ProvideWorld,
	ProvideVehicle,
	ProvideTrack,
	ProvideSessionConfig,
	ProvideServer,
	session.NewState,
	session.NewScore,
	session.New,
	wire.Struct(new(session.Deps), "*"),
	wire.Struct(new(App), "*"),
)

func ProvideLogger(cfg *config.Config) (log.Log, error) {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return log.New(level), nil
}

func ProvideEventBus() bus.EventBus {
	return bus.New()
}

func ProvideWorld(cfg *config.Config) *physics.World {
	return physics.NewWorld(cfg.Physics.Gravity)
}

func ProvideVehicle(cfg *config.Config, world *physics.World, state *session.State, logger log.Log, events bus.EventBus) *vehicle.Controller {
	return vehicle.New(cfg.Vehicle, nil, world,
		vehicle.WithGravity(cfg.Physics.Gravity),
		vehicle.WithGate(state),
		vehicle.WithLogger(logger),
		vehicle.WithEventBus(events),
	)
}

func ProvideTrack(cfg *config.Config, logger log.Log, events bus.EventBus) *track.Manager {
	return track.NewManager(cfg.Track, track.WithLogger(logger), track.WithEventBus(events))
}

func ProvideSessionConfig(cfg *config.Config) session.Config {
	return cfg.Session
}

func ProvideServer(cfg *config.Config, logger log.Log) *server.Server {
	return server.NewServer(cfg.Server, logger)
}
