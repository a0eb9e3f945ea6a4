package di

import (
	"go.uber.org/zap"

	"nodular/application/commands"
	"nodular/application/commands/bus"
	commandhandlers "nodular/application/commands/handlers"
	"nodular/application/ports"
	"nodular/application/queries"
	querybus "nodular/application/queries/bus"
	queryhandlers "nodular/application/queries/handlers"
	"nodular/application/services"
	domainconfig "nodular/domain/config"
	"nodular/domain/core/aggregates"
	"nodular/infrastructure/config"
	"nodular/infrastructure/memory"
	"nodular/infrastructure/seed"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Board      *aggregates.Board
	Store      ports.BoardStore
	Options    *config.RenderOptionsWatcher
	CommandBus *bus.CommandBus
	QueryBus   *querybus.QueryBus
	Controller *services.InteractionController
}

// ProvideLogger creates the process logger
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	return config.NewLogger(cfg)
}

// ProvideBoard creates the board, seeded with the demo conversation
// when configured
func ProvideBoard(cfg *config.Config, logger *zap.Logger) (*aggregates.Board, error) {
	board := aggregates.NewBoard(cfg.Board.Name, domainconfig.LoadDomainConfig(cfg.Environment))
	if cfg.Board.Seed {
		ids, err := seed.DemoBoard(board)
		if err != nil {
			return nil, err
		}
		board.MarkEventsAsCommitted()
		logger.Info("board seeded", zap.Int("bubbles", len(ids)))
	}
	return board, nil
}

// ProvideBoardStore wraps the board in the in-memory store
func ProvideBoardStore(board *aggregates.Board) ports.BoardStore {
	return memory.NewBoardStore(board)
}

// ProvideOptionsWatcher creates the render options watcher
func ProvideOptionsWatcher(cfg *config.Config, logger *zap.Logger) (*config.RenderOptionsWatcher, error) {
	return config.NewRenderOptionsWatcher(cfg.Render.OptionsFile, cfg.RenderOptions(), logger)
}

// ProvideRenderOptions exposes the watcher as the options port
func ProvideRenderOptions(watcher *config.RenderOptionsWatcher) ports.RenderOptionsProvider {
	return watcher
}

// ProvideCommandBus creates the command bus with all handlers
// registered
func ProvideCommandBus(store ports.BoardStore, logger *zap.Logger) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus()
	commandBus.Use(bus.LoggingMiddleware(logger))

	registrations := []struct {
		cmd     bus.Command
		handler bus.CommandHandler
	}{
		{&commands.AddBubbleCommand{}, commandhandlers.NewAddBubbleHandler(store, logger)},
		{&commands.RemoveBubbleCommand{}, commandhandlers.NewRemoveBubbleHandler(store, logger)},
		{&commands.ConnectBubblesCommand{}, commandhandlers.NewConnectBubblesHandler(store, logger)},
		{&commands.DisconnectBubblesCommand{}, commandhandlers.NewDisconnectBubblesHandler(store, logger)},
		{&commands.MoveBubbleCommand{}, commandhandlers.NewMoveBubbleHandler(store, logger)},
		{&commands.ToggleCollapseCommand{}, commandhandlers.NewToggleCollapseHandler(store, logger)},
		{&commands.UpdateContentCommand{}, commandhandlers.NewUpdateContentHandler(store, logger)},
	}
	for _, reg := range registrations {
		if err := commandBus.Register(reg.cmd, reg.handler); err != nil {
			return nil, err
		}
	}
	return commandBus, nil
}

// ProvideQueryBus creates the query bus with all handlers registered
func ProvideQueryBus(store ports.BoardStore, options ports.RenderOptionsProvider, logger *zap.Logger) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()

	if err := queryBus.Register(&queries.GetBoardGraphQuery{},
		queryhandlers.NewGetBoardGraphHandler(store, options, logger)); err != nil {
		return nil, err
	}
	if err := queryBus.Register(&queries.CheckConnectionQuery{},
		queryhandlers.NewCheckConnectionHandler(store, logger)); err != nil {
		return nil, err
	}
	return queryBus, nil
}

// ProvideInteractionController creates the gesture controller. The
// daemon runs headless, so the renderer is a no-op; embedding hosts
// swap in their own.
func ProvideInteractionController(store ports.BoardStore, options ports.RenderOptionsProvider, logger *zap.Logger) *services.InteractionController {
	return services.NewInteractionController(store, ports.NopRenderer{}, options, logger)
}
