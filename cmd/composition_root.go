package cmd

import (
	"context"
	"log/slog"
	"os"
	"time"

	"gorm.io/gorm"

	"parceltrack/internal/adapters/in/auth"
	httpin "parceltrack/internal/adapters/in/http"
	"parceltrack/internal/adapters/in/ws"
	"parceltrack/internal/adapters/out/postgres"
	"parceltrack/internal/adapters/out/postgres/historyrepo"
	"parceltrack/internal/adapters/out/postgres/parcelrepo"
	"parceltrack/internal/adapters/out/postgres/userdir"
	"parceltrack/internal/adapters/out/rediscache"
	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/application/usecases/queries"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/jobs"
)

// CompositionRoot wires every adapter and use case together. It is the
// only place that knows concrete implementations.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	hub        *ws.Hub
	cache      *rediscache.SnapshotCache
	publisher  ports.EventPublisher
	tokens     *auth.TokenParser
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) (*CompositionRoot, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	tokens, err := auth.NewTokenParser(config.JWTSecret)
	if err != nil {
		return nil, err
	}

	cache, err := rediscache.NewSnapshotCache(config.RedisURL, rediscache.DefaultTTL)
	if err != nil {
		return nil, err
	}

	hub := ws.NewHub(logger)

	return &CompositionRoot{
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		hub:        hub,
		cache:      cache,
		publisher:  fanoutPublisher{hub: hub, cache: cache, logger: logger},
		tokens:     tokens,
		logger:     logger,
	}, nil
}

const invalidateTimeout = 5 * time.Second

// snapshotInvalidator drops a cached tracking snapshot.
type snapshotInvalidator interface {
	Invalidate(ctx context.Context, trackingID string) error
}

// fanoutPublisher hands a committed event to a detached goroutine: the
// cached tracking snapshot is dropped first so the next read serves fresh
// state, then the hub fans out. The mutation path never waits on redis or
// on slow sockets.
type fanoutPublisher struct {
	hub    ports.EventPublisher
	cache  snapshotInvalidator
	logger *slog.Logger
}

func (p fanoutPublisher) Publish(event ports.ParcelEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), invalidateTimeout)
		defer cancel()
		if err := p.cache.Invalidate(ctx, event.TrackingID.String()); err != nil {
			p.logger.Warn("invalidate snapshot cache", "trackingId", event.TrackingID.String(), "error", err)
		}
		p.hub.Publish(event)
	}()
}

func (c *CompositionRoot) Logger() *slog.Logger {
	return c.logger
}

func (c *CompositionRoot) TokenParser() *auth.TokenParser {
	return c.tokens
}

func (c *CompositionRoot) Hub() *ws.Hub {
	return c.hub
}

func (c *CompositionRoot) Close() error {
	return c.cache.Close()
}

func (c *CompositionRoot) commandUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

// mainConnectionParcelRepository returns a repository on the main
// connection, outside any transaction, for read-side consumers.
func (c *CompositionRoot) mainConnectionParcelRepository() ports.ParcelRepository {
	return c.uowFactory.Create().ParcelRepository()
}

func (c *CompositionRoot) CreateBookParcelCommandHandler() commands.BookParcelCommandHandler {
	return commands.NewBookParcelCommandHandler(c.commandUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateAssignAgentCommandHandler() commands.AssignAgentCommandHandler {
	return commands.NewAssignAgentCommandHandler(
		c.commandUoWFactory(), c.publisher, userdir.NewGormUserDirectory(c.gormDB))
}

func (c *CompositionRoot) CreateBulkAssignAgentsCommandHandler() commands.BulkAssignAgentsCommandHandler {
	return commands.NewBulkAssignAgentsCommandHandler(c.CreateAssignAgentCommandHandler())
}

func (c *CompositionRoot) CreateUpdateParcelStatusCommandHandler() commands.UpdateParcelStatusCommandHandler {
	return commands.NewUpdateParcelStatusCommandHandler(c.commandUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateUpdateParcelLocationCommandHandler() commands.UpdateParcelLocationCommandHandler {
	return commands.NewUpdateParcelLocationCommandHandler(c.commandUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateCancelParcelCommandHandler() commands.CancelParcelCommandHandler {
	return commands.NewCancelParcelCommandHandler(c.commandUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateTrackParcelQueryHandler() queries.TrackParcelQueryHandler {
	return queries.NewTrackParcelQueryHandler(c.gormDB, c.cache)
}

func (c *CompositionRoot) CreateGetParcelHistoryQueryHandler() queries.GetParcelHistoryQueryHandler {
	return queries.NewGetParcelHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetParcelsQueryHandler() queries.GetParcelsQueryHandler {
	return queries.NewGetParcelsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetUnassignedParcelsQueryHandler() queries.GetUnassignedParcelsQueryHandler {
	return queries.NewGetUnassignedParcelsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateBookParcelCommandHandler(),
		c.CreateAssignAgentCommandHandler(),
		c.CreateBulkAssignAgentsCommandHandler(),
		c.CreateUpdateParcelStatusCommandHandler(),
		c.CreateUpdateParcelLocationCommandHandler(),
		c.CreateCancelParcelCommandHandler(),
		c.CreateTrackParcelQueryHandler(),
		c.CreateGetParcelHistoryQueryHandler(),
		c.CreateGetParcelsQueryHandler(),
		c.CreateGetUnassignedParcelsQueryHandler(),
	)
}

func (c *CompositionRoot) CreateWebsocketHandler() (*ws.Handler, error) {
	authorizer, err := ws.NewSubscriptionAuthorizer(
		c.mainConnectionParcelRepository(), services.NewAccessPolicy())
	if err != nil {
		return nil, err
	}
	return ws.NewHandler(c.hub, c.tokens, authorizer, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.mainConnectionParcelRepository(),
		c.hub,
		jobs.DefaultUnassignedThreshold,
		jobs.DefaultStaleTransitThreshold,
		c.logger,
	)
}

// Migrate creates or updates the database schema for every persisted model.
func (c *CompositionRoot) Migrate() error {
	return c.gormDB.AutoMigrate(
		&parcelrepo.ParcelDTO{},
		&historyrepo.EntryDTO{},
		&userdir.UserDTO{},
	)
}

// FuncUoWFactory adapts a closure to the commands.UoWFactory interface.
type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
