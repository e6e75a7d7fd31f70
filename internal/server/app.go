// Package server wires the rateday server together: storage, push delivery,
// the rating services, the daily reminder scheduler and the gRPC endpoint.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/rateday/internal/logging"
	"github.com/dmitrijs2005/rateday/internal/server/config"
	"github.com/dmitrijs2005/rateday/internal/server/push"
	"github.com/dmitrijs2005/rateday/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/rateday/internal/server/services"

	gs "github.com/dmitrijs2005/rateday/internal/server/grpc"
)

type App struct {
	config              *config.Config
	logger              logging.Logger
	repositoryManager   repomanager.RepositoryManager
	ratingService       *services.RatingService
	subscriptionService *services.SubscriptionService
	reminderService     *services.ReminderService
	exportService       *services.ExportService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(os.Stdout, "json", c.LogLevel)

	loc, err := c.Location()
	if err != nil {
		return nil, fmt.Errorf("reminder timezone: %w", err)
	}

	rm, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close(ctx)
		return nil, fmt.Errorf("db migrations error: %w", err)
	}

	sender := push.NewWebPush(c.VAPIDPublicKey, c.VAPIDPrivateKey, c.VAPIDSubject)
	if !sender.Configured() {
		logger.Warn(ctx, "VAPID keys are not configured, push notifications are disabled")
	}

	return &App{
		config:              c,
		logger:              logger,
		repositoryManager:   rm,
		ratingService:       services.NewRatingService(rm, loc, logger),
		subscriptionService: services.NewSubscriptionService(rm, sender, c.DevMode, logger),
		reminderService:     services.NewReminderService(rm, sender, loc, c.ReminderConcurrency, logger),
		exportService:       services.NewExportService(rm, c, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.ratingService, app.subscriptionService, app.exportService, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startReminderScheduler(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.reminderService.Run(ctx, app.config.ReminderTime); err != nil {
		app.logger.Error(ctx, "reminder scheduler stopped", "error", err)
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddrGRPC, "dev", app.config.DevMode)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startReminderScheduler(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repositoryManager.Close(context.Background()); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
}
