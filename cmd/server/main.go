package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/stavrosk/wealth-compass/internal/config"
	"github.com/stavrosk/wealth-compass/internal/database"
	"github.com/stavrosk/wealth-compass/internal/events"
	"github.com/stavrosk/wealth-compass/internal/modules/advisor"
	"github.com/stavrosk/wealth-compass/internal/modules/behavioral"
	"github.com/stavrosk/wealth-compass/internal/modules/health"
	"github.com/stavrosk/wealth-compass/internal/modules/holdings"
	"github.com/stavrosk/wealth-compass/internal/modules/portfolio"
	"github.com/stavrosk/wealth-compass/internal/modules/projection"
	"github.com/stavrosk/wealth-compass/internal/modules/returns"
	"github.com/stavrosk/wealth-compass/internal/modules/risk"
	"github.com/stavrosk/wealth-compass/internal/modules/simulation"
	"github.com/stavrosk/wealth-compass/internal/modules/spending"
	"github.com/stavrosk/wealth-compass/internal/modules/trading"
	"github.com/stavrosk/wealth-compass/internal/scheduler"
	"github.com/stavrosk/wealth-compass/internal/server"
	"github.com/stavrosk/wealth-compass/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting Wealth Compass analytics engine")

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	eventManager := events.NewManager(log)

	// Repositories
	conn := db.Conn()
	historyDB := holdings.NewHistoryDB(cfg.HistoryDir, log)
	holdingRepo := holdings.NewRepository(conn, historyDB, log)
	actionRepo := trading.NewActionRepository(conn, log)
	returnRepo := returns.NewRepository(conn, log)
	riskRepo := risk.NewRepository(conn, log)
	snapshotRepo := portfolio.NewSnapshotRepository(conn, log)
	spendingRepo := spending.NewRepository(conn, log)
	scoreRepo := behavioral.NewScoreRepository(conn, log)
	goalRepo := projection.NewGoalRepository(conn, log)
	resultRepo := projection.NewResultRepository(conn, log)
	stateRepo := health.NewStateRepository(conn, log)
	optimizationRepo := advisor.NewOptimizationRepository(conn, log)

	// Services
	spendingService := spending.NewService(spendingRepo, log)
	behavioralService := behavioral.NewService(
		scoreRepo, holdingRepo, actionRepo, returnRepo, spendingRepo, snapshotRepo, eventManager, log,
	)
	advisorService := advisor.NewService(
		scoreRepo, returnRepo, actionRepo, spendingRepo, optimizationRepo, eventManager, log,
	)
	simulator := simulation.New(log)
	projectionService := projection.NewService(
		simulator, goalRepo, resultRepo, snapshotRepo, riskRepo, eventManager,
		simulation.NewGaussianFactory(uint64(time.Now().UnixNano())), log,
	)
	stateMachine := health.NewStateMachine(stateRepo, eventManager, log)
	evaluator := health.NewEvaluator(stateMachine, snapshotRepo, riskRepo, log)

	// Background jobs
	sched := scheduler.New(log)
	registerJobs(sched, behavioralService, evaluator, spendingService, log)
	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Port:       cfg.Port,
		Log:        log,
		DevMode:    cfg.DevMode,
		Behavioral: behavioralService,
		Advisor:    advisorService,
		Projection: projectionService,
		Health:     stateMachine,
		Evaluator:  evaluator,
		Spending:   spendingService,
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

func registerJobs(
	sched *scheduler.Scheduler,
	behavioralService *behavioral.Service,
	evaluator *health.Evaluator,
	spendingService *spending.Service,
	log zerolog.Logger,
) {
	jobs := []struct {
		schedule string
		job      scheduler.Job
	}{
		{"30 2 * * *", behavioral.NewRefreshJob(behavioralService, log)},
		{"0 3 * * *", evaluator},
		{"@weekly", spending.NewRecomputeJob(spendingService, log)},
	}

	for _, j := range jobs {
		if err := sched.AddJob(j.schedule, j.job); err != nil {
			log.Fatal().Err(err).Str("job", j.job.Name()).Msg("Failed to register job")
		}
	}
}
