package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/madan1440/svlf-software/internal/config"
	"github.com/madan1440/svlf-software/internal/repository"
	"github.com/madan1440/svlf-software/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogging(cfg)
	log.Info().Msg("Starting maintenance scheduler...")

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	vehicleRepo := repository.NewVehicleRepository(db)
	buyerRepo := repository.NewBuyerRepository(db)
	installmentRepo := repository.NewInstallmentRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	exportService := service.NewExportService(vehicleRepo, buyerRepo, installmentRepo)
	backupService := service.NewBackupService(exportService, auditRepo, cfg)
	maintenanceService := service.NewMaintenanceService(installmentRepo)

	c := cron.New(cron.WithSeconds())
	setupCronJobs(c, cfg, backupService, maintenanceService)

	c.Start()
	log.Info().Msg("Scheduler started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down scheduler...")
	c.Stop()
	log.Info().Msg("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, backups *service.BackupService, maintenance *service.MaintenanceService) {
	// Nightly backup archive
	_, err := c.AddFunc(cfg.Scheduler.BackupSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		log.Info().Msg("Running nightly backup job...")
		backup, err := backups.CreateBackup(ctx, "scheduler")
		if err != nil {
			log.Error().Err(err).Msg("Nightly backup failed")
			return
		}
		log.Info().Str("backup", backup.Name).Int64("size", backup.Size).Msg("Nightly backup complete")
	})
	if err != nil {
		log.Error().Err(err).Msg("Error scheduling backup job")
	}

	// Nightly overdue summary and integrity check
	_, err = c.AddFunc(cfg.Scheduler.OverdueSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		log.Info().Msg("Running overdue summary job...")
		if _, err := maintenance.ReportOverdue(ctx); err != nil {
			log.Error().Err(err).Msg("Overdue summary failed")
		}

		if err := maintenance.CheckIntegrity(ctx); err != nil {
			log.Error().Err(err).Msg("Integrity check failed")
		}
	})
	if err != nil {
		log.Error().Err(err).Msg("Error scheduling overdue summary job")
	}

	log.Info().Msg("Cron jobs scheduled successfully")
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Logging.Format == "console" || cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
