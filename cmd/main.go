package main

import (
	"context"
	"fmt"
	"os"

	"medical-appointment-scheduler/cmd/bootstrap"
	"medical-appointment-scheduler/config"
	"medical-appointment-scheduler/internal/infrastructure/database"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "medical-scheduler",
		Short: "Medical appointment scheduling API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func runServer(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		logrus.Errorf("Failed to initialize application: %v", err)
		return err
	}

	app.Run()
	return nil
}

// withDatabase loads the config and hands an open pool to fn, closing it after.
func withDatabase(fn func(cfg *config.Config, log *logrus.Logger, db *gorm.DB) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := bootstrap.SetupLogger(cfg.App.Env)

	db, err := bootstrap.OpenDatabase(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	defer sqlDB.Close()

	return fn(cfg, log, db)
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the schema migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(cfg *config.Config, log *logrus.Logger, db *gorm.DB) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return database.MigrateUp(sqlDB, log)
			})
		},
	})

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			return withDatabase(func(cfg *config.Config, log *logrus.Logger, db *gorm.DB) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return database.MigrateDown(sqlDB, steps, log)
			})
		},
	}
	downCmd.Flags().Int("steps", 1, "Number of migrations to roll back")
	cmd.AddCommand(downCmd)

	return cmd
}

func seedCmd() *cobra.Command {
	opts := database.SeedOptions{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create demo admin, doctor and patient accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(cfg *config.Config, log *logrus.Logger, db *gorm.DB) error {
				if err := database.Seed(cmd.Context(), db, opts, log); err != nil {
					return err
				}
				log.Info("Seed completed")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.AdminEmail, "admin-email", "admin@clinic.com", "Admin account email")
	cmd.Flags().StringVar(&opts.AdminPassword, "admin-password", "admin123", "Admin account password")
	cmd.Flags().StringVar(&opts.DoctorEmail, "doctor-email", "dr.silva@clinic.com", "Doctor account email")
	cmd.Flags().StringVar(&opts.DoctorPassword, "doctor-password", "doctor123", "Doctor account password")
	cmd.Flags().StringVar(&opts.PatientEmail, "patient-email", "maria@email.com", "Patient account email")
	cmd.Flags().StringVar(&opts.PatientPassword, "patient-password", "patient123", "Patient account password")

	return cmd
}
