package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"resource-center-placer/internal/server"
)

func newServeCommand() *cobra.Command {
	var (
		data   dataFlags
		addr   string
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the optimization API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), data, addr, dbPath)
		},
	}

	data.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address; defaults to SERVER_ADDR or 127.0.0.1:8080")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database for run history and the distance cache")

	return cmd
}

func runServe(ctx context.Context, data dataFlags, addr, dbPath string) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("[CLI] No .env file loaded: %v", err)
	}

	if addr == "" {
		addr = getEnv("SERVER_ADDR", "127.0.0.1:8080")
	}
	if dbPath == "" {
		dbPath = os.Getenv("DB_PATH")
	}

	srv, err := server.New(server.Config{
		Addr:            addr,
		PointsPath:      data.points,
		ZonesPath:       data.zones,
		DistancesPath:   data.distances,
		ConstraintsPath: data.constraints,
		DBPath:          dbPath,
	})
	if err != nil {
		return err
	}

	if _, err := srv.Start(); err != nil {
		return err
	}

	<-ctx.Done()
	log.Printf("[CLI] Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
