// Command pixelgrid runs the grid storage and conversion service: the
// HTTP/JSON API plus the monitor visualisation pages over one sqlite
// database.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/banshee-data/pixelgrid/internal/api"
	"github.com/banshee-data/pixelgrid/internal/db"
	storesql "github.com/banshee-data/pixelgrid/internal/grid/storage/sqlite"
	"github.com/banshee-data/pixelgrid/internal/monitor"
	"github.com/banshee-data/pixelgrid/internal/version"
)

var (
	listen = flag.String("listen", ":8080", "Listen address")
	dbPath = flag.String("db", "pixelgrid.db", "Path to the sqlite database")
)

func main() {
	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	log.Printf("pixelgrid %s", version.String())

	d, err := db.Open(*dbPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer d.Close()

	if err := d.MigrateUp(); err != nil {
		log.Fatalf("migrate database: %v", err)
	}
	if v, dirty, err := d.MigrateVersion(); err == nil {
		log.Printf("database %s at schema version %d (dirty=%v)", *dbPath, v, dirty)
	}

	grids := storesql.NewGridStore(d.DB)
	convs := storesql.NewConversionStore(d.DB)

	mux := http.NewServeMux()
	mux.Handle("/api/", api.NewServer(grids, convs).ServeMux())
	mux.Handle("/monitor/", monitor.NewWebServer(grids, convs).ServeMux())

	srv := &http.Server{Addr: *listen, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("listening on %s", *listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Print("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
