package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ayusman/nvar/internal/app"
	"github.com/ayusman/nvar/internal/detector"
	"github.com/ayusman/nvar/internal/nvar"
	"github.com/ayusman/nvar/internal/probe"
	"github.com/ayusman/nvar/internal/server"
	"github.com/ayusman/nvar/internal/store"
)

func main() {
	var (
		listen   = flag.String("listen", ":8080", "HTTP listen address")
		dbPath   = flag.String("db", "", "probe database (default ~/.nvar/nvar.db)")
		once     = flag.Bool("probe", false, "run a single probe, print it as JSON and exit")
		sdkPath  = flag.String("sdk", "", "AR SDK installation directory (overrides "+nvar.EnvSDKPath+")")
		libPath  = flag.String("lib", "", "explicit path of the SDK shared library")
		models   = flag.String("models", "", "model directory (overrides "+nvar.EnvModelDir+")")
		interval = flag.Duration("interval", 0, "probe interval while serving, 0 disables scheduled probes")
		webDir   = flag.String("web", "", "directory of static files to serve")
	)
	flag.Parse()

	cfg := nvar.DefaultConfig()
	if *sdkPath != "" {
		cfg.SDKPath = *sdkPath
	}
	if *libPath != "" {
		cfg.LibraryPath = *libPath
	}
	if *models != "" {
		cfg.ModelDir = *models
	}

	load := nvar.Shared
	if *sdkPath != "" || *libPath != "" || *models != "" {
		load = nvar.Lazy(cfg)
	}

	detCfg := detector.DefaultConfig()
	detCfg.ModelDir = *models

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *once {
		if err := runProbe(ctx, load, detCfg); err != nil {
			log.Fatalf("Probe failed: %v", err)
		}
		return
	}

	fmt.Println("nvar - AR SDK status service")

	if *dbPath == "" {
		*dbPath = defaultDBPath()
	}
	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()
	fmt.Printf("Using database: %s\n", st.Path())

	if *webDir != "" {
		fmt.Printf("Serving static files from: %s\n", *webDir)
	}

	srv := server.New(server.Config{
		StaticDir: *webDir,
		Store:     st,
		Library:   load,
		Detector:  detCfg,
	})

	if *interval > 0 {
		monitor := app.New(app.Config{
			Store:    st,
			Library:  load,
			Detector: detCfg,
			Interval: *interval,
			Notify:   srv.Events().Publish,
		})
		monitor.Start()
		defer monitor.Stop()
	}

	fmt.Printf("Starting server on %s\n", *listen)
	if err := srv.ListenAndServe(ctx, *listen); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
	log.Println("Server stopped")
}

// runProbe probes the SDK once and writes the report to stdout.
func runProbe(ctx context.Context, load func() (*nvar.Library, error), cfg detector.Config) error {
	lib, err := load()
	if err != nil {
		return err
	}
	defer lib.Close()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	rep, err := probe.New(lib, cfg).Run(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// defaultDBPath returns ~/.nvar/nvar.db, or nvar.db in the working
// directory when the home directory is unknown.
func defaultDBPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "nvar.db"
	}
	return filepath.Join(homeDir, ".nvar", "nvar.db")
}
