// Command viability-report serves the IC50 dose-response pipeline over
// HTTP. Every request is an independent, stateless computation; nothing is
// persisted between calls.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/banshee-data/viability.report/internal/api"
	"github.com/banshee-data/viability.report/internal/assay"
	"github.com/banshee-data/viability.report/internal/config"
	"github.com/banshee-data/viability.report/internal/version"
)

var (
	listen      = flag.String("listen", "", "Listen address (overrides config)")
	configPath  = flag.String("config", "", "Path to assay defaults JSON (optional)")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

const indexPage = `<!doctype html>
<html><body>
<h1>viability.report</h1>
<ul>
<li><a href="/api/example">GET /api/example</a>: example dataset and parameters</li>
<li>POST /api/ic50: compute IC50 from a JSON grid or inline TSV</li>
<li>POST /api/ic50/tsv: compute IC50 from a raw TSV body</li>
<li><a href="/api/plot">GET /api/plot</a>: PNG dose-response plot (example data)</li>
<li><a href="/api/chart">GET /api/chart</a>: HTML chart (example data)</li>
</ul>
</body></html>
`

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("viability-report %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		os.Exit(0)
	}

	cfg := config.EmptyAssayConfig()
	if *configPath != "" {
		loaded, err := config.LoadAssayConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg.Merge(loaded)
	}

	addr := cfg.GetListen()
	if *listen != "" {
		addr = *listen
	}

	defaults := cfg.Params()
	if g, err := assay.ExampleGrid(); err != nil {
		log.Fatalf("embedded example dataset is broken: %v", err)
	} else if err := defaults.Validate(g); err != nil {
		log.Fatalf("configured defaults do not fit the example dataset: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	apiMux := api.NewServer(defaults).ServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", apiMux))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, indexPage)
	})

	server := &http.Server{
		Addr:    addr,
		Handler: api.LoggingMiddleware(mux),
	}

	go func() {
		log.Printf("listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for context cancellation to shut down server
	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	log.Printf("graceful shutdown complete")
}
