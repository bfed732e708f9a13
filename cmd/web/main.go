// Web server for zoldermarkt
package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	prof "github.com/go-while/go-cpu-mem-profiler"

	"github.com/hjkuiper/zoldermarkt/internal/config"
	"github.com/hjkuiper/zoldermarkt/internal/database"
	"github.com/hjkuiper/zoldermarkt/internal/web"
)

var (
	// command-line flags
	configFile  string
	webport     int
	webssl      bool
	webcertFile string
	webkeyFile  string
	dataDir     string
	pprofWeb    string
)

var Prof *prof.Profiler

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion

	flag.StringVar(&configFile, "config", "", "Path to TOML configuration file (optional)")
	flag.IntVar(&webport, "webport", 0, "Web server port (default: 11980)")
	flag.BoolVar(&webssl, "webssl", false, "Enable SSL")
	flag.StringVar(&webcertFile, "websslcert", "", "SSL certificate file (/path/to/fullchain.pem)")
	flag.StringVar(&webkeyFile, "websslkey", "", "SSL key file (/path/to/privkey.pem)")
	flag.StringVar(&dataDir, "data", "", "Directory to store database files (default: ./data)")
	flag.StringVar(&pprofWeb, "pprofweb", "", "Listen address for pprof web endpoint, e.g. :61112 (default: disabled)")
	flag.Parse()

	log.Printf("Starting zoldermarkt web server (version: %s)", appVersion)

	// Load configuration from file or use defaults
	var mainConfig *config.MainConfig
	var err error
	if configFile != "" {
		mainConfig, err = config.LoadFromFile(configFile)
		if err != nil {
			log.Fatalf("[WEB]: Failed to load configuration: %v", err)
		}
	} else {
		mainConfig = config.NewDefaultConfig()
	}
	webConfig := mainConfig.Server.WEB

	// Override config with command-line flags if provided
	if webport > 0 {
		webConfig.ListenPort = webport
		log.Printf("[WEB]: Overriding listen port with command-line flag: %d", webConfig.ListenPort)
	}
	if webssl {
		webConfig.SSL = true
		log.Printf("[WEB]: SSL enabled via command-line flag")
	}
	if webcertFile != "" {
		webConfig.CertFile = webcertFile
	}
	if webkeyFile != "" {
		webConfig.KeyFile = webkeyFile
	}

	// Validate port
	if webConfig.ListenPort < 1024 || webConfig.ListenPort > 65535 {
		log.Fatalf("[WEB]: Invalid port number: %d (must be between 1024 and 65535)", webConfig.ListenPort)
	}

	if pprofWeb != "" {
		Prof = prof.NewProf()
		go Prof.PprofWeb(pprofWeb)
		Prof.StartMemProfile(5*time.Minute, 30*time.Second)
		log.Printf("[WEB]: pprof web endpoint listening on %s", pprofWeb)
	}

	protocol := "http"
	if webConfig.SSL {
		protocol = "https"
	}
	log.Printf("[WEB]: Starting zoldermarkt web server on %s://localhost:%d", protocol, webConfig.ListenPort)

	// Initialize database
	dbConfig := database.DefaultDBConfig()
	if dataDir != "" {
		dbConfig.DataDir = dataDir
	} else if mainConfig.Database.DataDir != "" {
		dbConfig.DataDir = mainConfig.Database.DataDir
	}

	db, err := database.OpenDatabase(dbConfig)
	if err != nil {
		log.Fatalf("[WEB]: Failed to initialize database: %v", err)
	}

	// Create the web server
	server := web.NewServer(db, webConfig)

	// Set up cross-platform signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt) // Cross-platform (Ctrl+C on both Windows and Linux)

	// Start web server in goroutine to make it non-blocking
	webServerErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			webServerErrChan <- err
		}
	}()

	go db.UpdateHeartbeat() // Start heartbeat updater in the background

	log.Printf("[WEB]: Server started successfully. Press Ctrl+C to gracefully shutdown...")

	// Wait for either shutdown signal or server error
	select {
	case <-sigChan:
		log.Printf("[WEB]: Received shutdown signal, initiating graceful shutdown...")
	case err := <-webServerErrChan:
		log.Fatalf("[WEB]: Failed to start web server: %v", err)
	}

	// Signal background tasks to stop
	close(db.StopChan)

	if err := db.Shutdown(); err != nil {
		log.Fatalf("[WEB]: Failed to shutdown database: %v", err)
	}
	log.Printf("[WEB]: Graceful shutdown completed")
}
