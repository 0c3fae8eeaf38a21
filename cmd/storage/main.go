// Command storage runs a storage server: a storageengine.Engine fronted by
// the client-facing Storage and naming-facing Command RPC endpoints,
// registered with a naming server on startup.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/marmos91/nsfs/internal/logger"
	"github.com/marmos91/nsfs/pkg/config"
	"github.com/marmos91/nsfs/pkg/storageserver"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (YAML)")
	hostname := flag.String("hostname", "", "Override the hostname shown in this server's log output")
	clientAddr := flag.String("client-address", "", "Override the Storage listen address")
	commandAddr := flag.String("command-address", "", "Override the Command listen address")
	namingAddr := flag.String("naming-address", "", "Override the naming server's Registration address")
	logLevel := flag.String("log-level", "", "Override the log level (DEBUG, INFO, WARN, ERROR)")
	flag.Parse()

	cfg, err := config.LoadStorage(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *hostname != "" {
		cfg.Hostname = *hostname
	}
	if *clientAddr != "" {
		cfg.ClientAddress = *clientAddr
	}
	if *commandAddr != "" {
		cfg.CommandAddress = *commandAddr
	}
	if *namingAddr != "" {
		cfg.NamingAddress = *namingAddr
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	logger.SetLevel(cfg.Logging.Level)

	engine, err := config.CreateStorageEngine(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to create storage engine: %v", err)
	}

	srv := storageserver.New(cfg.Hostname, engine)
	if err := srv.Start(cfg.ClientAddress, cfg.CommandAddress, cfg.NamingAddress); err != nil {
		log.Fatalf("failed to start storage server: %v", err)
	}

	logger.Info("storage server %q listening: client=%s command=%s naming=%s",
		cfg.Hostname, srv.ClientAddress(), srv.CommandAddress(), cfg.NamingAddress)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("shutdown signal received")

	if err := srv.Stop(); err != nil {
		log.Fatalf("failed to stop storage server: %v", err)
	}
}
