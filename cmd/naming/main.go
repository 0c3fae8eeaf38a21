// Command naming runs a naming server: the directory-tree metadata engine
// and the Service/Registration RPC endpoints in front of it.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/marmos91/nsfs/internal/logger"
	"github.com/marmos91/nsfs/pkg/config"
	"github.com/marmos91/nsfs/pkg/naming"
	"github.com/marmos91/nsfs/pkg/rpc"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (YAML)")
	serviceAddr := flag.String("service-address", "", "Override the Service listen address")
	registrationAddr := flag.String("registration-address", "", "Override the Registration listen address")
	logLevel := flag.String("log-level", "", "Override the log level (DEBUG, INFO, WARN, ERROR)")
	flag.Parse()

	cfg, err := config.LoadNaming(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *serviceAddr != "" {
		cfg.ServiceAddress = *serviceAddr
	}
	if *registrationAddr != "" {
		cfg.RegistrationAddress = *registrationAddr
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	logger.SetLevel(cfg.Logging.Level)

	placement, err := config.CreatePlacementPolicy(cfg)
	if err != nil {
		log.Fatalf("failed to create placement policy: %v", err)
	}

	tree := naming.NewTree(naming.NewRegistry(), placement)
	tree.SetReplicationThreshold(cfg.ReplicationThreshold)

	service, err := rpc.Listen(cfg.ServiceAddress, "Service", rpc.WrapService(rpc.NewServiceServer(tree)))
	if err != nil {
		log.Fatalf("failed to start Service endpoint: %v", err)
	}
	defer service.Stop()

	registration, err := rpc.Listen(cfg.RegistrationAddress, "Registration", rpc.WrapRegistration(rpc.NewRegistrationServer(tree)))
	if err != nil {
		log.Fatalf("failed to start Registration endpoint: %v", err)
	}
	defer registration.Stop()

	logger.Info("naming server listening: service=%s registration=%s placement=%s",
		service.Address(), registration.Address(), cfg.Placement)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("shutdown signal received")
}
