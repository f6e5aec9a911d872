// Command sysmon is a host metrics agent that runs as an OS service.
// It registers itself with the platform service manager, collects cpu,
// memory and uptime metrics on a schedule and ships them to a file or
// a Kafka topic.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"svckit"
	"svckit/internal/agentinfo"
	"svckit/internal/collector"
	"svckit/internal/config"
	"svckit/internal/logger"
	"svckit/internal/network"
	"svckit/internal/scheduler"
	"svckit/internal/sender"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

const startupErrorLogDir = "log/sysmon"

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: sysmon [flags] <command>

Commands:
  install     register sysmon with the service manager
  uninstall   remove the service registration
  start       start the installed service
  stop        stop the running service
  status      report whether the service is installed
  run         run the agent (default; used by the service manager)
  version     print version information

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", "conf/sysmon.json", "Path to configuration file")
	flag.Usage = usage
	flag.Parse()

	cmd := "run"
	if flag.NArg() > 0 {
		cmd = flag.Arg(0)
	}

	if cmd == "version" {
		fmt.Printf("sysmon %s (built %s)\n", version, buildTime)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		reportStartupFailure(config.DefaultServiceName, err)
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging); err != nil {
		reportStartupFailure(cfg.Service.Name, err)
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log := logger.WithComponent("main")

	svc := svckit.New(cfg.Service.Name,
		svckit.WithLogger(logger.WithComponent("svckit")),
		svckit.WithPauseControl(),
		svckit.WithSessionNotifications(),
	)

	switch cmd {
	case "install":
		err = install(svc, cfg, *configPath)
	case "uninstall":
		err = svc.Delete()
	case "start":
		err = svc.Start()
	case "stop":
		err = svc.Stop()
	case "status":
		err = status(svc)
	case "run":
		log.Info().
			Str("version", version).
			Str("config", *configPath).
			Msg("Starting sysmon")
		err = runService(svc, cfg, *configPath)
		if err != nil {
			reportStartupFailure(cfg.Service.Name, err)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Error().Err(err).Str("command", cmd).Msg("Command failed")
		fmt.Fprintf(os.Stderr, "sysmon %s: %v\n", cmd, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, falling back to defaults when the
// file does not exist so install/status work on a fresh machine.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return config.DefaultConfig(), nil
	}
	return cfg, err
}

// reportStartupFailure records a failure that happens before the logger
// is usable: the event log on Windows plus a well-known file.
func reportStartupFailure(name string, err error) {
	svckit.ReportStartupError(name, err)
	svckit.WriteStartupErrorFile(startupErrorLogDir, err)
}

func install(svc *svckit.Service, cfg *config.Config, configPath string) error {
	bin, err := os.Executable()
	if err != nil {
		return fmt.Errorf("cannot resolve own executable path: %w", err)
	}
	absConfig, err := filepath.Abs(configPath)
	if err != nil {
		return fmt.Errorf("cannot resolve config path: %w", err)
	}

	sc := svckit.Config{
		DisplayName: cfg.Service.DisplayName,
		Description: cfg.Service.Description,
		Binary:      bin,
		Arguments:   []string{"-config", absConfig, "run"},
		WorkingDir:  cfg.Service.WorkingDir,
		Username:    cfg.Service.Username,
		StartType:   svckit.StartAutomatic,
	}
	if err := svc.Create(sc); err != nil {
		return err
	}
	fmt.Printf("Service %q installed\n", svc.Name())
	return nil
}

func status(svc *svckit.Service) error {
	exists, err := svc.Exists()
	if err != nil {
		return err
	}
	if exists {
		fmt.Printf("Service %q is installed\n", svc.Name())
	} else {
		fmt.Printf("Service %q is not installed\n", svc.Name())
	}
	return nil
}

// runService hosts the agent under the service dispatcher. The same
// body runs under the manager and in the foreground; svckit picks the
// mode.
func runService(svc *svckit.Service, cfg *config.Config, configPath string) error {
	return svckit.DispatchTask(svc, func(ctx context.Context, args []string, events <-chan svckit.Event[struct{}], tx svckit.EventSender[struct{}]) error {
		return runAgent(ctx, cfg, configPath, events)
	})
}

// agentState is the running machinery the control events act on.
type agentState struct {
	mu       sync.Mutex
	registry *collector.Registry
	sched    *scheduler.Scheduler
}

func runAgent(ctx context.Context, cfg *config.Config, configPath string, events <-chan svckit.Event[struct{}]) error {
	log := logger.WithComponent("main")

	agentID := config.GetAgentID(cfg)
	hostname := config.GetHostname(cfg)
	tags := cfg.Agent.Tags

	// Optional fleet-registry lookup. A provisioned host gets its
	// identity and tags from Redis; an unknown host keeps the config
	// values.
	dialFunc := network.DialerFunc(cfg.SOCKSProxy.Host, cfg.SOCKSProxy.Port)
	identity, err := agentinfo.Fetch(ctx, cfg.Redis, dialFunc, hostname)
	if err != nil {
		log.Warn().Err(err).Msg("Agent identity lookup failed, using config identity")
	} else if identity != nil {
		if identity.AgentID != "" {
			agentID = identity.AgentID
		}
		tags = mergeTags(identity.Tags(), tags)
		log.Info().
			Str("agent_id", agentID).
			Str("site", identity.Site).
			Str("env", identity.Environment).
			Msg("Agent identity loaded from registry")
	}

	log.Info().
		Str("agent_id", agentID).
		Str("hostname", hostname).
		Msg("Agent initialized")

	registry := collector.DefaultRegistry()
	if err := registry.Configure(cfg.Collectors); err != nil {
		return fmt.Errorf("failed to configure collectors: %w", err)
	}

	snd, err := sender.NewSender(cfg)
	if err != nil {
		return fmt.Errorf("failed to create sender: %w", err)
	}
	defer func() {
		log.Info().Msg("Closing sender")
		if err := snd.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing sender")
		}
	}()

	switch cfg.SenderType {
	case "kafka":
		log.Info().
			Strs("brokers", cfg.Kafka.Brokers).
			Str("topic", cfg.Kafka.Topic).
			Msg("Using kafka sender")
	default:
		log.Info().
			Str("file_path", cfg.File.FilePath).
			Msg("Using file sender")
	}

	state := &agentState{
		registry: registry,
		sched:    scheduler.New(registry, snd, agentID, hostname, tags),
	}
	if err := state.sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer state.sched.Stop()

	cleanupWatcher := startConfigWatcher(ctx, state, configPath)
	defer cleanupWatcher()

	return controlLoop(ctx, state, events)
}

// controlLoop maps service control events onto the scheduler: pause
// stops collection, continue resumes it, stop returns.
func controlLoop(ctx context.Context, state *agentState, events <-chan svckit.Event[struct{}]) error {
	log := logger.WithComponent("main")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Received shutdown signal")
			return nil

		case ev := <-events:
			switch ev.Kind {
			case svckit.EventStop:
				log.Info().Msg("Received stop event")
				return nil

			case svckit.EventPause:
				log.Info().Msg("Pausing collection")
				state.mu.Lock()
				state.sched.Stop()
				state.mu.Unlock()

			case svckit.EventContinue:
				log.Info().Msg("Resuming collection")
				state.mu.Lock()
				if err := state.sched.Start(ctx); err != nil {
					log.Error().Err(err).Msg("Failed to resume scheduler")
				}
				state.mu.Unlock()

			case svckit.EventSessionLock, svckit.EventSessionUnlock,
				svckit.EventSessionLogon, svckit.EventSessionLogoff,
				svckit.EventSessionConnect, svckit.EventSessionDisconnect,
				svckit.EventSessionRemoteConnect, svckit.EventSessionRemoteDisconnect:
				log.Debug().
					Stringer("event", ev.Kind).
					Uint32("session", ev.Session.ID).
					Msg("Session change")
			}
		}
	}
}

// startConfigWatcher hot-reloads collector intervals and log settings
// when the config file changes. Returns a cleanup function.
func startConfigWatcher(ctx context.Context, state *agentState, configPath string) func() {
	log := logger.WithComponent("main")

	watcher, err := config.NewWatcher(configPath, func(newCfg *config.Config) {
		log.Info().Msg("Applying configuration changes")

		if err := logger.Init(newCfg.Logging); err != nil {
			log.Error().Err(err).Msg("Failed to update logging configuration")
		}

		state.mu.Lock()
		defer state.mu.Unlock()

		if err := state.registry.Configure(newCfg.Collectors); err != nil {
			log.Error().Err(err).Msg("Failed to update collector configurations")
			return
		}

		// Intervals are read when a collector loop starts, so a restart
		// picks up the new schedule.
		if state.sched.IsRunning() {
			state.sched.Stop()
			if err := state.sched.Start(ctx); err != nil {
				log.Error().Err(err).Msg("Failed to restart scheduler")
				return
			}
		}
		log.Info().Msg("Configuration updated")
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create config watcher, hot reload disabled")
		return func() {}
	}

	if err := watcher.Start(); err != nil {
		log.Warn().Err(err).Msg("Failed to start config watcher, hot reload disabled")
		return func() {}
	}

	return func() {
		log.Info().Msg("Stopping config watcher")
		if err := watcher.Stop(); err != nil {
			log.Error().Err(err).Msg("Error stopping config watcher")
		}
	}
}

func mergeTags(base, override map[string]string) map[string]string {
	if len(base) == 0 {
		return override
	}
	merged := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}
