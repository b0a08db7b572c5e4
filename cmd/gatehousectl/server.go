package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/gatehouse-sec/gatehouse/pkg/authenticator"
	"github.com/gatehouse-sec/gatehouse/pkg/authenticator/apikey"
	"github.com/gatehouse-sec/gatehouse/pkg/authenticator/jwtauth"
	"github.com/gatehouse-sec/gatehouse/pkg/authenticator/token"
	"github.com/gatehouse-sec/gatehouse/pkg/config"
	"github.com/gatehouse-sec/gatehouse/pkg/db"
	"github.com/gatehouse-sec/gatehouse/pkg/directory"
	"github.com/gatehouse-sec/gatehouse/pkg/directory/gormdir"
	"github.com/gatehouse-sec/gatehouse/pkg/directory/memory"
	"github.com/gatehouse-sec/gatehouse/pkg/pipeline"
	"github.com/gatehouse-sec/gatehouse/pkg/server"
	"github.com/gatehouse-sec/gatehouse/pkg/server/endpoints"
)

func defaultPortInt() int {
	if port := os.Getenv("GATEHOUSE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the Gatehouse gateway server",
	Long: `Run the Gatehouse gateway server.

With DATABASE_URL set, principals come from PostgreSQL and migrations run on
startup (use --no-migrate to skip). Without it, the server uses an in-memory
directory provisioned from the "users" section of the config file.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Get()
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}

		var (
			dir      directory.Directory
			database *gorm.DB
		)

		if db.URL() != "" {
			noMigrate, _ := cmd.Flags().GetBool("no-migrate")
			if !noMigrate {
				log.Println("Running database migrations...")
				if err := runMigrations(); err != nil {
					fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
					os.Exit(1)
				}
			}

			var err error
			database, err = db.Connect(db.Config{})
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
				os.Exit(1)
			}
			dir = gormdir.New(database)
			log.Println("Using PostgreSQL principal directory")
		} else {
			dir = memoryDirectory(cfg)
			log.Printf("Using in-memory principal directory (%d users provisioned)", len(cfg.Users))
		}

		registry, err := buildRegistry(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to configure strategies: %v\n", err)
			os.Exit(1)
		}

		pipe := pipeline.New(registry, dir)
		pipe.TrustedProxy = cfg.IsTrustedProxy

		srv := server.NewServer(dir, registry, cfg, database)
		endpoints.RegisterAll(srv, pipe)

		stop := make(chan struct{})
		onReload := func(fresh *config.Config) {
			if err := fresh.Validate(); err != nil {
				log.Printf("Ignoring reloaded configuration: %v", err)
				return
			}
			pipe.TrustedProxy = fresh.IsTrustedProxy
			log.Println("Configuration reloaded")
		}
		go watchConfigFile(stop, onReload)
		go handleSignals(srv, stop, onReload)

		log.Printf("Gatehouse listening on %s (strategies: %v, entry point: %s)",
			srv.Addr(), registry.Enabled(), cfg.EntryPoint)
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	},
}

// buildRegistry registers the built-in strategies and enables the configured
// ones in configuration order.
func buildRegistry(cfg *config.Config) (*authenticator.Registry, error) {
	registry := authenticator.NewRegistry()

	for _, name := range cfg.Strategies {
		switch name {
		case "token":
			registry.Register(token.New(cfg.TokenHeader))
		case "apikey":
			registry.Register(apikey.New("Gatehouse"))
		case "jwt":
			registry.Register(jwtauth.New(jwtauth.Config{
				SigningKey: []byte(cfg.JWTSigningKey),
				Issuer:     cfg.JWTIssuer,
			}))
		default:
			return nil, fmt.Errorf("unknown strategy %q", name)
		}
		if err := registry.Enable(name); err != nil {
			return nil, err
		}
	}

	entryPoint := cfg.EntryPoint
	if entryPoint == "" && len(cfg.Strategies) > 0 {
		entryPoint = cfg.Strategies[0]
	}
	if entryPoint != "" {
		if err := registry.SetEntryPoint(entryPoint); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

func memoryDirectory(cfg *config.Config) *memory.Directory {
	dir := memory.New()
	for _, u := range cfg.Users {
		dir.Add(directory.Principal{
			Login:      u.Login,
			APIKey:     u.APIKey,
			Roles:      u.Roles,
			SecretHash: []byte(u.SecretHash),
		})
	}
	return dir
}

// watchConfigFile reloads configuration when the config file changes on
// disk. Missing config files are not an error, the watcher just doesn't run.
func watchConfigFile(stop <-chan struct{}, onReload func(*config.Config)) {
	if _, err := os.Stat(config.Get().ConfigFilePath()); err != nil {
		return
	}
	if err := config.Watch(stop, onReload); err != nil {
		log.Printf("Config watcher stopped: %v", err)
	}
}

// handleSignals reloads configuration on SIGHUP and shuts the server down
// gracefully on SIGINT or SIGTERM.
func handleSignals(srv *server.Server, stop chan<- struct{}, onReload func(*config.Config)) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)

	for sig := range sigs {
		switch sig {
		case syscall.SIGHUP:
			if err := config.Reload(); err != nil {
				log.Printf("Failed to reload configuration: %v", err)
				continue
			}
			onReload(config.Get())
		default:
			log.Printf("Received %v, shutting down", sig)
			close(stop)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				log.Printf("Shutdown error: %v", err)
			}
			return
		}
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().Bool("no-migrate", false, "Skip database migrations on startup")
}
