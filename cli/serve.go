package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/telassist/telassist/engine/customer"
	"github.com/telassist/telassist/engine/intelligence"
	"github.com/telassist/telassist/engine/llm"
	"github.com/telassist/telassist/engine/mcp"
	"github.com/telassist/telassist/engine/session"
	"github.com/telassist/telassist/engine/store"
	"github.com/telassist/telassist/pkg/config"
	"github.com/telassist/telassist/pkg/logger"
	"github.com/telassist/telassist/server"
)

const version = "0.1.0"

// ServeCmd runs the webhook server.
func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the voice and chat webhook server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, JSON: cfg.Log.JSON})

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.ContextWithLogger(ctx, log)

	orch, err := buildOrchestrator(cfg, log)
	if err != nil {
		return err
	}

	deps := server.Dependencies{
		Orchestrator: orch,
		Sessions:     buildSessionStore(cfg, log),
		Log:          log,
	}
	if cfg.Customer.BaseURL != "" {
		deps.Customers = customer.NewClient(customer.Config{
			BaseURL: cfg.Customer.BaseURL,
			APIKey:  cfg.Customer.APIKey,
			Timeout: cfg.Customer.Timeout,
		})
	} else {
		log.Warn("no customer API configured, callers will be anonymous")
	}
	if cfg.Database.DSN != "" {
		pool, err := pgxpool.New(ctx, cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()
		deps.Interactions = store.NewInteractionStore(pool)
	} else {
		log.Warn("no database configured, interaction logging disabled")
	}

	srv := server.New(server.Config{
		Host:       cfg.Server.Host,
		Port:       cfg.Server.Port,
		MaxHistory: cfg.History.MaxMessages,
	}, deps)
	return srv.Run(ctx)
}

// buildOrchestrator wires the configured providers in primary order. A
// missing API key or tool server disables the respective provider; the
// safe fallback is always present.
func buildOrchestrator(cfg *config.Config, log logger.Logger) (*intelligence.Orchestrator, error) {
	policy := intelligence.Policy{
		Brand:               cfg.Policy.Brand,
		EmergencyNumber:     cfg.Policy.EmergencyNumber,
		SupportLine:         cfg.Policy.SupportLine,
		OfficialPriceMinTRY: cfg.Policy.PriceMinTRY,
		OfficialPriceMaxTRY: cfg.Policy.PriceMaxTRY,
	}

	var client llm.Client
	providerName := llm.ProviderName(cfg.LLM.Provider)
	if cfg.LLM.APIKey != "" || providerName == llm.ProviderOllama || providerName == llm.ProviderMock {
		c, err := llm.NewLangChainClient(&llm.ProviderConfig{
			Provider: providerName,
			Model:    cfg.LLM.Model,
			APIKey:   cfg.LLM.APIKey,
			APIURL:   cfg.LLM.APIURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		client = c
	} else {
		log.Warn("no LLM credentials configured, only the safe fallback will answer")
	}
	return assembleOrchestrator(cfg, policy, client, log), nil
}

func assembleOrchestrator(
	cfg *config.Config,
	policy intelligence.Policy,
	client llm.Client,
	log logger.Logger,
) *intelligence.Orchestrator {
	var toolAugmented, directModel intelligence.Provider
	if client != nil {
		directModel = intelligence.NewDirectModel(client, policy)
		if cfg.MCP.Command != "" {
			connector := mcp.NewStdioConnector(cfg.MCP.Command, cfg.MCP.Args, cfg.MCP.Env, version)
			toolAugmented = intelligence.NewToolAugmented(client, connector, policy)
		} else {
			log.Warn("no tool server configured, tools are disabled")
		}
	}

	return intelligence.New(intelligence.Config{
		Primary:    cfg.Orchestrator.Primary,
		Timeout:    cfg.Orchestrator.Timeout,
		MaxRetries: cfg.Orchestrator.MaxRetries,
		RetryDelay: cfg.Orchestrator.RetryDelay,
	}, toolAugmented, directModel, intelligence.NewSafeFallback(policy))
}

// buildSessionStore prefers Redis when configured so conversation memory
// survives restarts; otherwise memory stays in-process.
func buildSessionStore(cfg *config.Config, log logger.Logger) session.Store {
	if cfg.Redis.Addr == "" {
		log.Info("using in-process session store")
		return session.NewMemoryStore()
	}
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: 5 * time.Second,
	})
	log.Info("using redis session store", "addr", cfg.Redis.Addr)
	return session.NewRedisStore(client, cfg.Redis.TTL)
}
