package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	assistantx "github.com/naruebet/memochat/agent/agents/assistant"
	auditx "github.com/naruebet/memochat/agent/audit"
	memoryx "github.com/naruebet/memochat/agent/memory"
	sessionx "github.com/naruebet/memochat/agent/session"
	toolx "github.com/naruebet/memochat/agent/tool"
	configx "github.com/naruebet/memochat/pkg/config"
	_ "github.com/naruebet/memochat/pkg/logger/autoload"
	openrouterx "github.com/naruebet/memochat/pkg/openrouter"
	weatherx "github.com/naruebet/memochat/pkg/weatherstack"
)

type AppConfig struct {
	UserID string `envconfig:"USER_ID" split_words:"true" default:"default_user"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCfg := configx.MustNew[AppConfig]("")

	openRouterCfg := configx.MustNew[openrouterx.Config]("OPENROUTER")
	if client := openrouterx.NewClient(*openRouterCfg); client != nil {
		if err := openrouterx.Preflight(ctx, client); err != nil {
			log.Warn().Err(err).Msg("model credential preflight failed; completions may not work")
		}
	}
	chatModel, err := openRouterCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize chat model")
	}

	weatherCfg := configx.MustNew[weatherx.Config]("WEATHERSTACK")
	weatherClient := weatherx.MustNew(*weatherCfg)

	registry, err := toolx.BuildRegistry(weatherClient)
	if err != nil {
		log.Fatal().Err(err).Msg("build tool registry")
	}

	memoryCfg := configx.MustNew[memoryx.Config]("MEM0")
	memoryStore, err := memoryx.NewMem0Client(*memoryCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize memory store")
	}
	gateway := memoryx.NewGateway(memoryStore)

	agentCfg := configx.MustNew[assistantx.Config]("AGENT")
	agent, err := assistantx.New(ctx, chatModel, registry, gateway, *agentCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize assistant")
	}

	var sessionOpts []sessionx.Option
	auditCfg := configx.MustNew[auditx.Config]("POSTGRES")
	if auditCfg.DSN != "" {
		store, err := auditx.NewStore(*auditCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("initialize audit store")
		}
		defer store.Close()
		if err := store.Init(ctx); err != nil {
			log.Warn().Err(err).Msg("audit schema init failed; turn log disabled")
		} else {
			sessionOpts = append(sessionOpts, sessionx.WithAudit(store))
		}
	}

	driver, err := sessionx.NewDriver(agent, appCfg.UserID, os.Stdin, os.Stdout, sessionOpts...)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize session")
	}

	if err := driver.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("session ended abnormally")
	}
}
