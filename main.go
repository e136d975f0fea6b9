package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	analystx "github.com/tanpawarit/gdp-insight-agent/agent/agents/analyst"
	"github.com/tanpawarit/gdp-insight-agent/agent/agents/orchestrator"
	"github.com/tanpawarit/gdp-insight-agent/agent/httpapi"
	llmx "github.com/tanpawarit/gdp-insight-agent/agent/llm"
	"github.com/tanpawarit/gdp-insight-agent/agent/memory"
	promptx "github.com/tanpawarit/gdp-insight-agent/agent/prompt"
	toolx "github.com/tanpawarit/gdp-insight-agent/agent/tool"
	"github.com/tanpawarit/gdp-insight-agent/gdp"
	chartx "github.com/tanpawarit/gdp-insight-agent/pkg/chart"
	configx "github.com/tanpawarit/gdp-insight-agent/pkg/config"
	_ "github.com/tanpawarit/gdp-insight-agent/pkg/logger/autoload"
	openrouterx "github.com/tanpawarit/gdp-insight-agent/pkg/openrouter"
)

type AppConfig struct {
	DataPath           string `envconfig:"DATA_PATH" split_words:"true" default:"data/gdp_data.csv"`
	ChartDir           string `envconfig:"CHART_DIR" split_words:"true" default:"."`
	MaxForecastHorizon int    `envconfig:"MAX_FORECAST_HORIZON" split_words:"true" default:"100"`
	SessionID          string `envconfig:"SESSION_ID" split_words:"true"`
	MaxTurns           int    `envconfig:"MAX_TURNS" split_words:"true" default:"0"`
	MaxToolRounds      int    `envconfig:"MAX_TOOL_ROUNDS" split_words:"true" default:"6"`

	HTTPAddr    string   `envconfig:"HTTP_ADDR" split_words:"true"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" split_words:"true" default:"*"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("GDP")
	llmCfg := configx.MustNew[llmx.Config]("LLM")

	table, err := gdp.LoadFile(appCfg.DataPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", appCfg.DataPath).Msg("failed to load gdp dataset")
	}

	services := toolx.NewServices(table,
		chartx.NewRenderer(appCfg.ChartDir),
		gdp.WithMaxHorizon(appCfg.MaxForecastHorizon),
	)
	transcripts := memory.NewStore(memory.WithMaxTurns(appCfg.MaxTurns))
	gateway := toolx.NewGateway(services, transcripts)

	var chat messageHandler
	if llmCfg.Enabled() {
		orch, err := newOrchestrator(ctx, *llmCfg, appCfg, gateway, transcripts)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize agent")
		}
		chat = orch
	} else {
		log.Warn().Msg("LLM_API_KEY is not set; only direct tool calls are available")
	}

	if addr := strings.TrimSpace(appCfg.HTTPAddr); addr != "" {
		serveCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		apiCfg := httpapi.Config{Addr: addr, CORSOrigins: appCfg.CORSOrigins}
		router := httpapi.NewRouter(httpapi.NewHandler(gateway, transcripts, chat), apiCfg)
		if err := httpapi.Serve(serveCtx, apiCfg, router); err != nil {
			log.Fatal().Err(err).Msg("http api stopped")
		}
		return
	}

	sessionID := strings.TrimSpace(appCfg.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	log.Debug().Str("session_id", sessionID).Msg("repl session started")

	r := &repl{
		in:          os.Stdin,
		out:         os.Stdout,
		sessionID:   sessionID,
		gateway:     gateway,
		transcripts: transcripts,
		chat:        chat,
	}
	if err := r.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("repl stopped")
	}
}

func newOrchestrator(
	ctx context.Context,
	llmCfg llmx.Config,
	appCfg *AppConfig,
	gateway *toolx.Gateway,
	transcripts *memory.Store,
) (*orchestrator.Orchestrator, error) {
	if err := llmCfg.Validate(); err != nil {
		return nil, err
	}

	modelCfg := llmCfg.Analyst()
	if llmCfg.VerifyModel {
		if err := openrouterx.VerifyModel(ctx, modelCfg); err != nil {
			return nil, err
		}
	}

	chatModel, err := modelCfg.New(ctx)
	if err != nil {
		return nil, err
	}

	analyst, err := analystx.New(ctx, chatModel, gateway,
		promptx.LoadPromptSet().Analyst,
		analystx.WithMaxToolRounds(appCfg.MaxToolRounds),
	)
	if err != nil {
		return nil, err
	}

	log.Info().Str("model", modelCfg.Model).Msg("analyst ready")
	return orchestrator.New(analyst, transcripts)
}
