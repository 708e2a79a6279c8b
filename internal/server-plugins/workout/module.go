package workout

import (
	"fmt"
	"log/slog"

	"github.com/alex-galey/coach-mcp/internal/conversation"
	"github.com/alex-galey/coach-mcp/internal/infrastructure/programstore"
	"github.com/alex-galey/coach-mcp/internal/server-plugin/domain"
	"github.com/alex-galey/coach-mcp/internal/toolcall"
	"github.com/alex-galey/coach-mcp/pkg/config"
	"go.uber.org/fx"
)

func newProgramStore(cfg config.ProgramConfig, logger *slog.Logger) *programstore.Store {
	return programstore.NewStore(cfg.FilePath, logger)
}

func newConversationSession(
	programCfg config.ProgramConfig,
	conversationCfg config.ConversationConfig,
	store *programstore.Store,
	validator *toolcall.Validator,
	applier *toolcall.Applier,
	logger *slog.Logger,
) (*conversation.Session, error) {
	snapshot, err := store.LoadOrCreate(programCfg.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load program: %w", err)
	}
	return conversation.NewSession(snapshot, validator, applier, logger, conversationCfg.MaxPendingProposals), nil
}

// checkRegistry fails startup when the schema registry and the tool
// enumeration disagree, so a drift can never reach a running server.
func checkRegistry(registry *toolcall.Registry, logger *slog.Logger) error {
	if err := registry.CheckLockstep(); err != nil {
		return fmt.Errorf("tool schema registry is out of sync: %w", err)
	}
	logger.Debug("Tool schema registry verified", "tools", len(registry.Schemas()))
	return nil
}

var Module = fx.Module("workout",
	fx.Provide(
		toolcall.NewRegistry,
		toolcall.NewValidator,
		toolcall.NewApplier,
		newProgramStore,
		newConversationSession,
		fx.Annotate(
			NewWorkoutServerPlugin,
			fx.As(new(domain.ServerPlugin)),
			fx.ResultTags(`group:"server_plugins"`),
		),
	),
	fx.Invoke(checkRegistry),
)
