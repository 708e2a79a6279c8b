package workout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alex-galey/coach-mcp/internal/conversation"
	"github.com/alex-galey/coach-mcp/internal/infrastructure/programstore"
	"github.com/alex-galey/coach-mcp/internal/server-plugin/domain"
	"github.com/alex-galey/coach-mcp/internal/toolcall"
	"github.com/alex-galey/coach-mcp/pkg/logger"
	"github.com/mark3labs/mcp-go/mcp"
)

// WorkoutServerPlugin exposes the workout program over MCP. Every program
// tool creates a pending proposal; nothing mutates the program until the
// user's decision arrives through confirm_proposal.
type WorkoutServerPlugin struct {
	session   *conversation.Session
	registry  *toolcall.Registry
	store     *programstore.Store
	logBuffer *logger.RingBuffer
	logger    *slog.Logger
}

// NewWorkoutServerPlugin creates the workout server plugin.
func NewWorkoutServerPlugin(
	session *conversation.Session,
	registry *toolcall.Registry,
	store *programstore.Store,
	logBuffer *logger.RingBuffer,
	logger *slog.Logger,
) domain.ServerPlugin {
	return &WorkoutServerPlugin{
		session:   session,
		registry:  registry,
		store:     store,
		logBuffer: logBuffer,
		logger:    logger,
	}
}

// ServerPlugin interface implementation
func (p *WorkoutServerPlugin) ID() string   { return "workout" }
func (p *WorkoutServerPlugin) Name() string { return "Workout Program" }

func (p *WorkoutServerPlugin) Description() string {
	return "Workout program management with user-confirmed modifications"
}

func (p *WorkoutServerPlugin) Version() string { return "0.1.0" }

// ResourceProvider implementation
func (p *WorkoutServerPlugin) GetResources(ctx context.Context) ([]domain.Resource, error) {
	return []domain.Resource{
		{
			URI:         "coach://program",
			Name:        "Workout Program",
			Description: "Current state of the workout program, including all weeks, sessions, exercises and sets",
			MIMEType:    "application/json",
			Handler:     p.handleProgramResource,
		},
		{
			URI:         "coach://proposals/pending",
			Name:        "Pending Proposals",
			Description: "Proposals awaiting a user decision",
			MIMEType:    "application/json",
			Handler:     p.handlePendingProposalsResource,
		},
		{
			URI:         "coach://logs/recent",
			Name:        "Recent Server Logs",
			Description: "Most recent server log lines",
			MIMEType:    "text/plain",
			Handler:     p.handleRecentLogsResource,
		},
	}, nil
}

// ToolProvider implementation. The program tools come straight from the
// schema registry so the MCP surface can never drift from the validated
// enumeration; the decision tools drive the proposal lifecycle.
func (p *WorkoutServerPlugin) GetTools(ctx context.Context) ([]domain.Tool, error) {
	var tools []domain.Tool
	for _, schema := range p.registry.Schemas() {
		tools = append(tools, domain.Tool{
			Name:        string(schema.Name),
			Description: schema.Description,
			Builder:     schema.MCPTool,
			Handler:     p.proposalHandler(schema.Name),
		})
	}

	tools = append(tools,
		domain.Tool{
			Name:        "confirm_proposal",
			Description: "Apply a proposal the user has explicitly confirmed",
			Builder:     p.buildConfirmProposalTool,
			Handler:     p.handleConfirmProposal,
		},
		domain.Tool{
			Name:        "reject_proposal",
			Description: "Discard a proposal the user has declined",
			Builder:     p.buildRejectProposalTool,
			Handler:     p.handleRejectProposal,
		},
		domain.Tool{
			Name:        "list_proposals",
			Description: "List the proposals of this conversation and their states",
			Builder:     p.buildListProposalsTool,
			Handler:     p.handleListProposals,
		},
		domain.Tool{
			Name:        "end_turn",
			Description: "Advance the conversation turn, abandoning undecided proposals",
			Builder:     p.buildEndTurnTool,
			Handler:     p.handleEndTurn,
		},
	)
	return tools, nil
}

// PromptProvider implementation
func (p *WorkoutServerPlugin) GetPrompts(ctx context.Context) ([]domain.Prompt, error) {
	return []domain.Prompt{
		{
			Name:        "program_review",
			Description: "Review the current workout program and suggest adjustments",
			Builder:     p.buildProgramReviewPrompt,
			Handler:     p.handleProgramReviewPrompt,
		},
		{
			Name:        "session_debrief",
			Description: "Debrief a completed training session and log the results",
			Builder:     p.buildSessionDebriefPrompt,
			Handler:     p.handleSessionDebriefPrompt,
		},
	}, nil
}

// Resource handlers
func (p *WorkoutServerPlugin) handleProgramResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	snapshot := p.session.Snapshot()
	jsonData, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize program: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

func (p *WorkoutServerPlugin) handlePendingProposalsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	pending := p.session.Pending()
	jsonData, err := json.MarshalIndent(pending, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize pending proposals: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

func (p *WorkoutServerPlugin) handleRecentLogsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	lines := p.logBuffer.GetLast(200)
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     strings.Join(lines, "\n"),
		},
	}, nil
}

// proposalHandler turns one program tool into a proposal-creating handler.
// Unknown tools and malformed parameters are reported straight back to the
// agent; a successful call always answers with the proposal so the agent
// can relay the summary and ask the user to confirm.
func (p *WorkoutServerPlugin) proposalHandler(name toolcall.ToolName) domain.ToolHandler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		call := toolcall.ToolCall{
			Name:   name,
			Params: req.GetArguments(),
		}

		proposal, err := p.session.Propose(call)
		if err != nil {
			var validationErr *toolcall.ValidationFailedError
			switch {
			case errors.As(err, &validationErr):
				return mcp.NewToolResultError(fmt.Sprintf(
					"The %s call is malformed and was not turned into a proposal: %s",
					name, formatReasons(validationErr.Result))), nil
			case errors.Is(err, conversation.ErrTooManyPending):
				return mcp.NewToolResultError(
					"Too many proposals are awaiting a decision; ask the user to confirm or reject them first"), nil
			default:
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create proposal: %v", err)), nil
			}
		}

		response := struct {
			ProposalID   string                     `json:"proposal_id"`
			State        toolcall.ProposalState     `json:"state"`
			HumanSummary string                     `json:"human_summary"`
			Validation   *toolcall.ValidationResult `json:"validation"`
		}{
			ProposalID:   proposal.ID,
			State:        proposal.State,
			HumanSummary: proposal.HumanSummary,
			Validation:   proposal.Validation,
		}

		jsonData, err := json.MarshalIndent(response, "", "  ")
		if err != nil {
			return mcp.NewToolResultError("Failed to serialize proposal"), nil
		}

		if !proposal.Validation.IsValid {
			return mcp.NewToolResultText(fmt.Sprintf(
				"Proposal created but it cannot be applied against the current program. Tell the user why and propose an alternative.\n%s",
				string(jsonData))), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf(
			"Proposal created. Present the summary to the user and wait for their explicit decision before calling confirm_proposal.\n%s",
			string(jsonData))), nil
	}
}

// Decision tool builders
func (p *WorkoutServerPlugin) buildConfirmProposalTool() mcp.Tool {
	return mcp.NewTool(
		"confirm_proposal",
		mcp.WithDescription("Apply a pending proposal after the user explicitly confirmed it"),
		mcp.WithString("proposal_id",
			mcp.Required(),
			mcp.Description("Id of the proposal the user confirmed"),
		),
	)
}

func (p *WorkoutServerPlugin) buildRejectProposalTool() mcp.Tool {
	return mcp.NewTool(
		"reject_proposal",
		mcp.WithDescription("Discard a pending proposal the user declined"),
		mcp.WithString("proposal_id",
			mcp.Required(),
			mcp.Description("Id of the proposal the user declined"),
		),
	)
}

func (p *WorkoutServerPlugin) buildListProposalsTool() mcp.Tool {
	return mcp.NewTool(
		"list_proposals",
		mcp.WithDescription("List all proposals of this conversation with their current states"),
	)
}

func (p *WorkoutServerPlugin) buildEndTurnTool() mcp.Tool {
	return mcp.NewTool(
		"end_turn",
		mcp.WithDescription("End the conversation turn; proposals still awaiting a decision are abandoned"),
	)
}

// Decision tool handlers
func (p *WorkoutServerPlugin) handleConfirmProposal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("proposal_id")
	if err != nil {
		return mcp.NewToolResultError("proposal_id is required"), nil
	}

	proposal, err := p.session.Confirm(id)
	if err != nil {
		var validationErr *toolcall.ValidationFailedError
		switch {
		case errors.Is(err, toolcall.ErrProposalNotFound):
			return mcp.NewToolResultError(fmt.Sprintf("No proposal with id '%s'", id)), nil
		case errors.Is(err, toolcall.ErrAlreadyApplied):
			return mcp.NewToolResultError(fmt.Sprintf(
				"Proposal '%s' was already applied; propose the change again if it should happen twice", id)), nil
		case errors.Is(err, toolcall.ErrInvalidTransition):
			return mcp.NewToolResultError(fmt.Sprintf(
				"Proposal '%s' was already decided (state: %s)", id, proposal.State)), nil
		case errors.Is(err, toolcall.ErrStaleSnapshot):
			return mcp.NewToolResultError(
				"The program changed after this proposal was validated, so it was not applied. Propose the change again against the current program."), nil
		case errors.As(err, &validationErr):
			return mcp.NewToolResultError(fmt.Sprintf(
				"The proposal no longer applies to the current program: %s",
				formatReasons(validationErr.Result))), nil
		default:
			return mcp.NewToolResultError(fmt.Sprintf("Failed to apply proposal: %v", err)), nil
		}
	}

	if err := p.store.Save(p.session.Snapshot()); err != nil {
		p.logger.Error("Failed to persist program after apply",
			"proposal_id", proposal.ID,
			"error", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Applied: %s\nThe program is now at version %d.",
		proposal.HumanSummary, proposal.AppliedVersion)), nil
}

func (p *WorkoutServerPlugin) handleRejectProposal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("proposal_id")
	if err != nil {
		return mcp.NewToolResultError("proposal_id is required"), nil
	}

	proposal, err := p.session.Reject(id)
	if err != nil {
		switch {
		case errors.Is(err, toolcall.ErrProposalNotFound):
			return mcp.NewToolResultError(fmt.Sprintf("No proposal with id '%s'", id)), nil
		case errors.Is(err, toolcall.ErrAlreadyApplied):
			return mcp.NewToolResultError(fmt.Sprintf("Proposal '%s' was already applied and cannot be rejected", id)), nil
		case errors.Is(err, toolcall.ErrInvalidTransition):
			return mcp.NewToolResultError(fmt.Sprintf(
				"Proposal '%s' was already decided (state: %s)", id, proposal.State)), nil
		default:
			return mcp.NewToolResultError(fmt.Sprintf("Failed to reject proposal: %v", err)), nil
		}
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Rejected: %s\nThe program is unchanged.", proposal.HumanSummary)), nil
}

func (p *WorkoutServerPlugin) handleListProposals(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	views := p.session.Proposals()
	jsonData, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("Failed to serialize proposals"), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Proposals (%d):\n%s", len(views), string(jsonData))), nil
}

func (p *WorkoutServerPlugin) handleEndTurn(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	abandoned := p.session.EndTurn()
	if abandoned == 0 {
		return mcp.NewToolResultText("Turn ended; no proposals were awaiting a decision."), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Turn ended; %d undecided proposal(s) were abandoned.", abandoned)), nil
}

// Prompt implementations
func (p *WorkoutServerPlugin) buildProgramReviewPrompt() mcp.Prompt {
	return mcp.NewPrompt(
		"program_review",
		mcp.WithPromptDescription("Review the current workout program and suggest adjustments"),
		mcp.WithArgument("focus",
			mcp.RequiredArgument(),
			mcp.ArgumentDescription("What to focus the review on, e.g. 'volume', 'progression' or 'recovery'"),
		),
	)
}

func (p *WorkoutServerPlugin) handleProgramReviewPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	focus, ok := req.Params.Arguments["focus"]
	if !ok || focus == "" {
		return &mcp.GetPromptResult{
			Description: "focus parameter is required",
		}, fmt.Errorf("focus parameter is required")
	}

	tmpl := NewWorkoutPromptTemplates().GetReviewPrompt()
	promptText := fmt.Sprintf(tmpl.Template, focus)

	return &mcp.GetPromptResult{
		Description: tmpl.Description,
		Messages: []mcp.PromptMessage{
			{
				Role:    "user",
				Content: mcp.TextContent{Type: "text", Text: promptText},
			},
		},
	}, nil
}

func (p *WorkoutServerPlugin) buildSessionDebriefPrompt() mcp.Prompt {
	return mcp.NewPrompt(
		"session_debrief",
		mcp.WithPromptDescription("Debrief a completed training session and log the results"),
		mcp.WithArgument("session_title",
			mcp.RequiredArgument(),
			mcp.ArgumentDescription("Title of the session to debrief"),
		),
	)
}

func (p *WorkoutServerPlugin) handleSessionDebriefPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	title, ok := req.Params.Arguments["session_title"]
	if !ok || title == "" {
		return &mcp.GetPromptResult{
			Description: "session_title parameter is required",
		}, fmt.Errorf("session_title parameter is required")
	}

	tmpl := NewWorkoutPromptTemplates().GetDebriefPrompt()
	promptText := fmt.Sprintf(tmpl.Template, title)

	return &mcp.GetPromptResult{
		Description: tmpl.Description,
		Messages: []mcp.PromptMessage{
			{
				Role:    "user",
				Content: mcp.TextContent{Type: "text", Text: promptText},
			},
		},
	}, nil
}

func formatReasons(result *toolcall.ValidationResult) string {
	reasons := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		reasons = append(reasons, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(reasons, "; ")
}
