package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/abdidvp/lazarus/internal/adapters/outbound/applier"
	"github.com/abdidvp/lazarus/internal/adapters/outbound/compiler"
	configAdapter "github.com/abdidvp/lazarus/internal/adapters/outbound/config"
	"github.com/abdidvp/lazarus/internal/adapters/outbound/detector"
	"github.com/abdidvp/lazarus/internal/adapters/outbound/gitops"
	"github.com/abdidvp/lazarus/internal/adapters/outbound/history"
	"github.com/abdidvp/lazarus/internal/adapters/outbound/snapshot"
	"github.com/abdidvp/lazarus/internal/application"
	"github.com/abdidvp/lazarus/internal/domain"
)

// registerTools registers all Lazarus MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath string) {
	// 1. lazarus_proof
	s.AddTool(
		mcplib.NewTool("lazarus_proof",
			mcplib.WithDescription("Run a compilation check and return the parsed, categorized errors as JSON. Optionally records the check as the baseline for a later verdict."),
			mcplib.WithBoolean("baseline", mcplib.Description("Record this check as the baseline")),
		),
		handleProof(projectPath),
	)

	// 2. lazarus_verdict
	s.AddTool(
		mcplib.NewTool("lazarus_verdict",
			mcplib.WithDescription("Run a final compilation check and diff it against the recorded baseline. Returns the resurrection verdict with fixed, remaining, and new errors."),
		),
		handleVerdict(projectPath),
	)

	// 3. lazarus_plan_batches
	s.AddTool(
		mcplib.NewTool("lazarus_plan_batches",
			mcplib.WithDescription("Group planned dependency updates into risk-ordered batches without touching the repository"),
			mcplib.WithString("items",
				mcplib.Required(),
				mcplib.Description("JSON array of plan items (package_name, current_version, target_version, priority, fixes_vulnerabilities)"),
			),
		),
		handlePlanBatches(projectPath),
	)

	// 4. lazarus_validate
	s.AddTool(
		mcplib.NewTool("lazarus_validate",
			mcplib.WithDescription("Iteratively repair the build: compile, analyze failures, apply one fix per iteration until the build succeeds or no progress can be made. Returns the full validation result."),
			mcplib.WithBoolean("skip_native", mcplib.Description("Skip fixes for native module failures")),
		),
		handleValidate(projectPath),
	)

	// 5. lazarus_history
	s.AddTool(
		mcplib.NewTool("lazarus_history",
			mcplib.WithDescription("Return the repository's fix history: strategies that previously resolved build errors, most successful first"),
		),
		handleHistory(projectPath),
	)

	// 6. lazarus_rollback
	s.AddTool(
		mcplib.NewTool("lazarus_rollback",
			mcplib.WithDescription("Revert the repository's most recent commit. Refuses to roll back the only commit."),
		),
		handleRollback(projectPath),
	)
}

func loadOptions(projectPath string) domain.Options {
	opts, err := configAdapter.New().Load(projectPath)
	if err != nil {
		return domain.DefaultOptions()
	}
	return opts
}

func handleProof(projectPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		svc := application.NewProofService(compiler.New(), detector.New(), snapshot.New())
		opts := loadOptions(projectPath)

		baseline, _ := request.GetArguments()["baseline"].(bool)
		run := svc.Check
		if baseline {
			run = svc.RunBaseline
		}

		result, err := run(ctx, projectPath, opts)
		if err != nil {
			return errorResult(fmt.Sprintf("proof failed: %v", err)), nil
		}
		return jsonResult(result)
	}
}

func handleVerdict(projectPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		svc := application.NewProofService(compiler.New(), detector.New(), snapshot.New())

		verdict, err := svc.RunFinal(ctx, projectPath, loadOptions(projectPath))
		if err != nil {
			return errorResult(fmt.Sprintf("verdict failed: %v", err)), nil
		}
		return jsonResult(verdict)
	}
}

func handlePlanBatches(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		itemsJSON, err := request.RequireString("items")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		var items []domain.ResurrectionPlanItem
		if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
			return errorResult(fmt.Sprintf("parsing items: %v", err)), nil
		}

		opts := loadOptions(projectPath)
		batches := domain.ReorderForSafety(domain.CreateBatches(items, opts.BatchOptions()))
		return jsonResult(batches)
	}
}

func handleValidate(projectPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		opts := loadOptions(projectPath)
		if skip, _ := request.GetArguments()["skip_native"].(bool); skip {
			opts.SkipNativeModules = true
		}

		svc := application.NewValidateService(compiler.New(), applier.New(), history.New(), nil)
		result, err := svc.Validate(ctx, projectPath, opts)
		if err != nil {
			return errorResult(fmt.Sprintf("validate failed: %v", err)), nil
		}
		return jsonResult(result)
	}
}

func handleHistory(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		hist, err := history.New().Load(projectPath)
		if err != nil {
			return errorResult(fmt.Sprintf("loading history: %v", err)), nil
		}
		return jsonResult(hist)
	}
}

func handleRollback(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		result := gitops.New().RollbackLastCommit(projectPath)
		if !result.Success {
			return errorResult(fmt.Sprintf("rollback failed: %s", result.Error)), nil
		}
		return jsonResult(result)
	}
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
