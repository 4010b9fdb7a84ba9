// Package ai contiene los adaptadores de proveedores de modelos (Anthropic, Gemini) y el
// runner que encadena rondas de tool calling sobre ellos.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/estoque-inteligente-api/internal/application/ports"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/assistant"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/entity"
	"github.com/jhoicas/estoque-inteligente-api/pkg/logger"
)

var _ ports.LanguageModel = (*StepRunner)(nil)

// StepRunner implementa ports.LanguageModel sobre varios ModelClient. Resuelve el
// proveedor por el prefijo del modelID ("anthropic:claude-...") y ejecuta el bucle de
// herramientas hasta obtener texto o agotar MaxSteps.
type StepRunner struct {
	clients map[string]ports.ModelClient
	log     *logger.Logger
}

// NewStepRunner registra los clientes por Provider().
func NewStepRunner(log *logger.Logger, clients ...ports.ModelClient) *StepRunner {
	m := make(map[string]ports.ModelClient, len(clients))
	for _, c := range clients {
		m[c.Provider()] = c
	}
	return &StepRunner{clients: m, log: log.Component("ai_runner")}
}

// SplitModelID separa "proveedor:modelo". Sin prefijo se asume anthropic.
func SplitModelID(modelID string) (provider, model string) {
	provider, model, found := strings.Cut(strings.TrimSpace(modelID), ":")
	if !found {
		return "anthropic", provider
	}
	return strings.ToLower(provider), model
}

// Generate ejecuta hasta req.MaxSteps rondas. Cada ronda que pide herramientas las
// ejecuta con req.Tools y agrega los resultados al historial. Si se agotan los pasos con
// tool calls pendientes devuelve FinishReason "tool-calls" y los pasos acumulados.
func (r *StepRunner) Generate(ctx context.Context, modelID string, req ports.GenerateRequest) (*ports.GenerateResult, error) {
	providerName, model := SplitModelID(modelID)
	client, ok := r.clients[providerName]
	if !ok {
		return nil, fmt.Errorf("%w: proveedor %q no registrado", domain.ErrModelUnavailable, providerName)
	}

	maxSteps := req.MaxSteps
	if maxSteps <= 0 {
		maxSteps = 1
	}

	turns := make([]ports.ModelTurn, 0, len(req.Messages)+2*maxSteps)
	for _, m := range req.Messages {
		role := ports.TurnRoleUser
		if m.Role == entity.RoleAssistant {
			role = ports.TurnRoleAssistant
		}
		turns = append(turns, ports.ModelTurn{Role: role, Text: m.Content})
	}

	var schemas []assistant.ToolSchema
	if req.Tools != nil {
		schemas = req.Tools.Schemas()
	}

	result := &ports.GenerateResult{}
	for step := 0; step < maxSteps; step++ {
		comp, err := client.Complete(ctx, model, ports.CompletionRequest{
			System: req.System,
			Turns:  turns,
			Tools:  schemas,
		})
		if err != nil {
			return nil, fmt.Errorf("%s paso %d: %w", modelID, step+1, err)
		}

		result.FinishReason = comp.StopReason
		if len(comp.ToolCalls) == 0 || req.Tools == nil {
			result.Text = comp.Text
			result.Steps = append(result.Steps, assistant.Step{Text: comp.Text, ToolCalls: comp.ToolCalls})
			return result, nil
		}

		results := make([]assistant.ToolResult, 0, len(comp.ToolCalls))
		for _, call := range comp.ToolCalls {
			outcome := req.Tools.Execute(ctx, call)
			r.log.Debug().Str("model", modelID).Str("tool", string(call.Name)).
				Str("outcome", fmt.Sprintf("%T", outcome)).Msg("herramienta ejecutada")
			results = append(results, assistant.ToolResult{CallID: call.ID, Tool: call.Name, Outcome: outcome})
		}
		result.Steps = append(result.Steps, assistant.Step{Text: comp.Text, ToolCalls: comp.ToolCalls, ToolResults: results})
		turns = append(turns,
			ports.ModelTurn{Role: ports.TurnRoleAssistant, Text: comp.Text, ToolCalls: comp.ToolCalls},
			ports.ModelTurn{Role: ports.TurnRoleTool, ToolResults: results},
		)

		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s: %w", modelID, ctx.Err())
		}
	}

	// pasos agotados con herramientas pendientes: el executor intenta la recuperación
	result.FinishReason = assistant.FinishReasonToolCalls
	return result, nil
}
