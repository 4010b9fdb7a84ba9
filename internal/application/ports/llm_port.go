package ports

import (
	"context"

	"github.com/jhoicas/estoque-inteligente-api/internal/domain/assistant"
)

// LanguageModel define el puerto de salida de generación con herramientas.
// Una llamada puede encadenar hasta MaxSteps pasos: el modelo pide herramientas, el
// adaptador las ejecuta con req.Tools y vuelve a llamar al modelo con los resultados.
// Siguiendo DIP, la aplicación solo conoce este contrato, no el proveedor concreto.
type LanguageModel interface {
	// Generate usa el modelo indicado ("proveedor:modelo"). El contexto debe llevar timeout.
	Generate(ctx context.Context, modelID string, req GenerateRequest) (*GenerateResult, error)
}

// GenerateRequest entrada de una generación.
type GenerateRequest struct {
	System   string
	Messages []assistant.Message
	Tools    ToolExecutor
	MaxSteps int
}

// GenerateResult salida de una generación. Steps conserva todo el historial de
// herramientas para poder recuperar una respuesta si el modelo se detiene sin texto.
type GenerateResult struct {
	Text         string
	FinishReason string
	Steps        []assistant.Step
}

// HasToolCalls informa si algún paso pidió herramientas.
func (r *GenerateResult) HasToolCalls() bool {
	for _, s := range r.Steps {
		if len(s.ToolCalls) > 0 {
			return true
		}
	}
	return false
}

// ModelClient adaptador de un proveedor concreto (Anthropic, Gemini). Hace una sola
// ronda request/response; el bucle de herramientas vive en quien lo usa.
type ModelClient interface {
	Provider() string
	Complete(ctx context.Context, model string, req CompletionRequest) (*Completion, error)
}

// Roles de ModelTurn.
const (
	TurnRoleUser      = "user"
	TurnRoleAssistant = "assistant"
	TurnRoleTool      = "tool"
)

// ModelTurn mensaje en el formato común a los proveedores.
// Un turno "assistant" puede traer ToolCalls; un turno "tool" trae los ToolResults.
type ModelTurn struct {
	Role        string
	Text        string
	ToolCalls   []assistant.ToolCall
	ToolResults []assistant.ToolResult
}

// CompletionRequest una ronda contra el proveedor.
type CompletionRequest struct {
	System string
	Turns  []ModelTurn
	Tools  []assistant.ToolSchema
}

// Completion respuesta de una ronda.
type Completion struct {
	Text      string
	ToolCalls []assistant.ToolCall
	// StopReason normalizado: "stop", "tool-calls", "length" u "other".
	StopReason string
}

// ToolExecutor registro de herramientas visible para el modelo en un turno.
// Execute nunca devuelve error: las fallas llegan como assistant.ToolErrorOutcome.
type ToolExecutor interface {
	Schemas() []assistant.ToolSchema
	Execute(ctx context.Context, call assistant.ToolCall) assistant.ToolOutcome
}
