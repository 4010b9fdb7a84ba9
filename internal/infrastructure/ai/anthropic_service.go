package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jhoicas/estoque-inteligente-api/internal/application/ports"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/assistant"
)

// Verificar en tiempo de compilación que AnthropicService implementa ModelClient.
var _ ports.ModelClient = (*AnthropicService)(nil)

const (
	anthropicBaseURL  = "https://api.anthropic.com"
	anthropicVersion  = "2023-06-01"
	anthropicMaxToken = 2048
	maxResponseBytes  = 256 * 1024
)

// AnthropicService adaptador de la API REST de Anthropic (Claude) con tool use.
// Usa net/http de la librería estándar de Go; no requiere el SDK oficial.
type AnthropicService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewAnthropicService construye el adaptador.
// Si apiKey está vacío las llamadas devuelven domain.ErrModelUnavailable en lugar de panic.
func NewAnthropicService(apiKey string) *AnthropicService {
	return &AnthropicService{
		apiKey:  apiKey,
		baseURL: anthropicBaseURL,
		httpClient: &http.Client{
			// timeout de red; el executor de fallback impone además un deadline por intento
			Timeout: 60 * time.Second,
		},
	}
}

// WithBaseURL apunta el adaptador a otro host (proxy o servidor de pruebas).
func (s *AnthropicService) WithBaseURL(u string) *AnthropicService {
	s.baseURL = strings.TrimRight(u, "/")
	return s
}

// Provider implementa ports.ModelClient.
func (s *AnthropicService) Provider() string { return "anthropic" }

// ── Estructuras internas del protocolo Anthropic Messages API ─────────────────

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
	Tools     []anthropicTool    `json:"tools,omitempty"`
}

type anthropicMessage struct {
	Role    string           `json:"role"`
	Content []anthropicBlock `json:"content"`
}

type anthropicBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   string          `json:"content,omitempty"`
}

type anthropicTool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

type anthropicResponse struct {
	Content    []anthropicBlock `json:"content"`
	StopReason string           `json:"stop_reason"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// Complete envía una ronda a Claude y devuelve texto y/o tool calls.
func (s *AnthropicService) Complete(ctx context.Context, model string, req ports.CompletionRequest) (*ports.Completion, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY no configurado", domain.ErrModelUnavailable)
	}

	payload := anthropicRequest{
		Model:     model,
		MaxTokens: anthropicMaxToken,
		System:    req.System,
		Messages:  toAnthropicMessages(req.Turns),
	}
	for _, t := range req.Tools {
		payload.Tools = append(payload.Tools, anthropicTool{
			Name:        string(t.Name),
			Description: t.Description,
			InputSchema: t.Parameters,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("AI: serializar request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	httpReq.Header.Set("x-api-key", s.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	httpReq.Header.Set("content-type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("AI: leer respuesta: %w", err)
	}

	// Manejar errores HTTP de la API de Anthropic
	if resp.StatusCode != http.StatusOK {
		var errResp anthropicResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return nil, fmt.Errorf("AI: Anthropic error %d (%s): %s", resp.StatusCode, errResp.Error.Type, errResp.Error.Message)
		}
		return nil, fmt.Errorf("AI: Anthropic HTTP %d: %s", resp.StatusCode, truncate(string(rawBody), 300))
	}

	var anthResp anthropicResponse
	if err := json.Unmarshal(rawBody, &anthResp); err != nil {
		return nil, fmt.Errorf("AI: deserializar respuesta Anthropic: %w", err)
	}

	out := &ports.Completion{StopReason: anthropicStopReason(anthResp.StopReason)}
	var text strings.Builder
	for _, b := range anthResp.Content {
		switch b.Type {
		case "text":
			text.WriteString(b.Text)
		case "tool_use":
			args := b.Input
			if len(args) == 0 {
				args = json.RawMessage("{}")
			}
			out.ToolCalls = append(out.ToolCalls, assistant.ToolCall{ID: b.ID, Name: assistant.ToolName(b.Name), Arguments: args})
		}
	}
	out.Text = text.String()
	if len(out.ToolCalls) > 0 {
		out.StopReason = assistant.FinishReasonToolCalls
	}
	return out, nil
}

// toAnthropicMessages convierte los turnos comunes. Los resultados de herramientas van
// en un mensaje "user" con bloques tool_result, como exige la API.
func toAnthropicMessages(turns []ports.ModelTurn) []anthropicMessage {
	msgs := make([]anthropicMessage, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case ports.TurnRoleAssistant:
			var blocks []anthropicBlock
			if strings.TrimSpace(t.Text) != "" {
				blocks = append(blocks, anthropicBlock{Type: "text", Text: t.Text})
			}
			for _, c := range t.ToolCalls {
				blocks = append(blocks, anthropicBlock{Type: "tool_use", ID: c.ID, Name: string(c.Name), Input: c.Arguments})
			}
			if len(blocks) == 0 {
				continue
			}
			msgs = append(msgs, anthropicMessage{Role: "assistant", Content: blocks})
		case ports.TurnRoleTool:
			blocks := make([]anthropicBlock, 0, len(t.ToolResults))
			for _, r := range t.ToolResults {
				blocks = append(blocks, anthropicBlock{
					Type:      "tool_result",
					ToolUseID: r.CallID,
					Content:   string(assistant.OutcomeJSON(r.Outcome)),
				})
			}
			msgs = append(msgs, anthropicMessage{Role: "user", Content: blocks})
		default:
			if strings.TrimSpace(t.Text) == "" {
				continue
			}
			msgs = append(msgs, anthropicMessage{Role: "user", Content: []anthropicBlock{{Type: "text", Text: t.Text}}})
		}
	}
	return msgs
}

func anthropicStopReason(s string) string {
	switch s {
	case "end_turn", "stop_sequence":
		return "stop"
	case "tool_use":
		return assistant.FinishReasonToolCalls
	case "max_tokens":
		return "length"
	}
	return "other"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// no cortar a mitad de una runa
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
