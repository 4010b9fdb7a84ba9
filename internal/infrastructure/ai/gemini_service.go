package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/estoque-inteligente-api/internal/application/ports"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain"
	"github.com/jhoicas/estoque-inteligente-api/internal/domain/assistant"
)

// Verificar en tiempo de compilación que GeminiService implementa ModelClient.
var _ ports.ModelClient = (*GeminiService)(nil)

const geminiBaseURL = "https://generativelanguage.googleapis.com"

// GeminiService adaptador de la API REST de Google Gemini con function calling.
// Usa únicamente la librería estándar de Go (net/http) para no añadir dependencias externas.
type GeminiService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiService construye el adaptador.
// Si apiKey está vacío, las llamadas devuelven domain.ErrModelUnavailable.
func NewGeminiService(apiKey string) *GeminiService {
	return &GeminiService{
		apiKey:  apiKey,
		baseURL: geminiBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second, // timeout de red; el caller también pone WithTimeout
		},
	}
}

// WithBaseURL apunta el adaptador a otro host (proxy o servidor de pruebas).
func (s *GeminiService) WithBaseURL(u string) *GeminiService {
	s.baseURL = strings.TrimRight(u, "/")
	return s
}

// Provider implementa ports.ModelClient.
func (s *GeminiService) Provider() string { return "gemini" }

// ── Estructuras internas para la API de Gemini ────────────────────────────────

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	Tools             []geminiTool    `json:"tools,omitempty"`
	GenerationConfig  genConfig       `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text             string                  `json:"text,omitempty"`
	FunctionCall     *geminiFunctionCall     `json:"functionCall,omitempty"`
	FunctionResponse *geminiFunctionResponse `json:"functionResponse,omitempty"`
}

type geminiFunctionCall struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

type geminiFunctionResponse struct {
	Name     string          `json:"name"`
	Response json.RawMessage `json:"response"`
}

type geminiTool struct {
	FunctionDeclarations []geminiFunctionDecl `json:"functionDeclarations"`
}

type geminiFunctionDecl struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

type genConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// Complete envía una ronda a Gemini. Las function calls no traen id; se numeran por
// posición para enlazarlas con su resultado.
func (s *GeminiService) Complete(ctx context.Context, model string, req ports.CompletionRequest) (*ports.Completion, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY no configurado", domain.ErrModelUnavailable)
	}

	payload := geminiRequest{
		Contents: toGeminiContents(req.Turns),
		GenerationConfig: genConfig{
			Temperature:     0.2, // baja temperatura para respuestas más deterministas
			MaxOutputTokens: 2048,
		},
	}
	if req.System != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}
	if len(req.Tools) > 0 {
		decls := make([]geminiFunctionDecl, 0, len(req.Tools))
		for _, t := range req.Tools {
			decls = append(decls, geminiFunctionDecl{Name: string(t.Name), Description: t.Description, Parameters: t.Parameters})
		}
		payload.Tools = []geminiTool{{FunctionDeclarations: decls}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("AI: serializar request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", s.baseURL, url.PathEscape(model), url.QueryEscape(s.apiKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		// la URL lleva la key; no se propaga el error crudo de net/http
		return nil, fmt.Errorf("AI: llamada HTTP a Gemini fallida")
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("AI: leer respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Intentar extraer el mensaje de error de Gemini
		var errResp geminiResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return nil, fmt.Errorf("AI: Gemini error %d: %s", errResp.Error.Code, errResp.Error.Message)
		}
		return nil, fmt.Errorf("AI: Gemini HTTP %d", resp.StatusCode)
	}

	var gemResp geminiResponse
	if err := json.Unmarshal(rawBody, &gemResp); err != nil {
		return nil, fmt.Errorf("AI: deserializar respuesta Gemini: %w", err)
	}
	if len(gemResp.Candidates) == 0 {
		return &ports.Completion{StopReason: "other"}, nil
	}

	cand := gemResp.Candidates[0]
	out := &ports.Completion{StopReason: geminiStopReason(cand.FinishReason)}
	var text strings.Builder
	for i, p := range cand.Content.Parts {
		if p.FunctionCall != nil {
			args := p.FunctionCall.Args
			if len(args) == 0 {
				args = json.RawMessage("{}")
			}
			out.ToolCalls = append(out.ToolCalls, assistant.ToolCall{
				ID:        fmt.Sprintf("gemini-%d", i),
				Name:      assistant.ToolName(p.FunctionCall.Name),
				Arguments: args,
			})
			continue
		}
		text.WriteString(p.Text)
	}
	out.Text = text.String()
	if len(out.ToolCalls) > 0 {
		out.StopReason = assistant.FinishReasonToolCalls
	}
	return out, nil
}

func toGeminiContents(turns []ports.ModelTurn) []geminiContent {
	contents := make([]geminiContent, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case ports.TurnRoleAssistant:
			var parts []geminiPart
			if strings.TrimSpace(t.Text) != "" {
				parts = append(parts, geminiPart{Text: t.Text})
			}
			for _, c := range t.ToolCalls {
				parts = append(parts, geminiPart{FunctionCall: &geminiFunctionCall{Name: string(c.Name), Args: c.Arguments}})
			}
			if len(parts) == 0 {
				continue
			}
			contents = append(contents, geminiContent{Role: "model", Parts: parts})
		case ports.TurnRoleTool:
			parts := make([]geminiPart, 0, len(t.ToolResults))
			for _, r := range t.ToolResults {
				parts = append(parts, geminiPart{FunctionResponse: &geminiFunctionResponse{
					Name:     string(r.Tool),
					Response: geminiResponseObject(assistant.OutcomeJSON(r.Outcome)),
				}})
			}
			contents = append(contents, geminiContent{Role: "user", Parts: parts})
		default:
			if strings.TrimSpace(t.Text) == "" {
				continue
			}
			contents = append(contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: t.Text}}})
		}
	}
	return contents
}

// geminiResponseObject: functionResponse.response debe ser un objeto JSON.
func geminiResponseObject(raw []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return trimmed
	}
	wrapped, _ := json.Marshal(map[string]json.RawMessage{"result": trimmed})
	return wrapped
}

func geminiStopReason(s string) string {
	switch s {
	case "STOP":
		return "stop"
	case "MAX_TOKENS":
		return "length"
	}
	return "other"
}
