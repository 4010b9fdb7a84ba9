package assistant

import (
	"fmt"
	"strings"
)

// Intent intención detectada por el router de atajos.
type Intent string

const (
	IntentNone        Intent = ""
	IntentLowStock    Intent = "low_stock"
	IntentExcessPromo Intent = "excess_promo"
)

// Filter filtro de consultar_estoque asociado a la intención.
func (i Intent) Filter() FilterType {
	switch i {
	case IntentLowStock:
		return FilterLowStock
	case IntentExcessPromo:
		return FilterExcessPromo
	}
	return FilterGeneral
}

// Message mensaje de historial enviado al modelo.
type Message struct {
	Role    string
	Content string
}

// Step paso de generación: el texto parcial del modelo, las herramientas que pidió
// y los resultados que obtuvo.
type Step struct {
	Text        string
	ToolCalls   []ToolCall
	ToolResults []ToolResult
}

// FinishReasonToolCalls el modelo terminó pidiendo herramientas.
const FinishReasonToolCalls = "tool-calls"

// AttemptOutcome resultado de un intento contra un modelo.
type AttemptOutcome string

const (
	OutcomeSuccess       AttemptOutcome = "success"
	OutcomeEmptyResponse AttemptOutcome = "emptyResponse"
	OutcomeProviderError AttemptOutcome = "providerError"
	OutcomeToolStall     AttemptOutcome = "toolStall"
)

// ModelAttempt registro efímero de un intento. Solo diagnóstico.
type ModelAttempt struct {
	ModelID      string
	Outcome      AttemptOutcome
	ErrorMessage string
}

// AttemptLog intentos de un turno, en orden.
type AttemptLog []ModelAttempt

// Append devuelve un log nuevo con el intento agregado.
func (l AttemptLog) Append(a ModelAttempt) AttemptLog {
	out := make(AttemptLog, len(l), len(l)+1)
	copy(out, l)
	return append(out, a)
}

// Count intentos con el outcome indicado.
func (l AttemptLog) Count(o AttemptOutcome) int {
	n := 0
	for _, a := range l {
		if a.Outcome == o {
			n++
		}
	}
	return n
}

// String resumen de una línea para logs del servidor.
func (l AttemptLog) String() string {
	parts := make([]string, 0, len(l))
	for _, a := range l {
		if a.ErrorMessage != "" {
			parts = append(parts, fmt.Sprintf("%s=%s(%s)", a.ModelID, a.Outcome, a.ErrorMessage))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%s", a.ModelID, a.Outcome))
	}
	return strings.Join(parts, "; ")
}

// Source camino que produjo la respuesta del turno.
type Source string

const (
	SourceShortcut    Source = "shortcut"
	SourceModel       Source = "model"
	SourceRecovered   Source = "recovered"
	SourceDegraded    Source = "degraded"
	SourceFailed      Source = "failed"
	SourceRateLimited Source = "rate_limited"
)

// TurnResult resultado tipado de un turno. Reply siempre es apto para el usuario.
type TurnResult struct {
	TurnID   string
	Reply    string
	Source   Source
	ModelID  string
	Attempts AttemptLog
	Err      error
}
