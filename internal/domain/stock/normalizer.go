// Package stock contiene el motor de analítica de estoque: normalización de filas crudas,
// agregación de métricas del dashboard y clasificación de sugerencias de compra.
// Todo el paquete es puro: sin I/O, determinista y seguro para uso concurrente.
package stock

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Status conjunto cerrado de estados de estoque.
type Status string

const (
	StatusRuptura      Status = "RUPTURA"
	StatusCritico      Status = "CRÍTICO"
	StatusAtencao      Status = "ATENÇÃO"
	StatusSaudavel     Status = "SAUDÁVEL"
	StatusExcesso      Status = "EXCESSO"
	StatusDesconhecido Status = "DESCONHECIDO"
)

// Valid informa si s pertenece al conjunto cerrado.
func (s Status) Valid() bool {
	switch s {
	case StatusRuptura, StatusCritico, StatusAtencao, StatusSaudavel, StatusExcesso, StatusDesconhecido:
		return true
	}
	return false
}

// IsRupture agrupa RUPTURA y CRÍTICO (ambos cuentan como riesgo de quiebre).
func (s Status) IsRupture() bool {
	return s == StatusRuptura || s == StatusCritico
}

// statusRule: si el texto plegado contiene alguno de los tokens, el status es target.
type statusRule struct {
	tokens []string
	target Status
}

// statusRules se evalúan en orden y gana la primera coincidencia. Un texto que contenga
// "ruptura" y "atenção" a la vez resuelve a CRÍTICO; el orden no se ajusta por especificidad.
var statusRules = []statusRule{
	{tokens: []string{"CRITICO", "RUPTURA"}, target: StatusCritico},
	{tokens: []string{"ATENCAO"}, target: StatusAtencao},
	{tokens: []string{"EXCESSO"}, target: StatusExcesso},
	{tokens: []string{"SAUDAVEL", "NORMAL"}, target: StatusSaudavel},
}

// NormalizeStatus mapea un label libre ("🟠 Crítico", "saudavel", "Excesso ⚪") al conjunto cerrado.
// Sin coincidencia devuelve DESCONHECIDO; el label original se conserva en NormalizedItem.RawStatus.
func NormalizeStatus(raw string) Status {
	folded := strings.ToUpper(Fold(raw))
	if folded == "" {
		return StatusDesconhecido
	}
	for _, rule := range statusRules {
		for _, tok := range rule.tokens {
			if strings.Contains(folded, tok) {
				return rule.target
			}
		}
	}
	return StatusDesconhecido
}

// Fold pasa s a minúsculas, elimina acentos, emoji y signos, y colapsa espacios.
// "🟠 Atenção!" → "atencao".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return unicode.ToLower(r)
		case unicode.IsSpace(r):
			return ' '
		default:
			return -1
		}
	}, stripped)
	return strings.Join(strings.Fields(cleaned), " ")
}

// numericPrefix prefijo numérico aceptado tras unificar separadores ("15 dias" → "15").
var numericPrefix = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?`)

// ParseNumber convierte un valor crudo en float64 sin fallar nunca.
//
// Acepta nil, números, json.Number, decimal.Decimal, string y *string. En strings:
//   - con "." y "," el separador más a la derecha es el decimal ("1.234,56" → 1234.56);
//   - solo con "," la coma es decimal ("12,5" → 12.5);
//   - en otro caso se interpreta tal cual.
//
// Entradas ausentes, no numéricas, NaN o infinitas devuelven 0.
func ParseNumber(raw any) float64 {
	switch v := raw.(type) {
	case nil:
		return 0
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case json.Number:
		return parseNumericString(string(v))
	case decimal.Decimal:
		f, _ := v.Float64()
		return finite(f)
	case *string:
		if v == nil {
			return 0
		}
		return parseNumericString(*v)
	case string:
		return parseNumericString(v)
	default:
		return 0
	}
}

func parseNumericString(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return 0
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}

	match := numericPrefix.FindString(s)
	if match == "" {
		return 0
	}
	f, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ABCClass clasificación de la curva ABC.
type ABCClass string

const (
	ClassA ABCClass = "A"
	ClassB ABCClass = "B"
	ClassC ABCClass = "C"
)

// ParseABC toma la primera letra útil del label ("a", " B ", "Curva C"). Default C.
func ParseABC(raw string) ABCClass {
	folded := strings.ToUpper(Fold(raw))
	folded = strings.TrimPrefix(folded, "CURVA ")
	folded = strings.TrimPrefix(folded, "CLASSE ")
	if folded == "" {
		return ClassC
	}
	switch folded[0] {
	case 'A':
		return ClassA
	case 'B':
		return ClassB
	default:
		return ClassC
	}
}
