package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	AI        AIConfig
	RateLimit RateLimitConfig
	Analytics AnalyticsConfig
	Campaign  CampaignConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo (ej. DATABASE_URL de Supabase).
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int32
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT. Los tokens los emite el proveedor de autenticación;
// aquí solo se validan.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AIConfig configuración del asistente conversacional.
// Models es la lista ordenada "proveedor:modelo" que recorre el executor de fallback.
type AIConfig struct {
	AnthropicAPIKey string
	GeminiAPIKey    string
	Models          []string
	MaxSteps        int
	AttemptTimeout  time.Duration
	TurnTimeout     time.Duration
}

// RateLimitConfig límite de turnos del chat por usuario.
type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

// AnalyticsConfig parámetros del dashboard y de las sugerencias de compra.
type AnalyticsConfig struct {
	TargetCoverageDays float64
	Partitions         int
}

// CampaignConfig colaborador externo de generación de campañas (webhook).
type CampaignConfig struct {
	WebhookURL string
	Timeout    time.Duration
}

const defaultModels = "anthropic:claude-3-5-haiku-20241022,gemini:gemini-1.5-flash"

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, AI_MODELS, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "estoque-inteligente"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "estoque"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    int32(getInt(v, "DB_MAX_CONNS", 10)),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "estoque-inteligente"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		AI: AIConfig{
			AnthropicAPIKey: getString(v, "ANTHROPIC_API_KEY", ""),
			GeminiAPIKey:    getString(v, "GEMINI_API_KEY", ""),
			Models:          splitList(getString(v, "AI_MODELS", defaultModels)),
			MaxSteps:        getInt(v, "AI_MAX_STEPS", 5),
			AttemptTimeout:  time.Duration(getInt(v, "AI_ATTEMPT_TIMEOUT_SECONDS", 25)) * time.Second,
			TurnTimeout:     time.Duration(getInt(v, "AI_TURN_TIMEOUT_SECONDS", 60)) * time.Second,
		},
		RateLimit: RateLimitConfig{
			PerMinute: getInt(v, "RATE_LIMIT_PER_MINUTE", 20),
			Burst:     getInt(v, "RATE_LIMIT_BURST", 5),
		},
		Analytics: AnalyticsConfig{
			TargetCoverageDays: getFloat(v, "TARGET_COVERAGE_DAYS", 30),
			Partitions:         getInt(v, "ANALYTICS_PARTITIONS", 4),
		},
		Campaign: CampaignConfig{
			WebhookURL: getString(v, "CAMPAIGN_WEBHOOK_URL", ""),
			Timeout:    time.Duration(getInt(v, "CAMPAIGN_TIMEOUT_SECONDS", 30)) * time.Second,
		},
	}

	if len(cfg.AI.Models) == 0 {
		return nil, fmt.Errorf("config: AI_MODELS debe tener al menos un modelo")
	}
	if cfg.AI.MaxSteps <= 0 {
		cfg.AI.MaxSteps = 1
	}
	if cfg.Analytics.TargetCoverageDays <= 0 {
		return nil, fmt.Errorf("config: TARGET_COVERAGE_DAYS debe ser mayor que cero")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if !v.IsSet(key) {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.GetString(key)), 64)
	if err != nil {
		return def
	}
	return f
}

// splitList separa "a, b,,c" en ["a" "b" "c"].
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
