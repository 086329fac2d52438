package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	domainErrors "github.com/Tomas-vilte/ReviewMate/internal/domain/errors"
	"github.com/joho/godotenv"
)

// Config agrupa toda la configuración de una corrida. Se construye una sola
// vez al arrancar el proceso desde el entorno y después es de solo lectura.
type Config struct {
	// GitHubToken es el bearer token para la API de GitHub.
	GitHubToken string
	// GeminiAPIKey es la API key del proveedor de IA.
	GeminiAPIKey string
	// Owner y Repo identifican el repositorio destino ("owner/repo" en REVIEWMATE_REPO).
	Owner string
	Repo  string
	// TokenBudget es el techo de tokens por corrida.
	TokenBudget int
	// Whitelist y Blacklist son los patrones glob crudos, separados por coma.
	Whitelist string
	Blacklist string
	// Model es el identificador del modelo de Gemini.
	Model string
	// APIBaseURL permite apuntar el cliente de IA a otro endpoint.
	APIBaseURL string
	// ContextDir es el directorio con los documentos de contexto del proyecto.
	ContextDir string
	// TemplatesDir es el directorio raíz de templates, clave <version>/<scope>.md.
	TemplatesDir string
	// TemplateVersion y TemplateScope seleccionan la variante de template.
	TemplateVersion string
	TemplateScope   string
	// TemplateFile, si no está vacío, pisa la resolución por (scope, version)
	// con un archivo explícito. Solo se setea por flag (--prompt-file).
	TemplateFile string
	// MaxOutputTokens limita la salida del modelo.
	MaxOutputTokens int32
	// Language es el idioma de los mensajes ("en", "es").
	Language string
}

const (
	defaultTokenBudget     = 100000
	defaultModel           = "gemini-2.0-flash"
	defaultContextDir      = "context"
	defaultTemplatesDir    = "templates"
	defaultTemplateVersion = "v1"
	defaultTemplateScope   = "pr-review"
	defaultMaxOutputTokens = 2048
	defaultLang            = "en"
)

// Load arma la configuración desde el entorno. Un .env en el directorio de
// trabajo se carga primero con la menor precedencia; su ausencia no es error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		GitHubToken:     os.Getenv("GITHUB_TOKEN"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		Whitelist:       os.Getenv("REVIEWMATE_WHITELIST"),
		Blacklist:       os.Getenv("REVIEWMATE_BLACKLIST"),
		Model:           getEnv("REVIEWMATE_MODEL", defaultModel),
		APIBaseURL:      os.Getenv("REVIEWMATE_API_BASE_URL"),
		ContextDir:      getEnv("REVIEWMATE_CONTEXT_DIR", defaultContextDir),
		TemplatesDir:    getEnv("REVIEWMATE_TEMPLATES_DIR", defaultTemplatesDir),
		TemplateVersion: getEnv("REVIEWMATE_TEMPLATE_VERSION", defaultTemplateVersion),
		TemplateScope:   getEnv("REVIEWMATE_TEMPLATE_SCOPE", defaultTemplateScope),
		Language:        getEnv("REVIEWMATE_LANG", defaultLang),
	}

	budget, err := getEnvInt("REVIEWMATE_TOKEN_BUDGET", defaultTokenBudget)
	if err != nil {
		return nil, err
	}
	if budget <= 0 {
		return nil, fmt.Errorf("REVIEWMATE_TOKEN_BUDGET must be positive, got %d", budget)
	}
	cfg.TokenBudget = budget

	maxOut, err := getEnvInt("REVIEWMATE_MAX_OUTPUT_TOKENS", defaultMaxOutputTokens)
	if err != nil {
		return nil, err
	}
	cfg.MaxOutputTokens = int32(maxOut)

	if repo := os.Getenv("REVIEWMATE_REPO"); repo != "" {
		owner, name, ok := strings.Cut(repo, "/")
		if !ok || owner == "" || name == "" {
			return nil, fmt.Errorf("REVIEWMATE_REPO must be in owner/repo form, got %q", repo)
		}
		cfg.Owner = owner
		cfg.Repo = name
	}

	return cfg, nil
}

// Validate chequea que estén los valores requeridos para el modo pedido.
// El modo live necesita además el token de GitHub y un repositorio destino.
func (c *Config) Validate(live bool) error {
	if c.GeminiAPIKey == "" {
		return domainErrors.NewConfigMissingError("GEMINI_API_KEY")
	}
	if c.Owner == "" || c.Repo == "" {
		return domainErrors.NewConfigMissingError("REVIEWMATE_REPO")
	}
	if live && c.GitHubToken == "" {
		return domainErrors.NewConfigMissingError("GITHUB_TOKEN")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q: %w", key, raw, err)
	}
	return value, nil
}
