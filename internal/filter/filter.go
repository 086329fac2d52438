package filter

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Tomas-vilte/ReviewMate/internal/domain/models"
)

// Config agrupa los patrones glob que deciden qué archivos entran a la review.
// Un match de blacklist siempre gana sobre la whitelist.
type Config struct {
	Whitelist []string
	Blacklist []string
}

// DefaultConfig devuelve la configuración por defecto: todo archivo es
// candidato y nada está excluido.
func DefaultConfig() Config {
	return Config{
		Whitelist: []string{"*"},
		Blacklist: []string{},
	}
}

// ParsePatterns convierte una lista separada por comas en patrones limpios.
// Una cadena vacía devuelve los defaults que se le pasen.
func ParsePatterns(raw string, defaults []string) []string {
	if strings.TrimSpace(raw) == "" {
		return defaults
	}
	parts := strings.Split(raw, ",")
	patterns := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// Filter clasifica archivos cambiados como relevantes o no según globs estilo
// fnmatch: `*` y `?` también cruzan separadores de directorio, así `*.py`
// matchea tanto a.py como src/a.py y el default `*` matchea todo.
type Filter struct {
	whitelist []*regexp.Regexp
	blacklist []*regexp.Regexp
	log       *slog.Logger
}

func New(cfg Config, log *slog.Logger) *Filter {
	if log == nil {
		log = slog.Default()
	}
	return &Filter{
		whitelist: compilePatterns(cfg.Whitelist, log),
		blacklist: compilePatterns(cfg.Blacklist, log),
		log:       log,
	}
}

// ShouldReview decide si un path entra a la review. La blacklist se evalúa
// primero y corta en el primer match; después la whitelist en orden. Un path
// que no matchea ninguna lista queda excluido (default-deny).
func (f *Filter) ShouldReview(filePath string) bool {
	for _, re := range f.blacklist {
		if re.MatchString(filePath) {
			return false
		}
	}
	for _, re := range f.whitelist {
		if re.MatchString(filePath) {
			return true
		}
	}
	return false
}

// Filter aplica ShouldReview a cada entrada de forma independiente,
// preservando el orden relativo de entrada.
func (f *Filter) Filter(files []models.FileChange) []models.FileChange {
	relevant := make([]models.FileChange, 0, len(files))
	for _, file := range files {
		if f.ShouldReview(file.Path) {
			relevant = append(relevant, file)
		}
	}
	return relevant
}

func compilePatterns(patterns []string, log *slog.Logger) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := translate(pattern)
		if err != nil {
			log.Warn("invalid glob pattern skipped", "pattern", pattern, "error", err)
			continue
		}
		compiled = append(compiled, re)
	}
	return compiled
}

// translate convierte un glob estilo fnmatch en una regexp anclada. A
// diferencia de path.Match, `*` y `?` no se frenan en `/`: el patrón se evalúa
// contra el path relativo completo como una sola cadena.
func translate(pattern string) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; c {
		case '*':
			sb.WriteString(".*")
		case '?':
			sb.WriteString(".")
		case '[':
			j := i + 1
			if j < len(pattern) && (pattern[j] == '!' || pattern[j] == '^') {
				j++
			}
			if j < len(pattern) && pattern[j] == ']' {
				j++
			}
			for j < len(pattern) && pattern[j] != ']' {
				j++
			}
			if j >= len(pattern) {
				return nil, fmt.Errorf("unterminated character class in %q", pattern)
			}
			class := pattern[i+1 : j]
			if strings.HasPrefix(class, "!") {
				class = "^" + class[1:]
			}
			sb.WriteString("[")
			sb.WriteString(class)
			sb.WriteString("]")
			i = j
		default:
			sb.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	sb.WriteString("$")
	return regexp.Compile(sb.String())
}
