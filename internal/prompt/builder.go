package prompt

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	domainErrors "github.com/Tomas-vilte/ReviewMate/internal/domain/errors"
	"github.com/Tomas-vilte/ReviewMate/internal/domain/models"
)

// Los cuatro placeholders que un template de review puede referenciar.
// Cualquier otro campo hace fallar el render en vez de quedar como texto literal.
const (
	FieldProjectContext = "project_context"
	FieldPRTitle        = "pr_title"
	FieldPRDescription  = "pr_description"
	FieldFilesChanged   = "files_changed"
)

// Builder resuelve templates por (scope, version) y renderiza el prompt final.
type Builder struct {
	templatesDir string
	log          *slog.Logger
}

func NewBuilder(templatesDir string, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{templatesDir: templatesDir, log: log}
}

// LoadTemplate resuelve <templatesDir>/<version>/<scope>.md y devuelve su texto
// completo. Si el archivo no existe devuelve TemplateNotFoundError, que es
// fatal para la corrida.
func (b *Builder) LoadTemplate(scope, version string) (string, error) {
	templatePath := filepath.Join(b.templatesDir, version, scope+".md")

	data, err := os.ReadFile(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", domainErrors.NewTemplateNotFoundError(scope, version, templatePath)
		}
		return "", err
	}

	b.log.Debug("template loaded", "scope", scope, "version", version, "bytes", len(data))
	return string(data), nil
}

// LoadTemplateFile lee un template desde una ruta explícita, salteando la
// resolución por (scope, version). Lo usa el override --prompt-file.
func (b *Builder) LoadTemplateFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", domainErrors.NewTemplateNotFoundError(filepath.Base(path), "", path)
		}
		return "", err
	}

	b.log.Debug("template loaded from explicit path", "path", path, "bytes", len(data))
	return string(data), nil
}

// Render sustituye los cuatro campos del PromptContext en el texto del
// template. Un template que no parsea o que referencia un placeholder fuera
// del conjunto fijo falla con TemplateMalformedError: nunca se deja un
// placeholder sin resolver en la salida.
func (b *Builder) Render(scope, templateText string, pc models.PromptContext) (string, error) {
	tmpl, err := template.New(scope).Option("missingkey=error").Parse(templateText)
	if err != nil {
		return "", domainErrors.NewTemplateMalformedError(scope, err)
	}

	fields := map[string]string{
		FieldProjectContext: pc.ProjectContext,
		FieldPRTitle:        pc.PRTitle,
		FieldPRDescription:  pc.PRDescription,
		FieldFilesChanged:   pc.FilesSummary,
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, fields); err != nil {
		return "", domainErrors.NewTemplateMalformedError(scope, err)
	}

	return sb.String(), nil
}
