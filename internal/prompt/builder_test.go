package prompt

import (
	"os"
	"path/filepath"
	"testing"

	domainErrors "github.com/Tomas-vilte/ReviewMate/internal/domain/errors"
	"github.com/Tomas-vilte/ReviewMate/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemplate(t *testing.T, root, version, scope, content string) {
	t.Helper()
	dir := filepath.Join(root, version)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, scope+".md"), []byte(content), 0644))
}

func sampleContext() models.PromptContext {
	return models.PromptContext{
		ProjectContext: "the project",
		PRTitle:        "fix: bug",
		PRDescription:  "fixes a bug",
		FilesSummary:   "- main.go (modified, +1/-1)\n",
	}
}

func TestLoadTemplate_Success(t *testing.T) {
	root := t.TempDir()
	writeTemplate(t, root, "v1", "pr-review", "hello {{.pr_title}}")

	b := NewBuilder(root, nil)
	text, err := b.LoadTemplate("pr-review", "v1")

	require.NoError(t, err)
	assert.Equal(t, "hello {{.pr_title}}", text)
}

func TestLoadTemplate_NotFound(t *testing.T) {
	b := NewBuilder(t.TempDir(), nil)

	_, err := b.LoadTemplate("pr-review", "v1")

	var notFound *domainErrors.TemplateNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "pr-review", notFound.Scope)
	assert.Equal(t, "v1", notFound.Version)
}

func TestLoadTemplateFile_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.md")
	require.NoError(t, os.WriteFile(path, []byte("override {{.pr_title}}"), 0644))

	b := NewBuilder(t.TempDir(), nil)
	text, err := b.LoadTemplateFile(path)

	require.NoError(t, err)
	assert.Equal(t, "override {{.pr_title}}", text)
}

func TestLoadTemplateFile_NotFound(t *testing.T) {
	b := NewBuilder(t.TempDir(), nil)

	_, err := b.LoadTemplateFile(filepath.Join(t.TempDir(), "missing.md"))

	var notFound *domainErrors.TemplateNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing.md", notFound.Scope)
}

func TestRender_AllFields(t *testing.T) {
	b := NewBuilder(t.TempDir(), nil)
	tmpl := "ctx: {{.project_context}}\ntitle: {{.pr_title}}\ndesc: {{.pr_description}}\nfiles:\n{{.files_changed}}"

	out, err := b.Render("pr-review", tmpl, sampleContext())

	require.NoError(t, err)
	assert.Contains(t, out, "ctx: the project")
	assert.Contains(t, out, "title: fix: bug")
	assert.Contains(t, out, "desc: fixes a bug")
	assert.Contains(t, out, "- main.go (modified, +1/-1)")
	// Round-trip property: nothing unresolved survives the render.
	assert.NotContains(t, out, "{{")
	assert.NotContains(t, out, "}}")
}

func TestRender_UnknownPlaceholder(t *testing.T) {
	b := NewBuilder(t.TempDir(), nil)

	_, err := b.Render("pr-review", "hi {{.not_a_field}}", sampleContext())

	var malformed *domainErrors.TemplateMalformedError
	require.ErrorAs(t, err, &malformed)
}

func TestRender_UnclosedDelimiter(t *testing.T) {
	b := NewBuilder(t.TempDir(), nil)

	_, err := b.Render("pr-review", "hi {{.pr_title", sampleContext())

	var malformed *domainErrors.TemplateMalformedError
	require.ErrorAs(t, err, &malformed)
}

func TestRender_EmptyFieldsAllowed(t *testing.T) {
	b := NewBuilder(t.TempDir(), nil)

	out, err := b.Render("pr-review", "ctx:[{{.project_context}}]", models.PromptContext{})

	require.NoError(t, err)
	assert.Equal(t, "ctx:[]", out, "empty project context renders as empty, not as an error")
}
