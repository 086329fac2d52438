package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Tomas-vilte/ReviewMate/internal/budget"
	cfg "github.com/Tomas-vilte/ReviewMate/internal/config"
	"github.com/Tomas-vilte/ReviewMate/internal/contextdocs"
	domainErrors "github.com/Tomas-vilte/ReviewMate/internal/domain/errors"
	"github.com/Tomas-vilte/ReviewMate/internal/domain/models"
	"github.com/Tomas-vilte/ReviewMate/internal/filter"
	"github.com/Tomas-vilte/ReviewMate/internal/i18n"
	"github.com/Tomas-vilte/ReviewMate/internal/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testTemplate = "ctx: {{.project_context}}\ntitle: {{.pr_title}}\ndesc: {{.pr_description}}\nfiles:\n{{.files_changed}}"

type fixture struct {
	vcs       *MockVCSClient
	generator *MockReviewGenerator
	cfg       *cfg.Config
	tracker   *budget.Tracker
}

// newService arma un ReviewService con template real en disco y mocks para
// los dos colaboradores de red.
func newService(t *testing.T, fix *fixture, mode Mode) *ReviewService {
	t.Helper()

	root := t.TempDir()
	templatesDir := filepath.Join(root, "templates")
	require.NoError(t, os.MkdirAll(filepath.Join(templatesDir, "v1"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(templatesDir, "v1", "pr-review.md"), []byte(testTemplate), 0644))

	if fix.cfg == nil {
		fix.cfg = &cfg.Config{
			TokenBudget:     100000,
			Model:           "gemini-2.0-flash",
			ContextDir:      filepath.Join(root, "context"),
			TemplateVersion: "v1",
			TemplateScope:   "pr-review",
			Language:        "en",
		}
	}
	fix.cfg.TemplatesDir = templatesDir

	if fix.tracker == nil {
		fix.tracker = budget.NewTracker(fix.cfg.TokenBudget, nil)
	}

	trans, err := i18n.NewTranslations("en", filepath.Join(root, "no-locales"))
	require.NoError(t, err)

	filterCfg := filter.Config{
		Whitelist: filter.ParsePatterns(fix.cfg.Whitelist, []string{"*"}),
		Blacklist: filter.ParsePatterns(fix.cfg.Blacklist, []string{}),
	}

	deps := Deps{
		VCSClient: fix.vcs,
		Generator: fix.generator,
		Filter:    filter.New(filterCfg, nil),
		Tracker:   fix.tracker,
		Assembler: contextdocs.NewAssembler(nil),
		Prompts:   prompt.NewBuilder(templatesDir, nil),
		Config:    fix.cfg,
		Trans:     trans,
	}

	return NewReviewService(deps, mode)
}

func samplePR() models.PRData {
	return models.PRData{
		Number:      42,
		Title:       "fix: handle nil response",
		Description: "Guards against a nil provider response.",
		Author:      "user1",
		Files: []models.FileChange{
			{Path: "handler.go", Status: models.FileModified, Additions: 10, Deletions: 2},
			{Path: "handler_test.go", Status: models.FileAdded, Additions: 30, Deletions: 0},
		},
	}
}

func TestReviewPR_DryRunSuccess(t *testing.T) {
	ctx := context.Background()
	fix := &fixture{vcs: new(MockVCSClient), generator: new(MockReviewGenerator)}
	svc := newService(t, fix, ModeDryRun)

	fix.vcs.On("GetPR", ctx, 42).Return(samplePR(), nil)
	fix.generator.On("GenerateReview", ctx, mock.AnythingOfType("string")).
		Return(models.ModelResponse{Text: "Looks good.", InputTokens: 500, OutputTokens: 80}, nil)

	result, err := svc.ReviewPR(ctx, 42)

	require.NoError(t, err)
	assert.True(t, result.Succeeded)
	assert.Equal(t, "Looks good.", result.Text)
	assert.Equal(t, 500, result.PromptTokens)
	assert.Equal(t, 80, result.CompletionTokens)

	// Dry-run never touches the comment API.
	fix.vcs.AssertNotCalled(t, "PostComment", mock.Anything, mock.Anything, mock.Anything)

	// The provider-reported usage, not the estimate, advances the budget.
	assert.Equal(t, 580, fix.tracker.Consumed())

	usage := svc.LastUsage()
	require.NotNil(t, usage)
	assert.Equal(t, 580, usage.TotalTokens)
	assert.Equal(t, "gemini-2.0-flash", usage.Model)
	assert.Equal(t, 2, result.FilesReviewed)
}

func TestReviewPR_LiveModePostsComment(t *testing.T) {
	ctx := context.Background()
	fix := &fixture{vcs: new(MockVCSClient), generator: new(MockReviewGenerator)}
	svc := newService(t, fix, ModeLive)

	fix.vcs.On("GetPR", ctx, 42).Return(samplePR(), nil)
	fix.generator.On("GenerateReview", ctx, mock.AnythingOfType("string")).
		Return(models.ModelResponse{Text: "Needs a nil check.", InputTokens: 100, OutputTokens: 20}, nil)
	fix.vcs.On("PostComment", ctx, 42, mock.MatchedBy(func(body string) bool {
		return len(body) > 0
	})).Return(nil)

	result, err := svc.ReviewPR(ctx, 42)

	require.NoError(t, err)
	assert.True(t, result.Succeeded)
	fix.vcs.AssertCalled(t, "PostComment", ctx, 42, mock.AnythingOfType("string"))
}

func TestReviewPR_PromptIncludesContext(t *testing.T) {
	ctx := context.Background()
	fix := &fixture{vcs: new(MockVCSClient), generator: new(MockReviewGenerator)}
	svc := newService(t, fix, ModeDryRun)

	fix.vcs.On("GetPR", ctx, 42).Return(samplePR(), nil)

	var seenPrompt string
	fix.generator.On("GenerateReview", ctx, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { seenPrompt = args.String(1) }).
		Return(models.ModelResponse{Text: "ok", InputTokens: 1, OutputTokens: 1}, nil)

	_, err := svc.ReviewPR(ctx, 42)

	require.NoError(t, err)
	assert.Contains(t, seenPrompt, "title: fix: handle nil response")
	assert.Contains(t, seenPrompt, "- handler.go (modified, +10/-2)")
	assert.Contains(t, seenPrompt, "- handler_test.go (added, +30/-0)")
	assert.NotContains(t, seenPrompt, "{{", "no unresolved placeholders reach the provider")
}

func TestReviewPR_NoRelevantFiles(t *testing.T) {
	ctx := context.Background()
	fix := &fixture{vcs: new(MockVCSClient), generator: new(MockReviewGenerator)}
	fix.cfg = &cfg.Config{
		TokenBudget:     100000,
		Model:           "gemini-2.0-flash",
		Whitelist:       "*.py",
		TemplateVersion: "v1",
		TemplateScope:   "pr-review",
		ContextDir:      "context",
	}
	svc := newService(t, fix, ModeDryRun)

	fix.vcs.On("GetPR", ctx, 42).Return(samplePR(), nil)

	result, err := svc.ReviewPR(ctx, 42)

	require.NoError(t, err)
	assert.True(t, result.Succeeded, "no relevant files is a normal terminal state, not an error")
	assert.NotEmpty(t, result.Text)
	fix.generator.AssertNotCalled(t, "GenerateReview", mock.Anything, mock.Anything)
}

func TestReviewPR_BudgetExceeded(t *testing.T) {
	ctx := context.Background()
	fix := &fixture{vcs: new(MockVCSClient), generator: new(MockReviewGenerator)}
	fix.tracker = budget.NewTracker(1000, nil)
	fix.tracker.RecordUsage(600, 300)
	svc := newService(t, fix, ModeDryRun)

	// The rendered prompt for this PR is far larger than the 100 remaining tokens.
	pr := samplePR()
	pr.Description = bigDescription()
	fix.vcs.On("GetPR", ctx, 42).Return(pr, nil)

	result, err := svc.ReviewPR(ctx, 42)

	require.NoError(t, err)
	assert.False(t, result.Succeeded, "budget exhaustion is an error-shaped result")
	assert.NotEmpty(t, result.Text)
	fix.generator.AssertNotCalled(t, "GenerateReview", mock.Anything, mock.Anything)
	assert.Equal(t, 900, fix.tracker.Consumed(), "rejected calls never advance consumption")
}

func TestReviewPR_BudgetReservesOutputTokens(t *testing.T) {
	ctx := context.Background()
	fix := &fixture{vcs: new(MockVCSClient), generator: new(MockReviewGenerator)}
	fix.cfg = &cfg.Config{
		TokenBudget:     2000,
		MaxOutputTokens: 2048,
		Model:           "gemini-2.0-flash",
		TemplateVersion: "v1",
		TemplateScope:   "pr-review",
		ContextDir:      "context",
	}
	fix.tracker = budget.NewTracker(2000, nil)
	svc := newService(t, fix, ModeDryRun)

	// The prompt alone fits easily; prompt plus the reserved output ceiling
	// does not, so the call must be rejected up front.
	fix.vcs.On("GetPR", ctx, 42).Return(samplePR(), nil)

	result, err := svc.ReviewPR(ctx, 42)

	require.NoError(t, err)
	assert.False(t, result.Succeeded)
	fix.generator.AssertNotCalled(t, "GenerateReview", mock.Anything, mock.Anything)
	assert.Equal(t, 0, fix.tracker.Consumed())
}

func TestReviewPR_PromptFileOverride(t *testing.T) {
	ctx := context.Background()
	fix := &fixture{vcs: new(MockVCSClient), generator: new(MockReviewGenerator)}
	svc := newService(t, fix, ModeDryRun)

	customPath := filepath.Join(t.TempDir(), "custom.md")
	require.NoError(t, os.WriteFile(customPath, []byte("custom: {{.pr_title}}"), 0644))
	fix.cfg.TemplateFile = customPath

	fix.vcs.On("GetPR", ctx, 42).Return(samplePR(), nil)

	var seenPrompt string
	fix.generator.On("GenerateReview", ctx, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { seenPrompt = args.String(1) }).
		Return(models.ModelResponse{Text: "ok", InputTokens: 1, OutputTokens: 1}, nil)

	_, err := svc.ReviewPR(ctx, 42)

	require.NoError(t, err)
	assert.Equal(t, "custom: fix: handle nil response", seenPrompt,
		"an explicit prompt file replaces the (scope, version) template")
}

func TestReviewPR_ProviderFailure(t *testing.T) {
	ctx := context.Background()
	fix := &fixture{vcs: new(MockVCSClient), generator: new(MockReviewGenerator)}
	svc := newService(t, fix, ModeDryRun)

	fix.vcs.On("GetPR", ctx, 42).Return(samplePR(), nil)
	fix.generator.On("GenerateReview", ctx, mock.AnythingOfType("string")).
		Return(models.ModelResponse{}, domainErrors.NewProviderError("gemini", errors.New("503")))

	result, err := svc.ReviewPR(ctx, 42)

	require.NoError(t, err, "a provider fault becomes an error-shaped result, never a raw fault")
	assert.False(t, result.Succeeded)
	assert.NotEmpty(t, result.Text)
	assert.Equal(t, 0, fix.tracker.Consumed(), "failed calls record no usage")
}

func TestReviewPR_LiveModePostsProviderFailureNotice(t *testing.T) {
	ctx := context.Background()
	fix := &fixture{vcs: new(MockVCSClient), generator: new(MockReviewGenerator)}
	svc := newService(t, fix, ModeLive)

	fix.vcs.On("GetPR", ctx, 42).Return(samplePR(), nil)
	fix.generator.On("GenerateReview", ctx, mock.AnythingOfType("string")).
		Return(models.ModelResponse{}, domainErrors.NewProviderError("gemini", errors.New("503")))

	var postedBody string
	fix.vcs.On("PostComment", ctx, 42, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { postedBody = args.String(2) }).
		Return(nil)

	result, err := svc.ReviewPR(ctx, 42)

	require.NoError(t, err)
	assert.False(t, result.Succeeded)
	// In live mode the failure notice reaches the PR as a comment too.
	assert.Contains(t, postedBody, "503")
	assert.Contains(t, postedBody, "ReviewMate")
}

func TestReviewPR_FetchFailureAborts(t *testing.T) {
	ctx := context.Background()
	fix := &fixture{vcs: new(MockVCSClient), generator: new(MockReviewGenerator)}
	svc := newService(t, fix, ModeDryRun)

	fix.vcs.On("GetPR", ctx, 42).
		Return(models.PRData{}, domainErrors.NewProviderError("github", errors.New("401")))

	_, err := svc.ReviewPR(ctx, 42)

	require.Error(t, err)
	fix.generator.AssertNotCalled(t, "GenerateReview", mock.Anything, mock.Anything)
}

func TestReviewPR_MissingTemplateAbortsBeforeNetwork(t *testing.T) {
	ctx := context.Background()
	fix := &fixture{vcs: new(MockVCSClient), generator: new(MockReviewGenerator)}
	svc := newService(t, fix, ModeDryRun)
	// Point the run at a template variant that does not exist.
	fix.cfg.TemplateVersion = "v9"

	_, err := svc.ReviewPR(ctx, 42)

	var notFound *domainErrors.TemplateNotFoundError
	require.ErrorAs(t, err, &notFound)
	fix.vcs.AssertNotCalled(t, "GetPR", mock.Anything, mock.Anything)
	fix.generator.AssertNotCalled(t, "GenerateReview", mock.Anything, mock.Anything)
}

func TestPostReview_AppendsFooter(t *testing.T) {
	ctx := context.Background()
	fix := &fixture{vcs: new(MockVCSClient), generator: new(MockReviewGenerator)}
	svc := newService(t, fix, ModeDryRun)

	var postedBody string
	fix.vcs.On("PostComment", ctx, 42, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { postedBody = args.String(2) }).
		Return(nil)

	err := svc.PostReview(ctx, 42, models.ReviewResult{Text: "All good."})

	require.NoError(t, err)
	assert.Contains(t, postedBody, "All good.")
	assert.Contains(t, postedBody, "ReviewMate")
}

// bigDescription genera texto suficiente para que el estimador supere
// cualquier presupuesto chico.
func bigDescription() string {
	words := make([]byte, 0, 4096)
	for i := 0; i < 500; i++ {
		words = append(words, "word "...)
	}
	return string(words)
}
