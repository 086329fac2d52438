package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Tomas-vilte/ReviewMate/internal/budget"
	cfg "github.com/Tomas-vilte/ReviewMate/internal/config"
	"github.com/Tomas-vilte/ReviewMate/internal/contextdocs"
	"github.com/Tomas-vilte/ReviewMate/internal/domain/models"
	"github.com/Tomas-vilte/ReviewMate/internal/domain/ports"
	"github.com/Tomas-vilte/ReviewMate/internal/filter"
	"github.com/Tomas-vilte/ReviewMate/internal/i18n"
	"github.com/Tomas-vilte/ReviewMate/internal/prompt"
)

// Mode decide a dónde va el resultado: consola (dry-run) o comentario en la PR.
// Es el único punto del pipeline que distingue los dos modos de despliegue.
type Mode int

const (
	ModeDryRun Mode = iota
	ModeLive
)

var _ ports.PRReviewer = (*ReviewService)(nil)

// Deps agrupa los colaboradores del orquestador.
type Deps struct {
	VCSClient ports.VCSClient
	Generator ports.ReviewGenerator
	Filter    *filter.Filter
	Tracker   *budget.Tracker
	Assembler *contextdocs.Assembler
	Prompts   *prompt.Builder
	Config    *cfg.Config
	Trans     *i18n.Translations
	Logger    *slog.Logger
}

// ReviewService secuencia el pipeline completo de review para una PR:
// fetch → filtro → contexto → prompt → presupuesto → modelo → ruteo.
type ReviewService struct {
	vcs       ports.VCSClient
	generator ports.ReviewGenerator
	files     *filter.Filter
	tracker   *budget.Tracker
	assembler *contextdocs.Assembler
	prompts   *prompt.Builder
	calc      *budget.Calculator
	cfg       *cfg.Config
	trans     *i18n.Translations
	log       *slog.Logger
	mode      Mode
	lastUsage *models.TokenUsage
}

func NewReviewService(deps Deps, mode Mode) *ReviewService {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &ReviewService{
		vcs:       deps.VCSClient,
		generator: deps.Generator,
		files:     deps.Filter,
		tracker:   deps.Tracker,
		assembler: deps.Assembler,
		prompts:   deps.Prompts,
		calc:      budget.NewCalculator(),
		cfg:       deps.Config,
		trans:     deps.Trans,
		log:       log,
		mode:      mode,
	}
}

// ReviewPR corre el pipeline para una PR. Los estados terminales esperados
// (sin archivos relevantes, presupuesto excedido, falla del proveedor de IA)
// se devuelven como ReviewResult, no como error; solo las fallas de
// configuración, template o del fetch de la PR cortan con error.
func (s *ReviewService) ReviewPR(ctx context.Context, prNumber int) (models.ReviewResult, error) {
	// El template se resuelve antes de tocar la red: sin template no hay
	// prompt posible y no tiene sentido gastar ninguna llamada. Un archivo
	// explícito (--prompt-file) pisa la resolución por (scope, version).
	var templateText string
	var err error
	if s.cfg.TemplateFile != "" {
		templateText, err = s.prompts.LoadTemplateFile(s.cfg.TemplateFile)
	} else {
		templateText, err = s.prompts.LoadTemplate(s.cfg.TemplateScope, s.cfg.TemplateVersion)
	}
	if err != nil {
		return models.ReviewResult{}, err
	}

	prData, err := s.vcs.GetPR(ctx, prNumber)
	if err != nil {
		msg := s.trans.GetMessage("error_fetching_pr", 0, map[string]interface{}{
			"PRNumber": prNumber,
			"Error":    err.Error(),
		})
		return models.ReviewResult{}, fmt.Errorf("%s: %w", msg, err)
	}

	relevant := s.files.Filter(prData.Files)
	s.log.Info("files filtered", "total", len(prData.Files), "relevant", len(relevant))

	if len(relevant) == 0 {
		notice := s.trans.GetMessage("notice_no_relevant_files", 0, nil)
		result := models.ReviewResult{Text: notice, Succeeded: true}
		if err := s.routeNotice(ctx, prNumber, notice); err != nil {
			return result, err
		}
		return result, nil
	}

	promptContext := models.PromptContext{
		ProjectContext: s.assembler.Gather(s.cfg.ContextDir),
		PRTitle:        prData.Title,
		PRDescription:  prData.Description,
		FilesSummary:   buildFilesSummary(relevant),
	}

	promptText, err := s.prompts.Render(s.cfg.TemplateScope, templateText, promptContext)
	if err != nil {
		return models.ReviewResult{}, err
	}

	// La admisión reserva también la respuesta: RecordUsage va a sumar los
	// tokens de salida, así que el chequeo cuenta prompt + tope de salida.
	estimated := budget.EstimateTokens(promptText) + int(s.cfg.MaxOutputTokens)
	if budgetErr := s.tracker.Check(estimated); budgetErr != nil {
		s.log.Warn("budget check rejected the call",
			"error", budgetErr,
			"remaining", s.tracker.Remaining())

		notice := s.trans.GetMessage("notice_budget_exceeded", 0, map[string]interface{}{
			"Estimated": estimated,
			"Remaining": s.tracker.Remaining(),
			"Limit":     s.tracker.Limit(),
		})
		result := models.ReviewResult{Text: notice, Succeeded: false}
		if err := s.routeNotice(ctx, prNumber, notice); err != nil {
			return result, err
		}
		return result, nil
	}

	start := time.Now()
	resp, err := s.generator.GenerateReview(ctx, promptText)
	if err != nil {
		s.log.Error("model call failed", "pr_number", prNumber, "error", err)
		msg := s.trans.GetMessage("error_generating_review", 0, map[string]interface{}{
			"PRNumber": prNumber,
			"Error":    err.Error(),
		})
		result := models.ReviewResult{Text: msg, Succeeded: false}
		if rErr := s.routeNotice(ctx, prNumber, msg); rErr != nil {
			return result, rErr
		}
		return result, nil
	}

	s.tracker.RecordUsage(resp.InputTokens, resp.OutputTokens)

	s.lastUsage = &models.TokenUsage{
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
		TotalTokens:  resp.InputTokens + resp.OutputTokens,
		CostUSD:      s.calc.EstimateCost(s.cfg.Model, resp.InputTokens, resp.OutputTokens),
		Model:        s.cfg.Model,
		DurationMs:   time.Since(start).Milliseconds(),
	}

	result := models.ReviewResult{
		Text:             resp.Text,
		PromptTokens:     resp.InputTokens,
		CompletionTokens: resp.OutputTokens,
		FilesReviewed:    len(relevant),
		Succeeded:        true,
	}

	if s.mode == ModeLive {
		if err := s.PostReview(ctx, prNumber, result); err != nil {
			return result, err
		}
	}

	return result, nil
}

// PostReview publica el texto del resultado como comentario en la PR, con el
// pie de firma del bot.
func (s *ReviewService) PostReview(ctx context.Context, prNumber int, result models.ReviewResult) error {
	body := result.Text + commentFooter
	if err := s.vcs.PostComment(ctx, prNumber, body); err != nil {
		msg := s.trans.GetMessage("error_posting_comment", 0, map[string]interface{}{
			"PRNumber": prNumber,
			"Error":    err.Error(),
		})
		return fmt.Errorf("%s: %w", msg, err)
	}
	return nil
}

// LastUsage devuelve las métricas de la última llamada al modelo, o nil.
func (s *ReviewService) LastUsage() *models.TokenUsage {
	return s.lastUsage
}

const commentFooter = "\n\n---\n*🧉 Generated by ReviewMate*"

// routeNotice publica los avisos terminales (sin archivos, presupuesto) como
// comentario en modo live; en dry-run el caller los imprime.
func (s *ReviewService) routeNotice(ctx context.Context, prNumber int, notice string) error {
	if s.mode != ModeLive {
		return nil
	}
	return s.PostReview(ctx, prNumber, models.ReviewResult{Text: notice})
}

// buildFilesSummary arma una línea por archivo con estado y conteo de cambios.
func buildFilesSummary(files []models.FileChange) string {
	var sb strings.Builder
	for _, f := range files {
		fmt.Fprintf(&sb, "- %s (%s, +%d/-%d)\n", f.Path, f.Status, f.Additions, f.Deletions)
	}
	return sb.String()
}
