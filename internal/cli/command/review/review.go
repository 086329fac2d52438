package review

import (
	"context"
	"os"

	cfg "github.com/Tomas-vilte/ReviewMate/internal/config"
	"github.com/Tomas-vilte/ReviewMate/internal/domain/ports"
	"github.com/Tomas-vilte/ReviewMate/internal/i18n"
	"github.com/Tomas-vilte/ReviewMate/internal/logger"
	"github.com/Tomas-vilte/ReviewMate/internal/services"
	"github.com/Tomas-vilte/ReviewMate/internal/ui"
	"github.com/urfave/cli/v3"
)

// Options parametriza la construcción del orquestador para una corrida.
type Options struct {
	Mode Mode
	// Owner y Repo, si vienen de una URL, pisan el repositorio configurado.
	Owner string
	Repo  string
	// TemplateScope y TemplateVersion, si no están vacíos, pisan la variante
	// de template configurada; TemplateFile pisa la resolución entera.
	TemplateScope   string
	TemplateVersion string
	TemplateFile    string
}

// Mode reexporta el modo del orquestador para que main no dependa de services.
type Mode = services.Mode

const (
	ModeDryRun = services.ModeDryRun
	ModeLive   = services.ModeLive
)

// ServiceFactory construye el orquestador con sus colaboradores reales.
type ServiceFactory func(ctx context.Context, opts Options) (ports.PRReviewer, error)

// ReviewCommand publica la review directamente en la PR.
type ReviewCommand struct {
	factory ServiceFactory
}

func NewReviewCommand(factory ServiceFactory) *ReviewCommand {
	return &ReviewCommand{factory: factory}
}

func (c *ReviewCommand) CreateCommand(t *i18n.Translations, conf *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:    "review",
		Aliases: []string{"r"},
		Usage:   t.GetMessage("review_command_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "pr-number",
				Aliases:  []string{"n"},
				Usage:    t.GetMessage("pr_number_usage", 0, nil),
				Required: true,
			},
			scopeFlag(t, conf),
			versionFlag(t, conf),
			promptFileFlag(t),
			verboseFlag(t),
			debugFlag(t),
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			logger.Initialize(command.Bool("debug"), command.Bool("verbose"))

			if err := conf.Validate(true); err != nil {
				return err
			}

			svc, err := c.factory(ctx, Options{
				Mode:            ModeLive,
				TemplateScope:   command.String("scope"),
				TemplateVersion: command.String("version"),
				TemplateFile:    command.String("prompt-file"),
			})
			if err != nil {
				return err
			}

			prNumber := int(command.Int("pr-number"))
			result, err := runReview(ctx, svc, t, conf, prNumber)
			if err != nil {
				return err
			}

			if !result.Succeeded {
				ui.PrintError(os.Stdout, t.GetMessage("review_failed", 0, map[string]interface{}{
					"Error": result.Text,
				}))
				return cli.Exit("", 1)
			}

			ui.PrintSuccess(os.Stdout, t.GetMessage("review_posted", 0, map[string]interface{}{
				"PRNumber": prNumber,
			}))
			ui.PrintTokenUsage(svc.LastUsage(), t)
			return nil
		},
	}
}
