package review

import (
	"context"
	"fmt"
	"os"
	"strconv"

	cfg "github.com/Tomas-vilte/ReviewMate/internal/config"
	"github.com/Tomas-vilte/ReviewMate/internal/domain/models"
	"github.com/Tomas-vilte/ReviewMate/internal/domain/ports"
	"github.com/Tomas-vilte/ReviewMate/internal/i18n"
	"github.com/Tomas-vilte/ReviewMate/internal/logger"
	"github.com/Tomas-vilte/ReviewMate/internal/regex"
	"github.com/Tomas-vilte/ReviewMate/internal/ui"
	"github.com/urfave/cli/v3"
)

// CheckCommand corre la review en modo dry-run: imprime el resultado en
// consola y solo publica con --post, previa confirmación interactiva.
type CheckCommand struct {
	factory ServiceFactory
}

func NewCheckCommand(factory ServiceFactory) *CheckCommand {
	return &CheckCommand{factory: factory}
}

func (c *CheckCommand) CreateCommand(t *i18n.Translations, conf *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:      "check",
		Aliases:   []string{"c"},
		Usage:     t.GetMessage("check_command_usage", 0, nil),
		ArgsUsage: "<pr-number | pull request URL>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "post",
				Usage: t.GetMessage("post_flag_usage", 0, nil),
			},
			scopeFlag(t, conf),
			versionFlag(t, conf),
			promptFileFlag(t),
			verboseFlag(t),
			debugFlag(t),
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			logger.Initialize(command.Bool("debug"), command.Bool("verbose"))

			ref := command.Args().First()
			if ref == "" {
				return fmt.Errorf("%s", t.GetMessage("check_arg_missing", 0, nil))
			}

			prNumber, owner, repo, err := ParsePRReference(ref)
			if err != nil {
				return fmt.Errorf("%s", t.GetMessage("invalid_pr_reference", 0, map[string]interface{}{
					"Ref": ref,
				}))
			}

			post := command.Bool("post")
			if err := conf.Validate(post); err != nil {
				return err
			}

			svc, err := c.factory(ctx, Options{
				Mode:            ModeDryRun,
				Owner:           owner,
				Repo:            repo,
				TemplateScope:   command.String("scope"),
				TemplateVersion: command.String("version"),
				TemplateFile:    command.String("prompt-file"),
			})
			if err != nil {
				return err
			}

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

			ui.PrintSectionBanner(t.GetMessage("review_dry_run_header", 0, map[string]interface{}{
				"PRNumber": prNumber,
			}))
			ui.PrintInfo(t.GetMessage("files_reviewed_count", result.FilesReviewed, map[string]interface{}{
				"Count": result.FilesReviewed,
			}))
			ui.PrintBlock(result.Text)
			ui.PrintTokenUsage(svc.LastUsage(), t)

			if !post {
				return nil
			}

			question := t.GetMessage("confirm_post", 0, map[string]interface{}{
				"PRNumber": prNumber,
			})
			if !ui.AskConfirmation(question) {
				ui.PrintInfo(t.GetMessage("post_cancelled", 0, nil))
				return nil
			}

			if err := svc.PostReview(ctx, prNumber, result); err != nil {
				return err
			}
			ui.PrintSuccess(os.Stdout, t.GetMessage("review_posted", 0, map[string]interface{}{
				"PRNumber": prNumber,
			}))
			return nil
		},
	}
}

// ParsePRReference acepta "123", "#123" o una URL completa de pull request.
// Para URLs, owner y repo pisan el repositorio configurado en esa corrida.
func ParsePRReference(ref string) (prNumber int, owner, repo string, err error) {
	if m := regex.PRNumber.FindStringSubmatch(ref); m != nil {
		n, convErr := strconv.Atoi(m[1])
		if convErr != nil {
			return 0, "", "", convErr
		}
		return n, "", "", nil
	}

	if m := regex.PRURL.FindStringSubmatch(ref); m != nil {
		n, convErr := strconv.Atoi(m[3])
		if convErr != nil {
			return 0, "", "", convErr
		}
		return n, m[1], m[2], nil
	}

	return 0, "", "", fmt.Errorf("unrecognized PR reference: %q", ref)
}

// runReview ejecuta el pipeline mostrando un spinner durante la corrida.
func runReview(ctx context.Context, svc ports.PRReviewer, t *i18n.Translations, conf *cfg.Config, prNumber int) (models.ReviewResult, error) {
	var result models.ReviewResult
	message := t.GetMessage("review_generating", 0, map[string]interface{}{
		"Model": conf.Model,
	})
	err := ui.WithSpinner(message, func() error {
		var runErr error
		result, runErr = svc.ReviewPR(ctx, prNumber)
		return runErr
	})
	return result, err
}

func scopeFlag(t *i18n.Translations, conf *cfg.Config) cli.Flag {
	return &cli.StringFlag{
		Name:  "scope",
		Usage: t.GetMessage("scope_flag_usage", 0, nil),
		Value: conf.TemplateScope,
	}
}

func versionFlag(t *i18n.Translations, conf *cfg.Config) cli.Flag {
	return &cli.StringFlag{
		Name:  "version",
		Usage: t.GetMessage("version_flag_usage", 0, nil),
		Value: conf.TemplateVersion,
	}
}

func promptFileFlag(t *i18n.Translations) cli.Flag {
	return &cli.StringFlag{
		Name:  "prompt-file",
		Usage: t.GetMessage("prompt_file_usage", 0, nil),
	}
}

func verboseFlag(t *i18n.Translations) cli.Flag {
	return &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   t.GetMessage("verbose_flag_usage", 0, nil),
	}
}

func debugFlag(t *i18n.Translations) cli.Flag {
	return &cli.BoolFlag{
		Name:  "debug",
		Usage: t.GetMessage("debug_flag_usage", 0, nil),
	}
}
