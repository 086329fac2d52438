package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/Tomas-vilte/ReviewMate/internal/budget"
	"github.com/Tomas-vilte/ReviewMate/internal/cli/command/review"
	cfg "github.com/Tomas-vilte/ReviewMate/internal/config"
	"github.com/Tomas-vilte/ReviewMate/internal/contextdocs"
	"github.com/Tomas-vilte/ReviewMate/internal/domain/ports"
	"github.com/Tomas-vilte/ReviewMate/internal/filter"
	"github.com/Tomas-vilte/ReviewMate/internal/i18n"
	"github.com/Tomas-vilte/ReviewMate/internal/infrastructure/ai/gemini"
	"github.com/Tomas-vilte/ReviewMate/internal/infrastructure/vcs/github"
	"github.com/Tomas-vilte/ReviewMate/internal/prompt"
	"github.com/Tomas-vilte/ReviewMate/internal/services"
	"github.com/Tomas-vilte/ReviewMate/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Error iniciando la cli: %v", err)
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func initializeApp() (*cli.Command, error) {
	cfgApp, err := cfg.Load()
	if err != nil {
		return nil, err
	}

	translations, err := i18n.NewTranslations(cfgApp.Language, "")
	if err != nil {
		return nil, err
	}

	factory := newServiceFactory(cfgApp, translations)

	commands := []*cli.Command{
		review.NewReviewCommand(factory).CreateCommand(translations, cfgApp),
		review.NewCheckCommand(factory).CreateCommand(translations, cfgApp),
	}

	return &cli.Command{
		Name:                  "reviewmate",
		Usage:                 translations.GetMessage("app_usage", 0, nil),
		Version:               version.Version,
		Description:           translations.GetMessage("app_description", 0, nil),
		Commands:              commands,
		EnableShellCompletion: true,
	}, nil
}

// newServiceFactory arma el orquestador con sus colaboradores reales. Se
// construye recién dentro de la acción del comando porque el cliente de
// Gemini necesita el contexto de la corrida.
func newServiceFactory(conf *cfg.Config, trans *i18n.Translations) review.ServiceFactory {
	return func(ctx context.Context, opts review.Options) (ports.PRReviewer, error) {
		runCfg := *conf
		if opts.Owner != "" && opts.Repo != "" {
			runCfg.Owner = opts.Owner
			runCfg.Repo = opts.Repo
		}
		if opts.TemplateScope != "" {
			runCfg.TemplateScope = opts.TemplateScope
		}
		if opts.TemplateVersion != "" {
			runCfg.TemplateVersion = opts.TemplateVersion
		}
		if opts.TemplateFile != "" {
			runCfg.TemplateFile = opts.TemplateFile
		}

		logHandle := slog.Default()

		generator, err := gemini.NewGeminiReviewGenerator(ctx, &runCfg, logHandle)
		if err != nil {
			return nil, err
		}

		defaults := filter.DefaultConfig()
		filterCfg := filter.Config{
			Whitelist: filter.ParsePatterns(runCfg.Whitelist, defaults.Whitelist),
			Blacklist: filter.ParsePatterns(runCfg.Blacklist, defaults.Blacklist),
		}

		deps := services.Deps{
			VCSClient: github.NewGitHubClient(runCfg.Owner, runCfg.Repo, runCfg.GitHubToken, logHandle),
			Generator: generator,
			Filter:    filter.New(filterCfg, logHandle),
			Tracker:   budget.NewTracker(runCfg.TokenBudget, logHandle),
			Assembler: contextdocs.NewAssembler(logHandle),
			Prompts:   prompt.NewBuilder(runCfg.TemplatesDir, logHandle),
			Config:    &runCfg,
			Trans:     trans,
			Logger:    logHandle,
		}

		return services.NewReviewService(deps, opts.Mode), nil
	}
}
