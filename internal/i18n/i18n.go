package i18n

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

type Translations struct {
	bundle   *i18n.Bundle
	localize *i18n.Localizer
}

// NewTranslations carga el bundle de mensajes: defaults embebidos en inglés
// más los overrides de localesDir (locales/ si se pasa vacío).
func NewTranslations(defaultLang, localesDir string) (*Translations, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	bundle.MustParseMessageFileBytes([]byte(defaultMessages), "default.en.toml")

	if localesDir == "" {
		localesDir = "locales"
	}

	files, err := filepath.Glob(filepath.Join(localesDir, "active.*.toml"))
	if err != nil {
		return nil, fmt.Errorf("error reading locales: %w", err)
	}

	for _, file := range files {
		if _, err := bundle.LoadMessageFile(file); err != nil {
			return nil, fmt.Errorf("error loading locale file %s: %w", file, err)
		}
	}

	localize := i18n.NewLocalizer(bundle, defaultLang)

	return &Translations{
		bundle:   bundle,
		localize: localize,
	}, nil
}

func (t *Translations) SetLanguage(lang string) error {
	for _, tag := range t.bundle.LanguageTags() {
		if tag.String() == lang {
			t.localize = i18n.NewLocalizer(t.bundle, lang)
			return nil
		}
	}
	return fmt.Errorf("language '%s' not supported", lang)
}

func (t *Translations) GetMessage(messageID string, count int, templateData map[string]interface{}) string {
	localized, err := t.localize.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{
			ID: messageID,
		},
		PluralCount:  count,
		TemplateData: templateData,
	})
	if err != nil {
		return "Translation missing: " + messageID
	}
	return localized
}

var defaultMessages = `
	[app_usage]
	other = "Review pull requests with AI"

	[app_description]
	other = "ReviewMate fetches a pull request, assembles project context and posts an AI-generated review"

	[review_command_usage]
	other = "Review a PR and post the result as a comment"

	[check_command_usage]
	other = "Review a PR in dry-run mode, printing the result to the console"

	[pr_number_usage]
	other = "Number of the pull request to review"

	[post_flag_usage]
	other = "Post the review as a comment after confirmation"

	[scope_flag_usage]
	other = "Review scope selecting the prompt template"

	[version_flag_usage]
	other = "Prompt template version to use"

	[prompt_file_usage]
	other = "Override the prompt template with an explicit file"

	[verbose_flag_usage]
	other = "Enable informational logging"

	[debug_flag_usage]
	other = "Enable debug logging with source locations"

	[check_arg_missing]
	other = "A PR number or pull request URL is required"

	[invalid_pr_reference]
	other = "Could not parse {{.Ref}} as a PR number or pull request URL"

	[notice_no_relevant_files]
	other = "No relevant files to review in this pull request."

	[notice_budget_exceeded]
	other = "Token budget exceeded: this review needs ~{{.Estimated}} tokens but only {{.Remaining}} of {{.Limit}} remain. Review skipped."

	[review_generating]
	other = "Generating review with {{.Model}}..."

	[review_posted]
	other = "Review posted to PR #{{.PRNumber}}"

	[review_failed]
	other = "Review failed: {{.Error}}"

	[review_dry_run_header]
	other = "Review for PR #{{.PRNumber}} (dry run, nothing posted)"

	[confirm_post]
	other = "Post this review to PR #{{.PRNumber}}?"

	[post_cancelled]
	other = "Posting cancelled"

	[error_fetching_pr]
	other = "Could not fetch PR #{{.PRNumber}}: {{.Error}}"

	[error_posting_comment]
	other = "Could not post the comment on PR #{{.PRNumber}}: {{.Error}}"

	[error_generating_review]
	other = "The AI provider failed to generate a review for PR #{{.PRNumber}}: {{.Error}}"

	[ui_token_usage]
	other = "Token usage"

	[ui_input]
	other = "input"

	[ui_output]
	other = "output"

	[ui_total]
	other = "total"

	[ui_cost]
	other = "Estimated cost"

	[ui_duration]
	other = "Duration"

	[files_reviewed_count]
	one = "{{.Count}} file selected for review"
	other = "{{.Count}} files selected for review"
	`
