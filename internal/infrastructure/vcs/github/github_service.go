package github

import (
	"context"
	"log/slog"
	"net/http"

	domainErrors "github.com/Tomas-vilte/ReviewMate/internal/domain/errors"
	"github.com/Tomas-vilte/ReviewMate/internal/domain/models"
	"github.com/Tomas-vilte/ReviewMate/internal/domain/ports"
	"github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
)

var _ ports.VCSClient = (*GitHubClient)(nil)

type PullRequestsService interface {
	Get(ctx context.Context, owner, repo string, number int) (*github.PullRequest, *github.Response, error)
	ListFiles(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.CommitFile, *github.Response, error)
}

type IssuesService interface {
	CreateComment(ctx context.Context, owner, repo string, number int, comment *github.IssueComment) (*github.IssueComment, *github.Response, error)
}

type GitHubClient struct {
	prService     PullRequestsService
	issuesService IssuesService
	owner         string
	repo          string
	log           *slog.Logger
}

func NewGitHubClient(owner, repo, token string, log *slog.Logger) *GitHubClient {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)
	if log == nil {
		log = slog.Default()
	}

	return &GitHubClient{
		prService:     client.PullRequests,
		issuesService: client.Issues,
		owner:         owner,
		repo:          repo,
		log:           log,
	}
}

func NewGitHubClientWithServices(
	prService PullRequestsService,
	issuesService IssuesService,
	owner string,
	repo string,
	log *slog.Logger,
) *GitHubClient {
	if log == nil {
		log = slog.Default()
	}
	return &GitHubClient{
		prService:     prService,
		issuesService: issuesService,
		owner:         owner,
		repo:          repo,
		log:           log,
	}
}

// GetPR obtiene los metadatos de la PR y la lista completa de archivos
// cambiados, paginando hasta agotar resultados.
func (ghc *GitHubClient) GetPR(ctx context.Context, prNumber int) (models.PRData, error) {
	pr, _, err := ghc.prService.Get(ctx, ghc.owner, ghc.repo, prNumber)
	if err != nil {
		return models.PRData{}, domainErrors.NewProviderError("github", err)
	}

	prData := models.PRData{
		Number:      prNumber,
		Title:       pr.GetTitle(),
		Description: pr.GetBody(),
		Author:      pr.GetUser().GetLogin(),
	}

	opts := &github.ListOptions{PerPage: 100}
	for {
		files, resp, err := ghc.prService.ListFiles(ctx, ghc.owner, ghc.repo, prNumber, opts)
		if err != nil {
			return models.PRData{}, domainErrors.NewProviderError("github", err)
		}
		for _, file := range files {
			prData.Files = append(prData.Files, models.FileChange{
				Path:      file.GetFilename(),
				Status:    mapFileStatus(file.GetStatus()),
				Additions: file.GetAdditions(),
				Deletions: file.GetDeletions(),
			})
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	ghc.log.Debug("pull request fetched",
		"pr_number", prNumber,
		"author", prData.Author,
		"files", len(prData.Files))

	return prData, nil
}

// PostComment publica un comentario en la PR vía la API de issues.
func (ghc *GitHubClient) PostComment(ctx context.Context, prNumber int, body string) error {
	comment := &github.IssueComment{Body: github.Ptr(body)}

	_, _, err := ghc.issuesService.CreateComment(ctx, ghc.owner, ghc.repo, prNumber, comment)
	if err != nil {
		return domainErrors.NewProviderError("github", err)
	}

	ghc.log.Debug("comment posted", "pr_number", prNumber, "bytes", len(body))
	return nil
}

// mapFileStatus normaliza los estados que reporta GitHub al enum del dominio.
// renamed/copied/changed se tratan como modificaciones.
func mapFileStatus(status string) models.FileStatus {
	switch status {
	case "added":
		return models.FileAdded
	case "removed":
		return models.FileRemoved
	default:
		return models.FileModified
	}
}
