package ports

import (
	"context"

	"github.com/Tomas-vilte/ReviewMate/internal/domain/models"
)

// PRReviewer define la interfaz del orquestador de reviews.
type PRReviewer interface {
	// ReviewPR corre el pipeline completo para una PR y devuelve el resultado terminal.
	ReviewPR(ctx context.Context, prNumber int) (models.ReviewResult, error)
	// PostReview publica un resultado ya generado como comentario en la PR.
	PostReview(ctx context.Context, prNumber int, result models.ReviewResult) error
	// LastUsage devuelve las métricas de la última llamada al modelo, o nil si no hubo.
	LastUsage() *models.TokenUsage
}
