package ports

import (
	"context"

	"github.com/Tomas-vilte/ReviewMate/internal/domain/models"
)

// ReviewGenerator define la interfaz para el proveedor de IA que genera la review.
// Recibe el prompt ya renderizado y devuelve el texto generado junto con el
// conteo de tokens reportado por el proveedor.
type ReviewGenerator interface {
	GenerateReview(ctx context.Context, prompt string) (models.ModelResponse, error)
}
