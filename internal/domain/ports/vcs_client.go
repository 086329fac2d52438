package ports

import (
	"context"

	"github.com/Tomas-vilte/ReviewMate/internal/domain/models"
)

// VCSClient define los métodos comunes para interactuar con las APIs de los sistemas de control de versiones.
type VCSClient interface {
	// GetPR obtiene los metadatos de la PR junto con la lista de archivos cambiados.
	GetPR(ctx context.Context, prNumber int) (models.PRData, error)
	// PostComment publica un comentario de texto en la PR.
	PostComment(ctx context.Context, prNumber int, body string) error
}
