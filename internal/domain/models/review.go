package models

// FileStatus es el estado de un archivo dentro de una Pull Request.
type FileStatus string

const (
	FileAdded    FileStatus = "added"
	FileModified FileStatus = "modified"
	FileRemoved  FileStatus = "removed"
)

type (
	// FileChange describe un archivo cambiado en la PR, tal como lo reporta el proveedor VCS.
	FileChange struct {
		Path      string
		Status    FileStatus
		Additions int
		Deletions int
	}

	// PRData contiene la información extraída de una Pull Request.
	PRData struct {
		Number      int
		Title       string
		Description string
		Author      string
		Files       []FileChange
	}

	// PromptContext agrupa los cuatro campos que se sustituyen en el template de review.
	// Se arma una vez por corrida y se consume exactamente una vez.
	PromptContext struct {
		ProjectContext string
		PRTitle        string
		PRDescription  string
		FilesSummary   string
	}

	// ModelResponse es la respuesta cruda del proveedor de IA.
	ModelResponse struct {
		Text         string
		InputTokens  int
		OutputTokens int
	}

	// ReviewResult es el valor terminal del pipeline: o se imprime en consola
	// o se publica como comentario en la PR.
	ReviewResult struct {
		Text             string
		PromptTokens     int
		CompletionTokens int
		FilesReviewed    int
		Succeeded        bool
	}
)
