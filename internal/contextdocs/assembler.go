package contextdocs

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Documents es la lista fija de documentos de contexto del proyecto, en orden
// de prioridad. El orden de concatenación es siempre este, sin importar cuáles
// existan en disco.
var Documents = []string{
	"projectbrief.md",
	"productContext.md",
	"systemPatterns.md",
	"techContext.md",
	"activeContext.md",
	"progress.md",
}

// Assembler lee los documentos de contexto y los concatena con encabezados.
type Assembler struct {
	log *slog.Logger
}

func NewAssembler(log *slog.Logger) *Assembler {
	if log == nil {
		log = slog.Default()
	}
	return &Assembler{log: log}
}

// Gather arma el contexto del proyecto leyendo los documentos fijos de baseDir.
// Cada documento existente aporta un bloque "## <nombre>" seguido de su
// contenido y una línea en blanco. Un documento faltante se saltea con un
// warning; si no existe ninguno se devuelve cadena vacía y el pipeline sigue
// con contexto vacío.
func (a *Assembler) Gather(baseDir string) string {
	var sb strings.Builder
	found := 0

	for _, name := range Documents {
		docPath := filepath.Join(baseDir, name)
		content, err := os.ReadFile(docPath)
		if err != nil {
			if os.IsNotExist(err) {
				a.log.Warn("context document missing, skipping", "document", name)
			} else {
				a.log.Warn("context document unreadable, skipping", "document", name, "error", err)
			}
			continue
		}

		sb.WriteString("## ")
		sb.WriteString(name)
		sb.WriteString("\n\n")
		sb.Write(content)
		sb.WriteString("\n\n")
		found++
	}

	if found == 0 {
		a.log.Warn("no context documents found, proceeding with empty context", "dir", baseDir)
		return ""
	}

	a.log.Debug("project context assembled", "documents", found, "bytes", sb.Len())
	return sb.String()
}
