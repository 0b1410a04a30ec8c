package armazenamento

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Armazenamento guarda os arquivos originais das remessas.
type Armazenamento interface {
	Salvar(ctx context.Context, chave string, conteudo io.Reader) error
	Abrir(ctx context.Context, chave string) (io.ReadCloser, error)
	Remover(ctx context.Context, chave string) error
}

var caracteresInvalidos = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// NovaChave gera o nome armazenado: <aaaammddhhmmss>_<uuid>_<nome saneado>.
func NovaChave(nomeOriginal string, agora time.Time) string {
	base := caracteresInvalidos.ReplaceAllString(filepath.Base(nomeOriginal), "_")
	return fmt.Sprintf("%s_%s_%s", agora.Format("20060102150405"), uuid.NewString(), base)
}
