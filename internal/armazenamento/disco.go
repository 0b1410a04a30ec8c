package armazenamento

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/iuriramos93/Prostest-System/internal/dominio"
)

type Disco struct {
	dir string
}

func NovoDisco(dir string) (*Disco, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("falha ao criar diretório de uploads %s: %w", dir, err)
	}
	return &Disco{dir: dir}, nil
}

func (d *Disco) caminho(chave string) (string, error) {
	if chave == "" || strings.ContainsAny(chave, `/\`) || chave == "." || chave == ".." {
		return "", fmt.Errorf("chave de arquivo inválida: %q", chave)
	}
	return filepath.Join(d.dir, chave), nil
}

func (d *Disco) Salvar(ctx context.Context, chave string, conteudo io.Reader) error {
	caminho, err := d.caminho(chave)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(caminho, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("falha ao criar arquivo %s: %w", chave, err)
	}
	if _, err := io.Copy(f, conteudo); err != nil {
		f.Close()
		os.Remove(caminho)
		return fmt.Errorf("falha ao gravar arquivo %s: %w", chave, err)
	}
	return f.Close()
}

func (d *Disco) Abrir(ctx context.Context, chave string) (io.ReadCloser, error) {
	caminho, err := d.caminho(chave)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(caminho)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: arquivo %s", dominio.ErrNaoEncontrado, chave)
	}
	return f, err
}

func (d *Disco) Remover(ctx context.Context, chave string) error {
	caminho, err := d.caminho(chave)
	if err != nil {
		return err
	}
	if err := os.Remove(caminho); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("falha ao remover arquivo %s: %w", chave, err)
	}
	return nil
}
