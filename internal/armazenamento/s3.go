package armazenamento

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/iuriramos93/Prostest-System/internal/dominio"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3 guarda os arquivos num bucket, sob o prefixo "remessas/".
type S3 struct {
	cliente *s3.Client
	bucket  string
	prefixo string
}

func NovoS3(ctx context.Context, bucket, regiao string) (*S3, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket S3 não pode ser vazio")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(regiao))
	if err != nil {
		return nil, fmt.Errorf("falha ao carregar configuração AWS: %w", err)
	}
	return &S3{cliente: s3.NewFromConfig(cfg), bucket: bucket, prefixo: "remessas/"}, nil
}

func (s *S3) Salvar(ctx context.Context, chave string, conteudo io.Reader) error {
	_, err := s.cliente.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.prefixo + chave),
		Body:        conteudo,
		ContentType: aws.String("application/xml"),
	})
	if err != nil {
		log.Printf("Erro ao enviar %s para o S3: %v", chave, err)
		return fmt.Errorf("falha ao armazenar arquivo: %w", err)
	}
	return nil
}

func (s *S3) Abrir(ctx context.Context, chave string) (io.ReadCloser, error) {
	out, err := s.cliente.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefixo + chave),
	})
	if err != nil {
		var semChave *types.NoSuchKey
		if errors.As(err, &semChave) {
			return nil, fmt.Errorf("%w: arquivo %s", dominio.ErrNaoEncontrado, chave)
		}
		return nil, fmt.Errorf("falha ao ler arquivo do S3: %w", err)
	}
	return out.Body, nil
}

func (s *S3) Remover(ctx context.Context, chave string) error {
	_, err := s.cliente.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefixo + chave),
	})
	if err != nil {
		return fmt.Errorf("falha ao remover arquivo do S3: %w", err)
	}
	return nil
}
