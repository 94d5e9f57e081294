package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/playforge/updatedist/internal/domain/repositories"
	"github.com/playforge/updatedist/pkg/apperr"
)

// S3 is the AWS-backed BlobStore, new code over aws-sdk-go-v2's S3
// client (one bucket in one region).
type S3 struct {
	client  *s3.Client
	bucket  string
	subpath string
}

func NewS3(cfg Config) (*S3, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, apperr.Unavailable(fmt.Errorf("storage: load aws config: %w", err))
	}
	return &S3{
		client:  s3.NewFromConfig(awsCfg),
		bucket:  cfg.Bucket,
		subpath: strings.Trim(cfg.Subpath, "/"),
	}, nil
}

func (s *S3) key(store repositories.Store, k string) *string {
	prefix := "input"
	if store == repositories.StoreOutput {
		prefix = "output"
	}
	full := prefix + "/" + strings.TrimPrefix(k, "/")
	if s.subpath != "" {
		full = s.subpath + "/" + full
	}
	return &full
}

func (s *S3) DeleteFolder(ctx context.Context, store repositories.Store, prefix string) error {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: &s.bucket,
		Prefix: s.key(store, prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return apperr.Unavailable(fmt.Errorf("storage: list %s: %w", prefix, err))
		}
		for _, obj := range page.Contents {
			if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: obj.Key}); err != nil {
				return apperr.Unavailable(fmt.Errorf("storage: delete %s: %w", *obj.Key, err))
			}
		}
	}
	return nil
}

func (s *S3) DownloadFile(ctx context.Context, store repositories.Store, srcKey, dstPath string, progress repositories.ProgressFunc) error {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: s.key(store, srcKey)})
	if err != nil {
		return apperr.Unavailable(fmt.Errorf("storage: get %s: %w", srcKey, err))
	}
	defer out.Body.Close()

	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return apperr.Internal(fmt.Errorf("storage: mkdir for %s: %w", dstPath, err))
	}
	dst, err := os.Create(dstPath)
	if err != nil {
		return apperr.Internal(fmt.Errorf("storage: create %s: %w", dstPath, err))
	}
	defer dst.Close()

	buf := make([]byte, 256*1024)
	var written, total int64
	if out.ContentLength != nil {
		total = *out.ContentLength
	}
	for {
		n, rerr := out.Body.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				os.Remove(dstPath)
				return apperr.Internal(fmt.Errorf("storage: write %s: %w", dstPath, werr))
			}
			written += int64(n)
			if progress != nil && total > 0 {
				progress(float64(written) / float64(total))
			}
		}
		if rerr != nil {
			break
		}
	}
	if progress != nil {
		progress(1.0)
	}
	return nil
}

func (s *S3) DownloadFolder(ctx context.Context, store repositories.Store, srcPrefix, dstDir string, progress repositories.ProgressFunc) error {
	keys, err := s.listKeys(ctx, store, srcPrefix)
	if err != nil {
		return err
	}
	return fanOutKeys(ctx, keys, func(ctx context.Context, rel string) error {
		dst := filepath.Join(dstDir, filepath.FromSlash(rel))
		return s.DownloadFile(ctx, store, joinKey(srcPrefix, rel), dst, nil)
	}, progress)
}

func (s *S3) UploadFile(ctx context.Context, store repositories.Store, srcPath, dstKey string, progress repositories.ProgressFunc) error {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return apperr.Internal(fmt.Errorf("storage: read %s: %w", srcPath, err))
	}
	return s.UploadBuffer(ctx, store, data, dstKey, progress)
}

func (s *S3) UploadBuffer(ctx context.Context, store repositories.Store, data []byte, dstKey string, progress repositories.ProgressFunc) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    s.key(store, dstKey),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return apperr.Unavailable(fmt.Errorf("storage: put %s: %w", dstKey, err))
	}
	if progress != nil {
		progress(1.0)
	}
	return nil
}

func (s *S3) UploadFolder(ctx context.Context, store repositories.Store, srcDir, dstPrefix string, progress repositories.ProgressFunc) error {
	var rels []string
	err := filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		rels = append(rels, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return apperr.Internal(fmt.Errorf("storage: walk %s: %w", srcDir, err))
	}
	return fanOutKeys(ctx, rels, func(ctx context.Context, rel string) error {
		return s.UploadFile(ctx, store, filepath.Join(srcDir, filepath.FromSlash(rel)), joinKey(dstPrefix, rel), nil)
	}, progress)
}

func (s *S3) listKeys(ctx context.Context, store repositories.Store, prefix string) ([]string, error) {
	full := s.key(store, prefix)
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{Bucket: &s.bucket, Prefix: full})
	var rels []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, apperr.Unavailable(fmt.Errorf("storage: list %s: %w", prefix, err))
		}
		for _, obj := range page.Contents {
			rels = append(rels, strings.TrimPrefix(*obj.Key, *full))
		}
	}
	return rels, nil
}
