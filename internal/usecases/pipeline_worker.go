package usecases

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zlib"
	"github.com/playforge/updatedist/internal/domain/entities"
	"github.com/playforge/updatedist/internal/domain/repositories"
	"github.com/playforge/updatedist/pkg/apperr"
	"github.com/playforge/updatedist/pkg/category"
	"github.com/playforge/updatedist/pkg/hashutil"
	"go.uber.org/zap"
)

// PipelineWorker is C6: reassembly/hash-verify/publish and
// extract/classify/compress/checksum/publish, executed one job at a
// time per lease (§4.6).
type PipelineWorker interface {
	ProcessUpload(ctx context.Context, payload entities.JobPayload, lease repositories.Lease) error
	ProcessPublish(ctx context.Context, payload entities.JobPayload, lease repositories.Lease) error
}

type pipelineWorker struct {
	catalog repositories.CatalogStore
	input   repositories.BlobStore
	output  repositories.BlobStore
	tempDir string
	log     *zap.Logger
}

// NewPipelineWorker wires C6 against the two distinct blob stores named
// by the env surface (§6): input holds chunks and assembled zips,
// output holds the packed, published tree.
func NewPipelineWorker(catalog repositories.CatalogStore, input, output repositories.BlobStore, tempDir string, log *zap.Logger) PipelineWorker {
	return &pipelineWorker{catalog: catalog, input: input, output: output, tempDir: tempDir, log: log.With(zap.String("component", "pipeline_worker"))}
}

func scaledProgress(lease repositories.Lease, ctx context.Context, lo, hi float64) repositories.ProgressFunc {
	return func(fraction float64) {
		pct := (lo + fraction*(hi-lo)) * 100
		_ = lease.UpdateProgress(ctx, pct)
	}
}

// ProcessUpload executes §4.6's reassembly pipeline.
func (w *pipelineWorker) ProcessUpload(ctx context.Context, payload entities.JobPayload, lease repositories.Lease) error {
	u, err := w.catalog.FindUpload(ctx, payload.UploadID)
	if err != nil {
		return err
	}
	if u.VersionID != payload.VersionID || u.ConcurrentID != payload.ConcurrentID {
		return apperr.Conflict("upload no longer matches this epoch")
	}

	if err := w.catalog.CASUploadState(ctx, u.ID, entities.UploadPending, entities.UploadProcessing); err != nil {
		return err
	}

	scratch, err := os.MkdirTemp(w.tempDir, "upload-*")
	if err != nil {
		return apperr.Internal(fmt.Errorf("pipeline: mkdir scratch: %w", err))
	}
	defer os.RemoveAll(scratch)

	chunkPrefix := fmt.Sprintf("%s/%s/", strings.ToUpper(u.ID), strings.ToUpper(u.Hash))
	if err := w.input.DownloadFolder(ctx, repositories.StoreInput, chunkPrefix, scratch, scaledProgress(lease, ctx, 0, 0.5)); err != nil {
		return err
	}

	assembled := filepath.Join(scratch, "update.zip")
	if err := concatenateChunks(scratch, assembled); err != nil {
		return err
	}
	_ = lease.UpdateProgress(ctx, 90)

	if err := hashutil.VerifySHA256File(assembled, u.Hash); err != nil {
		// Integrity failure is fatal; the job fails and the Upload stays
		// PROCESSING for operator inspection — no silent retry (§4.6 step 4).
		return err
	}

	dstKey := strings.ToUpper(u.VersionID) + ".zip"
	if err := w.input.UploadFile(ctx, repositories.StoreInput, assembled, dstKey, scaledProgress(lease, ctx, 0.9, 1.0)); err != nil {
		return err
	}

	if err := w.catalog.CASUploadState(ctx, u.ID, entities.UploadProcessing, entities.UploadReady); err != nil {
		return err
	}
	if err := w.catalog.DeleteChunks(ctx, u.ID, u.ConcurrentID); err != nil {
		return err
	}
	return w.input.DeleteFolder(ctx, repositories.StoreInput, chunkPrefix)
}

// concatenateChunks appends every chunk file under dir in lexicographic
// (= numeric, by zero-padded offset) order into dst.
func concatenateChunks(dir, dst string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return apperr.Internal(fmt.Errorf("pipeline: read chunk dir: %w", err))
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".data") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	out, err := os.Create(dst)
	if err != nil {
		return apperr.Internal(fmt.Errorf("pipeline: create assembled file: %w", err))
	}
	defer out.Close()

	for _, name := range names {
		if err := appendFile(out, filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

func appendFile(dst *os.File, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return apperr.Internal(fmt.Errorf("pipeline: open chunk %s: %w", path, err))
	}
	defer src.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return apperr.Internal(fmt.Errorf("pipeline: append chunk %s: %w", path, err))
	}
	return nil
}

// ProcessPublish executes §4.6's extract/classify/compress/checksum/
// publish pipeline.
func (w *pipelineWorker) ProcessPublish(ctx context.Context, payload entities.JobPayload, lease repositories.Lease) error {
	v, err := w.catalog.FindVersion(ctx, payload.VersionID)
	if err != nil {
		return err
	}
	if v.State == entities.VersionReady {
		return apperr.Conflict("version already READY")
	}

	if err := w.catalog.CASVersionState(ctx, v.ID, entities.VersionPending, entities.VersionProcessing); err != nil {
		if !apperr.Is(err, apperr.KindConflict) {
			return err
		}
	}

	scratch, err := os.MkdirTemp(w.tempDir, "publish-*")
	if err != nil {
		return apperr.Internal(fmt.Errorf("pipeline: mkdir scratch: %w", err))
	}
	defer os.RemoveAll(scratch)

	zipPath := filepath.Join(scratch, "update.zip")
	srcKey := strings.ToUpper(v.ID) + ".zip"
	if err := w.input.DownloadFile(ctx, repositories.StoreInput, srcKey, zipPath, scaledProgress(lease, ctx, 0, 0.2)); err != nil {
		return err
	}

	decompressed := filepath.Join(scratch, "decompressed")
	if err := extractZip(zipPath, decompressed); err != nil {
		return err
	}
	_ = lease.UpdateProgress(ctx, 25)

	relPaths, err := walkFiles(decompressed)
	if err != nil {
		return err
	}

	processed := filepath.Join(scratch, "processed")
	files := make([]entities.UpdateFile, 0, len(relPaths))
	now := time.Now().UTC()

	for i, rel := range relPaths {
		cat, localPath, ok := category.Classify(filepath.ToSlash(rel))
		if !ok {
			continue
		}

		srcPath := filepath.Join(decompressed, rel)
		data, err := os.ReadFile(srcPath)
		if err != nil {
			return apperr.Internal(fmt.Errorf("pipeline: read %s: %w", rel, err))
		}

		crc, err := hashutil.CRC32Reader(bytes.NewReader(data))
		if err != nil {
			return err
		}

		compressed, err := deflate(data)
		if err != nil {
			return err
		}

		fileName := strings.ToUpper(uuid.NewString() + "_" + crc)
		dstPath := filepath.Join(processed, cat.String(), fileName+entities.PackedExtension)
		if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
			return apperr.Internal(fmt.Errorf("pipeline: mkdir processed dir: %w", err))
		}
		if err := os.WriteFile(dstPath, compressed, 0o644); err != nil {
			return apperr.Internal(fmt.Errorf("pipeline: write packed file: %w", err))
		}

		files = append(files, entities.UpdateFile{
			VersionID:  v.ID,
			Category:   cat,
			FileName:   fileName,
			Extension:  entities.PackedExtension,
			LocalPath:  localPath,
			PackedSize: int64(len(compressed)),
			FileSize:   int64(len(data)),
			CRC32:      crc,
			CreatedAt:  now,
		})

		if (i+1)%100 == 0 || i == len(relPaths)-1 {
			frac := float64(i+1) / float64(len(relPaths))
			_ = lease.UpdateProgress(ctx, 20+frac*30)
		}
	}

	if len(files) == 0 {
		return apperr.Validation("update", "empty update folder")
	}

	dstPrefix := "publish/" + strings.ToUpper(v.ID) + "/"
	if err := w.output.UploadFolder(ctx, repositories.StoreOutput, processed, dstPrefix, scaledProgress(lease, ctx, 0.5, 0.9)); err != nil {
		return err
	}

	return w.catalog.PublishFiles(ctx, v.ID, files)
}

func extractZip(zipPath, dstDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return apperr.Internal(fmt.Errorf("pipeline: open zip: %w", err))
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		dstPath := filepath.Join(dstDir, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
			return apperr.Internal(fmt.Errorf("pipeline: mkdir for %s: %w", f.Name, err))
		}

		rc, err := f.Open()
		if err != nil {
			return apperr.Internal(fmt.Errorf("pipeline: open zip entry %s: %w", f.Name, err))
		}
		dst, err := os.Create(dstPath)
		if err != nil {
			rc.Close()
			return apperr.Internal(fmt.Errorf("pipeline: create %s: %w", dstPath, err))
		}
		_, err = io.Copy(dst, rc)
		rc.Close()
		dst.Close()
		if err != nil {
			return apperr.Internal(fmt.Errorf("pipeline: extract %s: %w", f.Name, err))
		}
	}
	return nil
}

func walkFiles(root string) ([]string, error) {
	var out []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("pipeline: walk %s: %w", root, err))
	}
	return out, nil
}

// deflate compresses data at zlib level 9 — the `.eupdz` format is raw
// zlib-deflate bytes of the original entry, nothing more (§6).
func deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("pipeline: new zlib writer: %w", err))
	}
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return nil, apperr.Internal(fmt.Errorf("pipeline: deflate: %w", err))
	}
	if err := zw.Close(); err != nil {
		return nil, apperr.Internal(fmt.Errorf("pipeline: close zlib writer: %w", err))
	}
	return buf.Bytes(), nil
}
