package usecases

import (
	"context"
	"strings"
	"testing"

	"github.com/playforge/updatedist/internal/domain/dto"
	"github.com/playforge/updatedist/internal/domain/entities"
	"github.com/playforge/updatedist/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCoordinator() (UploadCoordinator, *fakeCatalog, *fakeBlobStore, *fakeQueue) {
	catalog := newFakeCatalog()
	blobs := newFakeBlobStore()
	queue := newFakeQueue()
	return NewUploadCoordinator(catalog, blobs, queue, zap.NewNop()), catalog, blobs, queue
}

const testHash = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

func TestStartUpload_FreshCreate(t *testing.T) {
	coord, _, _, _ := newTestCoordinator()

	resp, err := coord.StartUpload(context.Background(), dto.StartUploadRequest{
		VersionID: "version-1", Hash: testHash, ChunkSize: 16 * 1024, FileSize: 48 * 1024,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.UploadID)
	assert.NotEmpty(t, resp.ConcurrentID)
	require.Len(t, resp.MissingRanges, 1)
	assert.Equal(t, 0, resp.MissingRanges[0].Start)
	assert.Equal(t, 2, resp.MissingRanges[0].End)
}

func TestStartUpload_IdempotentSameParams(t *testing.T) {
	coord, _, _, _ := newTestCoordinator()
	ctx := context.Background()
	req := dto.StartUploadRequest{VersionID: "version-1", Hash: testHash, ChunkSize: 16 * 1024, FileSize: 48 * 1024}

	first, err := coord.StartUpload(ctx, req)
	require.NoError(t, err)

	second, err := coord.StartUpload(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.UploadID, second.UploadID)
	assert.Equal(t, first.ConcurrentID, second.ConcurrentID)
}

func TestStartUpload_HashChangeRotatesEpoch(t *testing.T) {
	coord, catalog, blobs, _ := newTestCoordinator()
	ctx := context.Background()
	req := dto.StartUploadRequest{VersionID: "version-1", Hash: testHash, ChunkSize: 16 * 1024, FileSize: 48 * 1024}

	first, err := coord.StartUpload(ctx, req)
	require.NoError(t, err)

	_, err = coord.UploadChunk(ctx, dto.UploadChunkRequest{
		UploadID: first.UploadID, ConcurrentID: first.ConcurrentID, Offset: 0, Data: make([]byte, 16*1024),
	})
	require.NoError(t, err)

	newReq := req
	newReq.Hash = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	second, err := coord.StartUpload(ctx, newReq)
	require.NoError(t, err)

	assert.Equal(t, first.UploadID, second.UploadID)
	assert.NotEqual(t, first.ConcurrentID, second.ConcurrentID)
	require.Len(t, second.MissingRanges, 1)
	assert.Equal(t, 0, second.MissingRanges[0].Start)
	assert.Equal(t, 2, second.MissingRanges[0].End)

	count, _ := catalog.CountChunks(ctx, first.UploadID, first.ConcurrentID)
	assert.Zero(t, count)
	assert.Contains(t, blobs.Calls, "DeleteFolder:"+strings.ToUpper(first.UploadID)+"/"+strings.ToUpper(testHash)+"/")
}

func TestUploadChunk_LastChunkEnqueuesReassembleJob(t *testing.T) {
	coord, _, _, queue := newTestCoordinator()
	ctx := context.Background()

	start, err := coord.StartUpload(ctx, dto.StartUploadRequest{
		VersionID: "version-1", Hash: testHash, ChunkSize: 16 * 1024, FileSize: 48 * 1024,
	})
	require.NoError(t, err)

	offsets := []int{2, 0, 1}
	var last dto.UploadChunkResponse
	for _, offset := range offsets {
		length := 16 * 1024
		last, err = coord.UploadChunk(ctx, dto.UploadChunkRequest{
			UploadID: start.UploadID, ConcurrentID: start.ConcurrentID, Offset: offset, Data: make([]byte, length),
		})
		require.NoError(t, err)
	}

	assert.True(t, last.Finished)
	assert.Equal(t, 1, queue.EnqueueHit)
	for jobID, payload := range queue.Jobs {
		assert.Equal(t, "version-version-1-"+start.UploadID+"-"+start.ConcurrentID, jobID)
		assert.Equal(t, entities.JobProcessUpload, payload.Kind)
	}
}

func TestUploadChunk_WrongLengthRejected(t *testing.T) {
	coord, _, _, _ := newTestCoordinator()
	ctx := context.Background()

	start, err := coord.StartUpload(ctx, dto.StartUploadRequest{
		VersionID: "version-1", Hash: testHash, ChunkSize: 16 * 1024, FileSize: 48 * 1024,
	})
	require.NoError(t, err)

	_, err = coord.UploadChunk(ctx, dto.UploadChunkRequest{
		UploadID: start.UploadID, ConcurrentID: start.ConcurrentID, Offset: 0, Data: make([]byte, 10),
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestUploadChunk_StaleEpochRejected(t *testing.T) {
	coord, _, _, _ := newTestCoordinator()
	ctx := context.Background()

	start, err := coord.StartUpload(ctx, dto.StartUploadRequest{
		VersionID: "version-1", Hash: testHash, ChunkSize: 16 * 1024, FileSize: 48 * 1024,
	})
	require.NoError(t, err)

	_, err = coord.UploadChunk(ctx, dto.UploadChunkRequest{
		UploadID: start.UploadID, ConcurrentID: "stale-epoch", Offset: 0, Data: make([]byte, 16*1024),
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestCancelUpload_DeletesRowsAndBlobs(t *testing.T) {
	coord, catalog, blobs, _ := newTestCoordinator()
	ctx := context.Background()

	start, err := coord.StartUpload(ctx, dto.StartUploadRequest{
		VersionID: "version-1", Hash: testHash, ChunkSize: 16 * 1024, FileSize: 48 * 1024,
	})
	require.NoError(t, err)

	require.NoError(t, coord.CancelUpload(ctx, dto.CancelUploadRequest{UploadID: start.UploadID}))

	_, err = catalog.FindUpload(ctx, start.UploadID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Contains(t, blobs.Calls, "DeleteFolder:"+strings.ToUpper(start.UploadID)+"/"+strings.ToUpper(testHash)+"/")
}

func TestFetchUploads_EmptyWhenNoneInFlight(t *testing.T) {
	coord, _, _, _ := newTestCoordinator()
	resp, err := coord.FetchUploads(context.Background(), dto.FetchUploadsRequest{VersionID: "version-none"})
	require.NoError(t, err)
	assert.Empty(t, resp.Uploads)
}

func TestFetchUploads_ReturnsInFlightUpload(t *testing.T) {
	coord, _, _, _ := newTestCoordinator()
	ctx := context.Background()

	start, err := coord.StartUpload(ctx, dto.StartUploadRequest{
		VersionID: "version-1", Hash: testHash, ChunkSize: 16 * 1024, FileSize: 48 * 1024,
	})
	require.NoError(t, err)

	resp, err := coord.FetchUploads(ctx, dto.FetchUploadsRequest{VersionID: "version-1"})
	require.NoError(t, err)
	require.Len(t, resp.Uploads, 1)
	assert.Equal(t, start.UploadID, resp.Uploads[0].UploadID)
}
