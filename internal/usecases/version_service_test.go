package usecases

import (
	"context"
	"testing"

	"github.com/playforge/updatedist/internal/domain/dto"
	"github.com/playforge/updatedist/internal/domain/entities"
	"github.com/playforge/updatedist/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestVersionService() (VersionService, *fakeCatalog, *fakeQueue) {
	catalog := newFakeCatalog()
	queue := newFakeQueue()
	return NewVersionService(catalog, queue, zap.NewNop()), catalog, queue
}

func TestCreateVersion_FreshCreate(t *testing.T) {
	svc, _, _ := newTestVersionService()

	resp, err := svc.CreateVersion(context.Background(), dto.CreateVersionRequest{Type: int(entities.VersionTypeMajor), Description: "v1"})
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", resp.Version)
}

func TestCreateVersion_SequentialRevisionBumps(t *testing.T) {
	svc, _, _ := newTestVersionService()
	ctx := context.Background()

	for i, want := range []string{"0.0.1", "0.0.2", "0.0.3"} {
		resp, err := svc.CreateVersion(ctx, dto.CreateVersionRequest{Type: int(entities.VersionTypeRevision), Description: "bump"})
		require.NoError(t, err, "bump %d", i)
		assert.Equal(t, want, resp.Version)
	}
}

func TestCreateVersion_RejectsInvalidType(t *testing.T) {
	svc, _, _ := newTestVersionService()
	_, err := svc.CreateVersion(context.Background(), dto.CreateVersionRequest{Type: 3, Description: "bad"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestFetchVersion_ReturnsFilesCount(t *testing.T) {
	svc, catalog, _ := newTestVersionService()
	ctx := context.Background()

	created, err := svc.CreateVersion(ctx, dto.CreateVersionRequest{Type: int(entities.VersionTypeMajor), Description: "v1"})
	require.NoError(t, err)

	require.NoError(t, catalog.PublishFiles(ctx, created.ID, []entities.UpdateFile{
		{VersionID: created.ID, LocalPath: "a.bin"},
		{VersionID: created.ID, LocalPath: "b.bin"},
	}))

	v, err := svc.FetchVersion(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.FilesCount)
	assert.Equal(t, string(entities.VersionReady), v.State)
}

func TestListVersions_ValidatesPageSize(t *testing.T) {
	svc, _, _ := newTestVersionService()
	_, err := svc.ListVersions(context.Background(), dto.ListVersionsRequest{Page: 0, Size: 2})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestProcessVersion_EnqueuesPublishJob(t *testing.T) {
	svc, _, queue := newTestVersionService()
	ctx := context.Background()

	created, err := svc.CreateVersion(ctx, dto.CreateVersionRequest{Type: int(entities.VersionTypeMajor), Description: "v1"})
	require.NoError(t, err)

	resp, err := svc.ProcessVersion(ctx, dto.ProcessVersionRequest{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, "version-"+created.ID, resp.JobID)

	payload, ok := queue.Jobs[resp.JobID]
	require.True(t, ok)
	assert.Equal(t, entities.JobProcessPublish, payload.Kind)
}

func TestProcessVersion_RejectsAlreadyReady(t *testing.T) {
	svc, catalog, _ := newTestVersionService()
	ctx := context.Background()

	created, err := svc.CreateVersion(ctx, dto.CreateVersionRequest{Type: int(entities.VersionTypeMajor), Description: "v1"})
	require.NoError(t, err)
	require.NoError(t, catalog.CASVersionState(ctx, created.ID, entities.VersionPending, entities.VersionProcessing))
	require.NoError(t, catalog.PublishFiles(ctx, created.ID, []entities.UpdateFile{{VersionID: created.ID, LocalPath: "a.bin"}}))

	_, err = svc.ProcessVersion(ctx, dto.ProcessVersionRequest{ID: created.ID})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}
