package entities

import "time"

// UploadState is the lifecycle state of an Upload (§4.4). NONE is the
// pre-chunk state; epoch rotation always resets to NONE.
type UploadState string

const (
	UploadNone       UploadState = "NONE"
	UploadPending    UploadState = "PENDING"
	UploadProcessing UploadState = "PROCESSING"
	UploadReady      UploadState = "READY"
)

const (
	MinChunkSize = 16 * 1024
	MaxChunkSize = 512 * 1024
	MinFileSize  = 1 * 1024
	MaxFileSize  = 5 * 1024 * 1024 * 1024
)

// Upload is the chunked-transfer record attached to a Version. At most
// one Upload row exists per version_id; ConcurrentID is the current
// epoch, rotated whenever (hash, chunk_size) change mid-transfer.
type Upload struct {
	ID           string      `bson:"_id"`
	VersionID    string      `bson:"version_id"`
	ConcurrentID string      `bson:"concurrent_id"`
	Hash         string      `bson:"hash"`
	ChunkSize    int64       `bson:"chunk_size"`
	FileSize     int64       `bson:"file_size"`
	ChunksCount  int         `bson:"chunks_count"`
	State        UploadState `bson:"state"`
	CreatedAt    time.Time   `bson:"created_at"`
	UpdatedAt    time.Time   `bson:"updated_at"`
}

// ChunksCountFor computes ceil(file_size/chunk_size), the authoritative
// derivation an Upload's ChunksCount field must agree with.
func ChunksCountFor(fileSize, chunkSize int64) int {
	if chunkSize <= 0 {
		return 0
	}
	return int((fileSize + chunkSize - 1) / chunkSize)
}

// ExpectedChunkLength returns the byte length a chunk at offset must have
// given ChunkSize/FileSize/ChunksCount — equal to ChunkSize for every
// offset but the last, which carries the remainder.
func (u Upload) ExpectedChunkLength(offset int) int64 {
	if offset == u.ChunksCount-1 {
		return u.FileSize - u.ChunkSize*int64(u.ChunksCount-1)
	}
	return u.ChunkSize
}
