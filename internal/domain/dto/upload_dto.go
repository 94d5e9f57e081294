package dto

// StartUploadRequest is the body of StartUpload (§4.4, §6 gRPC surface).
type StartUploadRequest struct {
	VersionID string `json:"version_id" validate:"required,len=24"`
	Hash      string `json:"hash" validate:"required,len=64,hexadecimal,lowercase"`
	ChunkSize int64  `json:"chunk_size" validate:"required"`
	FileSize  int64  `json:"file_size" validate:"required"`
}

// MissingRange mirrors pkg/rangeutil.Range on the wire.
type MissingRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// StartUploadResponse reports the upload's identity and outstanding
// chunk ranges.
type StartUploadResponse struct {
	UploadID      string         `json:"upload_id"`
	ConcurrentID  string         `json:"concurrent_id"`
	MissingRanges []MissingRange `json:"missing_ranges"`
}

// UploadChunkRequest carries one chunk's bytes and its coordinates. Data
// travels as a bytes field over the gRPC surface (§6) — there is no HTTP
// equivalent route, so the JSON tag only matters for the gRPC codec.
type UploadChunkRequest struct {
	UploadID     string `json:"upload_id" validate:"required"`
	ConcurrentID string `json:"concurrent_id" validate:"required"`
	Offset       int    `json:"offset" validate:"gte=0"`
	Data         []byte `json:"data"`
}

// UploadChunkResponse reports whether this chunk completed the transfer.
type UploadChunkResponse struct {
	Finished bool `json:"finished"`
}

// CancelUploadRequest is the body of the supplemented CancelUpload route
// (§10).
type CancelUploadRequest struct {
	UploadID string `json:"upload_id" validate:"required"`
}

// FetchUploadsRequest asks for the in-flight Upload attached to a
// version — at most one exists per version_id (§4.4).
type FetchUploadsRequest struct {
	VersionID string `json:"version_id" validate:"required"`
}

// UploadStatus is the wire rendering of entities.Upload for the gRPC
// FetchUploads RPC.
type UploadStatus struct {
	UploadID     string `json:"upload_id"`
	ConcurrentID string `json:"concurrent_id"`
	Hash         string `json:"hash"`
	ChunkSize    int64  `json:"chunk_size"`
	FileSize     int64  `json:"file_size"`
	ChunksCount  int    `json:"chunks_count"`
	State        string `json:"state"`
}

// FetchUploadsResponse is empty when no StartUpload has created an Upload
// row for the version yet — that is not an error.
type FetchUploadsResponse struct {
	Uploads []UploadStatus `json:"uploads"`
}
