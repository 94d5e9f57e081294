package dto

// ManifestFile is one entry a client must fetch, per §4.7 step 6.
type ManifestFile struct {
	UrlPath      string `json:"urlPath"`
	LocalPath    string `json:"localPath"`
	Filename     string `json:"filename"`
	Extension    string `json:"extension"`
	PackedSize   int64  `json:"packedSize"`
	OriginalSize int64  `json:"originalSize"`
	CRC32        string `json:"crc32"`
}

// Manifest is the delta-update payload returned by the resolver (C7) and
// memoized in the manifest cache (C3).
type Manifest struct {
	Version string         `json:"version"`
	Files   []ManifestFile `json:"files"`
}

// ServersResponse mirrors the Servers collection for the unauthenticated
// discovery route.
type ServersResponse struct {
	Servers []string `json:"servers"`
}

// JobsResponse is the supplemented job-introspection payload (§10):
// the same active/waiting split a bull-board UI would render.
type JobsResponse struct {
	Active  []JobRecord `json:"active"`
	Waiting []JobRecord `json:"waiting"`
}

// JobRecord is the API-facing rendering of entities.JobRecord.
type JobRecord struct {
	JobID    string  `json:"jobId"`
	Status   string  `json:"status"`
	Progress float64 `json:"progress"`
	Error    string  `json:"error,omitempty"`
}
