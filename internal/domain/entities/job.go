package entities

// JobKind tags the two payload shapes the queue carries (§4.5).
type JobKind string

const (
	JobProcessUpload  JobKind = "process_upload"
	JobProcessPublish JobKind = "process_publish"
)

// JobPayload is the tagged union enqueued by C4/C8 and consumed by C6.
// Only the fields relevant to Kind are populated.
type JobPayload struct {
	Kind         JobKind `json:"kind"`
	VersionID    string  `json:"version_id"`
	UploadID     string  `json:"upload_id,omitempty"`
	ConcurrentID string  `json:"concurrent_id,omitempty"`
}

// JobStatus is the queue-observable state of a leased job, used by the
// job-introspection route (§10 supplemented features).
type JobStatus string

const (
	JobWaiting JobStatus = "waiting"
	JobActive  JobStatus = "active"
	JobFailed  JobStatus = "failed"
)

// JobRecord is the hash-backed bookkeeping record C5 exposes per job id.
type JobRecord struct {
	JobID    string     `json:"job_id"`
	Payload  JobPayload `json:"payload"`
	Status   JobStatus  `json:"status"`
	Progress float64    `json:"progress"`
	Error    string     `json:"error,omitempty"`
}
