package entities

import (
	"fmt"
	"time"
)

// VersionState is the lifecycle state of a Version (§3). Transitions are
// monotonic: PENDING -> PROCESSING -> READY, guarded by a compare-and-set
// on the previous value.
type VersionState string

const (
	VersionPending    VersionState = "PENDING"
	VersionProcessing VersionState = "PROCESSING"
	VersionReady      VersionState = "READY"
)

// VersionType selects which component of the semantic tuple a
// CreateVersion call bumps (§6 route table, `type∈{0,1,2}`).
type VersionType int

const (
	VersionTypeMajor VersionType = iota
	VersionTypeMinor
	VersionTypeRevision
)

// Version is the catalog's root entity: a semantic (major, minor,
// revision) release of the game payload.
type Version struct {
	ID          string       `bson:"_id"`
	Major       int          `bson:"major"`
	Minor       int          `bson:"minor"`
	Revision    int          `bson:"revision"`
	Description string       `bson:"description"`
	State       VersionState `bson:"state"`
	CreatedAt   time.Time    `bson:"created_at"`
	UpdatedAt   time.Time    `bson:"updated_at"`
}

// Semantic renders the dotted "major.minor.revision" form used in API
// responses and resolver output.
func (v Version) Semantic() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Revision)
}
