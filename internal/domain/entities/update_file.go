package entities

import (
	"time"

	"github.com/playforge/updatedist/pkg/category"
)

// PackedExtension is the fixed extension of every published file (§6).
const PackedExtension = ".eupdz"

// UpdateFile is one published, packed asset belonging to a READY Version.
// (VersionID, LocalPath, Category) is unique.
type UpdateFile struct {
	VersionID  string            `bson:"version_id"`
	Category   category.Category `bson:"category"`
	FileName   string            `bson:"file_name"`
	Extension  string            `bson:"extension"`
	LocalPath  string            `bson:"local_path"`
	PackedSize int64             `bson:"packed_size"`
	FileSize   int64             `bson:"file_size"`
	CRC32      string            `bson:"crc32"`
	CreatedAt  time.Time         `bson:"created_at"`
}
