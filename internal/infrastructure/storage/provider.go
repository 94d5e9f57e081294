// Package storage implements C1 over three pluggable backends, selected
// by a dispatch table rather than an interface hierarchy — the storage
// abstraction is a closed tagged variant {Local, AWS, GCP} (§9 Design
// Note "Polymorphism"), not an inheritance tree.
package storage

import (
	"fmt"

	"github.com/playforge/updatedist/internal/domain/repositories"
)

// Provider names one of the three closed backend kinds.
type Provider string

const (
	ProviderLocal Provider = "local"
	ProviderAWS   Provider = "aws"
	ProviderGCP   Provider = "gcp"
)

// Config carries every field a backend constructor might need; unused
// fields are ignored by backends that don't need them.
type Config struct {
	Provider        Provider
	BasePath        string // local
	Bucket          string
	Subpath         string
	Region          string // aws
	AccessKeyID     string // aws
	SecretAccessKey string // aws
	CredentialsJSON []byte // gcp
}

// New dispatches to the concrete backend named by cfg.Provider. This is
// the single dispatch table the closed-variant design calls for — adding
// a fourth backend means adding one more case here, not a new interface
// implementer discovered by type assertion.
func New(cfg Config) (repositories.BlobStore, error) {
	switch cfg.Provider {
	case ProviderLocal:
		return NewLocal(cfg.BasePath), nil
	case ProviderAWS:
		return NewS3(cfg)
	case ProviderGCP:
		return NewGCS(cfg)
	default:
		return nil, fmt.Errorf("storage: unknown provider %q", cfg.Provider)
	}
}
