package usecases

import (
	"context"

	"github.com/playforge/updatedist/internal/domain/dto"
	"github.com/playforge/updatedist/internal/domain/repositories"
)

// ServerDirectory serves the public, unauthenticated
// `/updates/servers/list` route (§6).
type ServerDirectory interface {
	List(ctx context.Context) (dto.ServersResponse, error)
}

type serverDirectory struct {
	catalog repositories.CatalogStore
}

func NewServerDirectory(catalog repositories.CatalogStore) ServerDirectory {
	return &serverDirectory{catalog: catalog}
}

func (s *serverDirectory) List(ctx context.Context) (dto.ServersResponse, error) {
	servers, err := s.catalog.ListServers(ctx)
	if err != nil {
		return dto.ServersResponse{}, err
	}
	urls := make([]string, len(servers))
	for i, srv := range servers {
		urls[i] = srv.URL
	}
	return dto.ServersResponse{Servers: urls}, nil
}
