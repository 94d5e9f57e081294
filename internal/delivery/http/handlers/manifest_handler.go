package handlers

import (
	"regexp"
	"strconv"

	"github.com/gofiber/fiber/v2"
	deliveryhttp "github.com/playforge/updatedist/internal/delivery/http"
	"github.com/playforge/updatedist/internal/domain/dto"
	"github.com/playforge/updatedist/internal/usecases"
	"github.com/playforge/updatedist/pkg/apperr"
	"github.com/playforge/updatedist/pkg/category"
)

var versionPattern = regexp.MustCompile(`^(\d{1,2})\.(\d{1,3})\.(\d{1,5})$`)

// ManifestHandler serves the public, unauthenticated manifest and
// server-list routes of §6.
type ManifestHandler struct {
	resolver usecases.ManifestResolver
	servers  usecases.ServerDirectory
}

func NewManifestHandler(resolver usecases.ManifestResolver, servers usecases.ServerDirectory) *ManifestHandler {
	return &ManifestHandler{resolver: resolver, servers: servers}
}

// Servers
//
// @Summary      List Servers
// @Tags         Manifest
// @Produce      json
// @Success      200 {object} dto.ServersResponse
// @Router       /updates/servers/list [get]
func (h *ManifestHandler) Servers(c *fiber.Ctx) error {
	resp, err := h.servers.List(c.Context())
	if err != nil {
		return deliveryhttp.HandleError(c, err)
	}
	return c.JSON(resp)
}

// List
//
// @Summary      Resolve Manifest
// @Description  Returns the delta manifest a client on `version` with (os, texture) must fetch to reach the latest published version
// @Tags         Manifest
// @Produce      json
// @Param        version path string true "Client version, e.g. 3.45.1"
// @Param        os path int true "Client OS index [0,5]"
// @Param        texture path int true "Client texture-format index [0,4]"
// @Param        offset path int true "Starting offset into the file list, for resuming a partial fetch"
// @Success      200 {object} dto.Manifest
// @Failure      400 {object} dto.ErrorResponse
// @Router       /updates/list/{version}/{os}/{texture}/{offset} [get]
func (h *ManifestHandler) List(c *fiber.Ctx) error {
	m := versionPattern.FindStringSubmatch(c.Params("version"))
	if m == nil {
		return deliveryhttp.HandleError(c, apperr.Validation("version", `must match ^\d{1,2}\.\d{1,3}\.\d{1,5}$`))
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	revision, _ := strconv.Atoi(m[3])

	osIdx, err := strconv.Atoi(c.Params("os"))
	if err != nil || osIdx < 0 || osIdx > 5 {
		return deliveryhttp.HandleError(c, apperr.Validation("os", "must be in [0, 5]"))
	}
	texIdx, err := strconv.Atoi(c.Params("texture"))
	if err != nil || texIdx < 0 || texIdx > 4 {
		return deliveryhttp.HandleError(c, apperr.Validation("texture", "must be in [0, 4]"))
	}
	offset, err := strconv.Atoi(c.Params("offset"))
	if err != nil || offset < 0 {
		return deliveryhttp.HandleError(c, apperr.Validation("offset", "must be >= 0"))
	}

	manifest, err := h.resolver.Resolve(c.Context(), major, minor, revision, category.OS(osIdx), category.Texture(texIdx))
	if err != nil {
		return deliveryhttp.HandleError(c, err)
	}

	if offset > 0 {
		if offset >= len(manifest.Files) {
			manifest.Files = []dto.ManifestFile{}
		} else {
			manifest.Files = manifest.Files[offset:]
		}
	}
	return c.JSON(manifest)
}
