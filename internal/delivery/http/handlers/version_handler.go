package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	deliveryhttp "github.com/playforge/updatedist/internal/delivery/http"
	"github.com/playforge/updatedist/internal/domain/dto"
	"github.com/playforge/updatedist/internal/usecases"
)

// VersionHandler serves the `/api/v1/updates/manager/version/*` routes
// (§6), the adapted counterpart of the teacher's UploadHandler.
type VersionHandler struct {
	versions usecases.VersionService
	validate *validator.Validate
}

func NewVersionHandler(versions usecases.VersionService) *VersionHandler {
	return &VersionHandler{versions: versions, validate: validator.New()}
}

// Create
//
// @Summary      Create Version
// @Description  Allocates the next version number and creates a PENDING version row
// @Tags         Version
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateVersionRequest true "Create version request"
// @Success      200 {object} dto.CreateVersionResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /updates/manager/version/create [post]
func (h *VersionHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateVersionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: err.Error()})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: err.Error()})
	}

	resp, err := h.versions.CreateVersion(c.Context(), req)
	if err != nil {
		return deliveryhttp.HandleError(c, err)
	}
	return c.JSON(resp)
}

// Edit
//
// @Summary      Edit Version
// @Tags         Version
// @Accept       json
// @Produce      json
// @Param        request body dto.EditVersionRequest true "Edit version request"
// @Success      200 {object} dto.EditVersionResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /updates/manager/version/edit [post]
func (h *VersionHandler) Edit(c *fiber.Ctx) error {
	var req dto.EditVersionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: err.Error()})
	}

	resp, err := h.versions.EditVersion(c.Context(), req)
	if err != nil {
		return deliveryhttp.HandleError(c, err)
	}
	return c.JSON(resp)
}

// Process
//
// @Summary      Process Version
// @Description  Enqueues the publish job for a version whose upload is READY
// @Tags         Version
// @Produce      json
// @Param        request body dto.ProcessVersionRequest true "Process version request"
// @Success      200 {object} dto.ProcessVersionResponse
// @Failure      409 {object} dto.ErrorResponse
// @Router       /updates/manager/version/process [put]
func (h *VersionHandler) Process(c *fiber.Ctx) error {
	var req dto.ProcessVersionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "validation_error", Message: err.Error()})
	}

	resp, err := h.versions.ProcessVersion(c.Context(), req)
	if err != nil {
		return deliveryhttp.HandleError(c, err)
	}
	return c.JSON(resp)
}

// List
//
// @Summary      List Versions
// @Tags         Version
// @Produce      json
// @Param        page query int false "Page"
// @Param        size query int false "Size (4-50)"
// @Success      200 {object} dto.ListVersionsResponse
// @Router       /updates/manager/version/list [get]
func (h *VersionHandler) List(c *fiber.Ctx) error {
	req := dto.ListVersionsRequest{
		Page: c.QueryInt("page", 0),
		Size: c.QueryInt("size", 20),
	}

	resp, err := h.versions.ListVersions(c.Context(), req)
	if err != nil {
		return deliveryhttp.HandleError(c, err)
	}
	return c.JSON(resp)
}

// Fetch
//
// @Summary      Fetch Version
// @Tags         Version
// @Produce      json
// @Param        id path string true "Version ID"
// @Success      200 {object} dto.Version
// @Failure      404 {object} dto.ErrorResponse
// @Router       /updates/manager/version/fetch/{id} [get]
func (h *VersionHandler) Fetch(c *fiber.Ctx) error {
	resp, err := h.versions.FetchVersion(c.Context(), c.Params("id"))
	if err != nil {
		return deliveryhttp.HandleError(c, err)
	}
	return c.JSON(resp)
}
