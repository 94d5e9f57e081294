package handlers

import (
	"github.com/gofiber/fiber/v2"
	deliveryhttp "github.com/playforge/updatedist/internal/delivery/http"
	"github.com/playforge/updatedist/internal/domain/dto"
	"github.com/playforge/updatedist/internal/domain/entities"
	"github.com/playforge/updatedist/internal/domain/repositories"
)

// JobsHandler serves `/api/v1/updates/manager/version/jobs` (§10
// supplemented job-introspection route).
type JobsHandler struct {
	queue repositories.JobQueue
}

func NewJobsHandler(queue repositories.JobQueue) *JobsHandler {
	return &JobsHandler{queue: queue}
}

// List
//
// @Summary      List Jobs
// @Description  Returns the active and waiting publish/upload jobs
// @Tags         Jobs
// @Produce      json
// @Success      200 {object} dto.JobsResponse
// @Router       /updates/manager/version/jobs [get]
func (h *JobsHandler) List(c *fiber.Ctx) error {
	active, err := h.queue.Active(c.Context())
	if err != nil {
		return deliveryhttp.HandleError(c, err)
	}
	waiting, err := h.queue.Waiting(c.Context())
	if err != nil {
		return deliveryhttp.HandleError(c, err)
	}

	return c.JSON(dto.JobsResponse{
		Active:  toJobRecordDTOs(active),
		Waiting: toJobRecordDTOs(waiting),
	})
}

func toJobRecordDTOs(records []entities.JobRecord) []dto.JobRecord {
	out := make([]dto.JobRecord, len(records))
	for i, r := range records {
		out[i] = dto.JobRecord{
			JobID:    r.JobID,
			Status:   string(r.Status),
			Progress: r.Progress,
			Error:    r.Error,
		}
	}
	return out
}
