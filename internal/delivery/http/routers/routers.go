package routers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/playforge/updatedist/internal/delivery/http"
	"github.com/playforge/updatedist/internal/delivery/http/handlers"
	"github.com/playforge/updatedist/internal/pkg/auth"
)

// SetupRoutes wires the full `/api/v1/updates/*` route table of §6 onto
// app, the generalized counterpart of the teacher's SetupUploadRoutes.
func SetupRoutes(
	app *fiber.App,
	introspector auth.TokenIntrospector,
	versionHandler *handlers.VersionHandler,
	manifestHandler *handlers.ManifestHandler,
	jobsHandler *handlers.JobsHandler,
) {
	api := app.Group("/api/v1/updates")

	requireEdit := http.RequireCapability(introspector, auth.CapabilityEdit)
	requireView := http.RequireCapability(introspector, auth.CapabilityView)

	api.Get("/servers/list", manifestHandler.Servers)
	api.Get("/list/:version/:os/:texture/:offset", manifestHandler.List)

	manager := api.Group("/manager/version")
	manager.Post("/create", requireEdit, versionHandler.Create)
	manager.Post("/edit", requireEdit, versionHandler.Edit)
	manager.Put("/process", requireEdit, versionHandler.Process)
	manager.Get("/list", requireView, versionHandler.List)
	manager.Get("/fetch/:id", requireView, versionHandler.Fetch)
	manager.Get("/jobs", requireView, jobsHandler.List)
}
