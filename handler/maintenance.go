package handler

import (
	"context"
	"errors"
	"net/http"

	"feedback-tool-backend/service"
	"feedback-tool-backend/util"
	"feedback-tool-backend/view"

	"github.com/gin-gonic/gin"
)

type MaintenanceHandler struct {
	maintenanceService *service.MaintenanceService
	profileService     *service.ProfileService
}

func NewMaintenanceHandler(maintenanceService *service.MaintenanceService, profileService *service.ProfileService) *MaintenanceHandler {
	return &MaintenanceHandler{
		maintenanceService: maintenanceService,
		profileService:     profileService,
	}
}

func (h *MaintenanceHandler) CreateFunctions(c *gin.Context) {
	h.provision(c, h.maintenanceService.CreateFunctions, "Functions created successfully")
}

func (h *MaintenanceHandler) SetupRelations(c *gin.Context) {
	h.provision(c, h.maintenanceService.SetupRelations, "Relations set up successfully")
}

func (h *MaintenanceHandler) SetupTriggers(c *gin.Context) {
	h.provision(c, h.maintenanceService.SetupTriggers, "Triggers set up successfully")
}

func (h *MaintenanceHandler) provision(c *gin.Context, step func(context.Context) error, message string) {
	if err := step(c.Request.Context()); err != nil {
		if errors.Is(err, service.ErrUnsupportedDialect) {
			util.HandleErrorWithWarning(c, http.StatusNotImplemented, util.ErrNotSupported, util.WarningPostgresOnly, nil)
			return
		}
		util.HandleError(c, http.StatusInternalServerError, util.ErrDatabaseOperation, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
	})
}

// UpdateProfiles runs the profile repair and returns its per-account report.
func (h *MaintenanceHandler) UpdateProfiles(c *gin.Context) {
	results, err := h.maintenanceService.RepairProfiles(c.Request.Context())
	if err != nil {
		util.HandleError(c, http.StatusInternalServerError, util.ErrDatabaseOperation, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"results": results,
	})
}

func (h *MaintenanceHandler) FixProfilesPage(c *gin.Context) {
	c.HTML(http.StatusOK, view.PageFixProfiles, view.FixProfilesPage{
		Layout: layout(c, h.profileService, "Fix profiles"),
	})
}

func (h *MaintenanceHandler) FixProfiles(c *gin.Context) {
	page := view.FixProfilesPage{
		Layout: layout(c, h.profileService, "Fix profiles"),
	}

	results, err := h.maintenanceService.RepairProfiles(c.Request.Context())
	if err != nil {
		renderError(c, http.StatusInternalServerError, page.Layout, "Profiles could not be repaired. Check the logs for details.")
		return
	}

	page.Ran = true
	page.Updated = results.Updated
	page.Errors = results.Errors
	page.Details = results.Details
	c.HTML(http.StatusOK, view.PageFixProfiles, page)
}
