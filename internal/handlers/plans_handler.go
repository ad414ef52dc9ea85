package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/inkspire/inkspire-client/internal/models"
	"github.com/inkspire/inkspire-client/internal/notify"
	"github.com/inkspire/inkspire-client/internal/router"
	"github.com/inkspire/inkspire-client/internal/validation"
	"github.com/inkspire/inkspire-client/internal/views"
	"github.com/inkspire/inkspire-client/pkg/logger"
	"go.uber.org/zap"
)

// PlansHandler serves the dashboard and the learning plan views
type PlansHandler struct {
	list     *views.PlanList
	create   *views.CreatePlan
	landing  *views.LearningPlans
	identity views.Identity
	notifier notify.Surface
}

func NewPlansHandler(
	list *views.PlanList,
	create *views.CreatePlan,
	landing *views.LearningPlans,
	identity views.Identity,
	notifier notify.Surface,
) *PlansHandler {
	return &PlansHandler{
		list:     list,
		create:   create,
		landing:  landing,
		identity: identity,
		notifier: notifier,
	}
}

// Dashboard handles GET /
func (h *PlansHandler) Dashboard(c *gin.Context) {
	user, _ := h.identity.Current()
	render(c, h.notifier, router.ViewDashboard, views.NewDashboard(user))
}

// LearningPlans handles GET /learning-plans and announces pending reminders
func (h *PlansHandler) LearningPlans(c *gin.Context) {
	if err := h.landing.Mount(c.Request.Context()); err != nil {
		respondViewError(c, err, "Failed to fetch pending reminders")
		return
	}
	render(c, h.notifier, router.ViewLearningPlans, gin.H{"pending": h.landing.Announced()})
}

// List handles GET /plans
func (h *PlansHandler) List(c *gin.Context) {
	if err := h.list.Mount(c.Request.Context()); err != nil {
		respondViewError(c, err, "Failed to fetch plans")
		return
	}
	h.renderList(c)
}

func (h *PlansHandler) renderList(c *gin.Context) {
	render(c, h.notifier, router.ViewPlanList, gin.H{"plans": h.list.Plans()})
}

// CreateForm handles GET /create-plan
func (h *PlansHandler) CreateForm(c *gin.Context) {
	render(c, h.notifier, router.ViewCreatePlan, nil)
}

// Create handles POST /create-plan
func (h *PlansHandler) Create(c *gin.Context) {
	var form validation.PlanForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", bindDetails(err), err)
		return
	}

	plan, err := h.create.Submit(c.Request.Context(), form)
	if err != nil {
		respondViewError(c, err, "Failed to create plan")
		return
	}

	render(c, h.notifier, router.ViewCreatePlan, gin.H{"plan": plan, "redirect": views.PathPlans})
}

// Update handles PUT /plans/:id
func (h *PlansHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var plan models.LearningPlan
	if err := c.ShouldBindJSON(&plan); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", bindDetails(err), err)
		return
	}
	plan.ID = id

	if err := h.list.Update(c.Request.Context(), plan); err != nil {
		respondViewError(c, err, "Failed to update plan")
		return
	}
	h.renderList(c)
}

// Delete handles DELETE /plans/:id
func (h *PlansHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.list.Delete(c.Request.Context(), id); err != nil {
		respondViewError(c, err, "Failed to delete plan")
		return
	}
	h.renderList(c)
}

// SetMilestoneStatus handles PUT /plans/:id/milestones/:milestoneId/status
func (h *PlansHandler) SetMilestoneStatus(c *gin.Context) {
	planID, ok := idParam(c, "id")
	if !ok {
		return
	}
	milestoneID, ok := idParam(c, "milestoneId")
	if !ok {
		return
	}

	var req models.StatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", bindDetails(err), err)
		return
	}

	if err := h.list.SetMilestoneStatus(c.Request.Context(), planID, milestoneID, req.Completed); err != nil {
		respondViewError(c, err, "Failed to update milestone status")
		return
	}
	h.renderList(c)
}

// UploadMaterial handles POST /plans/:id/materials (multipart field "file")
func (h *PlansHandler) UploadMaterial(c *gin.Context) {
	planID, ok := idParam(c, "id")
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		h.notifier.ShowError("Please select a file to upload")
		respondError(c, http.StatusBadRequest, "Please select a file to upload", err)
		return
	}
	file, err := header.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to read upload", err)
		return
	}
	defer file.Close()

	if err := h.list.UploadMaterial(c.Request.Context(), planID, header.Filename, file); err != nil {
		respondViewError(c, err, "Failed to upload material")
		return
	}

	logger.Info("Material uploaded",
		zap.Int64("plan_id", planID),
		zap.String("filename", header.Filename),
		zap.Int64("size", header.Size))
	h.renderList(c)
}

// DownloadMaterial handles GET /plans/:id/materials/:index
func (h *PlansHandler) DownloadMaterial(c *gin.Context) {
	planID, ok := idParam(c, "id")
	if !ok {
		return
	}
	index, ok := indexParam(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	material, err := h.list.DownloadMaterial(c.Request.Context(), planID, index, &buf)
	if err != nil {
		respondViewError(c, err, "Failed to download material")
		return
	}

	contentType := material.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", `attachment; filename="`+material.DisplayName+`"`)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// DeleteMaterial handles DELETE /plans/:id/materials/:index
func (h *PlansHandler) DeleteMaterial(c *gin.Context) {
	planID, ok := idParam(c, "id")
	if !ok {
		return
	}
	index, ok := indexParam(c)
	if !ok {
		return
	}

	if err := h.list.DeleteMaterial(c.Request.Context(), planID, index); err != nil {
		respondViewError(c, err, "Failed to delete material. Please try again.")
		return
	}
	h.renderList(c)
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "Invalid "+name, err)
		return 0, false
	}
	return id, true
}

func indexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		respondError(c, http.StatusBadRequest, "Invalid material index", err)
		return 0, false
	}
	return index, true
}
