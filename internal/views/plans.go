package views

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/inkspire/inkspire-client/internal/events"
	"github.com/inkspire/inkspire-client/internal/models"
	"github.com/inkspire/inkspire-client/internal/notify"
	"github.com/inkspire/inkspire-client/internal/validation"
	"github.com/inkspire/inkspire-client/pkg/errors"
	"github.com/inkspire/inkspire-client/pkg/logger"
	"go.uber.org/zap"
)

// PlansUpdated carries a freshly fetched plan list between views
type PlansUpdated = events.Subject[[]models.LearningPlan]

// PlanList shows the user's learning plans and edits them in place
type PlanList struct {
	api      PlansAPI
	notifier notify.Surface
	updates  *PlansUpdated
	life     lifecycle

	mu          sync.RWMutex
	plans       []models.LearningPlan
	unsubscribe func()
}

func NewPlanList(plansAPI PlansAPI, notifier notify.Surface, updates *PlansUpdated) *PlanList {
	return &PlanList{
		api:      plansAPI,
		notifier: notifier,
		updates:  updates,
	}
}

// Mount cleans up stale reminders, loads the plans and starts following
// plansUpdated
func (v *PlanList) Mount(ctx context.Context) error {
	gen := v.life.mount()

	if v.updates != nil {
		unsubscribe := v.updates.Subscribe(func(plans []models.LearningPlan) {
			if v.life.live(gen) {
				v.setPlans(plans)
			}
		})
		v.mu.Lock()
		if v.unsubscribe != nil {
			v.unsubscribe()
		}
		v.unsubscribe = unsubscribe
		v.mu.Unlock()
	}

	if err := v.api.CleanupReminders(ctx); err != nil {
		logger.Warn("Reminder cleanup failed", zap.Error(err))
	}

	return v.refresh(ctx, gen)
}

func (v *PlanList) Unmount() {
	v.life.unmount()
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
}

// Plans returns a copy of the rendered list
func (v *PlanList) Plans() []models.LearningPlan {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]models.LearningPlan, len(v.plans))
	copy(out, v.plans)
	return out
}

// Plan returns one rendered plan
func (v *PlanList) Plan(id int64) (models.LearningPlan, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, p := range v.plans {
		if p.ID == id {
			return p, true
		}
	}
	return models.LearningPlan{}, false
}

func (v *PlanList) setPlans(plans []models.LearningPlan) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.plans = plans
}

func (v *PlanList) refresh(ctx context.Context, gen uint64) error {
	plans, err := v.api.ListPlans(ctx)
	if err != nil {
		return report(v.notifier, err, "Failed to fetch plans")
	}
	if v.life.live(gen) {
		v.setPlans(plans)
	}
	return nil
}

func (v *PlanList) Delete(ctx context.Context, id int64) error {
	release, err := v.life.begin(resourceKey("plan", id))
	if err != nil {
		return err
	}
	defer release()
	gen := v.life.generation()

	if err := v.api.DeletePlan(ctx, id); err != nil {
		return report(v.notifier, err, "Failed to delete plan")
	}
	if err := v.refresh(ctx, gen); err != nil {
		return err
	}
	v.notifier.ShowSuccess("Plan deleted successfully!")
	return nil
}

// Update saves an edited plan. Milestones without a title are titled
// after their description.
func (v *PlanList) Update(ctx context.Context, plan models.LearningPlan) error {
	if strings.TrimSpace(plan.Title) == "" {
		v.notifier.ShowError("Title is required")
		return errors.InvalidInputError("title", "required")
	}
	for _, m := range plan.Milestones {
		if strings.TrimSpace(m.Description) == "" {
			v.notifier.ShowError("Please enter a milestone description")
			return errors.InvalidInputError("milestones", "description required")
		}
	}

	release, err := v.life.begin(resourceKey("plan", plan.ID))
	if err != nil {
		return err
	}
	defer release()
	gen := v.life.generation()

	if _, err := v.api.UpdatePlan(ctx, plan.ID, plan.ToRequest()); err != nil {
		return report(v.notifier, err, "Failed to update plan")
	}
	if err := v.refresh(ctx, gen); err != nil {
		return err
	}
	v.notifier.ShowSuccess("Plan updated successfully!")
	return nil
}

func (v *PlanList) SetMilestoneStatus(ctx context.Context, planID, milestoneID int64, completed bool) error {
	release, err := v.life.begin(resourceKey("plan", planID))
	if err != nil {
		return err
	}
	defer release()
	gen := v.life.generation()

	if err := v.api.SetMilestoneStatus(ctx, planID, milestoneID, completed); err != nil {
		return report(v.notifier, err, "Failed to update milestone status")
	}
	if err := v.refresh(ctx, gen); err != nil {
		return err
	}
	v.notifier.ShowSuccess("Milestone status updated")
	return nil
}

func (v *PlanList) UploadMaterial(ctx context.Context, planID int64, filename string, content io.Reader) error {
	if filename == "" || content == nil {
		v.notifier.ShowError("Please select a file to upload")
		return errors.InvalidInputError("file", "required")
	}

	release, err := v.life.begin(resourceKey("plan", planID))
	if err != nil {
		return err
	}
	defer release()
	gen := v.life.generation()

	if err := v.api.UploadMaterial(ctx, planID, filename, content); err != nil {
		return report(v.notifier, err, "Failed to upload material")
	}
	if err := v.refresh(ctx, gen); err != nil {
		return err
	}
	v.notifier.ShowSuccess("Material uploaded successfully!")
	return nil
}

// DeleteMaterial removes the material at index and patches the local
// list instead of fetching it again
func (v *PlanList) DeleteMaterial(ctx context.Context, planID int64, index int) error {
	release, err := v.life.begin(resourceKey("plan", planID))
	if err != nil {
		return err
	}
	defer release()
	gen := v.life.generation()

	if err := v.api.DeleteMaterial(ctx, planID, index); err != nil {
		return report(v.notifier, err, "Failed to delete material. Please try again.")
	}

	if v.life.live(gen) {
		v.mu.Lock()
		for i := range v.plans {
			if v.plans[i].ID != planID {
				continue
			}
			materials := v.plans[i].LearningMaterials
			if index >= 0 && index < len(materials) {
				patched := make([]string, 0, len(materials)-1)
				patched = append(patched, materials[:index]...)
				patched = append(patched, materials[index+1:]...)
				v.plans[i].LearningMaterials = patched
			}
		}
		v.mu.Unlock()
	}

	v.notifier.ShowSuccess("Material deleted successfully")
	return nil
}

// DownloadMaterial streams the material at index into dst
func (v *PlanList) DownloadMaterial(ctx context.Context, planID int64, index int, dst io.Writer) (*models.Material, error) {
	material, err := v.api.DownloadMaterial(ctx, planID, index, dst)
	if err != nil {
		return nil, report(v.notifier, err, "Failed to download material")
	}
	v.notifier.ShowSuccess("Download started successfully")
	return material, nil
}

// CreatePlan is the new-plan form
type CreatePlan struct {
	api      PlansAPI
	identity Identity
	notifier notify.Surface
	updates  *PlansUpdated
	navigate Navigator
	life     lifecycle
}

func NewCreatePlan(plansAPI PlansAPI, identity Identity, notifier notify.Surface, updates *PlansUpdated, navigate Navigator) *CreatePlan {
	return &CreatePlan{
		api:      plansAPI,
		identity: identity,
		notifier: notifier,
		updates:  updates,
		navigate: navigate,
	}
}

// Submit creates the plan, broadcasts the refreshed list on plansUpdated
// and moves to the plan list
func (v *CreatePlan) Submit(ctx context.Context, form validation.PlanForm) (*models.LearningPlan, error) {
	if _, ok := v.identity.Current(); !ok {
		v.notifier.ShowError("Please log in to create a plan")
		return nil, errors.ErrUnauthorized
	}
	if err := validateForm(form); err != nil {
		return nil, err
	}

	release, err := v.life.begin("create-plan")
	if err != nil {
		return nil, err
	}
	defer release()

	req := models.PlanRequest{
		Title:       strings.TrimSpace(form.Title),
		Description: strings.TrimSpace(form.Description),
		Public:      form.Public,
		Milestones:  make([]models.Milestone, 0, len(form.Milestones)),
	}
	for _, m := range form.Milestones {
		req.Milestones = append(req.Milestones, models.NewMilestone(strings.TrimSpace(m)))
	}

	created, err := v.api.CreatePlan(ctx, req)
	if err != nil {
		return nil, report(v.notifier, err, "Failed to create plan")
	}
	v.notifier.ShowSuccess("Plan created successfully!")

	plans, err := v.api.ListPlans(ctx)
	if err != nil {
		v.notifier.ShowError("Failed to fetch plans after creation")
		return created, fmt.Errorf("failed to fetch plans after creation: %w", err)
	}
	if v.updates != nil {
		v.updates.Publish(plans)
	}

	logger.Info("Learning plan created",
		zap.Int64("plan_id", created.ID),
		zap.Int("milestones", len(req.Milestones)))
	v.navigate.to(PathPlans)
	return created, nil
}
