package views

import (
	"context"
	"sync"
	"time"

	"github.com/inkspire/inkspire-client/internal/models"
	"github.com/inkspire/inkspire-client/internal/notify"
	"github.com/inkspire/inkspire-client/pkg/errors"
	"github.com/inkspire/inkspire-client/pkg/logger"
	"go.uber.org/zap"
)

// ReminderDisplayDuration is how long a pending-plan notification stays up
const ReminderDisplayDuration = 10 * time.Second

// Reminders lists reminders next to their plans and keeps each reminder's
// completion in step with its plan's milestones
type Reminders struct {
	api      RemindersAPI
	notifier notify.Surface
	life     lifecycle

	mu        sync.RWMutex
	reminders []models.Reminder
	plans     map[int64]models.LearningPlan
}

func NewReminders(remindersAPI RemindersAPI, notifier notify.Surface) *Reminders {
	return &Reminders{
		api:      remindersAPI,
		notifier: notifier,
		plans:    map[int64]models.LearningPlan{},
	}
}

// Mount loads reminders and plans, then syncs completion
func (v *Reminders) Mount(ctx context.Context) error {
	gen := v.life.mount()

	reminders, err := v.api.ListReminders(ctx)
	if err != nil {
		return report(v.notifier, err, "Failed to fetch reminders")
	}
	plans, err := v.api.ListPlans(ctx)
	if err != nil {
		return report(v.notifier, err, "Failed to fetch plans")
	}
	if !v.life.live(gen) {
		return nil
	}

	byID := make(map[int64]models.LearningPlan, len(plans))
	for _, p := range plans {
		byID[p.ID] = p
	}
	v.mu.Lock()
	v.reminders = reminders
	v.plans = byID
	v.mu.Unlock()

	return v.Sync(ctx)
}

func (v *Reminders) Unmount() {
	v.life.unmount()
}

// Reminders returns a copy of the rendered reminders
func (v *Reminders) Reminders() []models.Reminder {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]models.Reminder, len(v.reminders))
	copy(out, v.reminders)
	return out
}

// Plan returns the plan a reminder belongs to
func (v *Reminders) Plan(id int64) (models.LearningPlan, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	p, ok := v.plans[id]
	return p, ok
}

// Sync marks each reminder completed exactly when every milestone of its
// plan is, and reloads the reminders if anything changed
func (v *Reminders) Sync(ctx context.Context) error {
	gen := v.life.generation()

	v.mu.RLock()
	type change struct {
		id        int64
		completed bool
	}
	var changes []change
	for _, r := range v.reminders {
		plan, ok := v.plans[r.PlanID]
		if !ok {
			continue
		}
		if done := plan.Completed(); done != r.Completed {
			changes = append(changes, change{id: r.ID, completed: done})
		}
	}
	v.mu.RUnlock()

	if len(changes) == 0 {
		return nil
	}

	for _, c := range changes {
		if err := v.api.SetReminderStatus(ctx, c.id, c.completed); err != nil {
			return report(v.notifier, err, "Failed to update reminder status")
		}
	}
	return v.reload(ctx, gen)
}

func (v *Reminders) reload(ctx context.Context, gen uint64) error {
	reminders, err := v.api.ListReminders(ctx)
	if err != nil {
		return report(v.notifier, err, "Failed to fetch reminders")
	}
	if v.life.live(gen) {
		v.mu.Lock()
		v.reminders = reminders
		v.mu.Unlock()
	}
	return nil
}

func (v *Reminders) Delete(ctx context.Context, id int64) error {
	release, err := v.life.begin(resourceKey("reminder", id))
	if err != nil {
		return err
	}
	defer release()
	gen := v.life.generation()

	if err := v.api.DeleteReminder(ctx, id); err != nil {
		return report(v.notifier, err, "Failed to delete reminder")
	}
	if err := v.reload(ctx, gen); err != nil {
		return err
	}
	v.notifier.ShowSuccess("Reminder deleted successfully!")
	return nil
}

// LearningPlans is the landing page for plans. On mount it announces
// every pending reminder once; dismissing the announcement deletes the
// reminder.
type LearningPlans struct {
	api      RemindersAPI
	notifier notify.Surface
	duration time.Duration
	life     lifecycle

	mu        sync.Mutex
	shownGen  uint64
	announced []models.Reminder
}

func NewLearningPlans(remindersAPI RemindersAPI, notifier notify.Surface, duration time.Duration) *LearningPlans {
	if duration <= 0 {
		duration = ReminderDisplayDuration
	}
	return &LearningPlans{
		api:      remindersAPI,
		notifier: notifier,
		duration: duration,
	}
}

func (v *LearningPlans) Mount(ctx context.Context) error {
	v.life.mount()
	return v.ShowPending(ctx)
}

func (v *LearningPlans) Unmount() {
	v.life.unmount()
}

// Announced returns the reminders announced during the current mount
func (v *LearningPlans) Announced() []models.Reminder {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]models.Reminder, len(v.announced))
	copy(out, v.announced)
	return out
}

// ShowPending announces pending reminders. It runs at most once per mount.
func (v *LearningPlans) ShowPending(ctx context.Context) error {
	gen := v.life.generation()

	v.mu.Lock()
	if v.shownGen == gen {
		v.mu.Unlock()
		return nil
	}
	v.shownGen = gen
	v.mu.Unlock()

	reminders, err := v.api.ListReminders(ctx)
	if err != nil {
		// a failed fetch leaves the announcement pending for this mount
		v.mu.Lock()
		if v.shownGen == gen {
			v.shownGen = 0
		}
		v.mu.Unlock()
		v.notifier.ShowError("Failed to fetch reminders: " + errors.UserMessage(err, "Failed to fetch pending reminders"))
		return err
	}
	if !v.life.live(gen) {
		return nil
	}

	var announced []models.Reminder
	for _, r := range reminders {
		if r.Completed || r.PlanTitle == "" {
			continue
		}
		id := r.ID
		v.notifier.ShowSuccess(PendingMessage(r),
			notify.WithDuration(v.duration),
			notify.WithOnClose(func() { v.acknowledge(id) }))
		announced = append(announced, r)
	}

	v.mu.Lock()
	v.announced = announced
	v.mu.Unlock()
	return nil
}

func (v *LearningPlans) acknowledge(id int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := v.api.DeleteReminder(ctx, id); err != nil {
		logger.Warn("Failed to delete acknowledged reminder", zap.Int64("reminder_id", id), zap.Error(err))
	}
}

// PendingMessage is the announcement text for a pending reminder
func PendingMessage(r models.Reminder) string {
	return `Plan "` + r.PlanTitle + `" is pending! Due on ` + r.DueDate.Display()
}
