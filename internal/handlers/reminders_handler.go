package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/inkspire/inkspire-client/internal/notify"
	"github.com/inkspire/inkspire-client/internal/router"
	"github.com/inkspire/inkspire-client/internal/views"
)

type RemindersHandler struct {
	reminders *views.Reminders
	notifier  notify.Surface
}

func NewRemindersHandler(reminders *views.Reminders, notifier notify.Surface) *RemindersHandler {
	return &RemindersHandler{reminders: reminders, notifier: notifier}
}

// List handles GET /reminders. Mounting reconciles reminder status with
// the owning plans before the list is returned.
func (h *RemindersHandler) List(c *gin.Context) {
	if err := h.reminders.Mount(c.Request.Context()); err != nil {
		respondViewError(c, err, "Failed to fetch reminders")
		return
	}
	h.renderList(c)
}

// Delete handles DELETE /reminders/:id
func (h *RemindersHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.reminders.Delete(c.Request.Context(), id); err != nil {
		respondViewError(c, err, "Failed to delete reminder")
		return
	}
	h.renderList(c)
}

type reminderRow struct {
	ID        int64  `json:"id"`
	Message   string `json:"message"`
	DueDate   string `json:"dueDate"`
	Completed bool   `json:"completed"`
	PlanID    int64  `json:"planId"`
	PlanTitle string `json:"planTitle"`
}

func (h *RemindersHandler) renderList(c *gin.Context) {
	reminders := h.reminders.Reminders()
	rows := make([]reminderRow, 0, len(reminders))
	for _, r := range reminders {
		row := reminderRow{
			ID:        r.ID,
			Message:   r.Message,
			DueDate:   r.DueDate.Display(),
			Completed: r.Completed,
			PlanID:    r.PlanID,
			PlanTitle: r.PlanTitle,
		}
		if plan, ok := h.reminders.Plan(r.PlanID); ok {
			row.PlanTitle = plan.Title
			row.Completed = plan.Completed()
		}
		rows = append(rows, row)
	}
	render(c, h.notifier, router.ViewReminders, gin.H{"reminders": rows})
}
