package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/inkspire/inkspire-client/internal/models"
	"github.com/inkspire/inkspire-client/pkg/errors"
)

const plansPath = "/api/learning-plans"

func planPath(id int64) string {
	return plansPath + "/" + strconv.FormatInt(id, 10)
}

func (c *Client) ListPlans(ctx context.Context) ([]models.LearningPlan, error) {
	var plans []models.LearningPlan
	if err := c.getJSON(ctx, "listPlans", plansPath, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (c *Client) GetPlan(ctx context.Context, id int64) (*models.LearningPlan, error) {
	var plan models.LearningPlan
	if err := c.getJSON(ctx, "getPlan", planPath(id), &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (c *Client) CreatePlan(ctx context.Context, req models.PlanRequest) (*models.LearningPlan, error) {
	var plan models.LearningPlan
	if err := c.sendJSON(ctx, "createPlan", http.MethodPost, plansPath, req, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (c *Client) UpdatePlan(ctx context.Context, id int64, req models.PlanRequest) (*models.LearningPlan, error) {
	var plan models.LearningPlan
	if err := c.sendJSON(ctx, "updatePlan", http.MethodPut, planPath(id), req, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (c *Client) DeletePlan(ctx context.Context, id int64) error {
	return c.sendJSON(ctx, "deletePlan", http.MethodDelete, planPath(id), nil, nil)
}

func (c *Client) SetMilestoneStatus(ctx context.Context, planID, milestoneID int64, completed bool) error {
	path := fmt.Sprintf("%s/milestones/%d/status", planPath(planID), milestoneID)
	return c.sendJSON(ctx, "setMilestoneStatus", http.MethodPut, path, models.StatusUpdate{Completed: completed}, nil)
}

// UploadMaterial attaches a file to the plan as multipart field "file"
func (c *Client) UploadMaterial(ctx context.Context, planID int64, filename string, content io.Reader) error {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("failed to read material %s: %w", filename, err)
	}
	if err := w.Close(); err != nil {
		return err
	}

	cl := call{
		operation:     "uploadMaterial",
		method:        http.MethodPost,
		path:          planPath(planID) + "/materials",
		body:          &body,
		contentType:   w.FormDataContentType(),
		authenticated: true,
	}
	return c.doJSON(ctx, cl, nil)
}

// DownloadMaterial streams material index of the plan into dst
func (c *Client) DownloadMaterial(ctx context.Context, planID int64, index int, dst io.Writer) (*models.Material, error) {
	cl := call{
		operation:     "downloadMaterial",
		method:        http.MethodGet,
		path:          fmt.Sprintf("%s/materials/%d", planPath(planID), index),
		accept:        "*/*",
		authenticated: true,
	}
	resp, err := c.do(ctx, cl)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	filename := dispositionFilename(resp.Header.Get("Content-Disposition"))
	displayName := models.MaterialDisplayName(filename)
	if filename == "" {
		filename = models.FallbackMaterialName(index)
		displayName = filename
	}

	n, err := io.Copy(dst, resp.Body)
	if err != nil {
		return nil, errors.NetworkError(cl.operation, err)
	}

	return &models.Material{
		Filename:    filename,
		DisplayName: displayName,
		ContentType: resp.Header.Get("Content-Type"),
		Size:        n,
	}, nil
}

func dispositionFilename(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}

func (c *Client) DeleteMaterial(ctx context.Context, planID int64, index int) error {
	path := fmt.Sprintf("%s/materials/%d", planPath(planID), index)
	return c.sendJSON(ctx, "deleteMaterial", http.MethodDelete, path, nil, nil)
}

func (c *Client) ListReminders(ctx context.Context) ([]models.Reminder, error) {
	var reminders []models.Reminder
	if err := c.getJSON(ctx, "listReminders", plansPath+"/reminders", &reminders); err != nil {
		return nil, err
	}
	return reminders, nil
}

func (c *Client) SetReminderStatus(ctx context.Context, id int64, completed bool) error {
	path := fmt.Sprintf("%s/reminders/%d/status", plansPath, id)
	return c.sendJSON(ctx, "setReminderStatus", http.MethodPut, path, models.StatusUpdate{Completed: completed}, nil)
}

func (c *Client) DeleteReminder(ctx context.Context, id int64) error {
	path := fmt.Sprintf("%s/reminders/%d", plansPath, id)
	return c.sendJSON(ctx, "deleteReminder", http.MethodDelete, path, nil, nil)
}

// CleanupReminders asks the API to drop reminders of deleted plans
func (c *Client) CleanupReminders(ctx context.Context) error {
	return c.sendJSON(ctx, "cleanupReminders", http.MethodDelete, plansPath+"/reminders/cleanup", nil, nil)
}
