package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/inkspire/inkspire-client/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreatePlan(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "T", body["title"])
		assert.Equal(t, false, body["isPublic"])
		milestones := body["milestones"].([]interface{})
		first := milestones[0].(map[string]interface{})
		assert.Equal(t, "M", first["title"])
		assert.Equal(t, "", first["notes"])

		_, _ = io.WriteString(w, `{"id":3,"title":"T","description":"D","isPublic":false,"milestones":[{"id":8,"title":"M","description":"M","completed":false}]}`)
	})

	plan, err := c.CreatePlan(context.Background(), models.PlanRequest{
		Title:       "T",
		Description: "D",
		Milestones:  []models.Milestone{models.NewMilestone("M")},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), plan.ID)
	assert.Equal(t, int64(8), plan.Milestones[0].ID)
}

func TestClient_SetMilestoneStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/learning-plans/3/milestones/8/status", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"completed":true}`, string(raw))
	})

	assert.NoError(t, c.SetMilestoneStatus(context.Background(), 3, 8, true))
}

func TestClient_UploadMaterial(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/learning-plans/3/materials", r.URL.Path)
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "notes.pdf", header.Filename)
		assert.Equal(t, "pdf-bytes", string(content))
	})

	err := c.UploadMaterial(context.Background(), 3, "notes.pdf", bytes.NewBufferString("pdf-bytes"))
	assert.NoError(t, err)
}

func TestClient_DownloadMaterial(t *testing.T) {
	tests := []struct {
		name        string
		disposition string
		wantFile    string
		wantDisplay string
	}{
		{"named", `attachment; filename="1712_notes.pdf"`, "1712_notes.pdf", "notes.pdf"},
		{"inline", `inline; filename="99_a_b.png"`, "99_a_b.png", "a_b.png"},
		{"missing header", "", "material_2", "material_2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/learning-plans/3/materials/1", r.URL.Path)
				if tt.disposition != "" {
					w.Header().Set("Content-Disposition", tt.disposition)
				}
				w.Header().Set("Content-Type", "application/pdf")
				_, _ = io.WriteString(w, "data")
			})

			var buf bytes.Buffer
			material, err := c.DownloadMaterial(context.Background(), 3, 1, &buf)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFile, material.Filename)
			assert.Equal(t, tt.wantDisplay, material.DisplayName)
			assert.Equal(t, int64(4), material.Size)
			assert.Equal(t, "data", buf.String())
		})
	}
}

func TestClient_ListReminders(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/learning-plans/reminders", r.URL.Path)
		_, _ = io.WriteString(w, `[{"id":5,"message":"Keep going","dueDate":"2025-03-04T09:30:00","completed":false,"planId":3,"planTitle":"Go"}]`)
	})

	reminders, err := c.ListReminders(context.Background())
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, "Go", reminders[0].PlanTitle)
	assert.Equal(t, 2025, reminders[0].DueDate.Year())
}
