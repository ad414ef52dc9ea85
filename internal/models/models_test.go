package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	want := time.Date(2025, time.March, 4, 9, 30, 0, 0, time.Local)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"iso without zone", `"2025-03-04T09:30:00"`, want},
		{"iso with fraction", `"2025-03-04T09:30:00.000"`, want},
		{"jackson array", `[2025,3,4,9,30]`, want},
		{"null", `null`, time.Time{}},
		{"empty string", `""`, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.input), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %v", ts.Time)
		})
	}
}

func TestTimestamp_UnmarshalJSON_Invalid(t *testing.T) {
	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"next tuesday"`), &ts))
}

func TestPost_AcceptsBothPrivacyFields(t *testing.T) {
	var posts []Post
	body := `[
		{"id":1,"description":"a","private":true,"video":true},
		{"id":2,"description":"b","isPrivate":true},
		{"id":3,"description":"c"}
	]`
	require.NoError(t, json.Unmarshal([]byte(body), &posts))
	require.Len(t, posts, 3)

	assert.True(t, posts[0].Private)
	assert.True(t, posts[0].Video)
	assert.True(t, posts[1].Private)
	assert.False(t, posts[2].Private)
}

func TestMilestoneTitle(t *testing.T) {
	assert.Equal(t, "M", MilestoneTitle("M"))

	long := strings.Repeat("é", 60)
	title := MilestoneTitle(long)
	assert.Equal(t, strings.Repeat("é", MilestoneTitleLength), title)
}

func TestNewMilestone(t *testing.T) {
	m := NewMilestone("Read chapter one")
	assert.Equal(t, Milestone{Title: "Read chapter one", Description: "Read chapter one"}, m)
}

func TestLearningPlan_Completed(t *testing.T) {
	tests := []struct {
		name       string
		milestones []Milestone
		want       bool
	}{
		{"no milestones", nil, false},
		{"all done", []Milestone{{Completed: true}, {Completed: true}}, true},
		{"one open", []Milestone{{Completed: true}, {Completed: false}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := LearningPlan{Milestones: tt.milestones}
			assert.Equal(t, tt.want, plan.Completed())
		})
	}
}

func TestLearningPlan_ToRequestFillsTitles(t *testing.T) {
	plan := LearningPlan{
		Title:      "Go",
		Public:     true,
		Milestones: []Milestone{{Description: "Tour of Go"}, {Title: "Kept", Description: "x"}},
	}
	req := plan.ToRequest()

	assert.Equal(t, "Tour of Go", req.Milestones[0].Title)
	assert.Equal(t, "Kept", req.Milestones[1].Title)
	assert.Empty(t, plan.Milestones[0].Title, "source plan is not modified")

	raw, err := json.Marshal(req)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"isPublic":true`)
}

func TestProfileUpdate_Apply(t *testing.T) {
	u := User{ID: 7, Name: "Ada", Email: "ada@example.com", PhoneNumber: "0123456789", Token: "t"}
	got := ProfileUpdate{Name: "Ada Lovelace"}.Apply(u)

	assert.Equal(t, "Ada Lovelace", got.Name)
	assert.Equal(t, "0123456789", got.PhoneNumber)
	assert.Equal(t, "t", got.Token)
}

func TestMaterialDisplayName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"1712345678_notes.pdf", "notes.pdf"},
		{"1712345678_my_notes.pdf", "my_notes.pdf"},
		{"notes.pdf", "notes.pdf"},
		{"trailing_", "trailing_"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MaterialDisplayName(tt.filename), tt.filename)
	}
	assert.Equal(t, "material_3", FallbackMaterialName(2))
}
