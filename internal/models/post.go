package models

import "encoding/json"

// Post is a feed entry. The canonical flag is Private. Requests send it as
// the "isPrivate" form field; responses carry "private" or "isPrivate"
// depending on the endpoint, and both are accepted.
type Post struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	MediaURLs   []string  `json:"mediaUrls"`
	CreatorName string    `json:"creatorName"`
	Private     bool      `json:"isPrivate"`
	Video       bool      `json:"isVideo"`
	CreatedAt   Timestamp `json:"createdAt"`
}

func (p *Post) UnmarshalJSON(data []byte) error {
	type wire struct {
		ID          int64     `json:"id"`
		Description string    `json:"description"`
		MediaURLs   []string  `json:"mediaUrls"`
		CreatorName string    `json:"creatorName"`
		IsPrivate   *bool     `json:"isPrivate"`
		Private     *bool     `json:"private"`
		IsVideo     *bool     `json:"isVideo"`
		Video       *bool     `json:"video"`
		CreatedAt   Timestamp `json:"createdAt"`
	}
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = Post{
		ID:          w.ID,
		Description: w.Description,
		MediaURLs:   w.MediaURLs,
		CreatorName: w.CreatorName,
		Private:     firstBool(w.IsPrivate, w.Private),
		Video:       firstBool(w.IsVideo, w.Video),
		CreatedAt:   w.CreatedAt,
	}
	return nil
}

func firstBool(values ...*bool) bool {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return false
}

// MediaFile is one attachment of a new post
type MediaFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// NewPost is the multipart body of POST /api/posts/create
type NewPost struct {
	Description string
	Private     bool
	Media       []MediaFile
}

type Comment struct {
	ID               int64     `json:"id"`
	Content          string    `json:"content"`
	CommentBy        string    `json:"commentBy"`
	CommentByID      string    `json:"commentById"`
	CommentByProfile string    `json:"commentByProfile"`
	CreatedAt        Timestamp `json:"createdAt"`
}
