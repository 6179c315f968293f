package post

import (
	"time"

	"noticeboard/pkg/comment"
	"noticeboard/pkg/role"
)

type PostId int64

// Post is a single announcement. Likes/Dislikes are denormalized
// counters; the per-actor reaction ledger is the source of truth and
// the repo is the only code allowed to move them.
type Post struct {
	Id          PostId    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Author      string    `json:"author"`
	AuthorRole  role.Role `json:"authorRole"`

	Category string `json:"category,omitempty"`
	Faculty  string `json:"faculty,omitempty"`
	Photo    string `json:"photo,omitempty"`

	// Approved is the post's lifecycle: pending (false) or approved.
	// There is no rejected state, pending posts get approved or deleted.
	Approved  bool `json:"approved"`
	Important bool `json:"important"`

	Likes    int                `json:"likes"`
	Dislikes int                `json:"dislikes"`
	Comments []*comment.Comment `json:"comments"`

	Created time.Time `json:"date"`
}
