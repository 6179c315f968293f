package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"noticeboard/pkg/actor"
	. "noticeboard/pkg/common"
	"noticeboard/pkg/feed"
	"noticeboard/pkg/logger"
	"noticeboard/pkg/post"
	"noticeboard/pkg/role"
	"noticeboard/pkg/sessions"
)

type IPostRepo interface {
	GetAll(context.Context) ([]*post.Post, error)
	GetPending(context.Context) ([]*post.Post, error)
	GetById(context.Context, post.PostId) (*post.Post, error)

	Add(context.Context, *actor.Actor, *post.Post) (*post.Post, error)
	Approve(context.Context, post.PostId) (*post.Post, error)
	Delete(context.Context, post.PostId) error

	Like(context.Context, int64, post.PostId) (*post.Post, error)
	Dislike(context.Context, int64, post.PostId) (*post.Post, error)

	AddComment(context.Context, post.PostId, *actor.Actor, string) (*post.Post, error)
}

type PostHandler struct {
	PostRepo IPostRepo
}

func NewPostHandler(postRepo IPostRepo) *PostHandler {
	return &PostHandler{
		PostRepo: postRepo,
	}
}

// List serves every public listing: the whole board, category/faculty
// pages, latest news, important notices, own posts and search. Which
// posts are on the table at all depends on who is asking.
func (ph *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	posts, err := ph.PostRepo.GetAll(r.Context())
	if err != nil {
		logger.Log(r.Context()).Errorf("can't load posts from the repo: %v", err)
		WriteMsg(w, "failed loading posts", http.StatusInternalServerError)
		return
	}

	viewer, err := sessions.GetAuthActor(r.Context())
	if err != nil {
		viewer = nil // anonymous browsing is fine
	}

	WriteRespJSON(w, feed.Apply(posts, viewer, feed.FromQuery(r.URL.Query())))
}

// Pending lists posts waiting for moderation, superadmin only.
func (ph *PostHandler) Pending(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	posts, err := ph.PostRepo.GetPending(r.Context())
	if err != nil {
		logger.Log(r.Context()).Errorf("can't load pending posts: %v", err)
		WriteMsg(w, "failed loading pending posts", http.StatusInternalServerError)
		return
	}

	WriteRespJSON(w, posts)
}

func (ph *PostHandler) Add(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	author, err := sessions.GetAuthActor(r.Context())
	if err != nil {
		WriteMsg(w, "not authorized", http.StatusUnauthorized)
		return
	}

	p := new(post.Post)
	err = ParseReqBody(r.Body, p)
	if err != nil {
		logger.Log(r.Context()).Errorf("can't parse post from request body: %v", err)
		WriteMsg(w, "can't parse post", http.StatusBadRequest)
		return
	}

	created, err := ph.PostRepo.Add(r.Context(), author, p)
	if errors.Is(err, post.ErrEmptyContent) {
		WriteMsg(w, "title and description are required", http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		logger.Log(r.Context()).Errorf("can't add post to the repo: %v", err)
		WriteMsg(w, "failed adding post", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	WriteRespJSON(w, created)
}

func (ph *PostHandler) Approve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, ok := pathPostId(w, r)
	if !ok {
		return
	}

	p, err := ph.PostRepo.Approve(r.Context(), id)
	if errors.Is(err, post.ErrNotFound) {
		WriteMsg(w, "post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Log(r.Context()).Errorf("can't approve post %d: %v", id, err)
		WriteMsg(w, "approving post failed", http.StatusInternalServerError)
		return
	}

	WriteRespJSON(w, p)
}

func (ph *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, ok := pathPostId(w, r)
	if !ok {
		return
	}

	err := ph.PostRepo.Delete(r.Context(), id)
	if errors.Is(err, post.ErrNotFound) {
		WriteMsg(w, "post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Log(r.Context()).Errorf("can't remove post %d: %v", id, err)
		WriteMsg(w, "removing post failed", http.StatusInternalServerError)
		return
	}

	WriteMsg(w, "success", http.StatusOK)
}

func (ph *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	ph.react(w, r, true)
}

func (ph *PostHandler) Dislike(w http.ResponseWriter, r *http.Request) {
	ph.react(w, r, false)
}

func (ph *PostHandler) react(w http.ResponseWriter, r *http.Request, like bool) {
	w.Header().Set("Content-Type", "application/json")

	voter, err := sessions.GetAuthActor(r.Context())
	if err != nil {
		WriteMsg(w, "not authorized", http.StatusUnauthorized)
		return
	}

	id, ok := pathPostId(w, r)
	if !ok {
		return
	}

	var p *post.Post
	if like {
		p, err = ph.PostRepo.Like(r.Context(), voter.Id, id)
	} else {
		p, err = ph.PostRepo.Dislike(r.Context(), voter.Id, id)
	}
	if errors.Is(err, post.ErrNotFound) {
		WriteMsg(w, "post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Log(r.Context()).Errorf("can't vote for post %d: %v", id, err)
		WriteMsg(w, "voting failed", http.StatusInternalServerError)
		return
	}

	WriteRespJSON(w, p)
}

func (ph *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	commenter, err := sessions.GetAuthActor(r.Context())
	if err != nil {
		WriteMsg(w, "not authorized", http.StatusUnauthorized)
		return
	}

	id, ok := pathPostId(w, r)
	if !ok {
		return
	}

	c := struct {
		Comment string `json:"comment"`
	}{}
	if err := ParseReqBody(r.Body, &c); err != nil {
		logger.Log(r.Context()).Errorf("can't get comment body: %v", err)
		WriteMsg(w, "failed parsing comment body", http.StatusBadRequest)
		return
	}

	p, err := ph.PostRepo.AddComment(r.Context(), id, commenter, c.Comment)
	if errors.Is(err, post.ErrEmptyContent) {
		WriteMsg(w, "comment is empty", http.StatusUnprocessableEntity)
		return
	}
	if errors.Is(err, post.ErrNotFound) {
		WriteMsg(w, "post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Log(r.Context()).Errorf("can't add comment to post %d: %v", id, err)
		WriteMsg(w, "adding comment failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	WriteRespJSON(w, p)
}

func (ph *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, ok := pathPostId(w, r)
	if !ok {
		return
	}

	p, err := ph.PostRepo.GetById(r.Context(), id)
	if errors.Is(err, post.ErrNotFound) {
		WriteMsg(w, "post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Log(r.Context()).Errorf("can't get post with id %d: %v", id, err)
		WriteMsg(w, "post not found", http.StatusNotFound)
		return
	}

	if !p.Approved && !canSeePending(r.Context(), p) {
		WriteMsg(w, "post not found", http.StatusNotFound)
		return
	}

	WriteRespJSON(w, p)
}

// A pending post is only shown to the superadmin and its own author.
func canSeePending(ctx context.Context, p *post.Post) bool {
	viewer, err := sessions.GetAuthActor(ctx)
	if err != nil {
		return false
	}
	if viewer.Role == role.SuperAdmin {
		return true
	}
	return p.Author == viewer.PublicName() || p.Author == viewer.Username
}

func pathPostId(w http.ResponseWriter, r *http.Request) (post.PostId, bool) {
	raw := mux.Vars(r)["post_id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		WriteMsg(w, "bad post id", http.StatusBadRequest)
		return 0, false
	}
	return post.PostId(id), true
}
