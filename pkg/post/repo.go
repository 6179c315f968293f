package post

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"noticeboard/pkg/actor"
	"noticeboard/pkg/comment"
	"noticeboard/pkg/logger"
	"noticeboard/pkg/reaction"
	"noticeboard/pkg/role"
)

var (
	ErrNotFound     = errors.New("post: post not found")
	ErrEmptyContent = errors.New("post: content is empty")
)

// ILedger is the per-actor reaction ledger. The repo reads and writes
// it in lockstep with the post counters, nothing else may touch either.
type ILedger interface {
	Get(actorID, postID int64) (reaction.State, error)
	Set(actorID, postID int64, s reaction.State) error
	Purge(postID int64) error
}

type Repo struct {
	// mu serializes every counter/ledger transition and id assignment,
	// the counters live in Mongo and the ledger in Redis so no single
	// store transaction can cover both.
	mu     sync.Mutex
	posts  IMongoCollection
	ledger ILedger
}

func NewPostRepo(postsCol *mongo.Collection, ledger ILedger) *Repo {
	posts := &MongoCollection{
		Coll: postsCol,
	}
	return &Repo{
		posts:  posts,
		ledger: ledger,
	}
}

// Add creates a post on behalf of author. Lifecycle fields never come
// from the caller: a superadmin's post goes live at once, anyone else's
// starts pending, and a subadmin always posts into their own faculty.
func (r *Repo) Add(ctx context.Context, author *actor.Actor, p *Post) (*Post, error) {
	if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Description) == "" {
		return nil, ErrEmptyContent
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id, err := r.nextId(ctx)
	if err != nil {
		return nil, err
	}

	p.Id = id
	p.Author = author.PublicName()
	p.AuthorRole = author.Role
	p.Approved = author.Role == role.SuperAdmin
	if author.Role == role.SubAdmin {
		p.Faculty = author.Faculty
	}
	p.Likes = 0
	p.Dislikes = 0
	p.Comments = []*comment.Comment{}
	p.Created = time.Now()

	_, err = r.posts.InsertOne(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("post/repo: failed inserting a post: %w", err)
	}
	return p, nil
}

// Ids are monotonic, the next one is the current maximum plus one.
func (r *Repo) nextId(ctx context.Context) (PostId, error) {
	last := new(Post)
	opts := options.FindOne().SetSort(bson.D{{Key: "id", Value: -1}})
	err := r.posts.FindOne(ctx, bson.M{}, opts).Decode(last)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("post/repo: failed finding the last post id: %w", err)
	}
	return last.Id + 1, nil
}

func (r *Repo) update(ctx context.Context, p *Post) error {
	_, err := r.posts.UpdateOne(ctx, bson.M{"id": p.Id}, bson.M{"$set": p})
	if err != nil {
		return fmt.Errorf("post/repo: failed updating post: %w", err)
	}
	return nil
}

func (r *Repo) GetById(ctx context.Context, id PostId) (*Post, error) {
	p := new(Post)
	err := r.posts.FindOne(ctx, bson.M{"id": id}).Decode(p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("post/repo: failed getting post: %w", err)
	}
	return p, nil
}

func (r *Repo) GetAll(ctx context.Context) ([]*Post, error) {
	return r.find(ctx, bson.M{})
}

// GetPending lists posts waiting for moderation.
func (r *Repo) GetPending(ctx context.Context) ([]*Post, error) {
	return r.find(ctx, bson.M{"approved": false})
}

func (r *Repo) find(ctx context.Context, filter interface{}) ([]*Post, error) {
	cursor, err := r.posts.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("post/repo: failed finding posts: %w", err)
	}
	defer cursor.Close(ctx)

	posts := []*Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("post/repo: failed getting posts from cursor: %w", err)
	}
	return posts, nil
}

// Approve moves a pending post to approved. Approving an already
// approved post changes nothing and is not an error.
func (r *Repo) Approve(ctx context.Context, id PostId) (*Post, error) {
	p, err := r.GetById(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Approved {
		return p, nil
	}

	p.Approved = true
	if err := r.update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the post for good, pending or not, together with the
// ledger entries pointing at it. Ids are handed out max+1, so a deleted
// post's id can return on a later Add; a surviving entry would attach
// the old vote to the newcomer.
func (r *Repo) Delete(ctx context.Context, id PostId) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.GetById(ctx, id); err != nil {
		return err
	}
	if _, err := r.posts.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return fmt.Errorf("post/repo: failed deleting post: %w", err)
	}
	if err := r.ledger.Purge(int64(id)); err != nil {
		return fmt.Errorf("post/repo: failed purging reactions of post %d: %w", id, err)
	}
	return nil
}

func (r *Repo) Like(ctx context.Context, actorID int64, id PostId) (*Post, error) {
	return r.react(ctx, actorID, id, reaction.Liked)
}

func (r *Repo) Dislike(ctx context.Context, actorID int64, id PostId) (*Post, error) {
	return r.react(ctx, actorID, id, reaction.Disliked)
}

// react moves both the post counters and the actor's ledger entry in
// one serialized step, so an actor holds at most one net vote per post:
// pressing the same button again takes the vote back, pressing the
// other one switches it.
func (r *Repo) react(ctx context.Context, actorID int64, id PostId, want reaction.State) (*Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.GetById(ctx, id)
	if err != nil {
		return nil, err
	}

	cur, err := r.ledger.Get(actorID, int64(id))
	if err != nil {
		return nil, err
	}

	next := applyReaction(p, cur, want)

	if err := r.ledger.Set(actorID, int64(id), next); err != nil {
		return nil, err
	}
	if err := r.update(ctx, p); err != nil {
		// put the previous ledger entry back, counters were not written
		if lerr := r.ledger.Set(actorID, int64(id), cur); lerr != nil {
			logger.Log(ctx).Errorf("post/repo: failed restoring ledger entry for actor %d post %d: %v",
				actorID, id, lerr)
		}
		return nil, err
	}

	return p, nil
}

// applyReaction adjusts the counters in place and returns the ledger
// state the actor ends up in.
func applyReaction(p *Post, cur, want reaction.State) reaction.State {
	switch cur {
	case want:
		decCounter(p, want)
		return reaction.None
	case want.Opposite():
		decCounter(p, cur)
		incCounter(p, want)
		return want
	default:
		incCounter(p, want)
		return want
	}
}

func incCounter(p *Post, s reaction.State) {
	if s == reaction.Liked {
		p.Likes++
	} else if s == reaction.Disliked {
		p.Dislikes++
	}
}

// Counters never go below zero even if they drifted from the ledger.
func decCounter(p *Post, s reaction.State) {
	if s == reaction.Liked && p.Likes > 0 {
		p.Likes--
	} else if s == reaction.Disliked && p.Dislikes > 0 {
		p.Dislikes--
	}
}

// AddComment appends a comment; comments are immutable once created.
func (r *Repo) AddComment(ctx context.Context, id PostId, commenter *actor.Actor, commentText string) (*Post, error) {
	if strings.TrimSpace(commentText) == "" {
		return nil, ErrEmptyContent
	}

	p, err := r.GetById(ctx, id)
	if err != nil {
		return nil, err
	}

	cmt := new(comment.Comment)
	cmt.Id = comment.CommentId(len(p.Comments) + 1)
	cmt.Author = commenter.Username
	cmt.Created = time.Now()
	cmt.Body = strings.TrimSpace(commentText)

	filter := bson.D{{Key: "id", Value: id}}
	update := bson.D{{Key: "$push", Value: bson.D{{Key: "comments", Value: cmt}}}}
	_, err = r.posts.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("post/repo: failed adding comment: %w", err)
	}

	return r.GetById(ctx, id)
}
