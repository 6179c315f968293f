package post

import (
	"context"
	"fmt"
	"strings"
	"testing"

	gomock "github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"noticeboard/pkg/actor"
	"noticeboard/pkg/comment"
	"noticeboard/pkg/reaction"
	"noticeboard/pkg/role"
)

// memLedger is an in-memory stand-in for the Redis ledger.
type memLedger struct {
	m map[string]reaction.State
}

func newMemLedger() *memLedger {
	return &memLedger{m: map[string]reaction.State{}}
}

func (l *memLedger) Get(actorID, postID int64) (reaction.State, error) {
	return l.m[fmt.Sprintf("%d:%d", actorID, postID)], nil
}

func (l *memLedger) Set(actorID, postID int64, s reaction.State) error {
	key := fmt.Sprintf("%d:%d", actorID, postID)
	if s == reaction.None {
		delete(l.m, key)
		return nil
	}
	l.m[key] = s
	return nil
}

func (l *memLedger) Purge(postID int64) error {
	suffix := fmt.Sprintf(":%d", postID)
	for key := range l.m {
		if strings.HasSuffix(key, suffix) {
			delete(l.m, key)
		}
	}
	return nil
}

func TestApplyReaction(t *testing.T) {
	tests := []struct {
		name         string
		likes        int
		dislikes     int
		cur, want    reaction.State
		next         reaction.State
		wantLikes    int
		wantDislikes int
	}{
		{"first like", 0, 0, reaction.None, reaction.Liked, reaction.Liked, 1, 0},
		{"first dislike", 0, 0, reaction.None, reaction.Disliked, reaction.Disliked, 0, 1},
		{"like toggles off", 3, 0, reaction.Liked, reaction.Liked, reaction.None, 2, 0},
		{"dislike toggles off", 0, 1, reaction.Disliked, reaction.Disliked, reaction.None, 0, 0},
		{"dislike to like", 0, 2, reaction.Disliked, reaction.Liked, reaction.Liked, 1, 1},
		{"like to dislike", 1, 0, reaction.Liked, reaction.Disliked, reaction.Disliked, 0, 1},
		{"toggle off floors at zero", 0, 0, reaction.Liked, reaction.Liked, reaction.None, 0, 0},
		{"switch floors at zero", 0, 0, reaction.Disliked, reaction.Liked, reaction.Liked, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Post{Likes: tt.likes, Dislikes: tt.dislikes}
			next := applyReaction(p, tt.cur, tt.want)
			assert.Equal(t, tt.next, next)
			assert.Equal(t, tt.wantLikes, p.Likes)
			assert.Equal(t, tt.wantDislikes, p.Dislikes)
		})
	}
}

func TestAddAutoApproval(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	superadmin := &actor.Actor{Id: 1, Username: "superadmin", DisplayName: "Super Admin", Role: role.SuperAdmin}
	subadmin := &actor.Actor{Id: 2, Username: "computing_admin", DisplayName: "Computing Admin",
		Role: role.SubAdmin, Faculty: "computing"}

	newRepo := func(lastId PostId) *Repo {
		mockColl := NewMockIMongoCollection(ctrl)
		mockSingle := NewMockIMongoSingleResult(ctrl)
		mockInsert := NewMockIMongoInsertOneResult(ctrl)

		if lastId == 0 {
			mockSingle.EXPECT().Decode(gomock.Any()).Return(mongo.ErrNoDocuments)
		} else {
			mockSingle.EXPECT().Decode(gomock.Any()).SetArg(0, Post{Id: lastId}).Return(nil)
		}
		mockColl.EXPECT().FindOne(ctx, gomock.Any(), gomock.Any()).Return(mockSingle)
		mockColl.EXPECT().InsertOne(ctx, gomock.Any()).Return(mockInsert, nil)

		return &Repo{posts: mockColl, ledger: newMemLedger()}
	}

	t.Run("superadmin post goes live at once", func(t *testing.T) {
		repo := newRepo(0)
		p, err := repo.Add(ctx, superadmin, &Post{Title: "Exam schedule", Description: "..."})
		assert.Nil(t, err)
		assert.True(t, p.Approved)
		assert.Equal(t, PostId(1), p.Id)
		assert.Equal(t, "Super Admin", p.Author)
	})

	t.Run("subadmin post starts pending whatever the caller claims", func(t *testing.T) {
		repo := newRepo(41)
		in := &Post{Title: "Exam schedule", Description: "...", Approved: true, Faculty: "law"}
		p, err := repo.Add(ctx, subadmin, in)
		assert.Nil(t, err)
		assert.False(t, p.Approved)
		assert.Equal(t, "computing", p.Faculty)
		assert.Equal(t, PostId(42), p.Id)
	})

	t.Run("blank title is rejected", func(t *testing.T) {
		repo := &Repo{posts: NewMockIMongoCollection(ctrl), ledger: newMemLedger()}
		_, err := repo.Add(ctx, subadmin, &Post{Title: "  ", Description: "..."})
		assert.ErrorIs(t, err, ErrEmptyContent)
	})
}

func TestReactToggleAndSwitch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	ledger := newMemLedger()

	mockColl := NewMockIMongoCollection(ctrl)
	mockUpdate := NewMockIMongoUpdateResult(ctrl)
	repo := &Repo{posts: mockColl, ledger: ledger}

	expectGet := func(p Post) {
		single := NewMockIMongoSingleResult(ctrl)
		single.EXPECT().Decode(gomock.Any()).SetArg(0, p).Return(nil)
		mockColl.EXPECT().FindOne(ctx, gomock.Any()).Return(single)
	}

	t.Run("like twice nets to zero", func(t *testing.T) {
		expectGet(Post{Id: 7})
		mockColl.EXPECT().UpdateOne(ctx, gomock.Any(), gomock.Any()).Return(mockUpdate, nil)
		p, err := repo.Like(ctx, 4, 7)
		assert.Nil(t, err)
		assert.Equal(t, 1, p.Likes)

		state, _ := ledger.Get(4, 7)
		assert.Equal(t, reaction.Liked, state)

		expectGet(Post{Id: 7, Likes: 1})
		mockColl.EXPECT().UpdateOne(ctx, gomock.Any(), gomock.Any()).Return(mockUpdate, nil)
		p, err = repo.Like(ctx, 4, 7)
		assert.Nil(t, err)
		assert.Equal(t, 0, p.Likes)

		state, _ = ledger.Get(4, 7)
		assert.Equal(t, reaction.None, state)
	})

	t.Run("dislike then like switches the vote", func(t *testing.T) {
		expectGet(Post{Id: 8})
		mockColl.EXPECT().UpdateOne(ctx, gomock.Any(), gomock.Any()).Return(mockUpdate, nil)
		p, err := repo.Dislike(ctx, 4, 8)
		assert.Nil(t, err)
		assert.Equal(t, 1, p.Dislikes)

		expectGet(Post{Id: 8, Dislikes: 1})
		mockColl.EXPECT().UpdateOne(ctx, gomock.Any(), gomock.Any()).Return(mockUpdate, nil)
		p, err = repo.Like(ctx, 4, 8)
		assert.Nil(t, err)
		assert.Equal(t, 1, p.Likes)
		assert.Equal(t, 0, p.Dislikes)

		state, _ := ledger.Get(4, 8)
		assert.Equal(t, reaction.Liked, state)
	})

	t.Run("reacting to a missing post changes nothing", func(t *testing.T) {
		single := NewMockIMongoSingleResult(ctrl)
		single.EXPECT().Decode(gomock.Any()).Return(mongo.ErrNoDocuments)
		mockColl.EXPECT().FindOne(ctx, gomock.Any()).Return(single)

		_, err := repo.Like(ctx, 4, 999)
		assert.ErrorIs(t, err, ErrNotFound)

		state, _ := ledger.Get(4, 999)
		assert.Equal(t, reaction.None, state)
	})
}

// A deleted post's id can be handed out again; the vote an actor cast
// on the dead post must not follow the id to the new one.
func TestDeleteThenRecreateStartsVotesFresh(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	ledger := newMemLedger()
	superadmin := &actor.Actor{Id: 1, Username: "superadmin", DisplayName: "Super Admin", Role: role.SuperAdmin}

	mockColl := NewMockIMongoCollection(ctrl)
	mockUpdate := NewMockIMongoUpdateResult(ctrl)
	repo := &Repo{posts: mockColl, ledger: ledger}

	expectGet := func(p Post) {
		single := NewMockIMongoSingleResult(ctrl)
		single.EXPECT().Decode(gomock.Any()).SetArg(0, p).Return(nil)
		mockColl.EXPECT().FindOne(ctx, gomock.Any()).Return(single)
	}

	// a vote lands on post 42
	expectGet(Post{Id: 42})
	mockColl.EXPECT().UpdateOne(ctx, gomock.Any(), gomock.Any()).Return(mockUpdate, nil)
	p, err := repo.Like(ctx, 4, 42)
	assert.Nil(t, err)
	assert.Equal(t, 1, p.Likes)

	// the post goes away together with its ledger entries
	expectGet(Post{Id: 42, Likes: 1})
	mockColl.EXPECT().DeleteOne(ctx, gomock.Any()).Return(NewMockIMongoDeleteResult(ctrl), nil)
	assert.Nil(t, repo.Delete(ctx, 42))

	// the freed id goes to the next post
	single := NewMockIMongoSingleResult(ctrl)
	single.EXPECT().Decode(gomock.Any()).SetArg(0, Post{Id: 41}).Return(nil)
	mockColl.EXPECT().FindOne(ctx, gomock.Any(), gomock.Any()).Return(single)
	mockColl.EXPECT().InsertOne(ctx, gomock.Any()).Return(NewMockIMongoInsertOneResult(ctrl), nil)
	created, err := repo.Add(ctx, superadmin, &Post{Title: "Exam schedule, corrected", Description: "..."})
	assert.Nil(t, err)
	assert.Equal(t, PostId(42), created.Id)

	// the same actor's like on the newcomer is a first vote, not a toggle-off
	expectGet(Post{Id: 42})
	mockColl.EXPECT().UpdateOne(ctx, gomock.Any(), gomock.Any()).Return(mockUpdate, nil)
	p, err = repo.Like(ctx, 4, 42)
	assert.Nil(t, err)
	assert.Equal(t, 1, p.Likes)

	state, _ := ledger.Get(4, 42)
	assert.Equal(t, reaction.Liked, state)
}

func TestApprove(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	mockColl := NewMockIMongoCollection(ctrl)
	mockUpdate := NewMockIMongoUpdateResult(ctrl)
	repo := &Repo{posts: mockColl, ledger: newMemLedger()}

	t.Run("pending becomes approved", func(t *testing.T) {
		single := NewMockIMongoSingleResult(ctrl)
		single.EXPECT().Decode(gomock.Any()).SetArg(0, Post{Id: 3}).Return(nil)
		mockColl.EXPECT().FindOne(ctx, gomock.Any()).Return(single)
		mockColl.EXPECT().UpdateOne(ctx, gomock.Any(), gomock.Any()).Return(mockUpdate, nil)

		p, err := repo.Approve(ctx, 3)
		assert.Nil(t, err)
		assert.True(t, p.Approved)
	})

	t.Run("approving twice is a no-op", func(t *testing.T) {
		single := NewMockIMongoSingleResult(ctrl)
		single.EXPECT().Decode(gomock.Any()).SetArg(0, Post{Id: 3, Approved: true}).Return(nil)
		mockColl.EXPECT().FindOne(ctx, gomock.Any()).Return(single)
		// no UpdateOne expected

		p, err := repo.Approve(ctx, 3)
		assert.Nil(t, err)
		assert.True(t, p.Approved)
	})

	t.Run("missing post", func(t *testing.T) {
		single := NewMockIMongoSingleResult(ctrl)
		single.EXPECT().Decode(gomock.Any()).Return(mongo.ErrNoDocuments)
		mockColl.EXPECT().FindOne(ctx, gomock.Any()).Return(single)

		_, err := repo.Approve(ctx, 404)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAddComment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	commenter := &actor.Actor{Id: 4, Username: "student1", Role: role.User}

	t.Run("blank comment is rejected before any write", func(t *testing.T) {
		repo := &Repo{posts: NewMockIMongoCollection(ctrl), ledger: newMemLedger()}
		_, err := repo.AddComment(ctx, 1, commenter, "   ")
		assert.ErrorIs(t, err, ErrEmptyContent)
	})

	t.Run("comment ids grow per post", func(t *testing.T) {
		mockColl := NewMockIMongoCollection(ctrl)
		mockUpdate := NewMockIMongoUpdateResult(ctrl)
		repo := &Repo{posts: mockColl, ledger: newMemLedger()}

		existing := []*comment.Comment{{Id: 1}, {Id: 2}}
		single := NewMockIMongoSingleResult(ctrl)
		single.EXPECT().Decode(gomock.Any()).SetArg(0, Post{Id: 1, Comments: existing}).Return(nil)
		mockColl.EXPECT().FindOne(ctx, gomock.Any()).Return(single)

		var pushed *comment.Comment
		mockColl.EXPECT().UpdateOne(ctx, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _, update interface{}, _ ...*options.UpdateOptions) (IMongoUpdateResult, error) {
				push := update.(bson.D)[0].Value.(bson.D)
				pushed = push[0].Value.(*comment.Comment)
				return mockUpdate, nil
			})

		after := NewMockIMongoSingleResult(ctrl)
		after.EXPECT().Decode(gomock.Any()).SetArg(0, Post{Id: 1}).Return(nil)
		mockColl.EXPECT().FindOne(ctx, gomock.Any()).Return(after)

		_, err := repo.AddComment(ctx, 1, commenter, "  hello  ")
		assert.Nil(t, err)
		assert.Equal(t, comment.CommentId(3), pushed.Id)
		assert.Equal(t, "hello", pushed.Body)
		assert.Equal(t, "student1", pushed.Author)
	})
}

func TestDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	mockColl := NewMockIMongoCollection(ctrl)
	repo := &Repo{posts: mockColl, ledger: newMemLedger()}

	t.Run("missing post", func(t *testing.T) {
		single := NewMockIMongoSingleResult(ctrl)
		single.EXPECT().Decode(gomock.Any()).Return(mongo.ErrNoDocuments)
		mockColl.EXPECT().FindOne(ctx, gomock.Any()).Return(single)

		err := repo.Delete(ctx, 404)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("pending post can be deleted", func(t *testing.T) {
		single := NewMockIMongoSingleResult(ctrl)
		single.EXPECT().Decode(gomock.Any()).SetArg(0, Post{Id: 5}).Return(nil)
		mockColl.EXPECT().FindOne(ctx, gomock.Any()).Return(single)
		mockColl.EXPECT().DeleteOne(ctx, gomock.Any()).Return(NewMockIMongoDeleteResult(ctrl), nil)

		err := repo.Delete(ctx, 5)
		assert.Nil(t, err)
	})
}
