package reaction

import (
	"fmt"

	"github.com/gomodule/redigo/redis"
)

// State is what a single actor currently thinks about a single post.
// Exactly one of Liked/Disliked/None holds per (actor, post) pair.
type State string

const (
	Liked    State = "liked"
	Disliked State = "disliked"
	None     State = ""
)

func (s State) Opposite() State {
	switch s {
	case Liked:
		return Disliked
	case Disliked:
		return Liked
	}
	return None
}

// Ledger keeps per-actor reactions in Redis: one hash per actor keyed
// by post id, plus a voter set per post so every entry pointing at a
// post can be dropped when the post is deleted. It survives restarts,
// so counters can always be checked against it.
type Ledger struct {
	redis redis.Conn
}

func NewLedger(conn redis.Conn) *Ledger {
	return &Ledger{redis: conn}
}

func (l *Ledger) Get(actorID, postID int64) (State, error) {
	val, err := redis.String(l.redis.Do("HGET", ledgerKey(actorID), postID))
	if err == redis.ErrNil {
		return None, nil
	}
	if err != nil {
		return None, fmt.Errorf("reaction/ledger: failed HGET from Redis: %w", err)
	}
	return State(val), nil
}

// Set upserts the ledger entry; setting None removes it.
func (l *Ledger) Set(actorID, postID int64, s State) error {
	if s == None {
		if _, err := l.redis.Do("HDEL", ledgerKey(actorID), postID); err != nil {
			return fmt.Errorf("reaction/ledger: failed HDEL from Redis: %w", err)
		}
		if _, err := l.redis.Do("SREM", votersKey(postID), actorID); err != nil {
			return fmt.Errorf("reaction/ledger: failed SREM from Redis: %w", err)
		}
		return nil
	}

	if _, err := l.redis.Do("HSET", ledgerKey(actorID), postID, string(s)); err != nil {
		return fmt.Errorf("reaction/ledger: failed HSET to Redis: %w", err)
	}
	if _, err := l.redis.Do("SADD", votersKey(postID), actorID); err != nil {
		return fmt.Errorf("reaction/ledger: failed SADD to Redis: %w", err)
	}
	return nil
}

// Purge drops every actor's entry for the post. Post ids can be handed
// out again after a deletion, so entries must not outlive their post.
func (l *Ledger) Purge(postID int64) error {
	voters, err := redis.Int64s(l.redis.Do("SMEMBERS", votersKey(postID)))
	if err != nil {
		return fmt.Errorf("reaction/ledger: failed SMEMBERS from Redis: %w", err)
	}
	for _, actorID := range voters {
		if _, err := l.redis.Do("HDEL", ledgerKey(actorID), postID); err != nil {
			return fmt.Errorf("reaction/ledger: failed HDEL from Redis: %w", err)
		}
	}
	if _, err := l.redis.Do("DEL", votersKey(postID)); err != nil {
		return fmt.Errorf("reaction/ledger: failed DEL from Redis: %w", err)
	}
	return nil
}

func ledgerKey(actorID int64) string {
	return fmt.Sprintf("ledger:%d", actorID)
}

func votersKey(postID int64) string {
	return fmt.Sprintf("voters:%d", postID)
}
