package feed

import (
	"net/url"
	"sort"
	"strings"

	"noticeboard/pkg/actor"
	"noticeboard/pkg/post"
	"noticeboard/pkg/role"
)

type Kind string

const (
	KindNone      Kind = "none"
	KindCategory  Kind = "category"
	KindFaculty   Kind = "faculty"
	KindLatest    Kind = "latest"
	KindImportant Kind = "important"
	KindMine      Kind = "mine"
	KindSearch    Kind = "search"
)

// Filter selects one kind per query; kinds are mutually exclusive.
type Filter struct {
	Kind  Kind
	Value string
}

const latestLimit = 10

// FromQuery maps URL query params to a filter. The first recognized
// param wins.
func FromQuery(q url.Values) Filter {
	switch {
	case q.Get("search") != "":
		return Filter{Kind: KindSearch, Value: q.Get("search")}
	case q.Get("category") != "":
		return Filter{Kind: KindCategory, Value: q.Get("category")}
	case q.Get("faculty") != "":
		return Filter{Kind: KindFaculty, Value: q.Get("faculty")}
	case q.Has("latest"):
		return Filter{Kind: KindLatest}
	case q.Has("important"):
		return Filter{Kind: KindImportant}
	case q.Has("mine"):
		return Filter{Kind: KindMine}
	}
	return Filter{Kind: KindNone}
}

// Visible is the base rule every filter narrows within: plain users and
// anonymous viewers only ever see approved posts, the superadmin sees
// the whole collection including pending ones.
func Visible(posts []*post.Post, viewer *actor.Actor) []*post.Post {
	if viewer != nil && viewer.Role == role.SuperAdmin {
		return posts
	}

	visible := []*post.Post{}
	for _, p := range posts {
		if p.Approved {
			visible = append(visible, p)
		}
	}
	return visible
}

// Apply derives the viewer's feed from the full collection. It is pure:
// the input slice is never reordered or mutated, insertion order is
// kept except for the latest filter which sorts by date.
func Apply(posts []*post.Post, viewer *actor.Actor, f Filter) []*post.Post {
	base := Visible(posts, viewer)

	switch f.Kind {
	case KindCategory:
		return keep(base, func(p *post.Post) bool { return p.Category == f.Value })

	case KindFaculty:
		return keep(base, func(p *post.Post) bool { return p.Faculty == f.Value })

	case KindImportant:
		return keep(base, func(p *post.Post) bool { return p.Important })

	case KindLatest:
		latest := append([]*post.Post{}, base...)
		sort.SliceStable(latest, func(i, j int) bool {
			return latest[i].Created.After(latest[j].Created)
		})
		if len(latest) > latestLimit {
			latest = latest[:latestLimit]
		}
		return latest

	case KindMine:
		if viewer == nil {
			return []*post.Post{}
		}
		src := base
		// Authors with moderation scope see their own pending posts
		// on the dashboard even though general listings hide them.
		if role.Allowed(viewer.Role, role.SuperAdmin, role.SubAdmin) {
			src = posts
		}
		return keep(src, func(p *post.Post) bool {
			return p.Author == viewer.PublicName() || p.Author == viewer.Username
		})

	case KindSearch:
		needle := strings.ToLower(f.Value)
		return keep(base, func(p *post.Post) bool {
			return contains(needle, p.Title, p.Description, p.Author, p.Category, p.Faculty)
		})
	}

	return base
}

func keep(posts []*post.Post, pred func(*post.Post) bool) []*post.Post {
	kept := []*post.Post{}
	for _, p := range posts {
		if pred(p) {
			kept = append(kept, p)
		}
	}
	return kept
}

func contains(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
