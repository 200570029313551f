// Package thread implements the two level restricted reply model:
// a reply always hangs directly off a root comment, and only the post author
// or the root's author may reply inside a thread.
package thread

import (
	"context"
	"errors"
	"sort"
	"time"
)

const (
	DeletedUserName = "Deleted User"

	// maxHops bounds the parent walk so a corrupted cycle cannot spin forever.
	maxHops = 64
)

var (
	ErrRestrictedThread = errors.New("Restricted Thread: Only the Post Author or the Original Commenter can reply here.")
	ErrParentNotFound   = errors.New("parent comment not found")
	ErrParentMismatch   = errors.New("parent comment belongs to another post")
	ErrBrokenThread     = errors.New("comment thread has no reachable root")
)

// Node is the minimal stored shape needed to validate a reply.
type Node struct {
	ID       uint64
	PostID   uint64
	AuthorID uint64
	ParentID uint64
}

// Lookup loads a stored comment by id. It returns (nil, nil) when the comment does not exist.
type Lookup func(ctx context.Context, id uint64) (*Node, error)

// Placement is the validated location of a proposed comment.
type Placement struct {
	// ParentID is what gets stored: 0 for a root, otherwise the thread root id.
	ParentID     uint64
	Root         *Node
	Hops         int
	IsOP         bool
	IsRootAuthor bool
}

// Anomalous reports a parent chain deeper than one hop, which stored data should never contain.
func (p Placement) Anomalous() bool {
	return p.Hops > 1
}

// ResolveRoot walks from parent up to the thread root. hops counts the links followed
// beyond the parent itself, so a well formed reply target yields 0 or 1.
// A dangling link, a cycle or an overlong chain returns the last reached node with ErrBrokenThread.
func ResolveRoot(ctx context.Context, lookup Lookup, parent *Node) (root *Node, hops int, err error) {
	current := parent
	visited := map[uint64]struct{}{current.ID: {}}

	for current.ParentID != 0 && hops < maxHops {
		next, err := lookup(ctx, current.ParentID)
		if err != nil {
			return nil, hops, err
		}
		if next == nil {
			// dangling link: the last reachable node acts as the root
			break
		}
		if _, loop := visited[next.ID]; loop {
			break
		}
		visited[next.ID] = struct{}{}
		current = next
		hops++
	}

	if current.ParentID != 0 {
		return current, max(hops, 2), ErrBrokenThread
	}
	return current, hops, nil
}

// Authorize applies the restricted thread rule against the resolved root.
func Authorize(actorID, postAuthorID uint64, root *Node) (isOP, isRootAuthor bool, err error) {
	isOP = actorID == postAuthorID
	isRootAuthor = actorID == root.AuthorID
	if !isOP && !isRootAuthor {
		return isOP, isRootAuthor, ErrRestrictedThread
	}
	return isOP, isRootAuthor, nil
}

// Place validates a proposed comment on postID by actorID. parentID 0 proposes a root.
func Place(ctx context.Context, lookup Lookup, actorID, postID, postAuthorID, parentID uint64) (*Placement, error) {
	if parentID == 0 {
		return &Placement{IsOP: actorID == postAuthorID}, nil
	}

	parent, err := lookup(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, ErrParentNotFound
	}
	if parent.PostID != postID {
		return nil, ErrParentMismatch
	}

	root, hops, err := ResolveRoot(ctx, lookup, parent)
	if errors.Is(err, ErrBrokenThread) {
		return &Placement{Hops: hops}, err
	}
	if err != nil {
		return nil, err
	}

	placement := &Placement{ParentID: root.ID, Root: root, Hops: hops}
	placement.IsOP, placement.IsRootAuthor, err = Authorize(actorID, postAuthorID, root)
	if err != nil {
		return placement, err
	}
	return placement, nil
}

// Author is the render time view of a comment author.
type Author struct {
	ID          uint64
	Username    string
	AvatarURL   *string
	SoftDeleted bool
}

// Display returns the name and avatar to show, masking soft deleted accounts.
func (a Author) Display() (string, *string) {
	if a.SoftDeleted {
		return DeletedUserName, nil
	}
	return a.Username, a.AvatarURL
}

// Comment is a stored comment joined with its author.
type Comment struct {
	ID        uint64
	PostID    uint64
	ParentID  uint64
	Author    Author
	Text      string
	CreatedAt time.Time
}

// View is a rendered comment. Replies never carry replies of their own.
type View struct {
	ID          uint64    `json:"id"`
	PostID      uint64    `json:"post"`
	AuthorID    uint64    `json:"author_id"`
	Author      string    `json:"author"`
	AuthorImage *string   `json:"author_image"`
	Text        string    `json:"text"`
	ParentID    *uint64   `json:"parent"`
	CreatedAt   time.Time `json:"date_posted"`
}

// RootView is a rendered root comment with its direct replies.
type RootView struct {
	View
	Replies []View `json:"replies"`
}

// Render produces the display form of a single comment.
func Render(c Comment) View {
	name, avatar := c.Author.Display()
	v := View{
		ID:          c.ID,
		PostID:      c.PostID,
		AuthorID:    c.Author.ID,
		Author:      name,
		AuthorImage: avatar,
		Text:        c.Text,
		CreatedAt:   c.CreatedAt,
	}
	if c.ParentID != 0 {
		parent := c.ParentID
		v.ParentID = &parent
	}
	return v
}

// Build renders a flat comment list as roots (newest first) each holding its replies (oldest first).
// Legacy rows nested deeper than one level are lifted under their root; orphans are dropped.
func Build(comments []Comment) []RootView {
	byID := make(map[uint64]*Comment, len(comments))
	for i := range comments {
		byID[comments[i].ID] = &comments[i]
	}

	rootOf := func(c *Comment) (uint64, bool) {
		cur := c
		for i := 0; cur.ParentID != 0 && i < maxHops; i++ {
			next, ok := byID[cur.ParentID]
			if !ok {
				return 0, false
			}
			cur = next
		}
		return cur.ID, cur.ParentID == 0
	}

	roots := make([]Comment, 0)
	replies := make(map[uint64][]Comment)
	for _, c := range comments {
		if c.ParentID == 0 {
			roots = append(roots, c)
			continue
		}
		rootID, ok := rootOf(&c)
		if !ok {
			continue
		}
		c.ParentID = rootID
		replies[rootID] = append(replies[rootID], c)
	}

	sort.SliceStable(roots, func(i, j int) bool {
		if !roots[i].CreatedAt.Equal(roots[j].CreatedAt) {
			return roots[i].CreatedAt.After(roots[j].CreatedAt)
		}
		return roots[i].ID > roots[j].ID
	})

	out := make([]RootView, 0, len(roots))
	for _, r := range roots {
		children := replies[r.ID]
		sort.SliceStable(children, func(i, j int) bool {
			if !children[i].CreatedAt.Equal(children[j].CreatedAt) {
				return children[i].CreatedAt.Before(children[j].CreatedAt)
			}
			return children[i].ID < children[j].ID
		})

		rv := RootView{View: Render(r), Replies: make([]View, 0, len(children))}
		for _, child := range children {
			rv.Replies = append(rv.Replies, Render(child))
		}
		out = append(out, rv)
	}
	return out
}
