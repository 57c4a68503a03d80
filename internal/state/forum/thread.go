package forum

import (
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/google/uuid"
)

// MaxReplyDepth caps the reply tree. Top-level comments are depth 1.
const MaxReplyDepth = 3

// Thread is a post's comments arranged as a reply tree. Nodes refer to each
// other by id only, so malformed parent links cannot form cycles in it.
type Thread struct {
	postID   uuid.UUID
	byID     map[uuid.UUID]models.CommentRow
	children map[uuid.UUID][]uuid.UUID
	depth    map[uuid.UUID]int
	roots    []uuid.UUID
}

// BuildThread arranges a flat, creation-ordered fetch into a tree. Comments
// from other posts are dropped; comments whose parent is missing become
// roots; replies below MaxReplyDepth are lifted to the deepest level.
func BuildThread(postID uuid.UUID, rows []models.CommentRow) *Thread {
	t := &Thread{
		postID:   postID,
		byID:     make(map[uuid.UUID]models.CommentRow, len(rows)),
		children: make(map[uuid.UUID][]uuid.UUID),
		depth:    make(map[uuid.UUID]int, len(rows)),
	}

	order := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		if r.PostID != postID {
			continue
		}
		if _, dup := t.byID[r.ID]; dup {
			continue
		}
		t.byID[r.ID] = r
		order = append(order, r.ID)
	}

	declared := make(map[uuid.UUID][]uuid.UUID)
	for _, id := range order {
		r := t.byID[id]
		if r.ParentID == nil {
			t.roots = append(t.roots, id)
			continue
		}
		if _, ok := t.byID[*r.ParentID]; !ok {
			t.roots = append(t.roots, id)
			continue
		}
		declared[*r.ParentID] = append(declared[*r.ParentID], id)
	}

	parent := make(map[uuid.UUID]uuid.UUID)
	visit := func(root uuid.UUID) {
		t.depth[root] = 1
		queue := []uuid.UUID{root}
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			d := t.depth[id]
			for _, child := range declared[id] {
				if _, seen := t.depth[child]; seen {
					continue
				}
				attach := id
				if d >= MaxReplyDepth {
					attach = parent[id]
					t.depth[child] = MaxReplyDepth
				} else {
					t.depth[child] = d + 1
				}
				parent[child] = attach
				t.children[attach] = append(t.children[attach], child)
				queue = append(queue, child)
			}
		}
	}

	for _, id := range t.roots {
		visit(id)
	}
	// Anything still unvisited sits on a parent cycle.
	for _, id := range order {
		if _, seen := t.depth[id]; !seen {
			t.roots = append(t.roots, id)
			visit(id)
		}
	}
	return t
}

func (t *Thread) PostID() uuid.UUID { return t.postID }

func (t *Thread) Len() int { return len(t.byID) }

func (t *Thread) Get(id uuid.UUID) (models.CommentRow, bool) {
	r, ok := t.byID[id]
	return r, ok
}

// Depth is 0 for comments not in the thread.
func (t *Thread) Depth(id uuid.UUID) int {
	return t.depth[id]
}

// CanReply reports whether a reply to id stays within MaxReplyDepth.
func (t *Thread) CanReply(id uuid.UUID) bool {
	d := t.depth[id]
	return d > 0 && d < MaxReplyDepth
}

func (t *Thread) Roots() []models.CommentRow {
	return t.rows(t.roots)
}

func (t *Thread) Children(id uuid.UUID) []models.CommentRow {
	return t.rows(t.children[id])
}

func (t *Thread) rows(ids []uuid.UUID) []models.CommentRow {
	out := make([]models.CommentRow, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.byID[id])
	}
	return out
}

// Node is the nested rendering of a thread.
type Node struct {
	models.CommentRow
	Depth    int     `json:"depth"`
	CanReply bool    `json:"can_reply"`
	Replies  []*Node `json:"replies"`
}

func (t *Thread) Nested() []*Node {
	return t.nest(t.roots)
}

func (t *Thread) nest(ids []uuid.UUID) []*Node {
	nodes := make([]*Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, &Node{
			CommentRow: t.byID[id],
			Depth:      t.depth[id],
			CanReply:   t.CanReply(id),
			Replies:    t.nest(t.children[id]),
		})
	}
	return nodes
}
