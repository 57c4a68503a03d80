// Package forum keeps the forum feed for one user: posts with like and
// comment counts, the user's like memberships, and comment threads.
//
// Post likes are applied optimistically. Each post moves through a small
// state machine:
//
//	Synced --toggle--> OptimisticallyMutated --remote agrees--> Synced
//	                                          --remote disagrees or fails--> Reconciling --refetch--> Synced
//
// A reconciliation refetches posts and memberships before the toggle call
// returns; it never tries to invert the optimistic guess.
package forum

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/media"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state/session"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const photoFolder = "forum-photos"

var (
	ErrEmptyTitle        = fmt.Errorf("%w: title is required", apperr.ErrValidation)
	ErrEmptyContent      = fmt.Errorf("%w: content is required", apperr.ErrValidation)
	ErrPostNotFound      = fmt.Errorf("%w: post", apperr.ErrNotFound)
	ErrCommentNotFound   = fmt.Errorf("%w: comment", apperr.ErrNotFound)
	ErrParentOnOtherPost = fmt.Errorf("%w: parent comment belongs to another post", apperr.ErrValidation)
	ErrReplyTooDeep      = fmt.Errorf("%w: replies are limited to %d levels", apperr.ErrValidation, MaxReplyDepth)
	ErrAdminOnly         = fmt.Errorf("%w: administrators only", apperr.ErrForbidden)
)

type Store interface {
	ListPosts(ctx context.Context) ([]models.PostRow, error)
	LikedPostIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	EquippedTitles(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]string, error)
	CreatePost(ctx context.Context, p *models.ForumPost) error
	UpdatePost(ctx context.Context, postID, actorID uuid.UUID, asAdmin bool, title, content string, photoURL *string) error
	DeletePost(ctx context.Context, postID, actorID uuid.UUID, asAdmin bool) error
	SetPinned(ctx context.Context, postID uuid.UUID, pinned bool) error
	TogglePostLike(ctx context.Context, postID, userID uuid.UUID) (bool, error)

	ListComments(ctx context.Context, postID, viewerID uuid.UUID) ([]models.CommentRow, error)
	CommentByID(ctx context.Context, id uuid.UUID) (*models.ForumComment, error)
	CreateComment(ctx context.Context, c *models.ForumComment) error
	UpdateComment(ctx context.Context, id, actorID uuid.UUID, asAdmin bool, content string) error
	DeleteComment(ctx context.Context, id, actorID uuid.UUID, asAdmin bool) error
	ToggleCommentLike(ctx context.Context, commentID, userID uuid.UUID) (*models.CommentLikeResult, error)
}

// Files stores uploaded photos and returns their public URL.
type Files interface {
	UploadFile(ctx context.Context, folder, name string, data []byte) (string, error)
}

// Achiever records gamification actions.
type Achiever interface {
	Record(ctx context.Context, actionType string, targetID *uuid.UUID) error
}

type Sessions interface {
	Await(ctx context.Context) (*session.Session, error)
}

type Phase int

const (
	Synced Phase = iota
	OptimisticallyMutated
	Reconciling
)

func (p Phase) String() string {
	switch p {
	case OptimisticallyMutated:
		return "optimistic"
	case Reconciling:
		return "reconciling"
	}
	return "synced"
}

type Post struct {
	ID           uuid.UUID     `json:"id"`
	Title        string        `json:"title"`
	Content      string        `json:"content"`
	PhotoURL     *string       `json:"photo_url"`
	AuthorID     uuid.UUID     `json:"user_id"`
	Author       models.Author `json:"author"`
	AuthorTitle  string        `json:"author_title,omitempty"`
	Pinned       bool          `json:"is_pinned"`
	LikesCount   int           `json:"likes_count"`
	CommentCount int           `json:"comment_count"`
	Liked        bool          `json:"liked"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type Snapshot struct {
	Posts  []Post `json:"posts"`
	Loaded bool   `json:"-"`
}

func (s Snapshot) find(id uuid.UUID) int {
	for i := range s.Posts {
		if s.Posts[i].ID == id {
			return i
		}
	}
	return -1
}

func (s Snapshot) clone() Snapshot {
	s.Posts = append([]Post(nil), s.Posts...)
	return s
}

type Option func(*State)

// WithReconcileTimeout bounds the refetch that follows a disagreeing or
// failed like toggle.
func WithReconcileTimeout(d time.Duration) Option {
	return func(s *State) { s.reconcileTimeout = d }
}

type State struct {
	store    Store
	files    Files
	achiever Achiever
	sessions Sessions

	reconcileTimeout time.Duration

	snap *state.Observable[Snapshot]
	seq  state.Sequence

	// mu guards phases and inflight, and every read-modify-write of snap.
	mu       sync.Mutex
	phases   map[uuid.UUID]Phase
	inflight map[uuid.UUID]int
}

func New(store Store, files Files, achiever Achiever, sessions Sessions, opts ...Option) *State {
	s := &State{
		store:            store,
		files:            files,
		achiever:         achiever,
		sessions:         sessions,
		reconcileTimeout: 10 * time.Second,
		snap:             state.NewObservable(Snapshot{}),
		phases:           make(map[uuid.UUID]Phase),
		inflight:         make(map[uuid.UUID]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *State) Snapshot() Snapshot {
	return s.snap.Get()
}

func (s *State) Subscribe(fn func(Snapshot)) func() {
	return s.snap.Subscribe(fn)
}

func (s *State) Post(id uuid.UUID) (Post, bool) {
	snap := s.snap.Get()
	if i := snap.find(id); i >= 0 {
		return snap.Posts[i], true
	}
	return Post{}, false
}

// Phase reports where a post's like state stands.
func (s *State) Phase(postID uuid.UUID) Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phases[postID]
}

// Refresh refetches posts and the user's like memberships. Results from a
// fetch that was overtaken by a newer fetch or a local mutation are dropped,
// except for posts waiting on a reconciliation. Posts with a like toggle
// still in flight keep their local like state.
func (s *State) Refresh(ctx context.Context) error {
	_, err := s.refresh(ctx)
	return err
}

// refresh reports whether the whole fetch was applied.
func (s *State) refresh(ctx context.Context) (bool, error) {
	sess, err := s.sessions.Await(ctx)
	if errors.Is(err, apperr.ErrUnauthenticated) {
		s.snap.Set(Snapshot{})
		return true, nil
	}
	if err != nil {
		return false, err
	}

	token := s.seq.Next()

	var (
		rows  []models.PostRow
		liked []uuid.UUID
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.store.ListPosts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		liked, err = s.store.LikedPostIDs(gctx, sess.UserID)
		return err
	})
	if err := g.Wait(); err != nil {
		return false, fmt.Errorf("failed to load forum: %w", err)
	}

	titles := s.authorTitles(ctx, rows)

	likedSet := make(map[uuid.UUID]bool, len(liked))
	for _, id := range liked {
		likedSet[id] = true
	}

	next := Snapshot{Posts: make([]Post, 0, len(rows)), Loaded: true}
	for _, r := range rows {
		next.Posts = append(next.Posts, Post{
			ID:           r.ID,
			Title:        r.Title,
			Content:      r.Content,
			PhotoURL:     r.PhotoURL,
			AuthorID:     r.UserID,
			Author:       r.Author,
			AuthorTitle:  titles[r.UserID],
			Pinned:       r.IsPinned,
			LikesCount:   max(r.LikesCount, 0),
			CommentCount: r.CommentCount,
			Liked:        likedSet[r.ID],
			CreatedAt:    r.CreatedAt,
			UpdatedAt:    r.UpdatedAt,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.seq.IsLatest(token) {
		s.resolveReconciling(next)
		return false, nil
	}
	current := s.snap.Get()
	for i := range next.Posts {
		id := next.Posts[i].ID
		if s.inflight[id] > 0 {
			if j := current.find(id); j >= 0 {
				next.Posts[i].Liked = current.Posts[j].Liked
				next.Posts[i].LikesCount = current.Posts[j].LikesCount
			}
			continue
		}
		delete(s.phases, id)
	}
	s.snap.Set(next)
	return true, nil
}

// resolveReconciling applies an overtaken fetch to the posts that are
// waiting on it: Reconciling with no toggle in flight. The fetch started
// after their toggles finished, so it is authoritative for them. The
// caller holds s.mu.
func (s *State) resolveReconciling(fetched Snapshot) {
	current := s.snap.Get()
	var next Snapshot
	changed := false
	for id, phase := range s.phases {
		if phase != Reconciling || s.inflight[id] > 0 {
			continue
		}
		i := current.find(id)
		if i < 0 {
			delete(s.phases, id)
			continue
		}
		if !changed {
			next = current.clone()
			changed = true
		}
		if j := fetched.find(id); j >= 0 {
			next.Posts[i] = fetched.Posts[j]
		} else {
			next.Posts = append(next.Posts[:i], next.Posts[i+1:]...)
			current = next
		}
		delete(s.phases, id)
	}
	if changed {
		s.snap.Set(next)
	}
}

// authorTitles is best effort; a failure only hides titles.
func (s *State) authorTitles(ctx context.Context, rows []models.PostRow) map[uuid.UUID]string {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, r := range rows {
		if !seen[r.UserID] {
			seen[r.UserID] = true
			ids = append(ids, r.UserID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	titles, err := s.store.EquippedTitles(ctx, ids)
	if err != nil {
		slog.Warn("failed to load author titles", "error", err)
		return nil
	}
	return titles
}

// ToggleLike flips the user's like on a post. The local state changes
// immediately; the remote toggle reports which transition really happened.
// A transition into liked records a post_liked action.
func (s *State) ToggleLike(ctx context.Context, postID uuid.UUID) (Post, error) {
	sess, err := s.sessions.Await(ctx)
	if err != nil {
		return Post{}, err
	}

	s.mu.Lock()
	next := s.snap.Get().clone()
	i := next.find(postID)
	if i < 0 {
		s.mu.Unlock()
		return Post{}, ErrPostNotFound
	}
	p := &next.Posts[i]
	wasLiked := p.Liked
	p.Liked = !wasLiked
	if wasLiked {
		p.LikesCount = max(p.LikesCount-1, 0)
	} else {
		p.LikesCount++
	}
	s.snap.Set(next)
	s.phases[postID] = OptimisticallyMutated
	s.inflight[postID]++
	s.seq.Next()
	s.mu.Unlock()

	inserted, err := s.store.TogglePostLike(ctx, postID, sess.UserID)
	if err != nil {
		slog.Error("like toggle failed", "user_id", sess.UserID, "post_id", postID, "error", err)
		s.reconcile(ctx, postID)
		return s.postOrEmpty(postID), fmt.Errorf("%w: like toggle failed", apperr.ErrRemote)
	}

	if inserted == wasLiked {
		slog.Info("like toggle disagreed with local state",
			"user_id", sess.UserID, "post_id", postID, "expected_liked", !wasLiked, "liked", inserted)
		s.reconcile(ctx, postID)
	} else {
		s.settle(postID)
	}

	if inserted {
		if err := s.achiever.Record(ctx, models.ActionPostLiked, &postID); err != nil {
			slog.Error("failed to record like", "user_id", sess.UserID, "post_id", postID, "error", err)
		}
	}
	return s.postOrEmpty(postID), nil
}

func (s *State) settle(postID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retire(postID)
	if s.inflight[postID] == 0 {
		delete(s.phases, postID)
	}
	s.seq.Next()
}

// reconcile retires the toggle and refetches authoritative state. It runs
// to completion even if the caller's context is cancelled, retrying a
// failed refetch until the reconcile timeout.
func (s *State) reconcile(ctx context.Context, postID uuid.UUID) {
	s.mu.Lock()
	s.retire(postID)
	s.phases[postID] = Reconciling
	s.mu.Unlock()

	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.reconcileTimeout)
	defer cancel()
	backoff := 50 * time.Millisecond
	for {
		_, err := s.refresh(rctx)
		if err == nil {
			return
		}
		select {
		case <-rctx.Done():
			slog.Error("forum reconcile failed", "post_id", postID, "error", err)
			return
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, time.Second)
	}
}

func (s *State) retire(postID uuid.UUID) {
	if s.inflight[postID] > 1 {
		s.inflight[postID]--
		return
	}
	delete(s.inflight, postID)
}

func (s *State) postOrEmpty(id uuid.UUID) Post {
	p, _ := s.Post(id)
	return p
}

// ===== Posts =====

type PostInput struct {
	Title       string
	Content     string
	Photo       *media.Image
	RemovePhoto bool
}

func (in *PostInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if in.Title == "" {
		return ErrEmptyTitle
	}
	if in.Content == "" {
		return ErrEmptyContent
	}
	if in.Photo != nil {
		return in.Photo.Validate()
	}
	return nil
}

func (s *State) uploadPhoto(ctx context.Context, userID uuid.UUID, img *media.Image) (*string, error) {
	name := fmt.Sprintf("%s/%s.%s", userID, uuid.NewString(), media.Extension(img.MimeType))
	url, err := s.files.UploadFile(ctx, photoFolder, name, img.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: photo upload failed: %v", apperr.ErrRemote, err)
	}
	return &url, nil
}

func (s *State) CreatePost(ctx context.Context, in PostInput) (Post, error) {
	sess, err := s.sessions.Await(ctx)
	if err != nil {
		return Post{}, err
	}
	if err := in.normalize(); err != nil {
		return Post{}, err
	}

	row := &models.ForumPost{Title: in.Title, Content: in.Content, UserID: sess.UserID}
	if in.Photo != nil {
		if row.PhotoURL, err = s.uploadPhoto(ctx, sess.UserID, in.Photo); err != nil {
			return Post{}, err
		}
	}
	if err := s.store.CreatePost(ctx, row); err != nil {
		return Post{}, fmt.Errorf("failed to create post: %w", err)
	}

	if err := s.achiever.Record(ctx, models.ActionPostCreated, &row.ID); err != nil {
		slog.Error("failed to record post", "user_id", sess.UserID, "post_id", row.ID, "error", err)
	}
	s.refreshLogged(ctx)

	if p, ok := s.Post(row.ID); ok {
		return p, nil
	}
	return Post{
		ID: row.ID, Title: row.Title, Content: row.Content, PhotoURL: row.PhotoURL,
		AuthorID: row.UserID, CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
	}, nil
}

func (s *State) UpdatePost(ctx context.Context, postID uuid.UUID, in PostInput) (Post, error) {
	sess, err := s.sessions.Await(ctx)
	if err != nil {
		return Post{}, err
	}
	if err := in.normalize(); err != nil {
		return Post{}, err
	}

	current, ok := s.Post(postID)
	if !ok {
		return Post{}, ErrPostNotFound
	}
	photo := current.PhotoURL
	if in.RemovePhoto {
		photo = nil
	}
	if in.Photo != nil {
		if photo, err = s.uploadPhoto(ctx, sess.UserID, in.Photo); err != nil {
			return Post{}, err
		}
	}

	if err := s.store.UpdatePost(ctx, postID, sess.UserID, sess.IsAdmin(), in.Title, in.Content, photo); err != nil {
		return Post{}, err
	}
	s.refreshLogged(ctx)
	return s.postOrEmpty(postID), nil
}

func (s *State) DeletePost(ctx context.Context, postID uuid.UUID) error {
	sess, err := s.sessions.Await(ctx)
	if err != nil {
		return err
	}
	if err := s.store.DeletePost(ctx, postID, sess.UserID, sess.IsAdmin()); err != nil {
		return err
	}
	s.refreshLogged(ctx)
	return nil
}

func (s *State) SetPinned(ctx context.Context, postID uuid.UUID, pinned bool) error {
	sess, err := s.sessions.Await(ctx)
	if err != nil {
		return err
	}
	if !sess.IsAdmin() {
		return ErrAdminOnly
	}
	if err := s.store.SetPinned(ctx, postID, pinned); err != nil {
		return err
	}
	s.refreshLogged(ctx)
	return nil
}

func (s *State) refreshLogged(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		slog.Error("forum refresh failed", "error", err)
	}
}

// ===== Comments =====

func (s *State) Thread(ctx context.Context, postID uuid.UUID) (*Thread, error) {
	sess, err := s.sessions.Await(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ListComments(ctx, postID, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	return BuildThread(postID, rows), nil
}

// CreateComment adds a comment or, with parentID, a reply. The parent must
// be on the same post and shallower than MaxReplyDepth.
func (s *State) CreateComment(ctx context.Context, postID uuid.UUID, content string, parentID *uuid.UUID) (*models.ForumComment, error) {
	sess, err := s.sessions.Await(ctx)
	if err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	if parentID != nil {
		thread, err := s.Thread(ctx, postID)
		if err != nil {
			return nil, err
		}
		if _, ok := thread.Get(*parentID); !ok {
			if _, err := s.store.CommentByID(ctx, *parentID); err != nil {
				if errors.Is(err, apperr.ErrNotFound) {
					return nil, ErrCommentNotFound
				}
				return nil, err
			}
			return nil, ErrParentOnOtherPost
		}
		if !thread.CanReply(*parentID) {
			return nil, ErrReplyTooDeep
		}
	}

	row := &models.ForumComment{Content: content, UserID: sess.UserID, PostID: postID, ParentID: parentID}
	if err := s.store.CreateComment(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if err := s.achiever.Record(ctx, models.ActionCommentCreated, &row.ID); err != nil {
		slog.Error("failed to record comment", "user_id", sess.UserID, "comment_id", row.ID, "error", err)
	}
	s.refreshLogged(ctx)
	return row, nil
}

func (s *State) UpdateComment(ctx context.Context, commentID uuid.UUID, content string) error {
	sess, err := s.sessions.Await(ctx)
	if err != nil {
		return err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyContent
	}
	return s.store.UpdateComment(ctx, commentID, sess.UserID, sess.IsAdmin(), content)
}

func (s *State) DeleteComment(ctx context.Context, commentID uuid.UUID) error {
	sess, err := s.sessions.Await(ctx)
	if err != nil {
		return err
	}
	if err := s.store.DeleteComment(ctx, commentID, sess.UserID, sess.IsAdmin()); err != nil {
		return err
	}
	s.refreshLogged(ctx)
	return nil
}

// ToggleCommentLike flips the user's like on a comment. The remote result
// is taken as-is; there is no optimistic step.
func (s *State) ToggleCommentLike(ctx context.Context, commentID uuid.UUID) (*models.CommentLikeResult, error) {
	sess, err := s.sessions.Await(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.store.ToggleCommentLike(ctx, commentID, sess.UserID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("%w: comment like toggle failed", apperr.ErrRemote)
	}
	if res.LikedByUser {
		if err := s.achiever.Record(ctx, models.ActionCommentLiked, &commentID); err != nil {
			slog.Error("failed to record comment like", "user_id", sess.UserID, "comment_id", commentID, "error", err)
		}
	}
	return res, nil
}
