package fakegateway

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/google/uuid"
)

type likeKey struct {
	target uuid.UUID
	user   uuid.UUID
}

type Gateway struct {
	mu sync.Mutex

	users        map[uuid.UUID]*models.User
	sessions     map[uuid.UUID]*models.AuthSession
	usage        map[string]*models.UsageLimit
	posts        map[uuid.UUID]*models.ForumPost
	postLikes    map[likeKey]struct{}
	comments     map[uuid.UUID]*models.ForumComment
	commentLikes map[likeKey]struct{}
	actions      []models.UserAction
	logins       map[uuid.UUID]map[string]struct{}
	achievements []models.Achievement
	titles       []models.Title
	userAchv     map[uuid.UUID][]models.UserAchievement
	userTitles   map[uuid.UUID][]models.UserTitle
	reminders    map[uuid.UUID]*models.Reminder
	uploads      map[string][]byte
	reports      map[uuid.UUID]*models.Report

	failures   map[string]error
	intercepts map[string]func()
	calls      map[string]int

	Now func() time.Time
}

func New() *Gateway {
	return &Gateway{
		users:        make(map[uuid.UUID]*models.User),
		sessions:     make(map[uuid.UUID]*models.AuthSession),
		usage:        make(map[string]*models.UsageLimit),
		posts:        make(map[uuid.UUID]*models.ForumPost),
		postLikes:    make(map[likeKey]struct{}),
		comments:     make(map[uuid.UUID]*models.ForumComment),
		commentLikes: make(map[likeKey]struct{}),
		logins:       make(map[uuid.UUID]map[string]struct{}),
		userAchv:     make(map[uuid.UUID][]models.UserAchievement),
		userTitles:   make(map[uuid.UUID][]models.UserTitle),
		reminders:    make(map[uuid.UUID]*models.Reminder),
		uploads:      make(map[string][]byte),
		reports:      make(map[uuid.UUID]*models.Report),
		failures:     make(map[string]error),
		intercepts:   make(map[string]func()),
		calls:        make(map[string]int),
		Now:          time.Now,
	}
}

// Fail makes every later call to method return err. A nil err clears it.
func (g *Gateway) Fail(method string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err == nil {
		delete(g.failures, method)
		return
	}
	g.failures[method] = err
}

// Intercept runs fn at the start of every call to method, before any state
// is touched and without holding the gateway lock.
func (g *Gateway) Intercept(method string, fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.intercepts[method] = fn
}

// Calls reports how many times method was invoked.
func (g *Gateway) Calls(method string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[method]
}

// enter records the call, runs any intercept and returns the injected
// failure. Callers take the lock afterwards.
func (g *Gateway) enter(method string) error {
	g.mu.Lock()
	g.calls[method]++
	hook := g.intercepts[method]
	err := g.failures[method]
	g.mu.Unlock()

	if hook != nil {
		hook()
	}
	return err
}

func notFound(what string) error {
	return fmt.Errorf("%w: %s", apperr.ErrNotFound, what)
}

// ===== Seeding =====

func (g *Gateway) AddUser(u models.User) *models.User {
	g.mu.Lock()
	defer g.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	g.users[u.ID] = &u
	return &u
}

func (g *Gateway) SetTier(userID uuid.UUID, tier int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if u, ok := g.users[userID]; ok {
		u.SubscriptionTierID = tier
	}
}

func (g *Gateway) SetRole(userID uuid.UUID, role string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if u, ok := g.users[userID]; ok {
		u.Role = role
	}
}

func (g *Gateway) AddAchievement(a models.Achievement) models.Achievement {
	g.mu.Lock()
	defer g.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	g.achievements = append(g.achievements, a)
	return a
}

func (g *Gateway) AddTitle(t models.Title) models.Title {
	g.mu.Lock()
	defer g.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	g.titles = append(g.titles, t)
	return t
}

func (g *Gateway) AddPost(p models.ForumPost) models.ForumPost {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = g.Now()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	g.posts[p.ID] = &p
	return p
}

// SetPostLike flips membership directly, as another tab would.
func (g *Gateway) SetPostLike(postID, userID uuid.UUID, liked bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := likeKey{postID, userID}
	if liked {
		g.postLikes[key] = struct{}{}
	} else {
		delete(g.postLikes, key)
	}
}

func (g *Gateway) AddComment(c models.ForumComment) models.ForumComment {
	g.mu.Lock()
	defer g.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = g.Now()
	}
	c.UpdatedAt = c.CreatedAt
	g.comments[c.ID] = &c
	return c
}

func (g *Gateway) AddReminder(r models.Reminder) models.Reminder {
	g.mu.Lock()
	defer g.mu.Unlock()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	g.reminders[r.ID] = &r
	return r
}

// ===== Inspection =====

func (g *Gateway) Usage(userID uuid.UUID, date string) models.UsageLimit {
	g.mu.Lock()
	defer g.mu.Unlock()
	if row, ok := g.usage[usageKey(userID, date)]; ok {
		return *row
	}
	return models.UsageLimit{UserID: userID, Date: date}
}

func (g *Gateway) Actions(userID uuid.UUID, actionType string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, a := range g.actions {
		if a.UserID == userID && a.ActionType == actionType {
			n++
		}
	}
	return n
}

func (g *Gateway) PostLiked(postID, userID uuid.UUID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.postLikes[likeKey{postID, userID}]
	return ok
}

func (g *Gateway) Reminder(id uuid.UUID) (models.Reminder, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.reminders[id]
	if !ok {
		return models.Reminder{}, false
	}
	return *r, true
}

func (g *Gateway) EquippedTitleIDs(userID uuid.UUID) []uuid.UUID {
	g.mu.Lock()
	defer g.mu.Unlock()
	var ids []uuid.UUID
	for _, ut := range g.userTitles[userID] {
		if ut.Equipped {
			ids = append(ids, ut.TitleID)
		}
	}
	return ids
}

func (g *Gateway) Upload(key string) ([]byte, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	b, ok := g.uploads[key]
	return b, ok
}

// ===== Identity =====

func (g *Gateway) CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error) {
	if err := g.enter("CreateUser"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, u := range g.users {
		if u.Email == email {
			return nil, fmt.Errorf("%w: email", apperr.ErrConflict)
		}
	}
	u := &models.User{ID: uuid.New(), Email: email, PasswordHash: passwordHash, Role: models.RoleUser, CreatedAt: g.Now()}
	g.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (g *Gateway) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := g.enter("UserByEmail"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, u := range g.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, notFound("user")
}

func (g *Gateway) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if err := g.enter("UserByID"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	u, ok := g.users[id]
	if !ok {
		return nil, notFound("user")
	}
	cp := *u
	return &cp, nil
}

func (g *Gateway) UpdateProfile(ctx context.Context, userID uuid.UUID, name, occupation *string, avatarURL *string) (*models.User, error) {
	if err := g.enter("UpdateProfile"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	u, ok := g.users[userID]
	if !ok {
		return nil, notFound("user")
	}
	if name != nil {
		u.Name = *name
	}
	if occupation != nil {
		u.Occupation = *occupation
	}
	if avatarURL != nil {
		u.AvatarURL = *avatarURL
	}
	cp := *u
	return &cp, nil
}

func (g *Gateway) OpenSession(ctx context.Context, userID uuid.UUID, expiresAt time.Time) (uuid.UUID, error) {
	if err := g.enter("OpenSession"); err != nil {
		return uuid.Nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	s := &models.AuthSession{ID: uuid.New(), UserID: userID, ExpiresAt: expiresAt, CreatedAt: g.Now()}
	g.sessions[s.ID] = s
	return s.ID, nil
}

func (g *Gateway) RevokeSession(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	if err := g.enter("RevokeSession"); err != nil {
		return false, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.sessions[sessionID]
	if !ok || s.Revoked {
		return false, nil
	}
	s.Revoked = true
	return true, nil
}

func (g *Gateway) SessionActive(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	if err := g.enter("SessionActive"); err != nil {
		return false, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.sessions[sessionID]
	return ok && !s.Revoked && g.Now().Before(s.ExpiresAt), nil
}

// ===== Usage =====

func usageKey(userID uuid.UUID, date string) string {
	return userID.String() + "|" + date
}

func (g *Gateway) UserTier(ctx context.Context, userID uuid.UUID) (int, error) {
	if err := g.enter("UserTier"); err != nil {
		return 0, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	u, ok := g.users[userID]
	if !ok {
		return 0, notFound("user")
	}
	return u.SubscriptionTierID, nil
}

func (g *Gateway) UsageFor(ctx context.Context, userID uuid.UUID, date string) (*models.UsageLimit, error) {
	if err := g.enter("UsageFor"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	row, ok := g.usage[usageKey(userID, date)]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (g *Gateway) IncrementUsage(ctx context.Context, userID uuid.UUID, date, column string) error {
	if err := g.enter("IncrementUsage"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	key := usageKey(userID, date)
	row, ok := g.usage[key]
	if !ok {
		row = &models.UsageLimit{ID: uuid.New(), UserID: userID, Date: date}
		g.usage[key] = row
	}
	switch column {
	case "scans_count":
		row.ScansCount++
	case "chatbot_messages_count":
		row.ChatbotMessagesCount++
	default:
		return fmt.Errorf("%w: unknown usage column %q", apperr.ErrValidation, column)
	}
	return nil
}

// ===== Reminders =====

func (g *Gateway) ListReminders(ctx context.Context, userID uuid.UUID) ([]models.Reminder, error) {
	if err := g.enter("ListReminders"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []models.Reminder
	for _, r := range g.reminders {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledFor.Before(out[j].ScheduledFor) })
	return out, nil
}

func (g *Gateway) CreateReminder(ctx context.Context, r *models.Reminder) error {
	if err := g.enter("CreateReminder"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.CreatedAt = g.Now()
	cp := *r
	g.reminders[r.ID] = &cp
	return nil
}

func (g *Gateway) CompleteReminder(ctx context.Context, userID, id uuid.UUID) error {
	if err := g.enter("CompleteReminder"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.reminders[id]
	if !ok || r.UserID != userID {
		return notFound("reminder")
	}
	r.Completed = true
	return nil
}

// ===== Storage =====

func (g *Gateway) UploadFile(ctx context.Context, folder, name string, data []byte) (string, error) {
	if err := g.enter("UploadFile"); err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	key := folder + "/" + name
	g.uploads[key] = append([]byte(nil), data...)
	return "https://files.test/" + key, nil
}
