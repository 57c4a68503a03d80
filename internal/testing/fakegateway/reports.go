package fakegateway

import (
	"context"
	"sort"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/google/uuid"
)

func (g *Gateway) PostByID(ctx context.Context, id uuid.UUID) (*models.ForumPost, error) {
	if err := g.enter("PostByID"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.posts[id]
	if !ok {
		return nil, notFound("forum post")
	}
	cp := *p
	return &cp, nil
}

func (g *Gateway) CreateReport(ctx context.Context, r *models.Report) error {
	if err := g.enter("CreateReport"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = models.ReportPending
	}
	r.CreatedAt = g.Now()
	r.UpdatedAt = r.CreatedAt
	cp := *r
	g.reports[r.ID] = &cp
	return nil
}

func (g *Gateway) Reports(ctx context.Context, status string, limit, offset int) ([]models.Report, int64, error) {
	if err := g.enter("Reports"); err != nil {
		return nil, 0, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	var all []models.Report
	for _, r := range g.reports {
		if status == "" || r.Status == status {
			all = append(all, *r)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	if offset >= len(all) {
		return []models.Report{}, total, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (g *Gateway) ReportByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	if err := g.enter("ReportByID"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.reports[id]
	if !ok {
		return nil, notFound("report")
	}
	cp := *r
	return &cp, nil
}

func (g *Gateway) UpdateReport(ctx context.Context, id uuid.UUID, status, note string) error {
	if err := g.enter("UpdateReport"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.reports[id]
	if !ok {
		return notFound("report")
	}
	r.Status = status
	r.AdminNote = note
	r.UpdatedAt = g.Now()
	return nil
}
