package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/avoronin/jotter/internal/client/models"
)

func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}

// ListEntries returns a page of published journal entries.
func (g *Gateway) ListEntries(ctx context.Context, page, limit int) (*models.EntryPage, error) {
	var resp models.EntryPage
	if err := g.doAuthorized(ctx, http.MethodGet, "/journal", pageQuery(page, limit), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListDrafts returns a page of drafts.
func (g *Gateway) ListDrafts(ctx context.Context, page, limit int) (*models.DraftPage, error) {
	var resp models.DraftPage
	if err := g.doAuthorized(ctx, http.MethodGet, "/journal/drafts", pageQuery(page, limit), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetEntry fetches a single entry or draft by id. A missing id surfaces as
// ErrNotFound.
func (g *Gateway) GetEntry(ctx context.Context, id string) (*models.Entry, error) {
	var resp struct {
		Entry models.Entry `json:"entry"`
	}
	if err := g.doAuthorized(ctx, http.MethodGet, "/journal/"+id, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Entry, nil
}

type entryRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CreateEntry publishes a new entry directly.
func (g *Gateway) CreateEntry(ctx context.Context, title, content string) (*models.Entry, error) {
	var resp struct {
		Entry models.Entry `json:"entry"`
	}
	if err := g.doAuthorized(ctx, http.MethodPost, "/journal", nil, entryRequest{Title: title, Content: content}, &resp); err != nil {
		return nil, err
	}
	return &resp.Entry, nil
}

// UpdateEntry rewrites a published entry in place.
func (g *Gateway) UpdateEntry(ctx context.Context, id, title, content string) (*models.Entry, error) {
	var resp struct {
		Entry models.Entry `json:"entry"`
	}
	if err := g.doAuthorized(ctx, http.MethodPut, "/journal/"+id, nil, entryRequest{Title: title, Content: content}, &resp); err != nil {
		return nil, err
	}
	return &resp.Entry, nil
}

type draftRequest struct {
	ID      string `json:"id,omitempty"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// SaveDraft upserts a draft. An empty id creates a new draft and the server
// assigns its identifier; a non-empty id updates the existing one.
func (g *Gateway) SaveDraft(ctx context.Context, id, title, content string) (*models.Entry, error) {
	var resp struct {
		Draft models.Entry `json:"draft"`
	}
	if err := g.doAuthorized(ctx, http.MethodPost, "/journal/drafts", nil, draftRequest{ID: id, Title: title, Content: content}, &resp); err != nil {
		return nil, err
	}
	return &resp.Draft, nil
}

// PublishDraft promotes a draft to a published entry.
func (g *Gateway) PublishDraft(ctx context.Context, id string) (*models.Entry, error) {
	var resp struct {
		Entry models.Entry `json:"entry"`
	}
	if err := g.doAuthorized(ctx, http.MethodPost, "/journal/drafts/"+id+"/publish", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Entry, nil
}

// DeleteEntry removes a published entry.
func (g *Gateway) DeleteEntry(ctx context.Context, id string) error {
	return g.doAuthorized(ctx, http.MethodDelete, "/journal/"+id, nil, nil, nil)
}

// DeleteDraft removes a draft.
func (g *Gateway) DeleteDraft(ctx context.Context, id string) error {
	return g.doAuthorized(ctx, http.MethodDelete, "/journal/drafts/"+id, nil, nil, nil)
}

// Search runs a full-text query over the journal.
func (g *Gateway) Search(ctx context.Context, query string, page, limit int) (*models.SearchPage, error) {
	q := pageQuery(page, limit)
	q.Set("q", query)

	var resp models.SearchPage
	if err := g.doAuthorized(ctx, http.MethodGet, "/journal/search", q, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
