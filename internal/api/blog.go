// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// blog.go - Blog content endpoints for the Agentify backend.
//
// The backend serves agent-authored blog posts with search, filtering,
// pagination, and aggregate stats under /api/blog. All methods here are
// thin pass-throughs over the client's request plumbing; error
// classification and the no-retry policy come from client.go.
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// =============================================================================
// TYPES
// =============================================================================

// BlogPost is one post as served by the backend.
type BlogPost struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Excerpt     string   `json:"excerpt,omitempty"`
	Content     string   `json:"content,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	AgentType   string   `json:"agent_type,omitempty"`
	Published   bool     `json:"published"`
	Featured    bool     `json:"featured"`
	ViewCount   int      `json:"view_count,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
	PublishedAt string   `json:"published_at,omitempty"`
}

// BlogPostInput is the body for creating or updating a post.
type BlogPostInput struct {
	Title     string   `json:"title"`
	Excerpt   string   `json:"excerpt,omitempty"`
	Content   string   `json:"content"`
	Category  string   `json:"category,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	AgentType string   `json:"agent_type,omitempty"`
	Published bool     `json:"published"`
	Featured  bool     `json:"featured"`
}

// BlogPage is one page of a post listing.
type BlogPage struct {
	Posts      []BlogPost `json:"posts"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// BlogStats is the backend's aggregate blog statistics.
type BlogStats struct {
	TotalPosts      int            `json:"total_posts"`
	PublishedPosts  int            `json:"published_posts"`
	TotalViews      int            `json:"total_views"`
	PostsByCategory map[string]int `json:"posts_by_category,omitempty"`
}

// ListPostsOptions are the query parameters for post listings. Zero values
// are omitted from the query string.
type ListPostsOptions struct {
	Query     string   // q: full-text search
	Category  string   // category
	Tags      []string // tags: comma-joined
	AgentType string   // agentType
	Published *bool    // published
	Featured  *bool    // featured
	Page      int      // page (1-based)
	PageSize  int      // pageSize
	SortBy    string   // sortBy: created_at, view_count, title
	SortOrder string   // sortOrder: asc, desc
}

// encode renders the options as a URL query string, or "" when empty.
func (o ListPostsOptions) encode() string {
	q := url.Values{}
	if o.Query != "" {
		q.Set("q", o.Query)
	}
	if o.Category != "" {
		q.Set("category", o.Category)
	}
	if len(o.Tags) > 0 {
		q.Set("tags", strings.Join(o.Tags, ","))
	}
	if o.AgentType != "" {
		q.Set("agentType", o.AgentType)
	}
	if o.Published != nil {
		q.Set("published", strconv.FormatBool(*o.Published))
	}
	if o.Featured != nil {
		q.Set("featured", strconv.FormatBool(*o.Featured))
	}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(o.PageSize))
	}
	if o.SortBy != "" {
		q.Set("sortBy", o.SortBy)
	}
	if o.SortOrder != "" {
		q.Set("sortOrder", o.SortOrder)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// =============================================================================
// ENDPOINTS
// =============================================================================

// ListPosts fetches one page of blog posts matching the options.
func (c *Client) ListPosts(ctx context.Context, opts ListPostsOptions) (*BlogPage, error) {
	var page BlogPage
	if err := c.request(ctx, http.MethodGet, "/api/blog"+opts.encode(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetPost fetches a single post by slug.
func (c *Client) GetPost(ctx context.Context, slug string) (*BlogPost, error) {
	var post BlogPost
	path := fmt.Sprintf("/api/blog/%s", url.PathEscape(slug))
	if err := c.request(ctx, http.MethodGet, path, nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePost publishes a new post.
func (c *Client) CreatePost(ctx context.Context, input BlogPostInput) (*BlogPost, error) {
	var post BlogPost
	if err := c.request(ctx, http.MethodPost, "/api/blog", input, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost replaces an existing post's content.
func (c *Client) UpdatePost(ctx context.Context, slug string, input BlogPostInput) (*BlogPost, error) {
	var post BlogPost
	path := fmt.Sprintf("/api/blog/%s", url.PathEscape(slug))
	if err := c.request(ctx, http.MethodPut, path, input, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes a post.
func (c *Client) DeletePost(ctx context.Context, slug string) error {
	path := fmt.Sprintf("/api/blog/%s", url.PathEscape(slug))
	return c.request(ctx, http.MethodDelete, path, nil, nil)
}

// ListCategories returns the distinct post categories.
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var resp struct {
		Categories []string `json:"categories"`
	}
	if err := c.request(ctx, http.MethodGet, "/api/blog/categories", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// ListTags returns the distinct post tags.
func (c *Client) ListTags(ctx context.Context) ([]string, error) {
	var resp struct {
		Tags []string `json:"tags"`
	}
	if err := c.request(ctx, http.MethodGet, "/api/blog/tags", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tags, nil
}

// Stats returns aggregate blog statistics.
func (c *Client) Stats(ctx context.Context) (*BlogStats, error) {
	var stats BlogStats
	if err := c.request(ctx, http.MethodGet, "/api/blog/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
