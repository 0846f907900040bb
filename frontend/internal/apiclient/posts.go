package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tastelink/tastelink/shared/domain"
	internal_errors "github.com/tastelink/tastelink/shared/errors"
)

func postPath(id string) string {
	return "/posts/" + url.PathEscape(id)
}

// ListPosts fetches the whole collection. The hosted store answers 404 for an
// empty resource, so that counts as no posts.
func (c *APIClient) ListPosts(ctx context.Context) ([]domain.Post, error) {
	resp, err := c.do(ctx, http.MethodGet, "/posts", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return []domain.Post{}, nil
	}
	if !isSuccess(resp.StatusCode) {
		return nil, statusError(resp, "listing posts")
	}

	var records []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("cannot decode posts response: %w", err)
	}
	posts := make([]domain.Post, 0, len(records))
	for _, raw := range records {
		p, err := domain.NormalizePost(raw)
		if err != nil {
			c.log.Warn("skipping malformed post record", "error", err)
			continue
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func (c *APIClient) GetPost(ctx context.Context, id string) (domain.Post, error) {
	resp, err := c.do(ctx, http.MethodGet, postPath(id), nil)
	if err != nil {
		return domain.Post{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.Post{}, internal_errors.ErrPostNotFound
	}
	if !isSuccess(resp.StatusCode) {
		return domain.Post{}, statusError(resp, "loading post")
	}
	return decodePost(resp)
}

// CreatePost stores p without an id and returns the record with the id the store assigned.
func (c *APIClient) CreatePost(ctx context.Context, p domain.Post) (domain.Post, error) {
	resp, err := c.do(ctx, http.MethodPost, "/posts", p.Document())
	if err != nil {
		return domain.Post{}, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return domain.Post{}, statusError(resp, "creating post")
	}
	return decodePost(resp)
}

// ReplacePost writes the full document, unknown fields included.
func (c *APIClient) ReplacePost(ctx context.Context, p domain.Post) (domain.Post, error) {
	resp, err := c.do(ctx, http.MethodPut, postPath(p.Id), p.Document())
	if err != nil {
		return domain.Post{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.Post{}, internal_errors.ErrPostNotFound
	}
	if !isSuccess(resp.StatusCode) {
		return domain.Post{}, statusError(resp, "saving post")
	}
	return decodePost(resp)
}

// PatchPost merges only the given fields.
func (c *APIClient) PatchPost(ctx context.Context, id string, fields map[string]any) (domain.Post, error) {
	resp, err := c.do(ctx, http.MethodPatch, postPath(id), fields)
	if err != nil {
		return domain.Post{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.Post{}, internal_errors.ErrPostNotFound
	}
	if !isSuccess(resp.StatusCode) {
		return domain.Post{}, statusError(resp, "updating post")
	}
	return decodePost(resp)
}

func (c *APIClient) DeletePost(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, postPath(id), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return internal_errors.ErrPostNotFound
	}
	if !isSuccess(resp.StatusCode) {
		return statusError(resp, "deleting post")
	}
	return nil
}

func decodePost(resp *http.Response) (domain.Post, error) {
	var p domain.Post
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return domain.Post{}, fmt.Errorf("cannot decode post response: %w", err)
	}
	return p, nil
}
