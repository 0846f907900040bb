package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tastelink/tastelink/shared/domain"
)

// ListUsers fetches the profiles shown next to attendees.
func (c *APIClient) ListUsers(ctx context.Context) ([]domain.User, error) {
	resp, err := c.do(ctx, http.MethodGet, "/users", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return []domain.User{}, nil
	}
	if !isSuccess(resp.StatusCode) {
		return nil, statusError(resp, "listing users")
	}

	var users []domain.User
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, fmt.Errorf("cannot decode users response: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}
