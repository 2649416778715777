package marketplace

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github.com/linemk/agri-market/internal/domain/models"
)

var ErrEmptyToken = errors.New("upstream: empty token in auth response")

// ObtainToken - POST /api-token-auth/. Контекст не должен содержать токен.
func (c *Client) ObtainToken(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}

	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, tokenAuthPath, nil, body, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", ErrEmptyToken
	}
	return resp.Token, nil
}

// Me - профиль владельца токена.
func (c *Client) Me(ctx context.Context) (*models.UserProfile, error) {
	var u models.UserProfile
	if err := c.do(ctx, http.MethodGet, usersPrefix+"/me/", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUser - профиль по id. Не-администраторам upstream отвечает 403
// на чужие профили.
func (c *Client) GetUser(ctx context.Context, id int64) (*models.UserProfile, error) {
	var u models.UserProfile
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/%d/", usersPrefix, id), nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
