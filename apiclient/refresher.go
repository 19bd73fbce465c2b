package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-jobportal-client/apimodel"
	interrors "github.com/jrsteele09/go-jobportal-client/internal/errors"
	"golang.org/x/oauth2"
)

// RefreshPath exchanges a refresh token for a new pair
const RefreshPath = "/users/refresh-token"

// tokenRefresher performs the refresh network call. It goes straight to send: no bearer
// token, no refresh-on-401.
type tokenRefresher struct {
	client *Client
}

func (r tokenRefresher) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	p, err := newPendingRequest(&Request{
		Method:    http.MethodPost,
		Path:      RefreshPath,
		Body:      apimodel.RefreshTokenRequest{RefreshToken: refreshToken},
		Anonymous: true,
	})
	if err != nil {
		return nil, err
	}

	resp, err := r.client.send(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := resp.asError(); err != nil {
		return nil, fmt.Errorf("%w: %w", interrors.ErrRefreshFailed, err)
	}

	var pair apimodel.RefreshTokenResponse
	if err := resp.Decode(&pair); err != nil {
		return nil, fmt.Errorf("%w: %w", interrors.ErrRefreshFailed, err)
	}

	return &oauth2.Token{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
	}, nil
}
