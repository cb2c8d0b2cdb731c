//go:build e2e_test || all_tests

package test

import (
	"context"
	"io"
	"net/http"

	"github.com/2beens/gymvariations/internal/middleware"

	"github.com/stretchr/testify/require"
)

// newSession issues a session for owner the way the operator tool does.
func (s *IntegrationTestSuite) newSession(ctx context.Context, owner string) string {
	token, err := s.authService.NewSession(ctx, owner)
	require.NoError(s.T(), err)
	require.NotEmpty(s.T(), token)
	return token
}

func (s *IntegrationTestSuite) do(
	ctx context.Context,
	method, path, token string,
	body io.Reader,
) (*http.Response, []byte) {
	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, body)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(middleware.AuthTokenHeader, token)
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	return resp, respBytes
}
