package auth_test

import (
	"net/http"
	"testing"

	"github.com/glorpus-work/relfetch/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerAuth(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		expect string
	}{
		{
			name:   "classic token",
			token:  "ghp_abc123",
			expect: "Bearer ghp_abc123",
		},
		{
			name:   "fine grained token",
			token:  "github_pat_11AAA",
			expect: "Bearer github_pat_11AAA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", "https://api.github.com/repos/acme/tool/releases/latest", nil)
			bearerAuth := auth.BearerAuth{
				Token: tt.token,
			}

			err := bearerAuth.Apply(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, req.Header.Get("Authorization"))
			assert.Equal(t, auth.BearerAuthType, bearerAuth.Type())
		})
	}
}

func TestForToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  auth.Authenticator
	}{
		{name: "empty", token: "", want: nil},
		{name: "whitespace only", token: "  \n", want: nil},
		{name: "trimmed", token: " abc\n", want: auth.BearerAuth{Token: "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, auth.ForToken(tt.token))
		})
	}
}
