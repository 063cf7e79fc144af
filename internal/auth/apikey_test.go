package auth_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vyrodovalexey/catalog-gateway/internal/auth"
)

func TestNewAPIKeyAuthenticator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  string
		wantErr bool
	}{
		{
			name:    "valid single key config",
			config:  "secret-key-123:service-a",
			wantErr: false,
		},
		{
			name:    "empty config returns error",
			config:  "",
			wantErr: true,
		},
		{
			name:    "whitespace-only config returns error",
			config:  "   ",
			wantErr: true,
		},
		{
			name:    "invalid format no colon returns error",
			config:  "keywithoutnamepart",
			wantErr: true,
		},
		{
			name:    "multiple keys all parsed",
			config:  "key1:name1,key2:name2,key3:name3",
			wantErr: false,
		},
		{
			name:    "empty key returns error",
			config:  ":somename",
			wantErr: true,
		},
		{
			name:    "empty name returns error",
			config:  "somekey:",
			wantErr: true,
		},
		{
			name:    "config with trailing comma",
			config:  "key1:name1,",
			wantErr: false,
		},
		{
			name:    "config with spaces around entries",
			config:  " key1:name1 , key2:name2 ",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Act
			authenticator, err := auth.NewAPIKeyAuthenticator(tt.config)

			// Assert
			if tt.wantErr {
				if err == nil {
					t.Error("NewAPIKeyAuthenticator() error = nil, want error")
				}
				if authenticator != nil {
					t.Error("NewAPIKeyAuthenticator() returned non-nil on error")
				}
			} else {
				if err != nil {
					t.Errorf("NewAPIKeyAuthenticator() error = %v, want nil", err)
				}
				if authenticator == nil {
					t.Error("NewAPIKeyAuthenticator() returned nil, want non-nil")
				}
			}
		})
	}
}

func TestAPIKeyAuthenticator_Authenticate(t *testing.T) {
	t.Parallel()

	authenticator, err := auth.NewAPIKeyAuthenticator(
		"valid-key-123:service-alpha,another-key:service-beta",
	)
	if err != nil {
		t.Fatalf("NewAPIKeyAuthenticator() error = %v", err)
	}

	tests := []struct {
		name        string
		apiKey      string
		wantSubject string
		wantErrIs   error
	}{
		{
			name:      "no X-API-Key header returns ErrUnauthenticated",
			apiKey:    "",
			wantErrIs: auth.ErrUnauthenticated,
		},
		{
			name:      "unknown key returns ErrInvalidAPIKey",
			apiKey:    "wrong-key",
			wantErrIs: auth.ErrInvalidAPIKey,
		},
		{
			name:      "key comparison is case-sensitive",
			apiKey:    "VALID-KEY-123",
			wantErrIs: auth.ErrInvalidAPIKey,
		},
		{
			name:        "first configured key matches",
			apiKey:      "valid-key-123",
			wantSubject: "service-alpha",
		},
		{
			name:        "second configured key matches",
			apiKey:      "another-key",
			wantSubject: "service-beta",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Arrange
			req := httptest.NewRequest(http.MethodPost, "/api/items", nil)
			if tt.apiKey != "" {
				req.Header.Set(auth.APIKeyHeader, tt.apiKey)
			}

			// Act
			info, err := authenticator.Authenticate(req)

			// Assert
			if tt.wantErrIs != nil {
				if !errors.Is(err, tt.wantErrIs) {
					t.Errorf("Authenticate() error = %v, want %v", err, tt.wantErrIs)
				}
				if info != nil {
					t.Error("Authenticate() returned non-nil info on error")
				}
				return
			}

			if err != nil {
				t.Fatalf("Authenticate() unexpected error: %v", err)
			}
			if info.Subject != tt.wantSubject {
				t.Errorf("Authenticate() subject = %q, want %q", info.Subject, tt.wantSubject)
			}
		})
	}
}
