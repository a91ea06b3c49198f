package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "valid password", password: "correct horse battery", wantErr: false},
		{name: "minimum length", password: "password", wantErr: false},
		{name: "too short", password: "short1!", wantErr: true},
		{name: "empty", password: "", wantErr: true},
		{name: "too long", password: strings.Repeat("a", 129), wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{name: "valid username", username: "demo_user", wantErr: false},
		{name: "with hyphen", username: "demo-user", wantErr: false},
		{name: "too short", username: "ab", wantErr: true},
		{name: "too long", username: strings.Repeat("a", 31), wantErr: true},
		{name: "invalid characters", username: "user name!", wantErr: true},
		{name: "leading underscore", username: "_user", wantErr: true},
		{name: "trailing hyphen", username: "user-", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "valid email", email: "demo@example.com", wantErr: false},
		{name: "subdomain", email: "a.b@mail.example.co", wantErr: false},
		{name: "missing at", email: "demoexample.com", wantErr: true},
		{name: "missing tld", email: "demo@example", wantErr: true},
		{name: "empty", email: "", wantErr: true},
		{name: "too long", email: strings.Repeat("a", 250) + "@x.com", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
