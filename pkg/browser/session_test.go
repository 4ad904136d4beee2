package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectTab(t *testing.T) {
	tests := []struct {
		name    string
		urls    []string
		pattern string
		want    int
		wantErr error
	}{
		{
			name:    "first match wins",
			urls:    []string{"https://mail.example.com/", "https://app.gohighlevel.com/v2/location/abc/contacts/detail/1", "https://app.gohighlevel.com/v2/other"},
			pattern: DefaultHostPattern,
			want:    1,
		},
		{
			name:    "no tabs",
			pattern: DefaultHostPattern,
			want:    -1,
			wantErr: ErrNoMatchingTab,
		},
		{
			name:    "lookalike host",
			urls:    []string{"https://app.gohighlevel.com.evil.test/x", "http://app.gohighlevel.com/x"},
			pattern: DefaultHostPattern,
			want:    -1,
			wantErr: ErrNoMatchingTab,
		},
		{
			name:    "custom pattern",
			urls:    []string{"https://crm.example.com/contacts/9"},
			pattern: "https://crm.example.com/contacts/*",
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectTab(tt.urls, tt.pattern)
			assert.Equal(t, tt.want, got)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestAttachOptionsDefaults(t *testing.T) {
	got := AttachOptions{}.withDefaults()
	assert.Equal(t, DefaultEndpoint, got.Endpoint)
	assert.Equal(t, DefaultHostPattern, got.HostPattern)
	assert.Equal(t, DefaultTimeout, got.Timeout)

	custom := AttachOptions{Endpoint: "http://127.0.0.1:9333", Timeout: time.Second}.withDefaults()
	assert.Equal(t, "http://127.0.0.1:9333", custom.Endpoint)
	assert.Equal(t, time.Second, custom.Timeout)
}

func TestAttachRequiresInitialize(t *testing.T) {
	m := NewSessionManager(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	_, err := m.Attach(ctx, AttachOptions{})
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.Nil(t, m.Session())
	assert.NoError(t, m.Shutdown())
}
