package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name      string
		body      []byte
		wantErr   bool
		errString string
		check     func(t *testing.T, e *Event)
	}{
		{
			name: "job published event",
			body: mustEncode(t, &Event{
				Kind:            KindJobPublished,
				RecipientUserID: "5f0c2fbe-4c0e-4f6b-9e55-0d2b5a4f1a11",
				JobID:           "a3a0f7f2-76a9-4f0e-8a35-7a3f8d1c2b4e",
				JobTitle:        "Backend Engineer",
				OccurredAt:      time.Now(),
			}),
			check: func(t *testing.T, e *Event) {
				assert.Equal(t, KindJobPublished, e.Kind)
				assert.Equal(t, "Backend Engineer", e.JobTitle)
			},
		},
		{
			name: "application status change event",
			body: mustEncode(t, &Event{
				Kind:            KindApplicationUpdated,
				RecipientUserID: "5f0c2fbe-4c0e-4f6b-9e55-0d2b5a4f1a11",
				ApplicationID:   "b2b1e6c1-65b8-4e1d-9f44-6b2e7c0d3a5f",
				Status:          "INTERVIEW",
			}),
			check: func(t *testing.T, e *Event) {
				assert.Equal(t, "INTERVIEW", e.Status)
			},
		},
		{
			name:      "malformed json",
			body:      []byte("{not json"),
			wantErr:   true,
			errString: "failed to decode event",
		},
		{
			name:      "missing kind",
			body:      []byte(`{"recipient_user_id":"u1"}`),
			wantErr:   true,
			errString: "event kind is required",
		},
		{
			name:      "missing recipient",
			body:      []byte(`{"kind":"job.published"}`),
			wantErr:   true,
			errString: "event recipient is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Decode(tt.body)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
				assert.Nil(t, e)
			} else {
				require.NoError(t, err)
				require.NotNil(t, e)
				if tt.check != nil {
					tt.check(t, e)
				}
			}
		})
	}
}

func mustEncode(t *testing.T, e *Event) []byte {
	t.Helper()
	body, err := json.Marshal(e)
	require.NoError(t, err)
	return body
}
