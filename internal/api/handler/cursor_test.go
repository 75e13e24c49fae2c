package handler

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/hireloop-be/internal/api/storage"
)

func TestJobCursor_RoundTrip(t *testing.T) {
	original := &storage.JobCursor{
		CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 589793, time.UTC),
		JobID:     "0c6f9f3a-2f4f-4d16-9f6e-6f2a9d1c8b11",
	}

	encoded := EncodeJobCursor(original)
	decoded, err := DecodeJobCursor(encoded)
	require.NoError(t, err)
	require.NotNil(t, decoded)

	assert.True(t, original.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, original.JobID, decoded.JobID)
}

func TestDecodeJobCursor(t *testing.T) {
	tests := []struct {
		name      string
		cursor    string
		wantNil   bool
		wantErr   bool
		errString string
	}{
		{
			name:    "empty cursor means first page",
			cursor:  "",
			wantNil: true,
		},
		{
			name:      "not base64",
			cursor:    "!!!not-base64!!!",
			wantErr:   true,
			errString: "illegal base64 data",
		},
		{
			name:      "missing separator",
			cursor:    base64.StdEncoding.EncodeToString([]byte("1700000000000000000")),
			wantErr:   true,
			errString: "invalid cursor format",
		},
		{
			name:      "non numeric timestamp",
			cursor:    base64.StdEncoding.EncodeToString([]byte("abc|some-id")),
			wantErr:   true,
			errString: "invalid createdAt in cursor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeJobCursor(tt.cursor)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, got)
			}
		})
	}
}
