package notifier

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldRequeue(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "retryable error requeues",
			err:  NewRetryableError(fmt.Errorf("connection refused")),
			want: true,
		},
		{
			name: "wrapped retryable error requeues",
			err:  fmt.Errorf("processing: %w", NewRetryableError(fmt.Errorf("timeout"))),
			want: true,
		},
		{
			name: "malformed event does not requeue",
			err:  fmt.Errorf("%w: bad json", ErrMalformedEvent),
			want: false,
		},
		{
			name: "unknown error does not requeue",
			err:  fmt.Errorf("something unexpected"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldRequeue(tt.err))
		})
	}
}
