package chrono

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCronRejectsBadSpec(t *testing.T) {
	c := NewCron()
	err := c.Add("every tuesday", func() {})
	require.Error(t, err)
	require.Contains(t, err.Error(), "every tuesday")
}

func TestCronRunsCallbacks(t *testing.T) {
	c := NewCron()
	ran := make(chan struct{}, 1)
	err := c.Add("@every 10ms", func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("callback never ran")
	}
	cancel()
	<-done
}
