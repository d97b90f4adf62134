package timeouts

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestDefaults(t *testing.T) {
	Reset()
	if Short() != DefaultShort || Medium() != DefaultMedium || Long() != DefaultLong || Ping() != DefaultPing {
		t.Errorf("defaults not applied: %+v", Current())
	}
}

func TestConfigure_IgnoresZero(t *testing.T) {
	t.Cleanup(Reset)
	Configure(Config{Short: 3 * time.Second})

	if Short() != 3*time.Second {
		t.Errorf("Short: got %v, want 3s", Short())
	}
	if Medium() != DefaultMedium {
		t.Errorf("Medium: got %v, want default %v", Medium(), DefaultMedium)
	}
}

func TestWithTimeout_Expires(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Millisecond, zap.NewNop(), "test")
	defer cancel()
	<-ctx.Done()
	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("err: got %v, want DeadlineExceeded", ctx.Err())
	}
}
