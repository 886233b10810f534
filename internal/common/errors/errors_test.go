package errors

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDuplicateFieldCarriesField(t *testing.T) {
	e := DuplicateField("discord")
	require.Equal(t, http.StatusConflict, e.StatusCode)
	require.Equal(t, "discord", e.Field())
	require.Equal(t, "This Discord handle is already registered.", e.Message)
}

func TestRetryAfterRoundsUpToSeconds(t *testing.T) {
	e := Throttled(1500 * time.Millisecond)
	require.Equal(t, int64(2), e.Details[DetailRetryAfter])
	require.Equal(t, 2*time.Second, e.RetryAfter())

	require.Equal(t, time.Second, Throttled(0).RetryAfter())
}

func TestAsUnwrapsChains(t *testing.T) {
	cause := fmt.Errorf("dial tcp: refused")
	wrapped := fmt.Errorf("issue nonce: %w", StorageUnavailable(cause, time.Second))

	appErr, ok := As(wrapped)
	require.True(t, ok)
	require.Equal(t, CodeStorageUnavailable, appErr.Code)
	require.ErrorIs(t, wrapped, cause)
	require.True(t, HasCode(wrapped, CodeStorageUnavailable))
	require.False(t, HasCode(cause, CodeStorageUnavailable))
}
