package redisclient

import (
	"testing"
)

func TestMenuCacheRoundTrip(t *testing.T) {
	// Requires a running Redis instance
	t.Skip("Requires Redis")
}
