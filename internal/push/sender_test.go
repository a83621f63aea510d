package push

import (
	"testing"

	"github.com/9ssi7/exponent"
)

func TestNewExpoAdapterWrapsSDKClient(t *testing.T) {
	// Construct the adapter exactly the way the server wiring does.
	adapter := NewExpoAdapter(exponent.NewClient())
	if adapter == nil {
		t.Fatalf("expected adapter, got nil")
	}

	var _ Sender = adapter
}
