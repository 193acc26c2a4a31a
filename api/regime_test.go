package api_test

import (
	"testing"

	"github.com/connio-go/connio/api"
)

func TestRegimeString(t *testing.T) {
	cases := map[api.Regime]string{
		api.Sync:       "Sync",
		api.Async:      "Async",
		api.Abort:      "Abort",
		api.Regime(99): "Regime(unknown)",
	}
	for regime, want := range cases {
		if got := regime.String(); got != want {
			t.Errorf("Regime(%d).String() = %q, want %q", regime, got, want)
		}
	}
}
