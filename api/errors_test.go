package api_test

import (
	"strings"
	"testing"

	"github.com/connio-go/connio/api"
)

func TestErrorWithoutContext(t *testing.T) {
	err := api.NewError(api.ErrCodeTimeout, "dial failed")
	if err.Error() != "dial failed" {
		t.Fatalf("Error() = %q, want %q", err.Error(), "dial failed")
	}
}

func TestErrorWithContext(t *testing.T) {
	err := api.NewError(api.ErrCodeNotFound, "resolve failed").
		WithContext("endpoint", "redis.example:6379")
	if !strings.Contains(err.Error(), "redis.example:6379") {
		t.Fatalf("Error() = %q, missing context", err.Error())
	}
	if err.Code != api.ErrCodeNotFound {
		t.Fatalf("Code = %v, want ErrCodeNotFound", err.Code)
	}
}
