package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnv_Lookup(t *testing.T) {
	t.Setenv("APP_RECEIPT_URL", "  https://receipts.example.com  ")
	t.Setenv("APP_EMPTY", "   ")

	e := Env{Prefix: "APP_"}

	v, ok := e.Lookup("RECEIPT_URL")
	assert.True(t, ok)
	assert.Equal(t, "https://receipts.example.com", v)

	// Whitespace-only counts as unset: the feature stays disabled.
	_, ok = e.Lookup("EMPTY")
	assert.False(t, ok)

	_, ok = e.Lookup("MISSING")
	assert.False(t, ok)
}

func TestStatic_Lookup(t *testing.T) {
	s := Static{"RECEIPT_URL": "https://receipts.example.com", "EMPTY": ""}

	v, ok := s.Lookup("RECEIPT_URL")
	assert.True(t, ok)
	assert.Equal(t, "https://receipts.example.com", v)

	_, ok = s.Lookup("EMPTY")
	assert.False(t, ok)

	_, ok = s.Lookup("MISSING")
	assert.False(t, ok)
}
