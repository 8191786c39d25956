package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactorScrubsCredentials(t *testing.T) {
	r := redactor{salt: "s"}
	out := r.kvs([]interface{}{
		"refresh_token", "abc",
		"Password", "hunter2",
		"jti", "123",
		"quiz_id", "q1",
		"note", "aaaaaaaaaaaa.bbbbbbbbbbbb.cccc",
		"dangling",
	})
	assert.Equal(t, []interface{}{
		"refresh_token", "[REDACTED]",
		"Password", "[REDACTED]",
		"jti", "[REDACTED]",
		"quiz_id", "q1",
		"note", "[REDACTED]",
		"dangling",
	}, out)
}

func TestRedactorHashesIdentity(t *testing.T) {
	salted := redactor{salt: "s"}
	h1 := salted.value("email", "ada@example.com")
	assert.Equal(t, h1, salted.value("email", "ada@example.com"))
	assert.NotEqual(t, h1, redactor{salt: "other"}.value("email", "ada@example.com"))
	assert.Contains(t, h1, "hash:")
	assert.Equal(t, "", salted.value("username", ""))
}

func TestRedactorDisabled(t *testing.T) {
	kv := []interface{}{"password", "hunter2"}
	assert.Equal(t, kv, redactor{disabled: true}.kvs(kv))
}

func TestNewTestModeIsNop(t *testing.T) {
	log, err := New("test")
	assert.NoError(t, err)
	log.With("token", "x").Info("quiet")
}
