package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/breaks/domain"
)

type form map[string]string

func (f form) FormValue(key string) []byte {
	v, ok := f[key]
	if !ok {
		return nil
	}
	return []byte(v)
}

func TestParseCreateBreak(t *testing.T) {
	req, err := ParseCreateBreak(form{"activity_id": " 12 "})
	require.NoError(t, err)
	assert.Equal(t, int64(12), req.ActivityID)

	for name, f := range map[string]form{
		"missing":  {},
		"text":     {"activity_id": "coffee"},
		"zero":     {"activity_id": "0"},
		"negative": {"activity_id": "-3"},
		"overflow": {"activity_id": "99999999999999999999"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCreateBreak(f)
			require.Error(t, err)
			assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
		})
	}
}

func TestParseUpdateBreakCoercesFlag(t *testing.T) {
	cases := map[string]bool{
		"true":  true,
		"True":  true,
		"1":     true,
		"t":     true,
		"false": false,
		"False": false,
		"0":     false,
	}
	for raw, want := range cases {
		req, err := ParseUpdateBreak(form{"break_id": "5", "is_done": raw})
		require.NoError(t, err, raw)
		assert.Equal(t, int64(5), req.BreakID)
		assert.Equal(t, want, req.Done(), raw)
	}
}

func TestParseUpdateBreakRejectsBadFlag(t *testing.T) {
	for _, raw := range []string{"", "yes", "done", "2"} {
		_, err := ParseUpdateBreak(form{"break_id": "5", "is_done": raw})
		require.Error(t, err, raw)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid), raw)
	}
}

func TestParseSkipBreak(t *testing.T) {
	req, err := ParseSkipBreak(form{"break_id": "9"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), req.BreakID)

	_, err = ParseSkipBreak(form{"break_id": "x"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestParseLogin(t *testing.T) {
	req, err := ParseLogin(form{"username": " alice ", "password": "pw", "next": "/"})
	require.NoError(t, err)
	assert.Equal(t, "alice", req.Username)
	assert.Equal(t, "/", req.Next)

	_, err = ParseLogin(form{"username": "alice"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	for _, next := range []string{"//evil.example", "https://evil.example", "relative"} {
		_, err = ParseLogin(form{"username": "alice", "password": "pw", "next": next})
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid), next)
	}
}

func TestIsLocalPath(t *testing.T) {
	for _, p := range []string{"/", "/create_break/", "/login/?next=%2F"} {
		assert.True(t, IsLocalPath(p), p)
	}
	for _, p := range []string{"", "//evil.example", "https://evil.example", "relative", "/\\evil", "/a\r\nb"} {
		assert.False(t, IsLocalPath(p), p)
	}
}

func TestValidationMessageNamesFormField(t *testing.T) {
	_, err := ParseUpdateBreak(form{"break_id": "1", "is_done": "maybe"})
	var dErr *domain.Error
	require.ErrorAs(t, err, &dErr)
	assert.Equal(t, "is_done must be a boolean", dErr.Message)
}
