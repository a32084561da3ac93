package models

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPost_StringTruncatesText(t *testing.T) {
	cases := []string{
		"",
		"short",
		"exactly 15 char",
		"Тестовый пост длиннее пятнадцати символов",
		strings.Repeat("x", 100),
	}
	for _, text := range cases {
		t.Run(fmt.Sprintf("len=%d", len(text)), func(t *testing.T) {
			post := Post{Text: text}
			runes := []rune(text)
			want := text
			if len(runes) > TextPreviewLength {
				want = string(runes[:TextPreviewLength])
			}
			assert.Equal(t, want, post.String())
			assert.LessOrEqual(t, len([]rune(post.String())), TextPreviewLength)
		})
	}
}

func TestComment_StringTruncatesText(t *testing.T) {
	c := Comment{Text: "a comment that is long enough"}
	assert.Equal(t, "a comment that ", c.String())
}

func TestGroupAndFollow_String(t *testing.T) {
	g := Group{Title: "Cats", Slug: "cats"}
	assert.Equal(t, "Cats", g.String())

	f := Follow{User: User{Username: "alice"}, Author: User{Username: "bob"}}
	assert.Equal(t, "alice follows bob", f.String())
}

func TestValidationError(t *testing.T) {
	verr := &ValidationError{}
	assert.True(t, verr.Empty())

	verr.Add("text", "required")
	verr.Add("text", "ignored")
	verr.Add("group", "unknown")
	assert.False(t, verr.Empty())
	assert.Equal(t, "required", verr.Fields["text"])
	assert.Equal(t, "validation failed: group: unknown; text: required", verr.Error())

	var wrapped error = fmt.Errorf("create post: %w", verr)
	var target *ValidationError
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "unknown", target.Fields["group"])
}
