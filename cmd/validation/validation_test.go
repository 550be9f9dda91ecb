package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldNames(errs []FieldError) []string {
	names := make([]string, 0, len(errs))
	for _, e := range errs {
		names = append(names, e.Field)
	}
	return names
}

func TestStructCreateUserInput(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		input := CreateUserInput{
			Email:        "ada@example.com",
			Username:     "ada",
			PasswordHash: "0123456789abcdef",
		}
		assert.Nil(t, Struct(input))
	})

	t.Run("MissingEverything", func(t *testing.T) {
		errs := Struct(CreateUserInput{})
		require.NotNil(t, errs)

		names := fieldNames(errs)
		assert.Contains(t, names, "email")
		assert.Contains(t, names, "username")
		assert.Contains(t, names, "password_hash")
	})

	t.Run("BadEmail", func(t *testing.T) {
		input := CreateUserInput{
			Email:        "not-an-email",
			Username:     "ada",
			PasswordHash: "0123456789abcdef",
		}
		errs := Struct(input)
		require.Len(t, errs, 1)
		assert.Equal(t, "email", errs[0].Field)
		assert.Equal(t, "must be a valid email address", errs[0].Message)
	})

	t.Run("ShortPasswordHash", func(t *testing.T) {
		input := CreateUserInput{
			Email:        "ada@example.com",
			Username:     "ada",
			PasswordHash: "short",
		}
		errs := Struct(input)
		require.Len(t, errs, 1)
		assert.Equal(t, "password_hash", errs[0].Field)
		assert.Equal(t, "must be at least 8 characters", errs[0].Message)
	})

	t.Run("BadProfilePictureURL", func(t *testing.T) {
		bad := "not a url"
		input := CreateUserInput{
			Email:          "ada@example.com",
			Username:       "ada",
			PasswordHash:   "0123456789abcdef",
			ProfilePicture: &bad,
		}
		errs := Struct(input)
		require.Len(t, errs, 1)
		assert.Equal(t, "profile_picture", errs[0].Field)
	})
}

func TestStructCreateCommentInput(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		input := CreateCommentInput{ImageID: "img-1", Content: "nice shot"}
		assert.Nil(t, Struct(input))
	})

	t.Run("ContentTooLong", func(t *testing.T) {
		input := CreateCommentInput{
			ImageID: "img-1",
			Content: strings.Repeat("x", 501),
		}
		errs := Struct(input)
		require.Len(t, errs, 1)
		assert.Equal(t, "content", errs[0].Field)
		assert.Equal(t, "must be at most 500 characters", errs[0].Message)
	})
}

func TestStructUpdateInputsAllowEmpty(t *testing.T) {
	assert.Nil(t, Struct(UpdateUserInput{}))
	assert.Nil(t, Struct(UpdateImageInput{}))
	assert.Nil(t, Struct(UpdateShowcaseInput{}))
}
