package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report errors under the json field name, not the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError is one entry of the field-level error list returned on 400s.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Struct validates an input struct and returns a field-level error list,
// or nil when the input is valid.
func Struct(input interface{}) []FieldError {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Message: err.Error()}}
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return fields
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return "is invalid"
	}
}

// Create inputs: required fields mandatory, optional fields nullable.
// Update inputs: key comes from the URL, every other field optional.

type CreateUserInput struct {
	Email          string  `json:"email" validate:"required,email"`
	Username       string  `json:"username" validate:"required,min=1,max=255"`
	PasswordHash   string  `json:"password_hash" validate:"required,min=8"`
	ProfilePicture *string `json:"profile_picture" validate:"omitempty,url"`
}

type UpdateUserInput struct {
	Email          *string `json:"email" validate:"omitempty,email"`
	Username       *string `json:"username" validate:"omitempty,min=1,max=255"`
	PasswordHash   *string `json:"password_hash" validate:"omitempty,min=8"`
	ProfilePicture *string `json:"profile_picture" validate:"omitempty,url"`
}

type CreateImageInput struct {
	Title       string  `json:"title" validate:"required,min=1,max=255"`
	Description *string `json:"description"`
	Categories  *string `json:"categories"`
}

type UpdateImageInput struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Categories  *string `json:"categories"`
}

type CreateImageTagInput struct {
	Tag string `json:"tag" validate:"required,min=1,max=255"`
}

type CreateCommentInput struct {
	ImageID string `json:"image_id" validate:"required"`
	Content string `json:"content" validate:"required,min=1,max=500"`
}

type CreateLikeInput struct {
	ImageID string `json:"image_id" validate:"required"`
}

type CreateFollowInput struct {
	FollowedID string `json:"followed_id" validate:"required"`
}

type CreateFavoriteInput struct {
	ImageID string `json:"image_id" validate:"required"`
}

type CreateCollectionInput struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description *string `json:"description"`
}

type UpdateCollectionInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
}

type AddCollectionImageInput struct {
	ImageID string `json:"image_id" validate:"required"`
}

type CreateShowcaseInput struct {
	Title       string   `json:"title" validate:"required,min=1,max=255"`
	Description string   `json:"description"`
	Tags        []string `json:"tags" validate:"dive,min=1,max=255"`
	ImageIDs    []string `json:"image_ids" validate:"dive,required"`
}

type UpdateShowcaseInput struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags" validate:"omitempty,dive,min=1,max=255"`
	ImageIDs    []string `json:"image_ids" validate:"omitempty,dive,required"`
}

type CreateNotificationInput struct {
	UserID   string  `json:"user_id" validate:"required"`
	Type     string  `json:"type" validate:"required"`
	EntityID *string `json:"entity_id"`
	Message  string  `json:"message" validate:"required,min=1"`
}
