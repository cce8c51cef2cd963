package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/siahsang/yatube/internal/media"
	"github.com/siahsang/yatube/internal/validator"
)

const requiredMessage = "This field is required."

// ValidationError carries field-level messages for a rejected form.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	return fmt.Sprintf("invalid form fields: %s", strings.Join(fields, ", "))
}

// PostForm is the submission of the create and edit post pages. Group is a group slug;
// Image holds the raw upload (base64 in JSON).
type PostForm struct {
	Text  string `json:"text"`
	Group string `json:"group"`
	Image []byte `json:"image"`
}

func (f *PostForm) Validate(v *validator.Validator) {
	f.Group = strings.TrimSpace(f.Group)
	v.CheckNotBlank(f.Text, "text", requiredMessage)

	if len(f.Image) > 0 {
		if _, err := media.DetectFormat(f.Image); err != nil {
			if errors.Is(err, media.ErrImageTooLarge) {
				v.AddError("image", fmt.Sprintf("Image must not be larger than %d bytes.", media.MaxImageBytes))
			} else {
				v.AddError("image", media.ErrMalformedImage.Error())
			}
		}
	}
}

type CommentForm struct {
	Text string `json:"text"`
}

func (f *CommentForm) Validate(v *validator.Validator) {
	f.Text = strings.TrimSpace(f.Text)
	v.CheckNotBlank(f.Text, "text", requiredMessage)
}

type GroupForm struct {
	Title       string
	Slug        string
	Description string
}

func (f *GroupForm) Validate(v *validator.Validator) {
	f.Title = strings.TrimSpace(f.Title)
	f.Slug = strings.TrimSpace(f.Slug)
	if f.Slug == "" {
		f.Slug = CreateSlug(f.Title)
	}

	v.CheckNotBlank(f.Title, "title", requiredMessage)
	v.CheckMaxLength(f.Title, 200, "title", "Ensure this value has at most 200 characters.")
	v.CheckNotBlank(f.Slug, "slug", requiredMessage)
	v.CheckMaxLength(f.Slug, 50, "slug", "Ensure this value has at most 50 characters.")
	v.CheckSlug(f.Slug, "slug", "Enter a valid slug consisting of letters, numbers, underscores or hyphens.")
}
