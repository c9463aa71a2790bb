package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// GenreRequest asks for recommendations matching at least one of Genres.
type GenreRequest struct {
	Genres []string `json:"genres" validate:"required,min=1,dive,required"`
	Count  int      `json:"count,omitempty" validate:"gte=0"`
}

// Validate checks the request and applies the default and maximum count.
func (r *GenreRequest) Validate(defaultCount, maxCount int) error {
	if err := validate.Struct(r); err != nil {
		return describe(err)
	}
	r.Count = normalizeCount(r.Count, defaultCount, maxCount)
	return nil
}

// FeedbackRequest asks for recommendations from liked and disliked titles.
type FeedbackRequest struct {
	Liked    []string `json:"liked"`
	Disliked []string `json:"disliked"`
	Count    int      `json:"count,omitempty" validate:"gte=0"`
}

// Validate checks the request and applies the default and maximum count.
// At least one liked or disliked title is required.
func (r *FeedbackRequest) Validate(defaultCount, maxCount int) error {
	if err := validate.Struct(r); err != nil {
		return describe(err)
	}
	if len(r.Liked) == 0 && len(r.Disliked) == 0 {
		return errors.New("at least one liked or disliked movie is required")
	}
	r.Count = normalizeCount(r.Count, defaultCount, maxCount)
	return nil
}

func normalizeCount(count, defaultCount, maxCount int) int {
	if count <= 0 {
		count = defaultCount
	}
	if maxCount > 0 && count > maxCount {
		count = maxCount
	}
	return count
}

// describe turns validator errors into a short client-facing message.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch {
		case fe.StructField() == "Genres" && (fe.Tag() == "required" || fe.Tag() == "min"):
			msgs = append(msgs, "at least one genre is required")
		case fe.Tag() == "gte":
			msgs = append(msgs, fmt.Sprintf("%s must not be negative", strings.ToLower(fe.Field())))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field())))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
