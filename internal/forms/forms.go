// Package forms validates submitted post and comment forms. Validation is
// pure: it never touches the store. Handlers persist the returned data in a
// separate step, and only when the form is valid.
package forms

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"yatube/internal/models"
)

const maxImageSize = 5 << 20

// Result is either valid data or field errors.
type Result[T any] struct {
	Data   T
	Errors *models.ValidationError
}

func (r Result[T]) Valid() bool {
	return r.Errors.Empty()
}

type Post struct {
	Text    string
	GroupID *uint
}

// PostValues holds the raw fields as submitted. Handlers bind the request
// into it and re-render it when validation fails.
type PostValues struct {
	Text  string `form:"text" validate:"notblank"`
	Group string `form:"group" validate:"omitempty,pk"`
}

// ParsePost validates the text and group fields of the post form. An empty
// group means no group.
func ParsePost(v PostValues) Result[Post] {
	out := Post{Text: v.Text}
	if id, err := strconv.ParseUint(strings.TrimSpace(v.Group), 10, 0); err == nil && id > 0 {
		gid := uint(id)
		out.GroupID = &gid
	}
	return Result[Post]{Data: out, Errors: models.Validate(v)}
}

type Comment struct {
	Text string `form:"text" validate:"notblank"`
}

func ParseComment(c Comment) Result[Comment] {
	return Result[Comment]{Data: c, Errors: models.Validate(c)}
}

// Image is an uploaded picture held in memory until it is stored.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (i *Image) Reader() io.Reader {
	return bytes.NewReader(i.Data)
}

// ParseImage checks an optional upload is a picture of acceptable size. A
// nil header yields a nil image and no error.
func ParseImage(header *multipart.FileHeader) Result[*Image] {
	verr := &models.ValidationError{}
	if header == nil {
		return Result[*Image]{Errors: verr}
	}
	if header.Size > maxImageSize {
		verr.Add("image", fmt.Sprintf("Image must be at most %d MB.", maxImageSize>>20))
		return Result[*Image]{Errors: verr}
	}

	f, err := header.Open()
	if err != nil {
		verr.Add("image", "The submitted file is empty or unreadable.")
		return Result[*Image]{Errors: verr}
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxImageSize+1))
	if err != nil || len(data) == 0 {
		verr.Add("image", "The submitted file is empty or unreadable.")
		return Result[*Image]{Errors: verr}
	}
	if len(data) > maxImageSize {
		verr.Add("image", fmt.Sprintf("Image must be at most %d MB.", maxImageSize>>20))
		return Result[*Image]{Errors: verr}
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		verr.Add("image", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
		return Result[*Image]{Errors: verr}
	}
	return Result[*Image]{
		Data:   &Image{Filename: header.Filename, ContentType: contentType, Data: data},
		Errors: verr,
	}
}

// Merge folds the errors of several results into one.
func Merge(errs ...*models.ValidationError) *models.ValidationError {
	out := &models.ValidationError{}
	for _, e := range errs {
		if e.Empty() {
			continue
		}
		for field, msg := range e.Fields {
			out.Add(field, msg)
		}
	}
	return out
}
