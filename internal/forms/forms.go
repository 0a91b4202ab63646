// Package forms validates user-submitted post and comment fields. A form
// either yields a complete validated bundle or a field-to-message map;
// nothing is persisted on a partial pass.
package forms

import (
	"bytes"
	"errors"
	"image"
	"io"
	"net/http"
	"strconv"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// maxUploadBytes bounds how much of an upload is read into memory.
const maxUploadBytes = 10 << 20

// Errors maps a field name to its validation messages.
type Errors map[string][]string

func (e Errors) Add(field, msg string) { e[field] = append(e[field], msg) }
func (e Errors) Has(field string) bool { return len(e[field]) > 0 }

// ImageFile is an upload whose bytes decoded as a real raster image.
type ImageFile struct {
	Data   []byte
	Format string // "jpeg", "png" or "gif", as reported by the decoder
}

// PostForm carries the fields of the new-post and edit-post forms.
type PostForm struct {
	Text    string
	GroupID *int
	Image   *ImageFile
	Errors  Errors
}

// ParsePostForm reads and validates the post form from r. The group field
// is checked syntactically here; whether the group exists is the caller's
// concern (append to Errors under "group"). An image is accepted only if
// its bytes decode as a supported format — the filename and declared
// content type are never trusted.
func ParsePostForm(r *http.Request) *PostForm {
	f := &PostForm{Errors: Errors{}}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		if err := r.ParseForm(); err != nil {
			f.Errors.Add("form", "could not read form data")
			return f
		}
	}

	f.Text = strings.TrimSpace(r.FormValue("text"))
	if f.Text == "" {
		f.Errors.Add("text", "text is required")
	}

	if raw := r.FormValue("group"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 1 {
			f.Errors.Add("group", "select a valid group")
		} else {
			f.GroupID = &id
		}
	}

	file, _, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		switch {
		case err != nil:
			f.Errors.Add("image", "could not read the uploaded file")
		case len(data) > 0:
			_, format, err := image.DecodeConfig(bytes.NewReader(data))
			if err != nil {
				f.Errors.Add("image", "upload a valid image file")
			} else {
				f.Image = &ImageFile{Data: data, Format: format}
			}
		}
	}
	return f
}

func (f *PostForm) Valid() bool { return len(f.Errors) == 0 }

// GroupValue is the selected group id, or zero. Templates use it to mark
// the selected option.
func (f *PostForm) GroupValue() int {
	if f.GroupID == nil {
		return 0
	}
	return *f.GroupID
}

// CommentForm carries the single field of the comment form.
type CommentForm struct {
	Text   string
	Errors Errors
}

func ParseCommentForm(r *http.Request) *CommentForm {
	f := &CommentForm{Errors: Errors{}}
	f.Text = strings.TrimSpace(r.FormValue("text"))
	if f.Text == "" {
		f.Errors.Add("text", "text is required")
	}
	return f
}

func (f *CommentForm) Valid() bool { return len(f.Errors) == 0 }
