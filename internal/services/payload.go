package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
)

// Payload is the parsed body of a create request. Both variants answer field
// lookups the same way so validation does not care how the data arrived.
type Payload interface {
	// Lookup returns the textual value of field and whether the key was present.
	Lookup(field string) (string, bool)
	// Image returns the uploaded image, or nil when none was attached.
	Image() *ImageFile
}

// ImageFile is an uploaded file attached to a form payload.
type ImageFile struct {
	Filename    string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// PayloadError reports a body that could not be parsed at all. Unlike
// ValidationError it is answered as a server error.
type PayloadError struct {
	Err error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("Invalid request body: %v", e.Err)
}

func (e *PayloadError) Unwrap() error {
	return e.Err
}

// StructuredPayload is a JSON object body. It never carries an image.
type StructuredPayload struct {
	fields map[string]json.RawMessage
}

// ParseStructuredPayload decodes a JSON object. Well-formed JSON that is not an
// object (null, arrays, scalars) yields a payload without fields.
func ParseStructuredPayload(body []byte) (*StructuredPayload, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, &PayloadError{Err: err}
		}
		fields = nil
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	return &StructuredPayload{fields: fields}, nil
}

// Lookup returns strings unquoted and every other JSON value as its literal
// text, so numbers keep their exact digits. null yields an empty string.
func (p *StructuredPayload) Lookup(field string) (string, bool) {
	raw, ok := p.fields[field]
	if !ok {
		return "", false
	}

	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) {
		return "", true
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s, true
		}
	}
	return string(trimmed), true
}

// Image always returns nil.
func (p *StructuredPayload) Image() *ImageFile {
	return nil
}

// FormPayload is a url-encoded or multipart form body.
type FormPayload struct {
	values url.Values
	image  *ImageFile
}

// NewFormPayload wraps already parsed form values.
func NewFormPayload(values url.Values, image *ImageFile) *FormPayload {
	if values == nil {
		values = url.Values{}
	}
	return &FormPayload{values: values, image: image}
}

// NewMultipartPayload builds a FormPayload from a parsed multipart form,
// taking the first file sent as "image".
func NewMultipartPayload(form *multipart.Form) *FormPayload {
	if form == nil {
		return NewFormPayload(nil, nil)
	}

	var image *ImageFile
	if files := form.File[ImageField]; len(files) > 0 {
		fh := files[0]
		image = &ImageFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		}
	}
	return NewFormPayload(url.Values(form.Value), image)
}

// Lookup returns the first value sent for field.
func (p *FormPayload) Lookup(field string) (string, bool) {
	vs, ok := p.values[field]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// Image returns the attached file, if any.
func (p *FormPayload) Image() *ImageFile {
	return p.image
}
