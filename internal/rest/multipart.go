package rest

import (
	"bytes"
	"fmt"
	"mime/multipart"
)

// Form accumulates fields and file parts for a multipart request. The
// encoded body is built once so it can be replayed after a token refresh.
type Form struct {
	fields []formField
	files  []FilePart
}

type formField struct {
	name  string
	value string
}

// FilePart is one uploaded file.
type FilePart struct {
	Field    string
	Filename string
	Content  []byte
}

func NewForm() *Form {
	return &Form{}
}

// Set appends a simple field. Empty values are skipped so optional fields
// can be passed through unconditionally.
func (f *Form) Set(name, value string) *Form {
	if value == "" {
		return f
	}
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// AddFile appends a file part.
func (f *Form) AddFile(field, filename string, content []byte) *Form {
	f.files = append(f.files, FilePart{Field: field, Filename: filename, Content: content})
	return f
}

func (f *Form) encode() ([]byte, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	for _, field := range f.fields {
		if err := writer.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", field.name, err)
		}
	}
	for _, file := range f.files {
		part, err := writer.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("create file part %s: %w", file.Field, err)
		}
		if _, err := part.Write(file.Content); err != nil {
			return nil, "", fmt.Errorf("write file part %s: %w", file.Field, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}
