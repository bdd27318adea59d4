package common

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"village-admin-go/pkg/optional"
)

const multipartMemory = 8 << 20

var (
	ErrUnknownField = errors.New("unknown field")
	ErrInvalidBody  = errors.New("invalid request body")
	ErrBodyTooLarge = errors.New("request body too large")
)

// Fields holds a request body that may arrive as a JSON object or as a
// multipart form. Every value is kept as text and remembers whether it was
// absent, null or set; multipart forms cannot express null.
type Fields struct {
	values map[string]optional.Value[string]
	files  map[string]*multipart.FileHeader
	form   *multipart.Form
}

// ParseFields reads the body, rejecting any field not listed in allowed.
// limit caps the whole body; callers must Close the result.
func ParseFields(w http.ResponseWriter, r *http.Request, limit int64, allowed ...string) (*Fields, error) {
	known := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		known[name] = struct{}{}
	}
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}

	fields := &Fields{
		values: make(map[string]optional.Value[string]),
		files:  make(map[string]*multipart.FileHeader),
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return nil, bodyError(err)
		}
		fields.form = r.MultipartForm
		for name, values := range r.MultipartForm.Value {
			if _, ok := known[name]; !ok {
				fields.Close()
				return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
			}
			if len(values) > 0 {
				fields.values[name] = optional.Of(values[0])
			}
		}
		for name, headers := range r.MultipartForm.File {
			if _, ok := known[name]; !ok {
				fields.Close()
				return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
			}
			if len(headers) > 0 {
				fields.files[name] = headers[0]
			}
		}
		return fields, nil
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return fields, nil
		}
		return nil, bodyError(err)
	}
	for name, value := range raw {
		if _, ok := known[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
		parsed, err := jsonText(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidBody, name)
		}
		fields.values[name] = parsed
	}
	return fields, nil
}

// Close releases temporary files of a multipart form.
func (f *Fields) Close() {
	if f != nil && f.form != nil {
		_ = f.form.RemoveAll()
	}
}

func (f *Fields) Text(name string) optional.Value[string] {
	return f.values[name]
}

// String returns the value, or "" when absent or null.
func (f *Fields) String(name string) string {
	value, _ := f.values[name].Get()
	return value
}

// StringPtr returns nil when the field is absent or null.
func (f *Fields) StringPtr(name string) *string {
	value, ok := f.values[name].Get()
	if !ok {
		return nil
	}
	return &value
}

func (f *Fields) File(name string) (*multipart.FileHeader, bool) {
	header, ok := f.files[name]
	return header, ok
}

// Date parses an optional YYYY-MM-DD field; null and "" both clear it.
func (f *Fields) Date(name string) (optional.Value[time.Time], error) {
	value := f.values[name]
	if !value.IsSet() {
		return optional.Value[time.Time]{}, nil
	}
	text, ok := value.Get()
	text = strings.TrimSpace(text)
	if !ok || text == "" {
		return optional.Null[time.Time](), nil
	}
	parsed, err := time.Parse("2006-01-02", text)
	if err != nil {
		return optional.Value[time.Time]{}, fmt.Errorf("%w: %s", ErrInvalidBody, name)
	}
	return optional.Of(parsed), nil
}

func jsonText(raw json.RawMessage) (optional.Value[string], error) {
	trimmed := bytes.TrimSpace(raw)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		return optional.Null[string](), nil
	case len(trimmed) > 0 && trimmed[0] == '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return optional.Value[string]{}, err
		}
		return optional.Of(text), nil
	case bytes.Equal(trimmed, []byte("true")), bytes.Equal(trimmed, []byte("false")):
		return optional.Of(string(trimmed)), nil
	default:
		var number json.Number
		if err := json.Unmarshal(trimmed, &number); err != nil {
			return optional.Value[string]{}, err
		}
		return optional.Of(number.String()), nil
	}
}

func bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return ErrBodyTooLarge
	}
	return fmt.Errorf("%w: %v", ErrInvalidBody, err)
}

// WriteFieldsError answers a ParseFields failure.
func WriteFieldsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBodyTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "Ukuran file melebihi batas")
	case errors.Is(err, ErrUnknownField):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
	}
}
