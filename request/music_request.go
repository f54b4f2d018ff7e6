// Package request validates incoming music payloads before they reach the store.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"musiclib/core/auth"

	"github.com/go-playground/validator/v10"
)

const (
	maxMemory   = 32 << 20
	maxJSONBody = 1 << 20
)

var (
	// ErrMalformedBody is returned when the body cannot be parsed at all.
	ErrMalformedBody = errors.New("malformed request body")
	// ErrBodyTooLarge is returned when a JSON body exceeds maxJSONBody.
	ErrBodyTooLarge = errors.New("request body too large")
)

// StoreMusicRequest is the validated field set for create and update.
type StoreMusicRequest struct {
	Title    string `json:"title" validate:"required,max=255"`
	Filename string `json:"filename" validate:"required,max=255"`

	// fields present in a JSON body with a non-string value
	notText map[string]bool
}

// ValidationError lists every failing field with its messages.
type ValidationError struct {
	Errors map[string][]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed for " + strings.Join(fields, ", ")
}

// Fields returns the failing field names in sorted order.
func (e *ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Authorize always permits the caller. Anyone who reached this point is
// authenticated and every entry is shared.
func Authorize(caller auth.Caller) bool {
	return true
}

// FromRequest reads title and filename from a JSON, urlencoded or multipart
// body. It does not validate; call Validate on the result.
func FromRequest(r *http.Request) (*StoreMusicRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json":
		return fromJSON(r)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
	default:
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
	}

	return &StoreMusicRequest{
		Title:    r.PostFormValue("title"),
		Filename: r.PostFormValue("filename"),
	}, nil
}

func fromJSON(r *http.Request) (*StoreMusicRequest, error) {
	if r.ContentLength > maxJSONBody {
		return nil, ErrBodyTooLarge
	}
	body := http.MaxBytesReader(nil, r.Body, maxJSONBody)

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ErrBodyTooLarge
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	req := &StoreMusicRequest{notText: make(map[string]bool)}
	for field, dst := range map[string]*string{"title": &req.Title, "filename": &req.Filename} {
		value, ok := raw[field]
		if !ok || string(value) == "null" {
			continue
		}
		if err := json.Unmarshal(value, dst); err != nil {
			req.notText[field] = true
		}
	}
	return req, nil
}

// Validate trims both fields and checks the rules. On success the receiver
// holds the normalized values.
func (s *StoreMusicRequest) Validate() error {
	s.Title = strings.TrimSpace(s.Title)
	s.Filename = strings.TrimSpace(s.Filename)

	errs := make(map[string][]string)
	for field := range s.notText {
		errs[field] = append(errs[field], fmt.Sprintf("The %s field must be a string.", field))
	}

	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			field := fe.Field()
			if s.notText[field] {
				continue
			}
			errs[field] = append(errs[field], message(fe))
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", fe.Field())
	}
}
