package tools

import (
	"reflect"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/quickai/pkg/prompts"
	"github.com/effective-security/quickai/pkg/schema"
	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"
)

// ErrValidation is returned when a request fails the client-side check.
var ErrValidation = errors.New("validation failed")

// ErrNotFound is returned for unknown tools or functions.
var ErrNotFound = errors.New("tool not found")

// OutputKind is the shape of a tool result.
type OutputKind string

const (
	// OutputText is plain text
	OutputText OutputKind = "text"
	// OutputList is a list of strings
	OutputList OutputKind = "list"
	// OutputImage is an image reference, a data URI or a URL
	OutputImage OutputKind = "image"
)

// FileSpec describes the file accepted by a tool.
type FileSpec struct {
	// Field is the request field carrying the data URI
	Field string `json:"field" yaml:"field" toml:"field"`
	// Accept is the file picker filter, e.g. image/* or .pdf,.doc,.docx
	Accept string `json:"accept" yaml:"accept" toml:"accept"`
	// MaxSize is the size ceiling in bytes
	MaxSize int64 `json:"max_size" yaml:"max_size" toml:"max_size"`
	// AllowedTypes is the MIME allow-list, empty allows any type
	AllowedTypes []string `json:"allowed_types,omitempty" yaml:"allowed_types,omitempty" toml:"allowed_types,omitempty"`

	TooLargeMessage string `json:"-" yaml:"-" toml:"-"`
	TypeMessage     string `json:"-" yaml:"-" toml:"-"`
}

// Allows returns true if the MIME type is in the allow-list.
func (f *FileSpec) Allows(mimeType string) bool {
	if len(f.AllowedTypes) == 0 {
		return true
	}
	mimeType, _, _ = strings.Cut(mimeType, ";")
	return slices.Contains(f.AllowedTypes, strings.TrimSpace(mimeType))
}

// Tool is a catalog entry.
type Tool struct {
	// Name is the tool name, e.g. article
	Name string
	// Function is the remote function name, e.g. generate-article
	Function string
	Title       string
	Description string
	// Route is the page route
	Route string

	SystemPrompt string
	UserPrompt   string
	// Variables are the request fields read by the prompts
	Variables []string
	// Derive adds the variables computed from the request fields
	Derive func(vars map[string]any)

	// OutputKey is the response key of the result
	OutputKey string
	Output    OutputKind
	// File is set for tools that upload a file
	File *FileSpec
	// Stub tools do not call the model and echo the submitted file
	Stub bool

	// Required maps a request field to the message shown when it is blank.
	Required map[string]string

	FallbackError   string
	SuccessMessage  string
	InfoMessage     string
	DownloadMessage string
	// DownloadName returns the file name for a result download
	DownloadName func(req Request, now time.Time) string

	// NewRequest returns an empty request
	NewRequest func() Request
}

// Prompt returns the two-message prompt template of the tool.
func (t *Tool) Prompt() prompts.ChatPromptTemplate {
	return prompts.NewChatPromptTemplate([]prompts.MessageFormatter{
		prompts.NewSystemMessagePromptTemplate(t.SystemPrompt, nil),
		prompts.NewHumanMessagePromptTemplate(t.UserPrompt, t.Variables),
	})
}

// BodyVars reads the prompt variables from a raw JSON body.
// Values are interpolated as their JSON text, absent fields are empty.
func (t *Tool) BodyVars(body []byte) map[string]any {
	vars := make(map[string]any, len(t.Variables))
	for _, v := range t.Variables {
		vars[v] = gjson.GetBytes(body, v).String()
	}
	if t.Derive != nil {
		t.Derive(vars)
	}
	return vars
}

// Schema returns the JSON schema of the request.
func (t *Tool) Schema() (*schema.Schema, error) {
	return schema.New(reflect.TypeOf(t.NewRequest()))
}

// Validate performs the required-field check of the request,
// the returned error wraps ErrValidation and carries the user message.
func (t *Tool) Validate(req Request) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrap(ErrValidation, err.Error())
	}
	field := verrs[0].Field()
	msg, ok := t.Required[field]
	if !ok {
		msg = field + " is required"
	}
	return errors.Wrap(ErrValidation, msg)
}

// Descriptor is the published description of a tool.
type Descriptor struct {
	Name        string         `json:"name" yaml:"name" toml:"name"`
	Function    string         `json:"function" yaml:"function" toml:"function"`
	Title       string         `json:"title" yaml:"title" toml:"title"`
	Description string         `json:"description" yaml:"description" toml:"description"`
	Route       string         `json:"route" yaml:"route" toml:"route"`
	OutputKey   string         `json:"output_key" yaml:"output_key" toml:"output_key"`
	Output      OutputKind     `json:"output" yaml:"output" toml:"output"`
	Stub        bool           `json:"stub,omitempty" yaml:"stub,omitempty" toml:"stub,omitempty"`
	File        *FileSpec      `json:"file,omitempty" yaml:"file,omitempty" toml:"file,omitempty"`
	Schema      *schema.Schema `json:"schema,omitempty" yaml:"-" toml:"-"`
}

// Describe returns the descriptor of the tool.
func (t *Tool) Describe() (*Descriptor, error) {
	s, err := t.Schema()
	if err != nil {
		return nil, err
	}
	return &Descriptor{
		Name:        t.Name,
		Function:    t.Function,
		Title:       t.Title,
		Description: t.Description,
		Route:       t.Route,
		OutputKey:   t.OutputKey,
		Output:      t.Output,
		Stub:        t.Stub,
		File:        t.File,
		Schema:      s,
	}, nil
}

var ordinal = regexp.MustCompile(`^\d+\.\s*`)

// ParseTitles splits the model text into titles:
// blank lines are dropped and a leading "N. " marker is removed.
func ParseTitles(text string) []string {
	titles := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		titles = append(titles, ordinal.ReplaceAllString(line, ""))
	}
	return titles
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases the text and replaces every run of characters
// outside [a-z0-9] with a single dash, so the result is safe as a file name.
func Slug(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

var validate = newValidator()
