package pages

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/quickai/pkg/llmutils"
	"github.com/effective-security/quickai/tools"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
	"github.com/google/uuid"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/quickai", "pages")

// Errors
var (
	// ErrValidation is returned when the required-field check fails
	ErrValidation = tools.ErrValidation
	// ErrBusy is returned when a call is already in flight
	ErrBusy = errors.New("request in progress")
	// ErrNoResult is returned when there is no result to copy or download
	ErrNoResult = errors.New("no result")
	// ErrNotSupported is returned for actions the tool does not offer
	ErrNotSupported = errors.New("not supported by the tool")
)

// CopiedMessage is shown after a copy to the clipboard
const CopiedMessage = "Copied to clipboard!"

// Invoker calls a remote function
type Invoker interface {
	Invoke(ctx context.Context, function string, body any) ([]byte, error)
}

// Clipboard is the system clipboard
type Clipboard interface {
	WriteAll(text string) error
}

// ClipboardFunc adapts a function to Clipboard
type ClipboardFunc func(text string) error

// WriteAll calls f(text)
func (f ClipboardFunc) WriteAll(text string) error {
	return f(text)
}

// State of the page
type State int

// States
const (
	StateIdle State = iota
	StateSubmitting
)

func (s State) String() string {
	if s == StateSubmitting {
		return "submitting"
	}
	return "idle"
}

// FileInfo describes a selected file before it is read
type FileInfo struct {
	Name string
	Size int64
	// Type is the MIME type
	Type string
}

// File is an accepted file
type File struct {
	FileInfo
	DataURI string
}

// Option configures the page
type Option func(*Page)

// WithNow sets the clock used for download names
func WithNow(now func() time.Time) Option {
	return func(p *Page) {
		p.now = now
	}
}

// WithHTTPClient sets the client used to fetch image results
func WithHTTPClient(c *http.Client) Option {
	return func(p *Page) {
		p.httpClient = c
	}
}

// Page is the controller of one tool
type Page struct {
	id         string
	tool       *tools.Tool
	invoker    Invoker
	notifier   Notifier
	now        func() time.Time
	httpClient *http.Client

	lock    sync.Mutex
	state   State
	input   tools.Request
	file    *File
	result  *Result
	outcome Outcome
}

// New returns the page of the tool
func New(tool *tools.Tool, invoker Invoker, notifier Notifier, opts ...Option) *Page {
	p := &Page{
		id:         uuid.NewString(),
		tool:       tool,
		invoker:    invoker,
		notifier:   notifier,
		now:        time.Now,
		httpClient: http.DefaultClient,
		input:      tool.NewRequest(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ID returns the unique ID of the page instance
func (p *Page) ID() string {
	return p.id
}

// Tool returns the tool of the page
func (p *Page) Tool() *tools.Tool {
	return p.tool
}

// State returns the current state
func (p *Page) State() State {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.state
}

// Loading returns true while a call is in flight
func (p *Page) Loading() bool {
	return p.State() == StateSubmitting
}

// SetInput replaces the form inputs
func (p *Page) SetInput(req tools.Request) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.input = req
}

// Input returns the form inputs
func (p *Page) Input() tools.Request {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.input
}

// File returns the selected file, or nil
func (p *Page) File() *File {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.file
}

// Result returns the last successful result, or nil
func (p *Page) Result() *Result {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.result
}

// Outcome returns the outcome of the last call
func (p *Page) Outcome() Outcome {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.outcome
}

// CanSubmit returns true if the primary action is enabled:
// no call in flight and the required fields are present.
func (p *Page) CanSubmit() bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.state == StateSubmitting || p.input == nil {
		return false
	}
	p.attachFile(p.input)
	return p.tool.Validate(p.input) == nil
}

// attachFile copies the selected file into the request, the lock must be held
func (p *Page) attachFile(req tools.Request) {
	fr, ok := req.(tools.FileRequest)
	if !ok || p.file == nil || fr.File() != "" {
		return
	}
	fr.SetFile(p.file.DataURI, p.file.Name)
}

// SelectFile checks the size and the type of the file, then reads it
// into a data URI. A rejected file leaves the stored file unchanged,
// an accepted one clears the previous result.
func (p *Page) SelectFile(info FileInfo, open func() (io.ReadCloser, error)) error {
	spec := p.tool.File
	if spec == nil {
		return errors.Wrapf(ErrNotSupported, "%s: file upload", p.tool.Name)
	}
	if info.Size > spec.MaxSize {
		p.notifier.Error(spec.TooLargeMessage)
		return errors.Wrap(ErrValidation, spec.TooLargeMessage)
	}
	if !spec.Allows(info.Type) {
		p.notifier.Error(spec.TypeMessage)
		return errors.Wrap(ErrValidation, spec.TypeMessage)
	}

	rc, err := open()
	if err != nil {
		return errors.WithMessage(err, "failed to open file")
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, spec.MaxSize+1))
	if err != nil {
		return errors.WithMessage(err, "failed to read file")
	}
	if int64(len(data)) > spec.MaxSize {
		p.notifier.Error(spec.TooLargeMessage)
		return errors.Wrap(ErrValidation, spec.TooLargeMessage)
	}

	f := &File{
		FileInfo: info,
		DataURI:  llmutils.EncodeDataURI(info.Type, data),
	}

	p.lock.Lock()
	p.file = f
	p.result = nil
	if fr, ok := p.input.(tools.FileRequest); ok {
		fr.SetFile(f.DataURI, f.Name)
	}
	p.lock.Unlock()

	logger.KV(xlog.DEBUG,
		"page", p.id,
		"tool", p.tool.Name,
		"file", info.Name,
		"size", len(data),
	)
	return nil
}

// Submit checks the required fields and invokes the function.
// The request replaces the form inputs, nil submits the current inputs.
// On failure the previous result is kept.
func (p *Page) Submit(ctx context.Context, req tools.Request) (*Result, error) {
	p.lock.Lock()
	if p.state == StateSubmitting {
		p.lock.Unlock()
		return nil, ErrBusy
	}
	if req != nil {
		p.input = req
	}
	req = p.input
	if req == nil {
		req = p.tool.NewRequest()
		p.input = req
	}
	p.attachFile(req)
	if d, ok := req.(tools.Defaulter); ok {
		d.SetDefaults()
	}
	if err := p.tool.Validate(req); err != nil {
		p.lock.Unlock()
		p.notifier.Error(userMessage(err, p.tool.FallbackError))
		return nil, err
	}
	p.state = StateSubmitting
	p.lock.Unlock()

	if p.tool.InfoMessage != "" {
		p.notifier.Info(p.tool.InfoMessage)
	}

	started := time.Now()
	payload, err := p.invoker.Invoke(ctx, p.tool.Function, req)
	var res *Result
	if err == nil {
		res, err = parseResult(p.tool, payload)
	}

	p.lock.Lock()
	p.state = StateIdle
	p.outcome = Outcome{Payload: payload, Err: err}
	if err == nil {
		p.result = res
	}
	p.lock.Unlock()

	logger.ContextKV(ctx, xlog.DEBUG,
		"page", p.id,
		"tool", p.tool.Name,
		"failed", err != nil,
		"duration", time.Since(started).String(),
	)

	if err != nil {
		p.notifier.Error(userMessage(err, p.tool.FallbackError))
		return nil, err
	}
	p.notifier.Success(p.tool.SuccessMessage)
	return res, nil
}

// Copy writes the result to the clipboard. For list results the optional
// index selects one item.
func (p *Page) Copy(cb Clipboard, index ...int) error {
	res := p.Result()
	if res == nil {
		return ErrNoResult
	}
	text := res.String()
	if len(index) > 0 {
		if res.Kind != tools.OutputList || index[0] < 0 || index[0] >= len(res.Titles) {
			return errors.Wrapf(ErrNoResult, "index %d", index[0])
		}
		text = res.Titles[index[0]]
	}
	if err := cb.WriteAll(text); err != nil {
		return errors.WithMessage(err, "failed to copy to clipboard")
	}
	p.notifier.Success(CopiedMessage)
	return nil
}

// Download saves the result into the folder and returns the file path.
// Text results are written as is, images are decoded from the data URI
// or fetched from the URL.
func (p *Page) Download(ctx context.Context, dir string) (string, error) {
	p.lock.Lock()
	res, req := p.result, p.input
	p.lock.Unlock()

	if p.tool.DownloadName == nil {
		return "", errors.Wrapf(ErrNotSupported, "%s: download", p.tool.Name)
	}
	if res == nil {
		return "", ErrNoResult
	}

	var data []byte
	if res.Kind == tools.OutputImage {
		var err error
		if llmutils.IsDataURI(res.Image) {
			_, data, err = llmutils.DecodeDataURI(res.Image)
		} else {
			_, data, err = llmutils.DownloadImageData(ctx, p.httpClient, res.Image)
		}
		if err != nil {
			return "", err
		}
	} else {
		data = []byte(res.String())
	}

	root := filepath.Clean(values.StringsCoalesce(dir, "."))
	name := filepath.Base(p.tool.DownloadName(req, p.now()))
	path := filepath.Join(root, name)
	if filepath.Dir(path) != root {
		return "", errors.Errorf("invalid download name: %q", name)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", errors.WithMessage(err, "failed to save file")
	}

	p.notifier.Success(p.tool.DownloadMessage)
	return path, nil
}

// ReadFile is a helper returning the opener of a file on disk
func ReadFile(path string) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return os.Open(path)
	}
}

func userMessage(err error, fallback string) string {
	if errors.Is(err, ErrNoResult) {
		return fallback
	}
	msg := strings.TrimSuffix(err.Error(), ": "+ErrValidation.Error())
	return values.StringsCoalesce(strings.TrimSpace(msg), fallback)
}
