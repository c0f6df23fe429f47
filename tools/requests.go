package tools

// Request is the JSON body of a tool invocation.
type Request interface {
	// Vars returns the values interpolated into the prompts.
	Vars() map[string]any
}

// Defaulter is implemented by requests with client-side defaults.
type Defaulter interface {
	SetDefaults()
}

// FileRequest is implemented by requests that carry a file.
type FileRequest interface {
	Request
	// SetFile stores the file as a data URI with its name.
	SetFile(dataURI, filename string)
	// File returns the stored data URI.
	File() string
}

// Article lengths
const (
	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"
)

// Blog categories
const (
	CategoryTechnology    = "technology"
	CategoryBusiness      = "business"
	CategoryHealth        = "health"
	CategoryLifestyle     = "lifestyle"
	CategoryEducation     = "education"
	CategoryEntertainment = "entertainment"
)

// ArticleRequest is the body of generate-article.
type ArticleRequest struct {
	Title  string `json:"title" validate:"notblank" jsonschema:"title=Title,description=Title of the article"`
	Length string `json:"length,omitempty" jsonschema:"title=Length,description=Length of the article,default=medium,enum=short,enum=medium,enum=long"`
}

func (r *ArticleRequest) Vars() map[string]any {
	return map[string]any{
		"title":  r.Title,
		"length": r.Length,
		"words":  ArticleWords[r.Length],
	}
}

func (r *ArticleRequest) SetDefaults() {
	if r.Length == "" {
		r.Length = LengthMedium
	}
}

// BlogTitlesRequest is the body of generate-blog-titles.
type BlogTitlesRequest struct {
	Keyword  string `json:"keyword" validate:"notblank" jsonschema:"title=Keyword,description=Keyword the titles are about"`
	Category string `json:"category,omitempty" jsonschema:"title=Category,description=Category of the blog,default=technology,enum=technology,enum=business,enum=health,enum=lifestyle,enum=education,enum=entertainment"`
}

func (r *BlogTitlesRequest) Vars() map[string]any {
	return map[string]any{
		"keyword":  r.Keyword,
		"category": r.Category,
	}
}

func (r *BlogTitlesRequest) SetDefaults() {
	if r.Category == "" {
		r.Category = CategoryTechnology
	}
}

// ImageRequest is the body of generate-image.
type ImageRequest struct {
	Prompt string `json:"prompt" validate:"notblank" jsonschema:"title=Prompt,description=Description of the image to generate"`
}

func (r *ImageRequest) Vars() map[string]any {
	return map[string]any{
		"prompt": r.Prompt,
	}
}

// BackgroundRemovalRequest is the body of remove-background.
type BackgroundRemovalRequest struct {
	Image string `json:"image" validate:"notblank" jsonschema:"title=Image,description=Image as a data URI"`
}

func (r *BackgroundRemovalRequest) Vars() map[string]any {
	return map[string]any{
		"image": r.Image,
	}
}

func (r *BackgroundRemovalRequest) SetFile(dataURI, _ string) {
	r.Image = dataURI
}

func (r *BackgroundRemovalRequest) File() string {
	return r.Image
}

// ObjectRemovalRequest is the body of remove-object.
type ObjectRemovalRequest struct {
	Image       string `json:"image" validate:"notblank" jsonschema:"title=Image,description=Image as a data URI"`
	Description string `json:"description" validate:"notblank" jsonschema:"title=Description,description=Object to remove from the image"`
}

func (r *ObjectRemovalRequest) Vars() map[string]any {
	return map[string]any{
		"image":       r.Image,
		"description": r.Description,
	}
}

func (r *ObjectRemovalRequest) SetFile(dataURI, _ string) {
	r.Image = dataURI
}

func (r *ObjectRemovalRequest) File() string {
	return r.Image
}

// ResumeRequest is the body of analyze-resume.
type ResumeRequest struct {
	Resume   string `json:"resume" validate:"notblank" jsonschema:"title=Resume,description=Resume document as a data URI"`
	Filename string `json:"filename,omitempty" jsonschema:"title=Filename,description=Name of the uploaded file"`
}

func (r *ResumeRequest) Vars() map[string]any {
	return map[string]any{
		"resume":   r.Resume,
		"filename": r.Filename,
	}
}

func (r *ResumeRequest) SetFile(dataURI, filename string) {
	r.Resume = dataURI
	r.Filename = filename
}

func (r *ResumeRequest) File() string {
	return r.Resume
}
