package tools

import (
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/values"
)

// Tool names
const (
	Article           = "article"
	BlogTitles        = "blog-titles"
	Image             = "image"
	BackgroundRemoval = "background-removal"
	ObjectRemoval     = "object-removal"
	ResumeAnalysis    = "resume-analysis"
)

// Function names
const (
	FunctionGenerateArticle    = "generate-article"
	FunctionGenerateBlogTitles = "generate-blog-titles"
	FunctionGenerateImage      = "generate-image"
	FunctionRemoveBackground   = "remove-background"
	FunctionRemoveObject       = "remove-object"
	FunctionAnalyzeResume      = "analyze-resume"
)

// File size ceilings
const (
	MaxImageSize  = 10 * 1024 * 1024
	MaxResumeSize = 5 * 1024 * 1024
)

// ResumeTypes is the MIME allow-list of the resume analyzer.
var ResumeTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// ArticleWords maps the article length to the requested word count.
var ArticleWords = map[string]string{
	LengthShort:  "300-500",
	LengthMedium: "500-800",
	LengthLong:   "800-1200",
}

func articleWords(vars map[string]any) {
	length, _ := vars["length"].(string)
	vars["words"] = ArticleWords[length]
}

func imageFile() *FileSpec {
	return &FileSpec{
		Field:           "image",
		Accept:          "image/*",
		MaxSize:         MaxImageSize,
		TooLargeMessage: "File size should be less than 10MB",
	}
}

func timestamped(prefix, ext string) func(Request, time.Time) string {
	return func(_ Request, now time.Time) string {
		return fmt.Sprintf("%s-%d.%s", prefix, now.UnixMilli(), ext)
	}
}

var catalog = []*Tool{
	{
		Name:        Article,
		Function:    FunctionGenerateArticle,
		Title:       "Article Generator",
		Description: "Generate high-quality articles with AI",
		Route:       "/article-generator",
		SystemPrompt: "You are an expert content writer. " +
			"Write engaging, well-structured and informative articles.",
		UserPrompt: `Write a {{.length}} article titled "{{.title}}".` +
			`{{with .words}} The article should be {{.}} words long.{{end}}`,
		Variables: []string{"title", "length", "words"},
		Derive:    articleWords,
		OutputKey: "article",
		Output:    OutputText,
		Required: map[string]string{
			"title": "Please enter an article title",
		},
		FallbackError:   "Failed to generate article",
		SuccessMessage:  "Article generated successfully!",
		DownloadMessage: "Article downloaded!",
		DownloadName: func(req Request, _ time.Time) string {
			title := ""
			if r, ok := req.(*ArticleRequest); ok {
				title = r.Title
			}
			return values.StringsCoalesce(Slug(title), Article) + ".txt"
		},
		NewRequest: func() Request { return new(ArticleRequest) },
	},
	{
		Name:         BlogTitles,
		Function:     FunctionGenerateBlogTitles,
		Title:        "Blog Title Generator",
		Description:  "Generate catchy blog titles for your content",
		Route:        "/blog-title-generator",
		SystemPrompt: "You are a creative copywriter. Generate catchy, engaging blog titles.",
		UserPrompt: `Generate 5 catchy blog titles for the keyword "{{.keyword}}" in the {{.category}} category. ` +
			`Return only the titles, one per line.`,
		Variables: []string{"keyword", "category"},
		OutputKey: "titles",
		Output:    OutputList,
		Required: map[string]string{
			"keyword": "Please enter a keyword",
		},
		FallbackError:  "Failed to generate titles",
		SuccessMessage: "Titles generated successfully!",
		NewRequest:     func() Request { return new(BlogTitlesRequest) },
	},
	{
		Name:         Image,
		Function:     FunctionGenerateImage,
		Title:        "Image Generator",
		Description:  "Create stunning images from text descriptions",
		Route:        "/image-generator",
		SystemPrompt: "You are an AI image generation assistant.",
		UserPrompt: `Generate an image for the following description: {{.prompt}}. ` +
			`Return only the image URL.`,
		Variables: []string{"prompt"},
		OutputKey: "imageUrl",
		Output:    OutputImage,
		Required: map[string]string{
			"prompt": "Please enter a prompt",
		},
		FallbackError:   "Failed to generate image",
		SuccessMessage:  "Image generated successfully!",
		DownloadMessage: "Image downloaded!",
		DownloadName:    timestamped("generated-image", "png"),
		NewRequest:      func() Request { return new(ImageRequest) },
	},
	{
		Name:        BackgroundRemoval,
		Function:    FunctionRemoveBackground,
		Title:       "Background Remover",
		Description: "Remove backgrounds from your images with AI",
		Route:       "/background-remover",
		OutputKey:   "processedImage",
		Output:      OutputImage,
		File:        imageFile(),
		Stub:        true,
		Required: map[string]string{
			"image": "Please upload an image first",
		},
		FallbackError:   "Failed to process image",
		SuccessMessage:  "Background removed! (Demo mode, the image is returned unchanged)",
		InfoMessage:     "This feature uses browser-based AI. Processing may take a moment...",
		DownloadMessage: "Image downloaded!",
		DownloadName:    timestamped("background-removed", "png"),
		NewRequest:      func() Request { return new(BackgroundRemovalRequest) },
	},
	{
		Name:         ObjectRemoval,
		Function:     FunctionRemoveObject,
		Title:        "Object Remover",
		Description:  "Remove unwanted objects from your photos with AI",
		Route:        "/object-remover",
		SystemPrompt: "You are an AI image editing assistant.",
		UserPrompt: `Remove "{{.description}}" from the following image and ` +
			`return only the edited image as a data URI: {{.image}}`,
		Variables: []string{"image", "description"},
		OutputKey: "processedImage",
		Output:    OutputImage,
		File:      imageFile(),
		Required: map[string]string{
			"image":       "Please upload an image first",
			"description": "Please describe the object to remove",
		},
		FallbackError:   "Failed to remove object",
		SuccessMessage:  "Object removed successfully!",
		DownloadMessage: "Image downloaded!",
		DownloadName:    timestamped("object-removed", "png"),
		NewRequest:      func() Request { return new(ObjectRemovalRequest) },
	},
	{
		Name:         ResumeAnalysis,
		Function:     FunctionAnalyzeResume,
		Title:        "Resume Analyzer",
		Description:  "Get AI-powered feedback on your resume",
		Route:        "/resume-analyzer",
		SystemPrompt: "You are an expert career counselor. Analyze resumes and provide detailed feedback.",
		UserPrompt:   "Analyze this resume and provide feedback on strengths, weaknesses, and suggestions for improvement.",
		OutputKey:    "analysis",
		Output:       OutputText,
		File: &FileSpec{
			Field:           "resume",
			Accept:          ".pdf,.doc,.docx",
			MaxSize:         MaxResumeSize,
			AllowedTypes:    ResumeTypes,
			TooLargeMessage: "File size should be less than 5MB",
			TypeMessage:     "Please upload a PDF or DOC file",
		},
		Required: map[string]string{
			"resume": "Please upload a resume first",
		},
		FallbackError:   "Failed to analyze resume",
		SuccessMessage:  "Resume analyzed successfully!",
		DownloadMessage: "Analysis downloaded!",
		DownloadName:    timestamped("resume-analysis", "txt"),
		NewRequest:      func() Request { return new(ResumeRequest) },
	},
}

var (
	byName     = map[string]*Tool{}
	byFunction = map[string]*Tool{}
)

func init() {
	for _, t := range catalog {
		byName[t.Name] = t
		byFunction[t.Function] = t
	}
}

// All returns the tools in catalog order.
func All() []*Tool {
	return append([]*Tool(nil), catalog...)
}

// Get returns the tool by its name or its function name.
func Get(name string) (*Tool, error) {
	if t, ok := byName[name]; ok {
		return t, nil
	}
	if t, ok := byFunction[name]; ok {
		return t, nil
	}
	return nil, errors.WithMessagef(ErrNotFound, "%q", strings.TrimSpace(name))
}

// Functions returns the remote function names in catalog order.
func Functions() []string {
	names := make([]string, 0, len(catalog))
	for _, t := range catalog {
		names = append(names, t.Function)
	}
	return names
}
