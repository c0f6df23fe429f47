package tools_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/quickai/pkg/llms"
	"github.com/effective-security/quickai/tools"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTitles(t *testing.T) {
	t.Parallel()

	tcases := []struct {
		name string
		text string
		exp  []string
	}{
		{name: "numbered", text: "1. Boost Your Day\n2. Work Smarter", exp: []string{"Boost Your Day", "Work Smarter"}},
		{name: "blank lines", text: "1. Foo\n\n2. Bar", exp: []string{"Foo", "Bar"}},
		{name: "no ordinal", text: "Foo\n  \nBar\n", exp: []string{"Foo", "Bar"}},
		{name: "wide ordinal", text: "10.   Ten Tips\r\n11.Eleven", exp: []string{"Ten Tips", "Eleven"}},
		{name: "ordinal only at start", text: "Top 5. Ideas", exp: []string{"Top 5. Ideas"}},
		{name: "empty", text: "", exp: []string{}},
	}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.exp, tools.ParseTitles(tc.text)); diff != "" {
				t.Errorf("ParseTitles() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "go-concurrency-in-practice", tools.Slug("Go  Concurrency\tin Practice"))
	assert.Equal(t, "ai-ml-trends", tools.Slug("AI/ML trends"))
	assert.Equal(t, "escaped", tools.Slug("../escaped"))
	assert.Equal(t, "c-tips-2024", tools.Slug(`C:\ tips, 2024!`))
	assert.Equal(t, "", tools.Slug(".."))
	assert.Equal(t, "", tools.Slug(""))
}

func TestCatalog(t *testing.T) {
	all := tools.All()
	require.Len(t, all, 6)

	assert.Equal(t, []string{
		"generate-article",
		"generate-blog-titles",
		"generate-image",
		"remove-background",
		"remove-object",
		"analyze-resume",
	}, tools.Functions())

	keys := map[string]string{}
	for _, tl := range all {
		keys[tl.Name] = tl.OutputKey

		byFn, err := tools.Get(tl.Function)
		require.NoError(t, err)
		assert.Same(t, tl, byFn)

		byName, err := tools.Get(tl.Name)
		require.NoError(t, err)
		assert.Same(t, tl, byName)

		assert.NotEmpty(t, tl.FallbackError, tl.Name)
		assert.NotEmpty(t, tl.SuccessMessage, tl.Name)
		assert.NotEmpty(t, tl.Required, tl.Name)
		assert.NotNil(t, tl.NewRequest(), tl.Name)
		if !tl.Stub {
			assert.NotEmpty(t, tl.SystemPrompt, tl.Name)
			assert.NotEmpty(t, tl.UserPrompt, tl.Name)
		}
	}
	assert.Equal(t, map[string]string{
		"article":            "article",
		"blog-titles":        "titles",
		"image":              "imageUrl",
		"background-removal": "processedImage",
		"object-removal":     "processedImage",
		"resume-analysis":    "analysis",
	}, keys)

	// callers must not be able to modify the catalog
	all[0] = nil
	assert.NotNil(t, tools.All()[0])

	_, err := tools.Get("translate")
	assert.True(t, errors.Is(err, tools.ErrNotFound))
	assert.EqualError(t, err, `"translate": tool not found`)
}

func TestPrompt(t *testing.T) {
	tl, err := tools.Get(tools.BlogTitles)
	require.NoError(t, err)

	req := &tools.BlogTitlesRequest{Keyword: "productivity", Category: "technology"}
	msgs, err := tl.Prompt().FormatMessages(req.Vars())
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, llms.RoleSystem, msgs[0].Role)
	assert.Equal(t, "You are a creative copywriter. Generate catchy, engaging blog titles.", msgs[0].GetContent())
	assert.Equal(t, llms.RoleHuman, msgs[1].Role)
	assert.Equal(t,
		`Generate 5 catchy blog titles for the keyword "productivity" in the technology category. Return only the titles, one per line.`,
		msgs[1].GetContent())

	tl, err = tools.Get(tools.Article)
	require.NoError(t, err)

	msgs, err = tl.Prompt().FormatMessages((&tools.ArticleRequest{Title: "Go", Length: "long"}).Vars())
	require.NoError(t, err)
	assert.Equal(t, `Write a long article titled "Go". The article should be 800-1200 words long.`, msgs[1].GetContent())

	// missing fields are interpolated as empty strings
	msgs, err = tl.Prompt().FormatMessages((&tools.ArticleRequest{}).Vars())
	require.NoError(t, err)
	assert.Equal(t, `Write a  article titled "".`, msgs[1].GetContent())

	tl, err = tools.Get(tools.ResumeAnalysis)
	require.NoError(t, err)
	msgs, err = tl.Prompt().FormatMessages((&tools.ResumeRequest{Resume: "data:application/pdf;base64,AA==", Filename: "cv.pdf"}).Vars())
	require.NoError(t, err)
	assert.Equal(t, "Analyze this resume and provide feedback on strengths, weaknesses, and suggestions for improvement.", msgs[1].GetContent())
}

func TestBodyVars(t *testing.T) {
	tl, err := tools.Get(tools.Article)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"title":  "42",
		"length": "long",
		"words":  "800-1200",
	}, tl.BodyVars([]byte(`{"title":42,"length":"long","extra":true}`)))

	assert.Equal(t, map[string]any{
		"title":  "",
		"length": "",
		"words":  "",
	}, tl.BodyVars([]byte(`{}`)))

	tl, err = tools.Get(tools.ObjectRemoval)
	require.NoError(t, err)
	assert.Equal(t, "image", tl.File.Field)
	assert.Equal(t, map[string]any{
		"image":       "data:image/png;base64,AA==",
		"description": "true",
	}, tl.BodyVars([]byte(`{"image":"data:image/png;base64,AA==","description":true}`)))
}

func TestValidate(t *testing.T) {
	tcases := []struct {
		tool string
		req  tools.Request
		exp  string
	}{
		{tool: tools.Article, req: &tools.ArticleRequest{Title: "  "}, exp: "Please enter an article title"},
		{tool: tools.BlogTitles, req: &tools.BlogTitlesRequest{}, exp: "Please enter a keyword"},
		{tool: tools.Image, req: &tools.ImageRequest{Prompt: "\n"}, exp: "Please enter a prompt"},
		{tool: tools.BackgroundRemoval, req: &tools.BackgroundRemovalRequest{}, exp: "Please upload an image first"},
		{tool: tools.ObjectRemoval, req: &tools.ObjectRemovalRequest{Description: "the dog"}, exp: "Please upload an image first"},
		{tool: tools.ObjectRemoval, req: &tools.ObjectRemovalRequest{Image: "data:image/png;base64,AA=="}, exp: "Please describe the object to remove"},
		{tool: tools.ResumeAnalysis, req: &tools.ResumeRequest{Filename: "cv.pdf"}, exp: "Please upload a resume first"},
		{tool: tools.Article, req: &tools.ArticleRequest{Title: "Go"}},
		{tool: tools.ObjectRemoval, req: &tools.ObjectRemovalRequest{Image: "data:image/png;base64,AA==", Description: "the dog"}},
	}
	for _, tc := range tcases {
		tl, err := tools.Get(tc.tool)
		require.NoError(t, err)

		err = tl.Validate(tc.req)
		if tc.exp == "" {
			assert.NoError(t, err, tc.tool)
			continue
		}
		require.Error(t, err, tc.tool)
		assert.True(t, errors.Is(err, tools.ErrValidation), tc.tool)
		assert.Equal(t, tc.exp+": validation failed", err.Error())
	}
}

func TestDefaults(t *testing.T) {
	a := &tools.ArticleRequest{Title: "Go"}
	a.SetDefaults()
	assert.Equal(t, tools.LengthMedium, a.Length)

	a = &tools.ArticleRequest{Title: "Go", Length: tools.LengthShort}
	a.SetDefaults()
	assert.Equal(t, tools.LengthShort, a.Length)

	b := &tools.BlogTitlesRequest{Keyword: "go"}
	b.SetDefaults()
	assert.Equal(t, tools.CategoryTechnology, b.Category)
}

func TestFileSpec(t *testing.T) {
	tl, err := tools.Get(tools.ResumeAnalysis)
	require.NoError(t, err)
	require.NotNil(t, tl.File)
	assert.EqualValues(t, 5*1024*1024, tl.File.MaxSize)
	assert.True(t, tl.File.Allows("application/pdf"))
	assert.True(t, tl.File.Allows("application/msword"))
	assert.True(t, tl.File.Allows("application/vnd.openxmlformats-officedocument.wordprocessingml.document"))
	assert.False(t, tl.File.Allows("image/png"))
	assert.False(t, tl.File.Allows(""))

	tl, err = tools.Get(tools.ObjectRemoval)
	require.NoError(t, err)
	assert.EqualValues(t, 10*1024*1024, tl.File.MaxSize)
	assert.True(t, tl.File.Allows("image/png"))

	var fr tools.FileRequest = &tools.ResumeRequest{}
	fr.SetFile("data:application/pdf;base64,AA==", "cv.pdf")
	assert.Equal(t, "data:application/pdf;base64,AA==", fr.File())
	assert.Equal(t, "cv.pdf", fr.(*tools.ResumeRequest).Filename)
}

func TestDownloadName(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	names := map[string]string{}
	for _, tl := range tools.All() {
		if tl.DownloadName == nil {
			continue
		}
		req := tl.NewRequest()
		if a, ok := req.(*tools.ArticleRequest); ok {
			a.Title = "My First  Article"
		}
		names[tl.Name] = tl.DownloadName(req, now)
	}
	assert.Equal(t, "article.txt", tools.All()[0].DownloadName(&tools.ArticleRequest{Title: "../.."}, now))
	assert.Equal(t, map[string]string{
		"article":            "my-first-article.txt",
		"image":              "generated-image-1700000000123.png",
		"background-removal": "background-removed-1700000000123.png",
		"object-removal":     "object-removed-1700000000123.png",
		"resume-analysis":    "resume-analysis-1700000000123.txt",
	}, names)
}

func TestDescribe(t *testing.T) {
	tl, err := tools.Get(tools.Article)
	require.NoError(t, err)

	d, err := tl.Describe()
	require.NoError(t, err)
	assert.Equal(t, "generate-article", d.Function)
	assert.Equal(t, tools.OutputText, d.Output)

	js, err := json.Marshal(d)
	require.NoError(t, err)

	var doc struct {
		Name   string `json:"name"`
		Schema struct {
			Required   []string                  `json:"required"`
			Properties map[string]map[string]any `json:"properties"`
		} `json:"schema"`
	}
	require.NoError(t, json.Unmarshal(js, &doc))
	assert.Equal(t, "article", doc.Name)
	assert.Equal(t, []string{"title"}, doc.Schema.Required)
	assert.Contains(t, doc.Schema.Properties, "length")
	assert.Equal(t, []any{"short", "medium", "long"}, doc.Schema.Properties["length"]["enum"])
}
