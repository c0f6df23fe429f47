package cli

import (
	"github.com/effective-security/quickai/tools"
	"github.com/spf13/cobra"
)

func newArticleCmd(opts *options) *cobra.Command {
	req := &tools.ArticleRequest{}
	cmd := &cobra.Command{
		Use:   "article",
		Short: "Generate an article",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTool(cmd, opts, tools.Article, req, "")
		},
	}
	cmd.Flags().StringVar(&req.Title, "title", "", "title of the article")
	cmd.Flags().StringVar(&req.Length, "length", tools.LengthMedium, "length: short|medium|long")
	return cmd
}

func newTitlesCmd(opts *options) *cobra.Command {
	req := &tools.BlogTitlesRequest{}
	cmd := &cobra.Command{
		Use:   "titles",
		Short: "Generate blog titles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTool(cmd, opts, tools.BlogTitles, req, "")
		},
	}
	cmd.Flags().StringVar(&req.Keyword, "keyword", "", "keyword of the titles")
	cmd.Flags().StringVar(&req.Category, "category", tools.CategoryTechnology,
		"category: technology|business|health|lifestyle|education|entertainment")
	return cmd
}

func newImageCmd(opts *options) *cobra.Command {
	req := &tools.ImageRequest{}
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Generate an image",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTool(cmd, opts, tools.Image, req, "")
		},
	}
	cmd.Flags().StringVar(&req.Prompt, "prompt", "", "description of the image")
	return cmd
}

func newRemoveBackgroundCmd(opts *options) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "remove-bg",
		Short: "Remove the background of an image",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTool(cmd, opts, tools.BackgroundRemoval, &tools.BackgroundRemovalRequest{}, file)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "image file")
	return cmd
}

func newRemoveObjectCmd(opts *options) *cobra.Command {
	var file string
	req := &tools.ObjectRemovalRequest{}
	cmd := &cobra.Command{
		Use:   "remove-object",
		Short: "Remove an object from an image",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTool(cmd, opts, tools.ObjectRemoval, req, file)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "image file")
	cmd.Flags().StringVar(&req.Description, "description", "", "object to remove")
	return cmd
}

func newResumeCmd(opts *options) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "resume",
		Short: "Analyze a resume",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTool(cmd, opts, tools.ResumeAnalysis, &tools.ResumeRequest{}, file)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "resume file: PDF, DOC or DOCX")
	return cmd
}
