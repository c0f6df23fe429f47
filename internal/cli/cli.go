// Package cli implements the quickai command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/quickai/callbacks"
	"github.com/effective-security/quickai/callctx"
	"github.com/effective-security/quickai/client"
	"github.com/effective-security/quickai/config"
	"github.com/effective-security/quickai/functions"
	"github.com/effective-security/quickai/pages"
	"github.com/effective-security/quickai/pkg/llmfactory"
	"github.com/effective-security/xlog"
	"github.com/spf13/cobra"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/quickai", "cli")

var logLevels = map[string]xlog.LogLevel{
	"DEBUG":   xlog.DEBUG,
	"INFO":    xlog.INFO,
	"WARNING": xlog.WARNING,
	"ERROR":   xlog.ERROR,
}

// Clipboard is used by --copy
var Clipboard pages.Clipboard = pages.ClipboardFunc(clipboard.WriteAll)

type options struct {
	configFile string
	url        string
	logLevel   string
	copy       bool
	download   string
	verbose    bool
	stats      bool

	cfg *config.Config
}

// New returns the root command, the output of the tools goes to out
// and the notifications to errOut.
func New(out, errOut io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "quickai",
		Short:         "QuickAI productivity tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.init(errOut)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "configuration file")
	flags.StringVar(&opts.url, "url", "", "URL of the functions server, the functions run in process when empty")
	flags.StringVar(&opts.logLevel, "log-level", "ERROR", "log level: DEBUG|INFO|WARNING|ERROR")
	flags.BoolVar(&opts.copy, "copy", false, "copy the result to the clipboard")
	flags.StringVar(&opts.download, "download", "", "save the result into the folder")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "print the function events")
	flags.BoolVar(&opts.stats, "stats", false, "print the transcript and the model usage of each in-process call")

	root.AddCommand(
		newServeCmd(opts),
		newToolsCmd(opts),
		newArticleCmd(opts),
		newTitlesCmd(opts),
		newImageCmd(opts),
		newRemoveBackgroundCmd(opts),
		newRemoveObjectCmd(opts),
		newResumeCmd(opts),
	)
	return root
}

// Execute runs the command line
func Execute(ctx context.Context, args []string) error {
	cmd := New(os.Stdout, os.Stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func (o *options) init(errOut io.Writer) error {
	level, ok := logLevels[strings.ToUpper(o.logLevel)]
	if !ok {
		return errors.Newf("invalid log level: %s", o.logLevel)
	}
	xlog.SetFormatter(xlog.NewStringFormatter(errOut))
	xlog.SetGlobalLogLevel(level)

	cfg, err := config.Load(o.configFile)
	if err != nil {
		return errors.WithMessage(err, "failed to load configuration")
	}
	o.cfg = cfg
	return nil
}

// registry returns the in-process functions
func (o *options) registry(errOut io.Writer, extra ...functions.Callback) *functions.Registry {
	cb := callbacks.NewFanout(callbacks.NewPackageLogger(logger))
	if o.verbose {
		cb.Add(callbacks.NewPrinter(errOut, callbacks.ModeVerbose))
	}
	for _, c := range extra {
		cb.Add(c)
	}
	return functions.NewRegistry(llmfactory.New(&o.cfg.LLM), functions.WithCallback(cb))
}

// invoker returns the client of --url, or the in-process functions
func (o *options) invoker(errOut io.Writer) pages.Invoker {
	if o.url != "" {
		return client.New(o.url, client.WithBasePath(o.cfg.Server.BasePath))
	}
	if !o.stats {
		return o.registry(errOut)
	}

	mode := callbacks.ModeDefault
	if o.verbose {
		mode = callbacks.ModeVerbose
	}
	pad := callbacks.NewScratchpad(mode)
	return &recordingInvoker{next: o.registry(errOut, pad), pad: pad, out: errOut}
}

// recordingInvoker runs each invocation in a scratchpad run
// and prints the transcript when the call returns.
type recordingInvoker struct {
	next pages.Invoker
	pad  *callbacks.Scratchpad
	out  io.Writer
}

func (r *recordingInvoker) Invoke(ctx context.Context, function string, body any) ([]byte, error) {
	ctx = callctx.WithCallContext(ctx, callctx.New(callctx.GetRequestID(ctx), function))
	r.pad.StartRun(ctx)
	res, err := r.next.Invoke(ctx, function, body)
	if stats, transcript := r.pad.EndRun(ctx); stats != nil {
		_, _ = r.out.Write(transcript)
		logger.ContextKV(ctx, xlog.DEBUG,
			"function", stats.Function,
			"request_id", stats.RequestID,
			"llm_calls", stats.LLMCalls,
			"total_tokens", stats.LLMTotalTokens,
			"duration", stats.Duration.String(),
		)
	}
	return res, err
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
