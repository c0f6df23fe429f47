package cli

import (
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/quickai/pages"
	"github.com/effective-security/quickai/tools"
	"github.com/spf13/cobra"
)

// document types missing from the system MIME table on some hosts
var extTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// runTool drives the page of the tool: selects the file, submits the
// request and prints the result, then copies or downloads it.
func runTool(cmd *cobra.Command, opts *options, name string, req tools.Request, file string) error {
	tl, err := tools.Get(name)
	if err != nil {
		return err
	}

	errOut := cmd.ErrOrStderr()
	page := pages.New(tl, opts.invoker(errOut), pages.NewWriterNotifier(errOut))

	if file != "" {
		info, err := fileInfo(file)
		if err != nil {
			return err
		}
		if err = page.SelectFile(info, pages.ReadFile(file)); err != nil {
			return err
		}
	}

	res, err := page.Submit(cmd.Context(), req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if res.Kind == tools.OutputList {
		for i, title := range res.Titles {
			printf(out, "%d. %s\n", i+1, title)
		}
	} else {
		printf(out, "%s\n", res.String())
	}

	if opts.copy {
		if err = page.Copy(Clipboard); err != nil {
			return err
		}
	}
	if opts.download != "" {
		path, err := page.Download(cmd.Context(), opts.download)
		if err != nil {
			return err
		}
		printf(errOut, "saved %s\n", path)
	}
	return nil
}

func fileInfo(path string) (pages.FileInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return pages.FileInfo{}, errors.WithStack(err)
	}
	if st.IsDir() {
		return pages.FileInfo{}, errors.Newf("not a file: %s", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	typ := extTypes[ext]
	if typ == "" {
		typ = mime.TypeByExtension(ext)
	}
	if typ == "" {
		typ, err = sniff(path)
		if err != nil {
			return pages.FileInfo{}, err
		}
	}
	typ, _, _ = strings.Cut(typ, ";")

	return pages.FileInfo{
		Name: filepath.Base(path),
		Size: st.Size(),
		Type: typ,
	}, nil
}

func sniff(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.WithStack(err)
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, _ := f.Read(buf)
	return http.DetectContentType(buf[:n]), nil
}
