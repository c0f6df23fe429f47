package llmutils

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
)

// DownloadImageData downloads the content from the given URL and returns the
// image type and data. The image type is the second part of the response's
// MIME (e.g. "png" from "image/png").
func DownloadImageData(ctx context.Context, client *http.Client, url string) (string, []byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", nil, errors.Wrap(err, "invalid image url")
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to fetch image from url")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, errors.Newf("failed to fetch image: %s", resp.Status)
	}

	urlData, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to read image bytes")
	}

	mimeType, _, _ := strings.Cut(resp.Header.Get("Content-Type"), ";")

	parts := strings.Split(mimeType, "/")
	if len(parts) != 2 {
		return "", nil, errors.Newf("invalid mime type %v", mimeType)
	}

	return parts[1], urlData, nil
}
