package pages

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/quickai/tools"
	"github.com/tidwall/gjson"
)

// Result is the last successful response of a page
type Result struct {
	Kind tools.OutputKind
	// Text is set for text results
	Text string
	// Titles is set for list results
	Titles []string
	// Image is a data URI or a URL
	Image string
}

// String returns the displayed text of the result
func (r *Result) String() string {
	switch r.Kind {
	case tools.OutputList:
		return strings.Join(r.Titles, "\n")
	case tools.OutputImage:
		return r.Image
	default:
		return r.Text
	}
}

// Outcome is the result of a remote call
type Outcome struct {
	Payload []byte
	Err     error
}

// Failed returns true if the call failed
func (o Outcome) Failed() bool {
	return o.Err != nil
}

func parseResult(t *tools.Tool, payload []byte) (*Result, error) {
	if !gjson.ValidBytes(payload) {
		return nil, errors.Wrap(ErrNoResult, "invalid response")
	}
	v := gjson.GetBytes(payload, t.OutputKey)
	if !v.Exists() {
		return nil, errors.Wrapf(ErrNoResult, "missing %q", t.OutputKey)
	}

	res := &Result{Kind: t.Output}
	switch t.Output {
	case tools.OutputList:
		if !v.IsArray() {
			return nil, errors.Wrapf(ErrNoResult, "%q is not a list", t.OutputKey)
		}
		res.Titles = []string{}
		for _, item := range v.Array() {
			res.Titles = append(res.Titles, item.String())
		}
	case tools.OutputImage:
		res.Image = v.String()
	default:
		res.Text = v.String()
	}
	return res, nil
}
