package prompts

import (
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/cockroachdb/errors"
)

// PromptTemplate is a Go template with the list of variables it reads.
type PromptTemplate struct {
	// Template is the text/template source; sprig functions are available.
	Template string
	// InputVariables are the variables the template reads.
	// Declared variables missing from the values render as empty strings.
	InputVariables []string

	tmpl *template.Template
}

// NewPromptTemplate returns a new prompt template.
func NewPromptTemplate(tmpl string, inputVars []string) PromptTemplate {
	return PromptTemplate{
		Template:       tmpl,
		InputVariables: inputVars,
	}
}

// Format renders the template with the values.
func (p PromptTemplate) Format(values map[string]any) (string, error) {
	t := p.tmpl
	if t == nil {
		var err error
		t, err = parse(p.Template)
		if err != nil {
			return "", err
		}
	}

	data := make(map[string]any, len(values)+len(p.InputVariables))
	for _, name := range p.InputVariables {
		data[name] = ""
	}
	for k, v := range values {
		if v == nil {
			continue
		}
		data[k] = v
	}

	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", errors.Wrap(err, "failed to render template")
	}
	return sb.String(), nil
}

// Compile parses the template once, so Format does not parse on every call.
func (p PromptTemplate) Compile() (PromptTemplate, error) {
	t, err := parse(p.Template)
	if err != nil {
		return p, err
	}
	p.tmpl = t
	return p, nil
}

func parse(src string) (*template.Template, error) {
	t, err := template.New("prompt").
		Option("missingkey=error").
		Funcs(sprig.TxtFuncMap()).
		Parse(src)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse template")
	}
	return t, nil
}
