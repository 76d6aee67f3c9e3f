package notify

import (
	"bytes"
	"fmt"
	"maps"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pixil98/go-inventory/internal/catalog"
	"github.com/pixil98/go-inventory/internal/display"
)

var templateFuncs = sprig.TxtFuncMap()

// DefaultTemplates render each alert type when config does not override it.
var DefaultTemplates = map[string]string{
	TypeAdd:       `+{{ .Count }} {{ .Label }}`,
	TypeRemoved:   `-{{ .Count }} {{ .Label }}`,
	TypeUsed:      `Used {{ .Label }}`,
	TypeHolstered: `Holstered {{ .Label }}`,
	TypeEquipped:  `Equipped {{ .Label }}`,
}

// View is the data an alert template sees.
type View struct {
	Type  string
	Name  string
	Label string
	Count int
}

// Formatter turns alerts into console text.
type Formatter struct {
	defs      catalog.Lookup
	templates map[string]*template.Template
}

// NewFormatter parses DefaultTemplates with overrides applied on top.
func NewFormatter(defs catalog.Lookup, overrides map[string]string) (*Formatter, error) {
	src := maps.Clone(DefaultTemplates)
	maps.Copy(src, overrides)

	f := &Formatter{
		defs:      defs,
		templates: make(map[string]*template.Template, len(src)),
	}
	for typ, text := range src {
		tmpl, err := template.New(typ).Funcs(templateFuncs).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", typ, err)
		}
		f.templates[typ] = tmpl
	}
	return f, nil
}

func (f *Formatter) Format(a Alert) (string, error) {
	v := View{Type: a.Type}
	if a.Item != nil {
		v.Name = a.Item.Name
		v.Count = a.Item.Count
		v.Label = a.Item.Name
		if d, ok := f.defs.Lookup(a.Item.Name); ok {
			v.Label = d.Label
		}
		v.Label = a.Item.Label(v.Label)
	}

	tmpl, ok := f.templates[a.Type]
	if !ok {
		return display.Wrap(fmt.Sprintf("%s %s", a.Type, v.Label)), nil
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("executing %s template: %w", a.Type, err)
	}
	return display.Wrap(buf.String()), nil
}
