package gen

import "text/template"

var fileTemplate = template.Must(template.New("file").Parse(`// Code generated by proxygen. DO NOT EDIT.

package {{ .Package }}

import (
{{- range .Imports }}
	"{{ . }}"
{{- end }}
)
{{ range $a := .Adapters }}
// {{ $a.Name }}Proxy implements {{ $a.Name }} on top of a delegate proxy.
type {{ $a.Name }}Proxy struct {
	p *proxy.Proxy
}

var _ {{ $a.Qualified }} = {{ $a.Name }}Proxy{}

// New{{ $a.Name }}Proxy returns the {{ $a.Name }} adapter of p.
func New{{ $a.Name }}Proxy(p *proxy.Proxy) {{ $a.Name }}Proxy {
	return {{ $a.Name }}Proxy{p: p}
}
{{ range $a.Methods }}
func ({{ $a.Recv }} {{ $a.Name }}Proxy) {{ .Name }}({{ .Params }}) {{ .Results }} {
	if impl, ok := proxy.As[interface{ {{ .Name }}({{ .Types }}) {{ .Results }} }]({{ $a.Recv }}.p); ok {
		{{ if .Results }}return {{ end }}impl.{{ .Name }}({{ .Args }})
	}
{{- if .Results }}

	return proxy.Fallback[{{ .First }}]({{ $a.Recv }}.p){{ range .Rest }}, *new({{ . }}){{ end }}
{{- end }}
}
{{ end }}
{{- end }}
`))
