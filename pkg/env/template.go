package env

import (
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// templateFuncs is the function map every directive template renders
// against: sprig's general-purpose helpers plus an "env" lookup closed over
// the composer's current snapshot (§4.4 step 1: "a template context from
// this snapshot").
func templateFuncs(snapshot map[string]string) template.FuncMap {
	funcs := sprig.TxtFuncMap()
	funcs["env"] = func(key string) string { return snapshot[key] }
	return funcs
}

// renderTemplate renders src as a Go text/template against snapshot using
// Sprig's function set. A src with no "{{" is returned unchanged without
// invoking the template engine at all (the common case: most directive
// values are plain literals).
func renderTemplate(src string, snapshot map[string]string) (string, error) {
	if !strings.Contains(src, "{{") {
		return src, nil
	}
	tmpl, err := template.New("directive").Funcs(templateFuncs(snapshot)).Parse(src)
	if err != nil {
		return "", err
	}
	ctx := struct{ Env map[string]string }{Env: snapshot}
	var buf strings.Builder
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", err
	}
	return buf.String(), nil
}
