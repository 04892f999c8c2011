package core

import (
	"html/template"
)

// ErrorData feeds ErrorTemplate. View and Message are only shown in
// development; RequestID is always shown so a report can be matched to logs.
type ErrorData struct {
	View      string
	Message   string
	RequestID string
	IsDev     bool
}

var ErrorTemplate = template.Must(template.New("view-error").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>View error</title>
<style>
body { font: 16px/1.5 system-ui, sans-serif; max-width: 48rem; margin: 3rem auto; padding: 0 1rem; color: #222; }
h1 { font-size: 1.5rem; color: #b3261e; }
pre { background: #f4f4f4; padding: 1rem; overflow-x: auto; white-space: pre-wrap; }
small { color: #777; }
</style>
</head>
<body>
<h1>Could not render view</h1>
{{- if .IsDev}}
<p><code>{{.View}}</code></p>
<pre>{{.Message}}</pre>
{{- else}}
<p>The page failed to render. Try again later.</p>
{{- end}}
{{- with .RequestID}}
<small>Request {{.}}</small>
{{- end}}
</body>
</html>`))
