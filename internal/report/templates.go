package report

const nodeReportTemplate = `# {{ .Node.Label }}

| | |
|---|---|
| Type | {{ code .Node.Type }} |
| ID | {{ code .Node.ID }} |
{{- if .Node.FilePath }}
| Location | {{ code (location .Node) }} |
{{- end }}
| Connections | {{ .Degree }} |
{{ if .Repo }}
*Repository: {{ .Repo }}*
{{ end }}
## Direct connections
{{ if not (or .Outgoing .Incoming) }}
This node has no connections.
{{ end }}
{{- range .Outgoing }}
- {{ .Verb }} **{{ .Node.Label }}** ({{ code .Node.Type }})
{{- end }}
{{- range .Incoming }}
- {{ .Verb }} **{{ .Node.Label }}** ({{ code .Node.Type }})
{{- end }}
{{ if or .Outgoing .Incoming }}
` + "```mermaid" + `
{{ .Neighborhood }}` + "```" + `
{{ end }}
## Dependencies ({{ .Dependencies.Total }})
{{ template "reach" .Dependencies }}
## Impact ({{ .Impact.Total }})
{{ template "reach" .Impact }}
## Longest path
{{ if lt (len .LongestPath) 2 }}
No chain passes through this node.
{{ else }}
{{ range $i, $p := .LongestPath }}{{ if $i }} → {{ end }}{{ if eq $p.Node.ID $.Node.ID }}**{{ $p.Node.Label }}**{{ else }}{{ $p.Node.Label }}{{ end }}{{ end }}

` + "```mermaid" + `
{{ .PathDiagram }}` + "```" + `
{{ end }}`

const reachTemplate = `{{ define "reach" }}{{ if not .Groups }}
None.
{{ else }}
| Depth | Relationship | Nodes |
|------:|--------------|-------|
{{ range .Groups }}| {{ .Depth }} | {{ code .EdgeType }} | {{ labels .Nodes }} |
{{ end }}{{ end }}{{ end }}`

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{ .Title }}</title>
  <script src="https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.min.js"></script>
  <style>
    body { background: #0d1117; color: #c9d1d9; font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 0; }
    main { max-width: 960px; margin: 0 auto; padding: 2rem; }
    table { border-collapse: collapse; margin: 1rem 0; }
    th, td { border: 1px solid #30363d; padding: 0.4rem 0.8rem; }
    code { background: #161b22; padding: 0.1rem 0.3rem; border-radius: 4px; }
    pre { background: #161b22; padding: 1rem; overflow-x: auto; border-radius: 6px; }
    a { color: #58a6ff; }
  </style>
</head>
<body>
  <main>
{{ .Body }}
  </main>
  <script>
    document.querySelectorAll('pre > code.language-mermaid').forEach(function (el) {
      var div = document.createElement('div');
      div.className = 'mermaid';
      div.textContent = el.textContent;
      el.parentNode.replaceWith(div);
    });
    mermaid.initialize({ startOnLoad: true, theme: 'dark' });
  </script>
</body>
</html>
`
