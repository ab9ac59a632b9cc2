package cli

import (
	"bytes"
	"text/template"
	"time"

	"github.com/iudanet/roadsync/internal/models"
)

const roadTemplate = `
=== Road Details ===

Name:        {{.Name}}
ID:          {{.ID}}
Version:     {{.Version}}
Lanes:       {{.Lanes}}
Operational: {{if .IsOperational}}yes{{else}}no{{end}}
{{- if .LastMaintained }}
Maintained:  {{date .LastMaintained}}
{{- end}}
{{- if .HasLocation }}
Location:    {{printf "%.6f, %.6f" (deref .Lat) (deref .Long)}}
{{- end}}
{{- if .Base64Photo }}
Photo:       {{len .Base64Photo}} bytes (base64)
{{- end}}
`

var roadTmpl = template.Must(template.New("road").Funcs(template.FuncMap{
	"date":  func(t *time.Time) string { return t.Format(time.DateOnly) },
	"deref": func(f *float64) float64 { return *f },
}).Parse(roadTemplate))

// renderRoad выводит подробности записи
func renderRoad(road models.Road) (string, error) {
	var buf bytes.Buffer
	if err := roadTmpl.Execute(&buf, road); err != nil {
		return "", err
	}
	return buf.String(), nil
}
