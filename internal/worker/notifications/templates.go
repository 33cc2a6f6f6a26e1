package notifications

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/m04kA/SMC-DetailingService/internal/integrations/notifier"
)

var funcs = template.FuncMap{
	"join": strings.Join,
	"title": func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	},
}

var (
	clientConfirmationTmpl = template.Must(template.New("client_confirmation").Funcs(funcs).Parse(
		`Hi {{.ClientName}},

Thanks for booking with us! We received your request and will confirm it shortly.

Date:     {{.Date}}
Time:     {{.SlotLabel}}
Vehicle:  {{.Vehicle}} ({{.Condition}})
Package:  {{.PackageID}}
{{- if .AddonIDs}}
Add-ons:  {{join .AddonIDs ", "}}
{{- end}}
Total:    ${{.TotalPrice}}

Reference: {{.ID}}
`))

	adminAlertTmpl = template.Must(template.New("admin_alert").Funcs(funcs).Parse(
		`New booking request {{.ID}}

Client:   {{.ClientName}} <{{.Email}}>
Date:     {{.Date}} ({{.Slot}}, {{.SlotLabel}})
Vehicle:  {{.Vehicle}} ({{.Condition}})
Package:  {{.PackageID}}
{{- if .AddonIDs}}
Add-ons:  {{join .AddonIDs ", "}}
{{- end}}
Total:    ${{.TotalPrice}}
`))

	statusChangedTmpl = template.Must(template.New("status_changed").Funcs(funcs).Parse(
		`Hi {{.ClientName}},

Your appointment on {{.Date}} ({{.SlotLabel}}) is now {{title .Status}}.
{{- if .DeclineReason}}

Reason: {{.DeclineReason}}
{{- end}}

Reference: {{.ID}}
`))
)

func render(tmpl *template.Template, p notifier.AppointmentPayload) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
