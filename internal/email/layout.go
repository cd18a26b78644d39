package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// Notification bodies arrive as plain text; the layout handles escaping and
// converts line breaks to paragraphs.
var layoutTmpl = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, Helvetica, sans-serif; color: #1a1a1a; margin: 0; padding: 24px;">
  <table role="presentation" width="100%" cellpadding="0" cellspacing="0">
    <tr><td align="center">
      <table role="presentation" width="520" cellpadding="0" cellspacing="0" style="background: #ffffff; border: 1px solid #e5e5e5; border-radius: 8px; padding: 32px;">
        <tr><td style="font-size: 20px; font-weight: bold; padding-bottom: 16px;">{{.Heading}}</td></tr>
        {{range .Paragraphs}}<tr><td style="font-size: 14px; line-height: 1.6; padding-bottom: 12px;">{{.}}</td></tr>
        {{end}}
      </table>
    </td></tr>
  </table>
</body>
</html>`))

type layoutData struct {
	Heading    string
	Paragraphs []string
}

func renderLayout(heading, body string) (string, error) {
	data := layoutData{Heading: heading}
	for _, line := range strings.Split(body, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			data.Paragraphs = append(data.Paragraphs, line)
		}
	}

	var buf bytes.Buffer
	if err := layoutTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email layout: %w", err)
	}
	return buf.String(), nil
}
