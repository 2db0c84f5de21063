package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

// Both notification bodies are rendered from the same semantic content — a
// greeting plus a message — into an HTML part and a plain-text alternative.
// The customer name is untrusted input: the HTML part goes through
// html/template so it is escaped on interpolation; the text part does not
// need escaping.

type renderData struct {
	Name string
}

var bundleHTMLTmpl = template.Must(template.New("bundle_html").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: sans-serif; color: #1a1a1a; max-width: 560px; margin: 0 auto; padding: 24px;">
  <h2 style="margin-bottom: 8px;">Your Prompt Pack is here</h2>
  <p>{{if .Name}}Hi {{.Name}},{{else}}Hi there,{{end}}</p>
  <p>Thank you for your purchase — your full Prompt Pack is attached to this
  email as two files:</p>
  <ul>
    <li><strong>{{.Workbook}}</strong> — the interactive workbook. Download it
    and open it in any browser; everything works offline.</li>
    <li><strong>{{.Guide}}</strong> — the PDF guide. Read it first for the
    recommended order of working through the pack.</li>
  </ul>
  <p style="color: #6b7280; font-size: 14px;">
    Keep this email — the attachments are your permanent copy.
    If anything looks wrong, just reply and we will sort it out.
  </p>
  <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 32px 0;">
  <p style="color: #9ca3af; font-size: 12px;">
    Promptworks · One-time purchase · No account required
  </p>
</body>
</html>`))

var genericHTMLTmpl = template.Must(template.New("generic_html").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: sans-serif; color: #1a1a1a; max-width: 560px; margin: 0 auto; padding: 24px;">
  <h2 style="margin-bottom: 8px;">Order confirmed</h2>
  <p>{{if .Name}}Hi {{.Name}},{{else}}Hi there,{{end}}</p>
  <p>We have received your payment — thank you. Your order is confirmed and a
  receipt has been issued by our payment provider.</p>
  <p style="color: #6b7280; font-size: 14px;">
    If you have any questions about your order, just reply to this email.
  </p>
  <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 32px 0;">
  <p style="color: #9ca3af; font-size: 12px;">
    Promptworks · One-time purchase · No account required
  </p>
</body>
</html>`))

type bundleRenderData struct {
	Name     string
	Workbook string
	Guide    string
}

func renderBundle(name string) (htmlBody, textBody string, err error) {
	var buf bytes.Buffer
	err = bundleHTMLTmpl.Execute(&buf, bundleRenderData{
		Name:     name,
		Workbook: attachmentWorkbook,
		Guide:    attachmentGuide,
	})
	if err != nil {
		return "", "", fmt.Errorf("notify: render bundle email: %w", err)
	}

	textBody = fmt.Sprintf(`%s

Thank you for your purchase — your full Prompt Pack is attached to this email
as two files:

- %s — the interactive workbook. Download it and open it in any browser;
  everything works offline.
- %s — the PDF guide. Read it first for the recommended order of working
  through the pack.

Keep this email — the attachments are your permanent copy. If anything looks
wrong, just reply and we will sort it out.

Promptworks · One-time purchase · No account required`,
		textGreeting(name), attachmentWorkbook, attachmentGuide)

	return buf.String(), textBody, nil
}

func renderGeneric(name string) (htmlBody, textBody string, err error) {
	var buf bytes.Buffer
	if err := genericHTMLTmpl.Execute(&buf, renderData{Name: name}); err != nil {
		return "", "", fmt.Errorf("notify: render confirmation email: %w", err)
	}

	textBody = fmt.Sprintf(`%s

We have received your payment — thank you. Your order is confirmed and a
receipt has been issued by our payment provider.

If you have any questions about your order, just reply to this email.

Promptworks · One-time purchase · No account required`, textGreeting(name))

	return buf.String(), textBody, nil
}

func textGreeting(name string) string {
	if name == "" {
		return "Hi there,"
	}
	return fmt.Sprintf("Hi %s,", name)
}
