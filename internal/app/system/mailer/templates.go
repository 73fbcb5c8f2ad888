// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// ContactEmailData holds data for the contact-form notification email sent
// to the operations inbox.
type ContactEmailData struct {
	SiteName    string
	SenderName  string
	SenderEmail string
	Subject     string
	Body        string
}

// BuildContactEmail creates the notification email with both HTML and text bodies.
func BuildContactEmail(data ContactEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("[%s] Contact form: %s", data.SiteName, data.Subject),
		TextBody: buildContactText(data),
		HTMLBody: buildContactHTML(data),
	}
}

func buildContactText(data ContactEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("New contact form submission on %s\n\n", data.SiteName))
	buf.WriteString(fmt.Sprintf("From: %s <%s>\n", data.SenderName, data.SenderEmail))
	buf.WriteString(fmt.Sprintf("Subject: %s\n\n", data.Subject))
	buf.WriteString(data.Body + "\n")
	return buf.String()
}

func buildContactHTML(data ContactEmailData) string {
	tmpl := template.Must(template.New("contact").Parse(contactHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const contactHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Contact Form Submission</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #4f46e5;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 24px 32px;">
              <p style="margin: 0 0 8px; font-size: 14px; color: #6b7280;">New contact form submission</p>
              <p style="margin: 0 0 4px; font-size: 16px; color: #111827;"><strong>{{.SenderName}}</strong> &lt;{{.SenderEmail}}&gt;</p>
              <p style="margin: 0 0 16px; font-size: 14px; color: #374151;">{{.Subject}}</p>
              <p style="margin: 0; font-size: 14px; line-height: 1.6; color: #374151; white-space: pre-line;">{{.Body}}</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
