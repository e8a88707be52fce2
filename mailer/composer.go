package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/flexprint/mail-relay/types"
)

// Subject returns the subject line for a submission. An explicit subject
// wins; otherwise a booking subject is derived when a service was picked,
// and a plain message subject when not.
func Subject(sub *types.Submission) string {
	if sub.Subject != "" {
		return sub.Subject
	}
	if sub.Service != "" {
		return fmt.Sprintf("New Booking: %s — %s", sub.Service, sub.Name)
	}
	return fmt.Sprintf("New Message — %s", sub.Name)
}

type submissionEmailData struct {
	Source  types.SubmissionSource
	Name    string
	Email   string
	Phone   string
	Service string
	Subject string
	Message template.HTML
}

// ComposeEmail renders the subject and HTML body for a validated
// submission. All user-supplied fields are HTML-escaped by the template
// engine; the message is escaped first and newlines then become <br/>
// tags before it is injected as trusted markup.
func ComposeEmail(sub *types.Submission) (subject string, htmlBody string, err error) {
	subject = Subject(sub)

	message := strings.ReplaceAll(template.HTMLEscapeString(sub.Message), "\n", "<br/>")

	data := submissionEmailData{
		Source:  sub.Source,
		Name:    sub.Name,
		Email:   sub.Email,
		Phone:   sub.Phone,
		Service: sub.Service,
		Subject: subject,
		Message: template.HTML(message),
	}

	var buf bytes.Buffer
	if err := submissionTmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute email template: %w", err)
	}

	return subject, buf.String(), nil
}

var submissionTmpl = template.Must(template.New("submission").Parse(submissionEmailTemplate))

const submissionEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Website Submission</title>
    <style>
        body {
            font-family: 'sans-serif';
            color: #333333;
            margin: 0;
            padding: 20px;
        }
        .container {
            max-width: 600px;
            margin: 20px auto;
            background-color: #ffffff;
            padding: 30px;
            border-radius: 12px;
            box-shadow: 0 4px 8px rgba(0, 0, 0, 0.05);
        }
        h2 {
            color: #1A73E8;
            margin-bottom: 20px;
        }
        p {
            font-size: 15px;
            line-height: 1.6;
            margin-bottom: 12px;
        }
    </style>
</head>
<body>
    <div class="container">
        <h2>New Website Submission{{if .Source}} ({{.Source}}){{end}}</h2>
        <p><b>Name:</b> {{.Name}}</p>
        <p><b>Email:</b> {{.Email}}</p>
        {{if .Phone}}<p><b>Phone:</b> {{.Phone}}</p>{{end}}
        {{if .Service}}<p><b>Service:</b> {{.Service}}</p>{{end}}
        <p><b>Subject:</b> {{.Subject}}</p>
        <p><b>Message:</b><br/>{{.Message}}</p>
    </div>
</body>
</html>`
