package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// ResetSubject is the subject line of password reset mail.
const ResetSubject = "Reset Your JobTrackr Password"

var resetTemplate = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: #667eea; color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
    .content { background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px; }
    .button { display: inline-block; padding: 12px 30px; background: #667eea; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
    .footer { text-align: center; margin-top: 20px; color: #666; font-size: 12px; }
    .warning { background: #fff3cd; border-left: 4px solid #ffc107; padding: 15px; margin: 20px 0; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>JobTrackr</h1>
      <p>Password Reset Request</p>
    </div>
    <div class="content">
      <h2>Hello{{if .Name}} {{.Name}}{{end}},</h2>
      <p>We received a request to reset your password for your JobTrackr account.</p>
      <p>Click the button below to reset your password:</p>
      <div style="text-align: center;">
        <a href="{{.Link}}" class="button">Reset Password</a>
      </div>
      <p>Or copy and paste this link into your browser:</p>
      <p style="word-break: break-all; color: #667eea;">{{.Link}}</p>
      <div class="warning">
        <strong>Important:</strong> This link will expire in {{.ValidFor}}. If you didn't request this, please ignore this email.
      </div>
    </div>
    <div class="footer">
      <p>&copy; {{.Year}} JobTrackr. All rights reserved.</p>
      <p>This is an automated email, please do not reply.</p>
    </div>
  </div>
</body>
</html>
`))

// ResetEmail holds the values rendered into the reset message.
type ResetEmail struct {
	Name     string
	Link     string
	ValidFor time.Duration
	Year     int
}

// RenderReset renders the password reset HTML body.
func RenderReset(e ResetEmail) (string, error) {
	data := struct {
		Name     string
		Link     string
		ValidFor string
		Year     int
	}{
		Name:     e.Name,
		Link:     e.Link,
		ValidFor: humanDuration(e.ValidFor),
		Year:     e.Year,
	}

	var buf bytes.Buffer
	if err := resetTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering reset email: %w", err)
	}
	return buf.String(), nil
}

func humanDuration(d time.Duration) string {
	switch {
	case d == time.Hour:
		return "1 hour"
	case d%time.Hour == 0:
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	case d%time.Minute == 0:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	default:
		return d.String()
	}
}
