package service

import (
	"bytes"
	"fmt"
	"html/template"
)

var resetMail = template.Must(template.New("reset").Parse(`<h2>{{.AppName}}</h2>
<div>A password change was requested for {{.Email}}.
Follow the link to choose a new password: <a href="{{.Link}}">{{.Link}}</a></div>
<br>
<div>If you did not ask for it, ignore this message.</div>
`))

var contactMail = template.Must(template.New("contact").Parse(`<h2>{{.AppName}}</h2>
<h4>Message from a user</h4>
<div>
<p><b>Name:</b> {{.Name}} ({{.Email}})</p>
<p><b>Subject:</b> {{.Subject}}</p>
<p><b>Message:</b> {{.Message}}</p>
</div>
`))

type resetMailData struct {
	AppName string
	Email   string
	Link    string
}

type contactMailData struct {
	AppName string
	Name    string
	Email   string
	Subject string
	Message string
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s mail: %w", t.Name(), err)
	}
	return buf.String(), nil
}
