package mailer

// Template names understood by the email worker.
const (
	TemplateWelcome = "welcome"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (+Data) or Subject with Text/HTML is set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// Resolve fills Subject, Text and HTML from the job template when one is set.
func (j *EmailJob) Resolve(render func(name string, data any) (string, string, string, error)) error {
	if j.Template == "" {
		return nil
	}
	if j.Data == nil {
		j.Data = map[string]any{}
	}
	if _, ok := j.Data["Email"]; !ok {
		j.Data["Email"] = j.To
	}
	subject, text, html, err := render(j.Template, j.Data)
	if err != nil {
		return err
	}
	j.Subject, j.Text, j.HTML = subject, text, html
	return nil
}
