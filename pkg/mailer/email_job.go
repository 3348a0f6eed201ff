package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (with Data) or Subject with Text/HTML is set. Data never
// carries credentials.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "doctor_welcome"
	Data     map[string]any `json:"data,omitempty"`
}

// MessageType names the job on the queue: the template, or "raw".
func (j EmailJob) MessageType() string {
	if j.Template != "" {
		return j.Template
	}
	return "raw"
}
