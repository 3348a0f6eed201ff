package helpers

import (
	"fmt"
	"strings"

	"github.com/clinic-suite/clinic-backend/pkg/mailer"
	mailtpl "github.com/clinic-suite/clinic-backend/pkg/mailer/templates"
)

func SubjectForTemplate(data map[string]any) string {
	typeStr := fmt.Sprintf("%v", data["Type"])
	switch strings.ToLower(typeStr) {
	case mailtpl.DoctorWelcome:
		return "Your clinic account is ready"
	default:
		return "Notification"
	}
}

func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}
