package helpers

import (
	"fmt"
	"strings"

	"github.com/oksasatya/shopease-api/pkg/mailer"
)

// NormalizeEmailJob lowercases the template name and makes sure the
// recipient is available to templates as .Email and .RecipientEmail.
func NormalizeEmailJob(job *mailer.EmailJob) {
	job.Template = strings.ToLower(strings.TrimSpace(job.Template))
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
