package email

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var emailTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type assignmentEmailData struct {
	TechnicianName string
	JobKind        string
	JobID          string
}

type releaseEmailData struct {
	TechnicianName string
	Reason         string
}

const (
	subjectAssignment = "New job assigned to you"
	subjectRelease    = "You have been released from your job"
)

func renderEmailTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := emailTemplates.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("render email template %s: %w", name, err)
	}
	return b.String(), nil
}
