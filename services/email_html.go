package services

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"project-submission-api/models"
)

type statusEmailTheme struct {
	Color   string
	Heading string
	Message string
}

var statusEmailThemes = map[string]statusEmailTheme{
	models.StatusApproved: {
		Color:   "#16a34a",
		Heading: "Project Approved",
		Message: "Congratulations! Your project has been approved.",
	},
	models.StatusRejected: {
		Color:   "#dc2626",
		Heading: "Project Rejected",
		Message: "We are sorry to inform you that your project has not been approved.",
	},
	models.StatusRevisionRequired: {
		Color:   "#d97706",
		Heading: "Revision Required",
		Message: "Your project requires changes before it can proceed. Please review the comments below and resubmit.",
	},
	models.StatusUnderReview: {
		Color:   "#2563eb",
		Heading: "Project Under Review",
		Message: "Your project is now being reviewed. You will be notified once a decision has been made.",
	},
	models.StatusPending: {
		Color:   "#6b7280",
		Heading: "Project Status Updated",
		Message: "Your project has been returned to the pending queue.",
	},
}

// humanStatus renders a status value for people: hyphens become spaces and
// each word is capitalized ("revision-required" -> "Revision Required").
func humanStatus(status string) string {
	words := strings.Fields(strings.ReplaceAll(status, "-", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// buildStatusEmailHTML renders the status change email body. The reviewer
// comment, when present, appears as a quoted block; the reviewer name and the
// current date always appear in the footer.
func buildStatusEmailHTML(projectTitle, newStatus, comment, reviewerName string, at time.Time) string {
	theme, ok := statusEmailThemes[newStatus]
	if !ok {
		theme = statusEmailThemes[models.StatusPending]
	}

	escapedTitle := template.HTMLEscapeString(projectTitle)
	escapedHeading := template.HTMLEscapeString(theme.Heading)
	escapedMessage := template.HTMLEscapeString(theme.Message)
	escapedStatus := template.HTMLEscapeString(humanStatus(newStatus))
	escapedReviewer := template.HTMLEscapeString(strings.TrimSpace(reviewerName))

	commentBlock := ""
	if trimmed := strings.TrimSpace(comment); trimmed != "" {
		escapedComment := template.HTMLEscapeString(trimmed)
		escapedComment = strings.ReplaceAll(strings.ReplaceAll(escapedComment, "\r\n", "\n"), "\r", "\n")
		escapedComment = strings.ReplaceAll(escapedComment, "\n", "<br />")
		commentBlock = fmt.Sprintf(`
    <div style="margin:16px 0 0 0;padding:12px 16px;background-color:#f9fafb;border-left:4px solid %s;border-radius:4px;">
      <p style="margin:0 0 4px 0;font-size:13px;font-weight:600;color:#374151;">Reviewer Comments</p>
      <p style="margin:0;font-size:14px;line-height:1.6;color:#4b5563;">%s</p>
    </div>`, theme.Color, escapedComment)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f3f4f6;font-family:'Segoe UI',Tahoma,Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
  <div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;overflow:hidden;">
    <div style="background-color:%s;padding:20px 24px;">
      <h1 style="margin:0;font-size:20px;color:#ffffff;">%s</h1>
    </div>
    <div style="padding:24px;">
      <p style="margin:0 0 8px 0;font-size:16px;line-height:1.7;color:#111827;"><strong>%s</strong></p>
      <p style="margin:0 0 8px 0;font-size:14px;color:#6b7280;">Status: <strong style="color:%s;">%s</strong></p>
      <p style="margin:0;font-size:15px;line-height:1.7;color:#374151;">%s</p>%s
    </div>
    <div style="padding:16px 24px;border-top:1px solid #e5e7eb;background-color:#f9fafb;">
      <p style="margin:0;font-size:13px;color:#6b7280;">Reviewed by %s on %s</p>
    </div>
  </div>
</div>
</body>
</html>`,
		escapedHeading,
		theme.Color,
		escapedHeading,
		escapedTitle,
		theme.Color,
		escapedStatus,
		escapedMessage,
		commentBlock,
		escapedReviewer,
		at.Format("02 Jan 2006"),
	)
}
