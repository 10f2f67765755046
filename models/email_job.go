package models

import (
	"strings"
	"time"
)

// Email queue states. Rows are appended by the notification dispatcher and
// consumed by the cmd/mailer worker.
const (
	EmailStatusPending = "pending"
	EmailStatusSent    = "sent"
	EmailStatusFailed  = "failed"
)

// EmailJob represents the email_queue table. Recipients is a comma separated
// address list; the worker splits it before dialing SMTP.
type EmailJob struct {
	EmailID    uint       `gorm:"primaryKey;column:email_id" json:"email_id"`
	Recipients string     `gorm:"column:recipients" json:"recipients"`
	Subject    string     `gorm:"column:subject" json:"subject"`
	BodyHTML   string     `gorm:"column:body_html" json:"body_html"`
	Status     string     `gorm:"column:status" json:"status"`
	Attempts   int        `gorm:"column:attempts" json:"attempts"`
	LastError  *string    `gorm:"column:last_error" json:"last_error,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"created_at"`
	SentAt     *time.Time `gorm:"column:sent_at" json:"sent_at,omitempty"`
}

func (EmailJob) TableName() string { return "email_queue" }

// RecipientList splits the stored address list, dropping empty entries.
func (e EmailJob) RecipientList() []string {
	parts := strings.Split(e.Recipients, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if addr := strings.TrimSpace(p); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
