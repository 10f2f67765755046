// Outbound mail worker: drains the email_queue table the dispatcher appends
// to and delivers each job over SMTP, marking rows sent or failed.
package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"project-submission-api/config"
	"project-submission-api/models"
)

const maxAttempts = 3

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()

	interval := 30 * time.Second
	if secs, err := strconv.Atoi(os.Getenv("MAILER_POLL_SECONDS")); err == nil && secs > 0 {
		interval = time.Duration(secs) * time.Second
	}

	log.Printf("Mailer worker started (poll interval %s)", interval)

	for {
		if n, err := drainQueue(); err != nil {
			log.Printf("mail queue drain failed: %v", err)
		} else if n > 0 {
			log.Printf("delivered %d queued email(s)", n)
		}
		time.Sleep(interval)
	}
}

func drainQueue() (int, error) {
	var jobs []models.EmailJob
	err := config.DB.
		Where("status = ? AND attempts < ?", models.EmailStatusPending, maxAttempts).
		Order("created_at ASC").
		Limit(50).
		Find(&jobs).Error
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, job := range jobs {
		now := time.Now()
		updates := map[string]interface{}{"attempts": job.Attempts + 1}

		if err := config.SendMail(job.RecipientList(), job.Subject, job.BodyHTML); err != nil {
			msg := err.Error()
			updates["last_error"] = msg
			if job.Attempts+1 >= maxAttempts {
				updates["status"] = models.EmailStatusFailed
			}
			log.Printf("email %d delivery failed (attempt %d): %v", job.EmailID, job.Attempts+1, err)
		} else {
			updates["status"] = models.EmailStatusSent
			updates["sent_at"] = now
			sent++
		}

		if err := config.DB.Model(&models.EmailJob{}).
			Where("email_id = ?", job.EmailID).
			Updates(updates).Error; err != nil {
			log.Printf("failed to update email %d: %v", job.EmailID, err)
		}
	}
	return sent, nil
}
