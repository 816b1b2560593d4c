package utils

import (
	"os"

	"net/smtp"
)

func SendMail(email string, message []byte) {
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		LogInfo("SMTP_FROM not set, skipping email to " + email)
		return
	}
	password := os.Getenv("SMTP_PASSWORD")
	to := email

	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	if smtpHost == "" {
		smtpHost = "smtp.gmail.com"
	}
	if smtpPort == "" {
		smtpPort = "587"
	}
	auth := smtp.PlainAuth("", from, password, smtpHost)

	if err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, []string{to}, message); err != nil {
		LogError(err, "Error sending email")
		return
	}

	LogSuccess("Email sent")
}
