package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"wapl/config"
)

// SendEmail sends an HTML email via Gmail SMTP. When SMTP credentials are
// not configured it logs the message to the console instead, so local
// development works without a mail account.
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	if from == "" || password == "" {
		log.Printf("EMAIL SIMULATION\nTo: %s\nSubject: %s\n", strings.Join(to, ","), subject)
		return nil
	}

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: WAPL System <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		log.Println("Error sending email:", err)
		return err
	}
	return nil
}

// getEmailTemplate wraps body content in the standard WAPL mail layout
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f4f4; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #ffffff; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1f2b44; padding: 30px; text-align: center; }
			.header h1 { color: #ffffff; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1f2b44; line-height: 1.6; }
			.content h2 { color: #1f2b44; margin-top: 0; }
			.footer { background-color: #f4f4f4; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #e0e0e0; }
			.code-box { background: #f0f0f0; border: 2px solid #1f2b44; padding: 20px; text-align: center; border-radius: 8px; margin: 20px 0; font-size: 30px; font-weight: bold; letter-spacing: 5px; font-family: 'Courier New', monospace; }
			.info-box { background: #e8f4f8; padding: 15px; border-radius: 4px; border-left: 4px solid #8a6a2f; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>WAPL</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				This is an automated email. Please do not reply to this message.<br>
				&copy; 2026 WAPL - Student Portfolio and Placement Management System
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// SendOTPEmail sends the registration verification code (valid 10 minutes)
func SendOTPEmail(email, otp, fullName string) {
	subject := "WAPL Registration - OTP Verification"
	body := fmt.Sprintf(`
		<p>Hello <strong>%s</strong>,</p>
		<p>Your OTP (One-Time Password) for email verification is:</p>
		<div class="code-box">%s</div>
		<p>This OTP is valid for 10 minutes. Never share it with anyone; the WAPL team will never ask for your OTP.</p>
		<p>If you did not request this OTP, you can safely ignore this email.</p>
	`, fullName, otp)

	go SendEmail([]string{email}, subject, getEmailTemplate("OTP Verification", body))
}

// SendRegistrationConfirmationEmail announces the minted WAPL ID
func SendRegistrationConfirmationEmail(email, fullName, waplID string) {
	subject := "WAPL Registration Successful"
	body := fmt.Sprintf(`
		<p>Hello <strong>%s</strong>,</p>
		<p>Congratulations! Your registration with WAPL is complete.</p>
		<p>Your unique WAPL ID is:</p>
		<div class="code-box">%s</div>
		<div class="info-box">
			<strong>Next Step:</strong> Your account is currently pending admin approval. You will receive an email once your account is activated.
		</div>
	`, fullName, waplID)

	go SendEmail([]string{email}, subject, getEmailTemplate("Registration Successful", body))
}

// SendCertificateIssuedEmail notifies a student their certificate is ready
func SendCertificateIssuedEmail(email, fullName, certificateID string) {
	subject := "Your WAPL Certificate Has Been Issued"
	body := fmt.Sprintf(`
		<p>Hello <strong>%s</strong>,</p>
		<p>Your WAPL certificate has been issued and is available for download from your dashboard.</p>
		<p>Your certificate number:</p>
		<div class="code-box">%s</div>
		<p>Anyone can verify your certificate by scanning the QR code printed on it.</p>
	`, fullName, certificateID)

	go SendEmail([]string{email}, subject, getEmailTemplate("Certificate Issued", body))
}

// SendCertificateExpiryReminder warns about an upcoming expiry date
func SendCertificateExpiryReminder(email, fullName, certificateID, expiryDate string) {
	subject := "WAPL Certificate Expiring Soon"
	body := fmt.Sprintf(`
		<p>Hello <strong>%s</strong>,</p>
		<p>Your WAPL certificate <strong>%s</strong> expires on <strong>%s</strong>.</p>
		<div class="info-box">
			Contact the WAPL admin team to have your certificate regenerated before it expires.
		</div>
	`, fullName, certificateID, expiryDate)

	go SendEmail([]string{email}, subject, getEmailTemplate("Certificate Expiring Soon", body))
}
