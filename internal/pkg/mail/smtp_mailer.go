package mail

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/acessoclub/acessoclub/internal/pkg/env"
)

// SendMail sends an HTML email via SMTP
func SendMail(to string, subject string, body string) error {
	host := env.GetEnv("SMTP_HOST", "")
	port := env.GetEnv("SMTP_PORT", "")
	username := env.GetEnv("SMTP_USERNAME", "")
	password := env.GetEnv("SMTP_PASSWORD", "")
	sender := env.GetEnv("SMTP_SENDER", "")

	if sender == "" {
		sender = fmt.Sprintf("no-reply@%s", "localhost")
		log.Printf("SMTP_SENDER not set, using default sender: %s", sender)
	}

	var auth smtp.Auth
	if username != "" && password != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	addr := fmt.Sprintf("%s:%s", host, port)

	msg := []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", sender, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
			body,
	)

	err := smtp.SendMail(addr, auth, sender, []string{to}, msg)
	if err != nil {
		log.Printf("SMTP send error: %v", err)
	} else {
		log.Printf("Email sent to %s via %s", to, addr)
	}
	return err
}

// SendPaymentConfirmation delivers the post-payment email carrying the
// single-use login link. A failure here must surface to the caller: a paid
// account without a delivered access path is an incident, not a warning.
func SendPaymentConfirmation(to string, loginURL string) error {
	subject := "Pagamento confirmado - seu acesso está liberado"
	body := fmt.Sprintf(`
		<h2>Pagamento confirmado!</h2>
		<p>Seu acesso ao AcessoClub foi liberado.</p>
		<p><a href="%s">Clique aqui para entrar</a></p>
		<p>O link é de uso único e expira em 15 minutos. Depois disso, basta entrar normalmente com seu e-mail e senha.</p>
	`, loginURL)

	return SendMail(to, subject, body)
}
