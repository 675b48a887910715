package mail

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"strings"
)

// SMTPGateway sends mail through a plain SMTP relay.
type SMTPGateway struct {
	addr        string // host:port
	host        string
	auth        smtp.Auth
	defaultFrom string
}

var _ Gateway = (*SMTPGateway)(nil)

// NewSMTPGateway creates a gateway for the given relay. Username may be empty
// for relays that accept unauthenticated submission.
func NewSMTPGateway(host, port, username, password, defaultFrom string) *SMTPGateway {
	g := &SMTPGateway{
		addr:        net.JoinHostPort(host, port),
		host:        host,
		defaultFrom: defaultFrom,
	}
	if username != "" {
		g.auth = smtp.PlainAuth("", username, password, host)
	}
	return g
}

// Send delivers the message, reporting failure through the result only.
func (g *SMTPGateway) Send(ctx context.Context, subject, body, to, from string, asHTML bool) bool {
	if from == "" {
		from = g.defaultFrom
	}
	if err := ctx.Err(); err != nil {
		log.Printf("mail: send to %s aborted: %v", to, err)
		return false
	}

	msg := buildMessage(subject, body, to, from, asHTML)
	if err := smtp.SendMail(g.addr, g.auth, from, []string{to}, msg); err != nil {
		log.Printf("mail: send to %s failed: %v", to, err)
		return false
	}
	return true
}

// SendAsync delivers on a separate goroutine; the channel is buffered so the
// result can be dropped by callers that fire and forget.
func (g *SMTPGateway) SendAsync(ctx context.Context, subject, body, to, from string, asHTML bool) <-chan bool {
	done := make(chan bool, 1)
	go func() {
		done <- g.Send(ctx, subject, body, to, from, asHTML)
	}()
	return done
}

func buildMessage(subject, body, to, from string, asHTML bool) []byte {
	contentType := "text/plain; charset=UTF-8"
	if asHTML {
		contentType = "text/html; charset=UTF-8"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: %s\r\n", contentType)
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
