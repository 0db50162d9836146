package mail

import (
	"context"
	"fmt"
	"net/http"
	netmail "net/mail"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// ── SendGrid ──

type sendgridTransport struct {
	client *sendgrid.Client
}

// NewSendgridTransport 通过 SendGrid v3 API 投递
func NewSendgridTransport(apiKey string) Transport {
	return &sendgridTransport{client: sendgrid.NewSendClient(apiKey)}
}

func (t *sendgridTransport) Deliver(ctx context.Context, msg *Rendered) error {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	for _, to := range msg.To {
		p.AddTos(sgEmail(to))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(sgEmail(msg.From))
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", msg.Text))

	res, err := t.client.SendWithContext(ctx, m)
	if err != nil {
		return err
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

func sgEmail(addr netmail.Address) *sgmail.Email {
	return sgmail.NewEmail(addr.Name, addr.Address)
}

// ── 日志（开发环境）──

type logTransport struct {
	logger *zap.Logger
}

// NewLogTransport 仅把邮件写入日志
func NewLogTransport(logger *zap.Logger) Transport {
	return &logTransport{logger: logger}
}

func (t *logTransport) Deliver(_ context.Context, msg *Rendered) error {
	to := make([]string, 0, len(msg.To))
	for _, a := range msg.To {
		to = append(to, a.String())
	}
	t.logger.Info("邮件（未实际发送）",
		zap.String("from", msg.From.String()),
		zap.Strings("to", to),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Text),
	)
	return nil
}
