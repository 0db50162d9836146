// Package mail 模板化邮件发送
package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	netmail "net/mail"
	"sync"
	"text/template"
	"time"

	"go.uber.org/zap"

	"github.com/PashaShevchuk/course-management-system-api-sub000/config"
)

//go:embed templates/*.txt
var templateFS embed.FS

// 模板名称
const (
	TemplateRegistrationReceived = "registration_received"
	TemplateAccountActivated     = "account_activated"
	TemplateAccountDeactivated   = "account_deactivated"
)

const sendTimeout = 30 * time.Second

// Message 一封待发送的邮件
type Message struct {
	To           []netmail.Address
	Subject      string
	TemplateName string // 不含扩展名
	TemplateData interface{}
}

// Rendered 渲染后的邮件
type Rendered struct {
	From    netmail.Address
	To      []netmail.Address
	Subject string
	Text    string
}

// Transport 实际投递邮件的通道
type Transport interface {
	Deliver(ctx context.Context, msg *Rendered) error
}

// Mailer 渲染模板并异步投递
type Mailer struct {
	transport Transport
	from      netmail.Address
	prefix    string
	templates *template.Template
	logger    *zap.Logger
	wg        sync.WaitGroup
}

// New 根据配置创建 Mailer
func New(cfg *config.MailConfig, logger *zap.Logger) (*Mailer, error) {
	from := netmail.Address{Name: cfg.FromName, Address: cfg.FromAddress}

	var t Transport
	switch cfg.Driver {
	case "sendgrid":
		t = NewSendgridTransport(cfg.SendgridAPIKey)
	case "log":
		t = NewLogTransport(logger)
	default:
		return nil, fmt.Errorf("unknown mail driver %q", cfg.Driver)
	}
	return NewWithTransport(t, from, cfg.SubjectPrefix, logger)
}

// NewWithTransport 使用指定通道创建 Mailer
func NewWithTransport(t Transport, from netmail.Address, subjectPrefix string, logger *zap.Logger) (*Mailer, error) {
	tmpl, err := template.New("mail").Option("missingkey=error").ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}
	return &Mailer{
		transport: t,
		from:      from,
		prefix:    subjectPrefix,
		templates: tmpl,
		logger:    logger,
	}, nil
}

// Render 渲染邮件正文
func (m *Mailer) Render(msg *Message) (*Rendered, error) {
	var buf bytes.Buffer
	if err := m.templates.ExecuteTemplate(&buf, msg.TemplateName+".txt", msg.TemplateData); err != nil {
		return nil, fmt.Errorf("render %s: %w", msg.TemplateName, err)
	}
	return &Rendered{
		From:    m.from,
		To:      msg.To,
		Subject: m.prefix + msg.Subject,
		Text:    buf.String(),
	}, nil
}

// Send 异步发送；失败只记录日志，不影响调用方
func (m *Mailer) Send(messages ...*Message) {
	for _, msg := range messages {
		if len(msg.To) == 0 {
			continue
		}
		msg := msg
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()

			rendered, err := m.Render(msg)
			if err != nil {
				m.logger.Error("渲染邮件失败", zap.String("template", msg.TemplateName), zap.Error(err))
				return
			}

			ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
			defer cancel()
			if err := m.transport.Deliver(ctx, rendered); err != nil {
				m.logger.Error("发送邮件失败",
					zap.String("template", msg.TemplateName),
					zap.String("to", rendered.To[0].Address),
					zap.Error(err),
				)
			}
		}()
	}
}

// Wait 等待所有已提交的邮件处理完毕
func (m *Mailer) Wait() {
	m.wg.Wait()
}
