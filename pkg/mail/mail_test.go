package mail

import (
	"context"
	"errors"
	netmail "net/mail"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
)

type recordingTransport struct {
	mu   sync.Mutex
	sent []*Rendered
	err  error
}

func (t *recordingTransport) Deliver(_ context.Context, msg *Rendered) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = append(t.sent, msg)
	return t.err
}

type accountData struct {
	FirstName string
	LastName  string
	Email     string
	Role      string
}

func newTestMailer(t *testing.T, tr Transport) *Mailer {
	t.Helper()
	m, err := NewWithTransport(tr, netmail.Address{Name: "CMS", Address: "noreply@cms.local"}, "[CMS] ", zap.NewNop())
	if err != nil {
		t.Fatalf("NewWithTransport 失败: %v", err)
	}
	return m
}

func TestRender_AllTemplates(t *testing.T) {
	m := newTestMailer(t, &recordingTransport{})
	data := accountData{FirstName: "John", LastName: "Doe", Email: "john.doe@email.com", Role: "student"}

	for _, name := range []string{TemplateRegistrationReceived, TemplateAccountActivated, TemplateAccountDeactivated} {
		r, err := m.Render(&Message{Subject: "s", TemplateName: name, TemplateData: data})
		if err != nil {
			t.Fatalf("渲染 %s 失败: %v", name, err)
		}
		if !strings.Contains(r.Text, "John Doe") || !strings.Contains(r.Text, "john.doe@email.com") {
			t.Errorf("%s 正文缺少用户信息: %s", name, r.Text)
		}
		if r.Subject != "[CMS] s" {
			t.Errorf("期望主题带前缀，实际=%s", r.Subject)
		}
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	m := newTestMailer(t, &recordingTransport{})
	if _, err := m.Render(&Message{TemplateName: "nope"}); err == nil {
		t.Error("未知模板应报错")
	}
}

func TestSend_DeliversAsync(t *testing.T) {
	tr := &recordingTransport{}
	m := newTestMailer(t, tr)
	data := accountData{FirstName: "A", LastName: "B", Email: "a@b.c", Role: "instructor"}

	m.Send(
		&Message{To: []netmail.Address{{Address: "a@b.c"}}, Subject: "x", TemplateName: TemplateAccountActivated, TemplateData: data},
		&Message{Subject: "no recipient", TemplateName: TemplateAccountActivated, TemplateData: data},
	)
	m.Wait()

	if len(tr.sent) != 1 {
		t.Fatalf("期望投递 1 封，实际=%d", len(tr.sent))
	}
	if tr.sent[0].From.Address != "noreply@cms.local" {
		t.Errorf("发件人错误: %s", tr.sent[0].From.Address)
	}
}

func TestSend_TransportErrorIsSwallowed(t *testing.T) {
	tr := &recordingTransport{err: errors.New("boom")}
	m := newTestMailer(t, tr)

	m.Send(&Message{
		To:           []netmail.Address{{Address: "a@b.c"}},
		TemplateName: TemplateAccountDeactivated,
		TemplateData: accountData{FirstName: "A", LastName: "B", Email: "a@b.c", Role: "student"},
	})
	m.Wait()

	if len(tr.sent) != 1 {
		t.Errorf("失败的投递也应尝试一次，实际=%d", len(tr.sent))
	}
}
