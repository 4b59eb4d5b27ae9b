package notify

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pyxolotl/marketplace-api/internal/core/ports"
)

type recordingMailer struct {
	mu    sync.Mutex
	sends []string
}

func (m *recordingMailer) Send(_ context.Context, to, subject, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sends = append(m.sends, to+"|"+subject)
	return nil
}

func (m *recordingMailer) snapshot() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sends...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestDispatcherDeliversNotifications(t *testing.T) {
	mailer := &recordingMailer{}
	d := NewDispatcher(2, 16, mailer, "http://localhost:8080", zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Notify(ports.Notification{
		To:       "dev@example.com",
		Name:     "Dana",
		Template: ports.TemplateGameApproved,
		Data:     map[string]string{"title": "Aurora"},
	})

	waitFor(t, func() bool { return len(mailer.snapshot()) == 1 })
	got := mailer.snapshot()[0]
	if !strings.HasPrefix(got, "dev@example.com|") {
		t.Fatalf("unexpected recipient: %s", got)
	}
	if !strings.Contains(got, "Aurora") {
		t.Fatalf("subject should mention the game title: %s", got)
	}
}

func TestDispatcherShardsByRecipient(t *testing.T) {
	d := NewDispatcher(4, 16, &recordingMailer{}, "", zerolog.Nop())

	first := d.shardIndex("buyer@example.com")
	for i := 0; i < 10; i++ {
		if d.shardIndex("buyer@example.com") != first {
			t.Fatal("shard index must be stable per recipient")
		}
	}
	if first < 0 || first >= 4 {
		t.Fatalf("shard index out of range: %d", first)
	}
}

func TestRenderTemplates(t *testing.T) {
	cases := []struct {
		template string
		data     map[string]string
		want     string
	}{
		{ports.TemplateVerifyEmail, map[string]string{"token": "tok123"}, "verificar/tok123"},
		{ports.TemplatePasswordReset, map[string]string{"token": "tok456"}, "tok456"},
		{ports.TemplatePurchase, map[string]string{"order": "PX-00000001", "total": "114.84"}, "114.84"},
		{ports.TemplateGameApproved, map[string]string{"title": "Aurora"}, "Aurora"},
		{ports.TemplateGameRejected, map[string]string{"title": "Aurora", "reason": "broken build"}, "broken build"},
	}
	for _, tc := range cases {
		t.Run(tc.template, func(t *testing.T) {
			subject, body, err := render(ports.Notification{
				To:       "user@example.com",
				Name:     "Sam",
				Template: tc.template,
				Data:     tc.data,
			}, "http://localhost:8080")
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if subject == "" {
				t.Fatal("subject must not be empty")
			}
			if !strings.Contains(body, tc.want) {
				t.Fatalf("body missing %q:\n%s", tc.want, body)
			}
		})
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if _, _, err := render(ports.Notification{Template: "nope"}, ""); err == nil {
		t.Fatal("expected error for unknown template")
	}
}
