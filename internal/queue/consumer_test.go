package queue

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type recordingNotifier struct {
	to, subject, body string
	calls             int
	err               error
}

func (n *recordingNotifier) Send(_ context.Context, to, subject, body string) error {
	n.calls++
	n.to, n.subject, n.body = to, subject, body
	return n.err
}

func encode(t *testing.T, ev ContactMessageEvent) []byte {
	t.Helper()
	b, err := json.Marshal(ev)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestHandleWritesLogAndNotifies(t *testing.T) {
	dir := t.TempDir()
	n := &recordingNotifier{}
	c := &ContactConsumer{OwnerEmail: "owner@example.com", LogDir: dir, Notifier: n}

	ev := ContactMessageEvent{
		MessageID:  "abc123",
		SenderName: "Ada",
		Subject:    "Hello",
		Message:    "Nice portfolio",
		ReceivedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := c.Handle(context.Background(), encode(t, ev)); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "contact.log"))
	if err != nil {
		t.Fatal(err)
	}
	line := string(raw)
	if !strings.Contains(line, "message_id=abc123") || !strings.Contains(line, `sender="Ada"`) {
		t.Errorf("unexpected log line %q", line)
	}
	if n.calls != 1 || n.to != "owner@example.com" || !strings.Contains(n.body, "Nice portfolio") {
		t.Errorf("notifier got %+v", n)
	}
}

func TestHandleLogsEvenWhenMailFails(t *testing.T) {
	dir := t.TempDir()
	c := &ContactConsumer{OwnerEmail: "owner@example.com", LogDir: dir, Notifier: &recordingNotifier{err: errors.New("smtp down")}}

	err := c.Handle(context.Background(), encode(t, ContactMessageEvent{MessageID: "m1", ReceivedAt: time.Now()}))
	if err == nil {
		t.Fatal("expected notify error")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "contact.log")); statErr != nil {
		t.Errorf("log not written: %v", statErr)
	}
}

func TestHandleRejectsGarbage(t *testing.T) {
	c := &ContactConsumer{LogDir: t.TempDir()}
	if err := c.Handle(context.Background(), []byte("{not json")); err == nil {
		t.Fatal("expected unmarshal error")
	}
}
