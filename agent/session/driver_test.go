package session

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	auditx "github.com/naruebet/memochat/agent/audit"
)

type fakeAssistant struct {
	handle func(ctx context.Context, userID, text string) (string, error)
	calls  []string
}

func (f *fakeAssistant) HandleMessage(ctx context.Context, userID, text string) (string, error) {
	f.calls = append(f.calls, text)
	if f.handle != nil {
		return f.handle(ctx, userID, text)
	}
	return "echo: " + text, nil
}

type fakeAudit struct {
	recorded []*auditx.Turn
	count    int
	countErr error
	recErr   error
}

func (f *fakeAudit) Record(ctx context.Context, turn *auditx.Turn) error {
	f.recorded = append(f.recorded, turn)
	return f.recErr
}

func (f *fakeAudit) CountForUser(ctx context.Context, userID string) (int, error) {
	return f.count, f.countErr
}

func runSession(t *testing.T, assistant *fakeAssistant, input string, opts ...Option) (*bytes.Buffer, error) {
	t.Helper()
	out := &bytes.Buffer{}
	driver, err := NewDriver(assistant, "user-1", strings.NewReader(input), out, opts...)
	if err != nil {
		t.Fatalf("NewDriver() error = %v", err)
	}
	return out, driver.Run(context.Background())
}

func TestRunExitSynonymsTerminate(t *testing.T) {
	t.Parallel()

	for _, cmd := range []string{"exit", "quit", "bye", "q", "EXIT", "Quit"} {
		assistant := &fakeAssistant{}
		out, err := runSession(t, assistant, cmd+"\n")
		if err != nil {
			t.Fatalf("%q: Run() error = %v", cmd, err)
		}
		if len(assistant.calls) != 0 {
			t.Fatalf("%q: exit command reached the assistant", cmd)
		}
		if !strings.Contains(out.String(), "Goodbye") {
			t.Fatalf("%q: no farewell printed", cmd)
		}
	}
}

func TestRunEmptyInputIsReprompt(t *testing.T) {
	t.Parallel()

	assistant := &fakeAssistant{}
	if _, err := runSession(t, assistant, "\n   \nhello there\nexit\n"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(assistant.calls) != 1 || assistant.calls[0] != "hello there" {
		t.Fatalf("assistant calls = %v, want only the non-blank line", assistant.calls)
	}
}

func TestRunEOFEndsCleanly(t *testing.T) {
	t.Parallel()

	assistant := &fakeAssistant{}
	if _, err := runSession(t, assistant, "hello there\n"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(assistant.calls) != 1 {
		t.Fatalf("assistant calls = %v", assistant.calls)
	}
}

func TestRunFailingTurnDoesNotEndSession(t *testing.T) {
	t.Parallel()

	assistant := &fakeAssistant{
		handle: func(ctx context.Context, userID, text string) (string, error) {
			if strings.Contains(text, "boom") {
				return "", errors.New("pipeline exploded")
			}
			return "still here", nil
		},
	}
	out, err := runSession(t, assistant, "boom please\nare you alive?\nexit\n")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "an error occurred") {
		t.Fatal("recoverable error message not printed")
	}
	if !strings.Contains(text, "still here") {
		t.Fatal("session did not continue after a failed turn")
	}
}

func TestRunPanickingTurnIsContained(t *testing.T) {
	t.Parallel()

	assistant := &fakeAssistant{
		handle: func(ctx context.Context, userID, text string) (string, error) {
			if strings.Contains(text, "panic") {
				panic("model client lost its mind")
			}
			return "ok", nil
		},
	}
	out, err := runSession(t, assistant, "please panic now\nstill with me?\nexit\n")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "an error occurred") {
		t.Fatal("panic was not surfaced as a recoverable message")
	}
	if !strings.Contains(text, "ok") {
		t.Fatal("session did not continue after a panicking turn")
	}
}

func TestRunHistoryUsesSessionCounter(t *testing.T) {
	t.Parallel()

	assistant := &fakeAssistant{}
	out, err := runSession(t, assistant, "first turn here\nsecond turn here\nhistory\nclear\nexit\n")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := strings.Count(out.String(), "2 turn(s) this session"); got != 2 {
		t.Fatalf("history printed %d times, want 2 (history and its clear alias):\n%s", got, out.String())
	}
	if len(assistant.calls) != 2 {
		t.Fatalf("control commands reached the assistant: %v", assistant.calls)
	}
}

func TestRunHistoryPrefersAuditStore(t *testing.T) {
	t.Parallel()

	assistant := &fakeAssistant{}
	audit := &fakeAudit{count: 17}
	out, err := runSession(t, assistant, "history\nexit\n", WithAudit(audit))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "17 turn(s) on record for user-1") {
		t.Fatalf("history output missing store count:\n%s", out.String())
	}
}

func TestRunHistoryFallsBackWhenStoreFails(t *testing.T) {
	t.Parallel()

	assistant := &fakeAssistant{}
	audit := &fakeAudit{countErr: errors.New("db down")}
	out, err := runSession(t, assistant, "one real turn\nhistory\nexit\n", WithAudit(audit))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "1 turn(s) this session") {
		t.Fatalf("history output missing fallback count:\n%s", out.String())
	}
}

func TestRunRecordsCompletedTurns(t *testing.T) {
	t.Parallel()

	assistant := &fakeAssistant{}
	audit := &fakeAudit{}
	if _, err := runSession(t, assistant, "note my favourite color\nexit\n", WithAudit(audit)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(audit.recorded) != 1 {
		t.Fatalf("recorded %d turns, want 1", len(audit.recorded))
	}
	turn := audit.recorded[0]
	if turn.UserID != "user-1" || turn.UserMessage != "note my favourite color" || !strings.Contains(turn.AssistantMessage, "echo") {
		t.Fatalf("unexpected recorded turn: %+v", turn)
	}
}

func TestRunAuditWriteFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	assistant := &fakeAssistant{}
	audit := &fakeAudit{recErr: errors.New("insert failed")}
	out, err := runSession(t, assistant, "hello out there\nexit\n", WithAudit(audit))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "echo: hello out there") {
		t.Fatal("reply not printed despite audit failure")
	}
}

func TestNewDriverValidation(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	if _, err := NewDriver(nil, "user-1", strings.NewReader(""), out); err == nil {
		t.Fatal("nil assistant accepted")
	}
	if _, err := NewDriver(&fakeAssistant{}, "  ", strings.NewReader(""), out); err == nil {
		t.Fatal("blank user id accepted")
	}
}
