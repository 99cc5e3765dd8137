package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	auditx "github.com/naruebet/memochat/agent/audit"
	contractx "github.com/naruebet/memochat/agent/contract"
	logx "github.com/naruebet/memochat/pkg/logger"
)

var exitCommands = map[string]struct{}{
	"exit": {},
	"quit": {},
	"bye":  {},
	"q":    {},
}

// historyCommands report the user's turn count. "clear" is kept for parity
// with the legacy surface where it showed the count instead of wiping it.
var historyCommands = map[string]struct{}{
	"history": {},
	"clear":   {},
}

// TurnAudit is the durable turn log the driver consults for the history
// command and feeds after each completed turn. Optional.
type TurnAudit interface {
	Record(ctx context.Context, turn *auditx.Turn) error
	CountForUser(ctx context.Context, userID string) (int, error)
}

// Driver owns one interactive session: the turn counter, control commands,
// and the single recovery boundary around each turn. The loop only ends on an
// exit command, EOF, or context cancellation; a failing turn never ends it.
type Driver struct {
	assistant contractx.Assistant
	audit     TurnAudit
	userID    string
	in        io.Reader
	out       io.Writer
	turns     int
	log       zerolog.Logger
}

type Option func(*Driver)

func WithAudit(audit TurnAudit) Option {
	return func(d *Driver) {
		d.audit = audit
	}
}

func NewDriver(assistant contractx.Assistant, userID string, in io.Reader, out io.Writer, opts ...Option) (*Driver, error) {
	if assistant == nil {
		return nil, errors.New("assistant is required")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	if in == nil || out == nil {
		return nil, errors.New("input and output streams are required")
	}

	d := &Driver{
		assistant: assistant,
		userID:    userID,
		in:        in,
		out:       out,
		log:       logx.Component("session"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

func (d *Driver) Run(ctx context.Context) error {
	fmt.Fprintln(d.out, "Ready. Ask me anything — 'history' shows your turn count, 'exit' leaves.")

	scanner := bufio.NewScanner(d.in)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprint(d.out, "> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		lowered := strings.ToLower(line)
		if _, ok := exitCommands[lowered]; ok {
			fmt.Fprintln(d.out, "Goodbye!")
			return nil
		}
		if _, ok := historyCommands[lowered]; ok {
			d.printHistory(ctx)
			continue
		}

		d.runTurn(ctx, line)
	}
}

func (d *Driver) printHistory(ctx context.Context) {
	if d.audit != nil {
		count, err := d.audit.CountForUser(ctx, d.userID)
		if err == nil {
			fmt.Fprintf(d.out, "%d turn(s) on record for %s\n", count, d.userID)
			return
		}
		d.log.Warn().Err(err).Msg("history lookup failed, falling back to session counter")
	}
	fmt.Fprintf(d.out, "%d turn(s) this session\n", d.turns)
}

// runTurn is the session's only recovery boundary. Whatever escapes the
// pipeline — error or panic — is logged and reported as a recoverable
// message; the session continues.
func (d *Driver) runTurn(ctx context.Context, text string) {
	reply, err := d.handle(ctx, text)
	if err != nil {
		d.log.Error().Err(err).Str("user_id", d.userID).Msg("turn failed")
		fmt.Fprintln(d.out, "Sorry, an error occurred. Please try again.")
		return
	}

	d.turns++
	d.log.Debug().Int("turn", d.turns).Str("user_id", d.userID).Msg("turn completed")
	fmt.Fprintln(d.out, reply)

	if d.audit != nil {
		turn := &auditx.Turn{
			UserID:           d.userID,
			UserMessage:      text,
			AssistantMessage: reply,
		}
		if err := d.audit.Record(ctx, turn); err != nil {
			d.log.Warn().Err(err).Msg("turn audit write failed")
		}
	}
}

func (d *Driver) handle(ctx context.Context, text string) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("turn panicked: %v", r)
		}
	}()
	return d.assistant.HandleMessage(ctx, d.userID, text)
}
