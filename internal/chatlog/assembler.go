package chatlog

import (
	"bufio"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Assembler turns a raw export stream into Messages, one Scan at a time.
// It holds at most one in-progress message, so arbitrarily large exports
// are processed without loading the file into memory.
//
// Usage mirrors bufio.Scanner:
//
//	a := chatlog.NewAssembler(f, logger)
//	for a.Scan() {
//		m := a.Message()
//		...
//	}
//	if err := a.Err(); err != nil { ... }
type Assembler struct {
	scanner *bufio.Scanner
	logger  *slog.Logger

	cur     *pending
	msg     Message
	eof     bool
	orphans int
	lineNo  int
}

type pending struct {
	ts     time.Time
	author string
	lines  []string
}

// NewAssembler wraps a reader in a streaming message assembler.
func NewAssembler(r io.Reader, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Assembler{scanner: s, logger: logger}
}

// Scan advances to the next assembled message. It returns false at end of
// stream or on a read error; check Err afterwards.
func (a *Assembler) Scan() bool {
	for !a.eof {
		if !a.scanner.Scan() {
			a.eof = true
			break
		}
		a.lineNo++

		cl := Classify(a.scanner.Text())
		switch cl.Kind {
		case KindHeader:
			finished, ok := a.flush()
			a.cur = &pending{ts: cl.Stamp, author: cl.Author}
			a.appendBody(cl.Text)
			if ok {
				a.msg = finished
				return true
			}

		case KindContinuation:
			if a.cur == nil {
				// Orphan continuation before any header. Not fatal.
				a.orphans++
				a.logger.Warn("discarding continuation before first header",
					"line", a.lineNo,
				)
				continue
			}
			a.cur.lines = append(a.cur.lines, cl.Text)

		case KindNoise:
			// Blank lines inside a body are paragraph breaks; all other
			// noise (commands, system markers) is dropped outright.
			if cl.Noise == NoiseEmpty && a.cur != nil && len(a.cur.lines) > 0 {
				a.cur.lines = append(a.cur.lines, "")
			}
		}
	}

	if finished, ok := a.flush(); ok {
		a.msg = finished
		return true
	}
	return false
}

// Message returns the message produced by the last successful Scan.
func (a *Assembler) Message() Message { return a.msg }

// Err returns the first read error encountered, if any.
func (a *Assembler) Err() error { return a.scanner.Err() }

// Orphans reports how many continuation lines arrived before any header.
func (a *Assembler) Orphans() int { return a.orphans }

// appendBody adds a body segment to the in-progress message, applying the
// same noise rules as the classifier. Header lines whose inline content is a
// bot command or system marker end up empty-bodied and are dropped at flush.
func (a *Assembler) appendBody(text string) {
	text = strings.TrimSpace(text)
	if noiseReason(text) != NoiseNone {
		return
	}
	a.cur.lines = append(a.cur.lines, text)
}

// flush finalizes the in-progress message. Messages whose cleaned body is
// empty are discarded.
func (a *Assembler) flush() (Message, bool) {
	if a.cur == nil {
		return Message{}, false
	}
	p := a.cur
	a.cur = nil

	lines := p.lines
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	body := strings.Join(lines, "\n")
	if body == "" {
		return Message{}, false
	}

	return Message{
		Timestamp: p.ts,
		Author:    p.author,
		Body:      body,
	}, true
}
