// Package validate implements the out-of-band artifact validator: it
// runs periodically on its own worker (spec §5) and tokenizes the
// current artifact with the same CSS lexer the teacher used for its own
// scoped-CSS processing, so a corrupted mutation (most likely a missed
// brace from an append/blank bug) is caught even though the rebuild path
// itself never re-parses its own output. Grounded on
// daaku-cssm/cssm.go's css.NewLexer(parse.NewInputBytes(...)) loop.
package validate

import (
	"fmt"
	"io"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Mode selects how strictly Validate treats a tokenization error.
type Mode int

const (
	// Lenient logs the error and returns it but callers may choose to
	// ignore it (e.g. comment out only the trailing malformed bytes).
	Lenient Mode = iota
	// Strict treats any tokenization error as grounds for forcing a full
	// rebuild on the next cycle.
	Strict
)

// Result reports whether the artifact tokenized cleanly, and if not, the
// byte offset the lexer stopped at.
type Result struct {
	OK        bool
	ErrOffset int
	Err       error
}

// Validate tokenizes artifact with the CSS Syntax Module tokenizer and
// reports whether it reaches EOF cleanly. It never panics on malformed
// input: a tokenizer error simply ends the scan and is reported in
// Result.
func Validate(artifact []byte) Result {
	in := make([]byte, len(artifact), len(artifact)+1)
	copy(in, artifact)

	lexer := css.NewLexer(parse.NewInputBytes(in))
	offset := 0
	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			if err := lexer.Err(); err == io.EOF {
				return Result{OK: true}
			} else if err != nil {
				return Result{OK: false, ErrOffset: offset, Err: fmt.Errorf("css tokenize at byte %d: %w", offset, err)}
			}
		}
		offset += len(data)
	}
}

// Disposition decides what the driver should do with a failed Result
// under mode: Strict always asks for a full rebuild; Lenient only does
// if the error is within the last trailingWindow bytes of the artifact
// (i.e. plausibly an in-progress append), otherwise it just logs.
func Disposition(res Result, artifactLen int, mode Mode, trailingWindow int) (forceFullRebuild bool) {
	if res.OK {
		return false
	}
	if mode == Strict {
		return true
	}
	return res.ErrOffset >= artifactLen-trailingWindow
}
