package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateWellFormedCSS(t *testing.T) {
	css := []byte(".flex {\n  display: flex;\n}\n")
	res := Validate(css)
	assert.True(t, res.OK)
	assert.NoError(t, res.Err)
}

func TestValidateEmptyInput(t *testing.T) {
	res := Validate(nil)
	assert.True(t, res.OK)
}

func TestValidateUnterminatedStringIsStillTokenizedLeniently(t *testing.T) {
	// tdewolff's tokenizer recovers from most malformed input rather than
	// erroring hard; Validate only reports a failure on actual lexer
	// errors, so this makes no assertion on the result and only checks
	// that Validate returns on this input without panicking.
	css := []byte(".flex {\n  content: \"unterminated;\n}\n")
	res := Validate(css)
	_ = res // tokenizer recovery behavior; just must not panic
}

func TestDispositionOKNeverForcesRebuild(t *testing.T) {
	ok := Result{OK: true}
	assert.False(t, Disposition(ok, 1000, Strict, 50))
	assert.False(t, Disposition(ok, 1000, Lenient, 50))
}

func TestDispositionStrictAlwaysForcesRebuildOnFailure(t *testing.T) {
	bad := Result{OK: false, ErrOffset: 10}
	assert.True(t, Disposition(bad, 1000, Strict, 50))
}

func TestDispositionLenientOnlyForcesWhenErrorNearTail(t *testing.T) {
	nearTail := Result{OK: false, ErrOffset: 980}
	assert.True(t, Disposition(nearTail, 1000, Lenient, 50))

	farFromTail := Result{OK: false, ErrOffset: 100}
	assert.False(t, Disposition(farFromTail, 1000, Lenient, 50))
}
