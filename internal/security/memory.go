// Package security provides input validation and secret hygiene helpers.
package security

import (
	"crypto/subtle"
)

// Payload holds the bytes written to the insert command's standard input.
// It is wiped once the command has consumed it.
type Payload struct {
	data []byte
}

// NewPayload joins lines with "\n", terminating the last line as well.
func NewPayload(lines []string) *Payload {
	size := 0
	for _, l := range lines {
		size += len(l) + 1
	}

	p := &Payload{data: make([]byte, 0, size)}
	for _, l := range lines {
		p.data = append(p.data, l...)
		p.data = append(p.data, '\n')
	}
	return p
}

// Bytes returns the underlying byte slice. Caller must not retain this reference.
func (p *Payload) Bytes() []byte {
	if p == nil {
		return nil
	}
	return p.data
}

// Zero clears the payload.
func (p *Payload) Zero() {
	if p == nil || p.data == nil {
		return
	}
	Wipe(&p.data)
}

// Wipe zeroes a slice and sets it to nil.
func Wipe(data *[]byte) {
	if data == nil || *data == nil {
		return
	}
	b := *data
	for i := range b {
		b[i] = 0
	}
	if len(b) > 0 {
		subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
	}
	*data = nil
}
