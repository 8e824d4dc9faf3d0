package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPayload(t *testing.T) {
	p := NewPayload([]string{"secret", "URL: https://x.example"})
	assert.Equal(t, "secret\nURL: https://x.example\n", string(p.Bytes()))
}

func TestPayload_Zero(t *testing.T) {
	p := NewPayload([]string{"sensitive password"})
	backing := p.Bytes()

	p.Zero()

	assert.Nil(t, p.Bytes())
	for _, b := range backing {
		if b != 0 {
			t.Fatal("backing array not cleared")
		}
	}

	var nilPayload *Payload
	nilPayload.Zero()
	assert.Nil(t, nilPayload.Bytes())
}

func TestWipe(t *testing.T) {
	data := []byte("secret")
	backing := data
	Wipe(&data)
	assert.Nil(t, data)
	assert.Equal(t, make([]byte, 6), backing)

	Wipe(nil)
	var empty []byte
	Wipe(&empty)
}
