package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC32C(t *testing.T) {
	// Standard CRC-32C check value.
	assert.Equal(t, uint32(0xe3069283), CRC32C([]byte("123456789")))

	h := NewCRC32C()
	_, _ = h.Write([]byte("1234"))
	_, _ = h.Write([]byte("56789"))
	assert.Equal(t, CRC32C([]byte("123456789")), h.Sum32())
}

func TestTrailer(t *testing.T) {
	body := []byte("block payload")
	tr := Trailer(CRC32C(body))
	data := append(append([]byte{}, body...), tr[:]...)

	got, stored, computed := SplitTrailer(data)
	assert.Equal(t, body, got)
	assert.Equal(t, stored, computed)

	data[0] ^= 0xff
	_, stored, computed = SplitTrailer(data)
	assert.NotEqual(t, stored, computed)
}

func TestBase64(t *testing.T) {
	assert.Equal(t, "4waSgw==", Base64([]byte("123456789")))
}
