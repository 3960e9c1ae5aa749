package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmeindl/umlage/internal/encoding"
)

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	// Valid UTF-8 with German characters should pass through unchanged.
	input := "Verwendungszweck;Betrag\nGebäudereinigung;588,74\nMüllabfuhr;120,00\n"
	r, err := encoding.NewUTF8Reader(bytes.NewReader([]byte(input)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestNewUTF8Reader_Windows1252(t *testing.T) {
	// Windows-1252 encoded "Gebäudereinigung für März\n".
	// In Windows-1252: ä = 0xE4, ü = 0xFC.
	latin1Bytes := []byte{
		'G', 'e', 'b', 0xE4, 'u', 'd', 'e', 'r', 'e', 'i', 'n', 'i', 'g', 'u', 'n', 'g', ' ',
		'f', 0xFC, 'r', ' ', 'M', 0xE4, 'r', 'z', '\n',
	}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(latin1Bytes))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Gebäudereinigung für März\n", string(got))
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	// UTF-8 BOM (0xEF 0xBB 0xBF) should be stripped.
	bom := []byte{0xEF, 0xBB, 0xBF}
	content := []byte("Verwendungszweck;Betrag\n")
	input := append(bom, content...)

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Verwendungszweck;Betrag\n", string(got))
}

func TestReadAllString(t *testing.T) {
	// Windows-1252 euro sign is 0x80.
	input := []byte{'B', 'e', 't', 'r', 'a', 'g', ':', ' ', '9', '0', '0', ' ', 0x80, '\n'}

	got, err := encoding.ReadAllString(bytes.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "Betrag: 900 €\n", got)
}
