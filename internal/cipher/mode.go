package cipher

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMode is returned when a mode name is not recognized.
var ErrInvalidMode = errors.New("invalid mode")

// Mode selects the rotation direction.
type Mode int

const (
	// Encrypt rotates ids forward. It is the zero value.
	Encrypt Mode = iota

	// Decrypt rotates ids backward.
	Decrypt
)

// String returns "encrypt" or "decrypt".
func (m Mode) String() string {
	switch m {
	case Encrypt:
		return "encrypt"
	case Decrypt:
		return "decrypt"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Opposite returns the other direction.
func (m Mode) Opposite() Mode {
	if m == Decrypt {
		return Encrypt
	}
	return Decrypt
}

// ParseMode parses a mode name. Matching is case-insensitive and accepts the
// short forms "enc" and "dec".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "encrypt", "enc":
		return Encrypt, nil
	case "decrypt", "dec":
		return Decrypt, nil
	default:
		return Encrypt, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if m != Encrypt && m != Decrypt {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// An empty value selects Encrypt.
func (m *Mode) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*m = Encrypt
		return nil
	}
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
