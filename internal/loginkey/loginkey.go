package loginkey

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
)

var (
	// ErrMalformedKey is returned when the key material cannot be parsed
	ErrMalformedKey = errors.New("loginkey: malformed key material")

	// ErrSecretTooLong is returned when the secret does not fit in one RSA block
	ErrSecretTooLong = errors.New("loginkey: secret too long for router key")
)

// PublicKey is the RSA modulus/exponent pair issued by the router's login-key endpoint
type PublicKey struct {
	N *big.Int
	E int
}

// Size returns the modulus size in bytes
func (k *PublicKey) Size() int {
	return (k.N.BitLen() + 7) / 8
}

// ParseKeyMaterial parses data.password from the login-key response. The firmware
// sends ["<modulus hex>", "<exponent hex>"]; some builds send {"0": ..., "1": ...}.
func ParseKeyMaterial(material []byte) (*PublicKey, error) {
	material = bytes.TrimSpace(material)
	if len(material) == 0 {
		return nil, ErrMalformedKey
	}

	var parts []string
	switch material[0] {
	case '[':
		if err := json.Unmarshal(material, &parts); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
		}
	case '{':
		var obj map[string]string
		if err := json.Unmarshal(material, &obj); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
		}
		parts = []string{obj["0"], obj["1"]}
	default:
		return nil, fmt.Errorf("%w: expected array or object", ErrMalformedKey)
	}

	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("%w: need modulus and exponent", ErrMalformedKey)
	}

	n, ok := new(big.Int).SetString(strings.TrimPrefix(parts[0], "0x"), 16)
	if !ok || n.Sign() <= 0 {
		return nil, fmt.Errorf("%w: bad modulus", ErrMalformedKey)
	}

	e, err := strconv.ParseInt(strings.TrimPrefix(parts[1], "0x"), 16, 32)
	if err != nil || e < 3 {
		return nil, fmt.Errorf("%w: bad exponent %q", ErrMalformedKey, parts[1])
	}

	return &PublicKey{N: n, E: int(e)}, nil
}

// Encryptor encrypts router passwords the way the web login page does:
// PKCS#1 v1.5 type 2 padding, raw RSA, lower-case hex output.
type Encryptor struct {
	// Rand supplies padding bytes; crypto/rand.Reader when nil
	Rand io.Reader
}

// New returns an Encryptor backed by crypto/rand
func New() *Encryptor {
	return &Encryptor{Rand: rand.Reader}
}

// Encrypt encrypts secret with the key described by material
func (enc *Encryptor) Encrypt(secret string, material []byte) (string, error) {
	key, err := ParseKeyMaterial(material)
	if err != nil {
		return "", err
	}
	return enc.EncryptWithKey(secret, key)
}

// EncryptWithKey encrypts secret with an already parsed key.
// crypto/rsa refuses the 512-bit keys this firmware issues, hence the math/big path.
func (enc *Encryptor) EncryptWithKey(secret string, key *PublicKey) (string, error) {
	r := enc.Rand
	if r == nil {
		r = rand.Reader
	}

	k := key.Size()
	msg := []byte(secret)
	if len(msg) > k-11 {
		return "", ErrSecretTooLong
	}

	// EM = 0x00 || 0x02 || PS || 0x00 || M
	em := make([]byte, k)
	em[1] = 2
	ps := em[2 : k-len(msg)-1]
	if err := nonZeroRandomBytes(ps, r); err != nil {
		return "", fmt.Errorf("loginkey: reading padding: %w", err)
	}
	copy(em[k-len(msg):], msg)

	m := new(big.Int).SetBytes(em)
	c := new(big.Int).Exp(m, big.NewInt(int64(key.E)), key.N)

	return hex.EncodeToString(c.FillBytes(make([]byte, k))), nil
}

// nonZeroRandomBytes fills s with random non-zero bytes
func nonZeroRandomBytes(s []byte, r io.Reader) error {
	if _, err := io.ReadFull(r, s); err != nil {
		return err
	}
	for i := range s {
		for s[i] == 0 {
			if _, err := io.ReadFull(r, s[i:i+1]); err != nil {
				return err
			}
		}
	}
	return nil
}
