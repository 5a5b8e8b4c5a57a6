package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Hash returns the hex SHA-256 digest of data. Render inputs are keyed by
// the digest of their file content.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// digestKey returns "<kind>:<digest>" over parts. Each part is length
// prefixed so that ("ab", "c") and ("a", "bc") differ.
func digestKey(kind string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(strconv.Itoa(len(p))))
		h.Write([]byte{':'})
		h.Write([]byte(p))
	}
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}

// fields lists the options in a fixed order for digestKey.
func (o PageKeyOpts) fields() []string {
	return []string{
		strconv.FormatBool(o.ControlRight),
		o.Scale,
		o.TitleSuffix,
		strconv.FormatFloat(o.Width, 'g', -1, 64),
		strconv.FormatFloat(o.Height, 'g', -1, 64),
	}
}
