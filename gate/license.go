package gate

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"time"
)

// LicensePolicy decides whether the installation is licensed. Call sites
// only depend on this interface, so the check can be re-enabled by swapping
// the implementation in the composition root.
type LicensePolicy interface {
	// Valid reports whether the installation may run.
	Valid() bool
	// ExpiresSoon reports whether the license runs out within two weeks.
	ExpiresSoon() bool
}

// AlwaysValid is the shipped behavior: every installation is licensed.
type AlwaysValid struct{}

func (AlwaysValid) Valid() bool       { return true }
func (AlwaysValid) ExpiresSoon() bool { return false }

// SignedLicense validates a base64 "expiry.signature" key, where signature
// is HMAC-SHA256 of the expiry date under the combined public+private
// secret. The alternate code path of the original product, kept selectable.
type SignedLicense struct {
	Key          string // the license key handed to the customer
	PublicSecret string
	privateKey   string
	now          func() time.Time
}

// NewSignedLicense builds a validator for key under the given secrets.
func NewSignedLicense(key, publicSecret, privateSecret string) *SignedLicense {
	return &SignedLicense{Key: key, PublicSecret: publicSecret, privateKey: privateSecret, now: time.Now}
}

func (l *SignedLicense) Valid() bool {
	exp, ok := l.expiry()
	return ok && !exp.Before(l.now())
}

func (l *SignedLicense) ExpiresSoon() bool {
	exp, ok := l.expiry()
	if !ok {
		return false
	}
	return exp.Sub(l.now()) < 14*24*time.Hour
}

func (l *SignedLicense) expiry() (time.Time, bool) {
	decoded, err := base64.StdEncoding.DecodeString(l.Key)
	if err != nil {
		return time.Time{}, false
	}
	parts := strings.SplitN(string(decoded), ".", 2)
	if len(parts) != 2 {
		return time.Time{}, false
	}
	expStr, sig := parts[0], parts[1]
	if !hmac.Equal([]byte(sig), []byte(signData(expStr, l.PublicSecret+l.privateKey))) {
		return time.Time{}, false
	}
	exp, err := time.Parse("2006-01-02", expStr)
	if err != nil {
		return time.Time{}, false
	}
	return exp, true
}

func signData(data, key string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(data))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// SignLicense produces a key that SignedLicense accepts; used by the
// license issuing tool and by tests.
func SignLicense(expiry time.Time, publicSecret, privateSecret string) string {
	expStr := expiry.Format("2006-01-02")
	payload := expStr + "." + signData(expStr, publicSecret+privateSecret)
	return base64.StdEncoding.EncodeToString([]byte(payload))
}
