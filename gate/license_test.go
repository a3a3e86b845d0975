package gate

import (
	"testing"
	"time"
)

func TestAlwaysValid(t *testing.T) {
	var p LicensePolicy = AlwaysValid{}
	if !p.Valid() {
		t.Fatal("AlwaysValid must report valid")
	}
	if p.ExpiresSoon() {
		t.Fatal("AlwaysValid never expires")
	}
}

func TestSignedLicenseRoundTrip(t *testing.T) {
	pub, priv := "public-key", "MySuperSecretKey"
	exp := time.Now().AddDate(1, 0, 0)
	key := SignLicense(exp, pub, priv)

	l := NewSignedLicense(key, pub, priv)
	if !l.Valid() {
		t.Fatal("freshly signed license must be valid")
	}
	if l.ExpiresSoon() {
		t.Fatal("license expiring in a year is not soon")
	}
}

func TestSignedLicenseExpired(t *testing.T) {
	pub, priv := "public-key", "MySuperSecretKey"
	key := SignLicense(time.Now().AddDate(0, 0, -1), pub, priv)

	l := NewSignedLicense(key, pub, priv)
	if l.Valid() {
		t.Fatal("expired license must not be valid")
	}
}

func TestSignedLicenseExpiresSoon(t *testing.T) {
	pub, priv := "public-key", "MySuperSecretKey"
	key := SignLicense(time.Now().AddDate(0, 0, 7), pub, priv)

	l := NewSignedLicense(key, pub, priv)
	if !l.Valid() {
		t.Fatal("license expiring next week is still valid")
	}
	if !l.ExpiresSoon() {
		t.Fatal("a license with 7 days left expires soon")
	}
}

func TestSignedLicenseTamperedKey(t *testing.T) {
	pub, priv := "public-key", "MySuperSecretKey"
	key := SignLicense(time.Now().AddDate(1, 0, 0), pub, priv)

	wrongSecret := NewSignedLicense(key, pub, "other")
	if wrongSecret.Valid() {
		t.Fatal("license signed with a different secret must be rejected")
	}
	garbage := NewSignedLicense("not-base64!!", pub, priv)
	if garbage.Valid() {
		t.Fatal("garbage key must be rejected")
	}
}
