package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestTokenRoundTrip(t *testing.T) {
	gokeyring.MockInit()

	if err := SetToken("header.payload.sig"); err != nil {
		t.Fatalf("SetToken() failed: %v", err)
	}

	got, err := GetToken()
	if err != nil {
		t.Fatalf("GetToken() failed: %v", err)
	}
	if got != "header.payload.sig" {
		t.Errorf("GetToken() = %q", got)
	}

	if err := DeleteToken(); err != nil {
		t.Fatalf("DeleteToken() failed: %v", err)
	}
	if _, err := GetToken(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetToken() after delete = %v, want ErrNotFound", err)
	}
	if err := DeleteToken(); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteToken() = %v, want ErrNotFound", err)
	}
}

func TestEntriesAreIndependent(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString("postgres://ada@localhost/habits"); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}
	if _, err := GetToken(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetToken() = %v, want ErrNotFound", err)
	}

	got, err := GetConnectionString()
	if err != nil || got != "postgres://ada@localhost/habits" {
		t.Errorf("GetConnectionString() = %q, %v", got, err)
	}
}

func TestSetEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := SetToken(""); err == nil {
		t.Error("SetToken(\"\") should return an error")
	}
	if err := SetConnectionString(""); err == nil {
		t.Error("SetConnectionString(\"\") should return an error")
	}
}

func TestUnavailable(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("dbus: no session bus"))
	t.Cleanup(gokeyring.MockInit)

	if IsAvailable() {
		t.Error("IsAvailable() = true with a failing keyring")
	}
	if _, err := GetToken(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("GetToken() = %v, want ErrKeyringUnavailable", err)
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()
	if !IsAvailable() {
		t.Error("IsAvailable() = false with mock keyring")
	}
}
