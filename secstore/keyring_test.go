package secstore

import (
	"bytes"
	"testing"

	"github.com/99designs/keyring"
)

// testKeyringClient swaps the OS keyring for an in-memory array keyring.
func testKeyringClient() *KeyringClient {
	c := NewKeyringClient()
	c.open = func(service string) (keyring.Keyring, error) {
		return keyring.NewArrayKeyring(nil), nil
	}
	return c
}

func TestKeyringAddAndCopy(t *testing.T) {
	t.Parallel()
	c := testKeyringClient()

	if st := c.Add(addQuery("svc", "acct", "v")); st != StatusSuccess {
		t.Fatalf("Add: %v", st)
	}
	if st := c.Add(addQuery("svc", "acct", "v2")); st != StatusDuplicateItem {
		t.Errorf("expected StatusDuplicateItem, got %v", st)
	}

	res, st := c.CopyMatching(Query{
		AttrClass:      ClassGenericPassword,
		AttrService:    "svc",
		AttrAccount:    "acct",
		AttrReturnData: true,
		AttrMatchLimit: MatchLimitOne,
	})
	if st != StatusSuccess {
		t.Fatalf("CopyMatching: %v", st)
	}
	if data, ok := res.([]byte); !ok || !bytes.Equal(data, []byte("v")) {
		t.Errorf("payload = %v", res)
	}
}

func TestKeyringUpdateMissing(t *testing.T) {
	t.Parallel()
	c := testKeyringClient()

	st := c.Update(Query{
		AttrClass:   ClassGenericPassword,
		AttrService: "svc",
		AttrAccount: "absent",
	}, Query{AttrValueData: []byte("v")})
	if st != StatusItemNotFound {
		t.Errorf("expected StatusItemNotFound, got %v", st)
	}
}

func TestKeyringEnumeration(t *testing.T) {
	t.Parallel()
	c := testKeyringClient()

	c.Add(addQuery("svc", "a", "va"))
	c.Add(addQuery("svc", "b", "vb"))

	res, st := c.CopyMatching(Query{
		AttrClass:            ClassGenericPassword,
		AttrService:          "svc",
		AttrReturnAttributes: true,
		AttrMatchLimit:       MatchLimitAll,
	})
	if st != StatusSuccess {
		t.Fatalf("CopyMatching: %v", st)
	}
	attrs, ok := res.([]Attributes)
	if !ok || len(attrs) != 2 {
		t.Fatalf("enumeration: %v", res)
	}
}

func TestKeyringRejectsDataProtectionAttr(t *testing.T) {
	t.Parallel()
	c := testKeyringClient()

	q := addQuery("svc", "acct", "v")
	q[AttrUseDataProtection] = true
	if st := c.Add(q); st != StatusNoSuchAttr {
		t.Errorf("expected StatusNoSuchAttr, got %v", st)
	}
}
