package secstore

import (
	"bytes"
	"testing"
)

func addQuery(service, account, value string) Query {
	return Query{
		AttrClass:     ClassGenericPassword,
		AttrService:   service,
		AttrAccount:   account,
		AttrValueData: []byte(value),
	}
}

func TestMemoryAddDuplicate(t *testing.T) {
	t.Parallel()
	c := NewMemoryClient()

	if st := c.Add(addQuery("svc", "acct", "v1")); st != StatusSuccess {
		t.Fatalf("Add: %v", st)
	}
	if st := c.Add(addQuery("svc", "acct", "v2")); st != StatusDuplicateItem {
		t.Errorf("expected StatusDuplicateItem, got %v", st)
	}
}

func TestMemoryUpdateMissing(t *testing.T) {
	t.Parallel()
	c := NewMemoryClient()

	st := c.Update(Query{
		AttrClass:   ClassGenericPassword,
		AttrService: "svc",
		AttrAccount: "absent",
	}, Query{AttrValueData: []byte("v")})
	if st != StatusItemNotFound {
		t.Errorf("expected StatusItemNotFound, got %v", st)
	}
}

func TestMemoryDeleteMissing(t *testing.T) {
	t.Parallel()
	c := NewMemoryClient()

	st := c.Delete(Query{
		AttrClass:   ClassGenericPassword,
		AttrService: "svc",
		AttrAccount: "absent",
	})
	if st != StatusItemNotFound {
		t.Errorf("expected StatusItemNotFound, got %v", st)
	}
}

func TestMemoryCopyMatchingShapes(t *testing.T) {
	t.Parallel()
	c := NewMemoryClient()
	c.Add(addQuery("svc", "a", "va"))
	c.Add(addQuery("svc", "b", "vb"))

	// Existence probe: no return flags, nil result.
	res, st := c.CopyMatching(Query{
		AttrClass:      ClassGenericPassword,
		AttrService:    "svc",
		AttrAccount:    "a",
		AttrMatchLimit: MatchLimitOne,
	})
	if st != StatusSuccess || res != nil {
		t.Errorf("existence probe: res=%v st=%v", res, st)
	}

	// Payload read.
	res, st = c.CopyMatching(Query{
		AttrClass:      ClassGenericPassword,
		AttrService:    "svc",
		AttrAccount:    "a",
		AttrReturnData: true,
		AttrMatchLimit: MatchLimitOne,
	})
	if st != StatusSuccess {
		t.Fatalf("data read: %v", st)
	}
	data, ok := res.([]byte)
	if !ok || !bytes.Equal(data, []byte("va")) {
		t.Errorf("data read: %v", res)
	}

	// Attribute enumeration.
	res, st = c.CopyMatching(Query{
		AttrClass:            ClassGenericPassword,
		AttrService:          "svc",
		AttrReturnAttributes: true,
		AttrMatchLimit:       MatchLimitAll,
	})
	if st != StatusSuccess {
		t.Fatalf("enumeration: %v", st)
	}
	attrs, ok := res.([]Attributes)
	if !ok || len(attrs) != 2 {
		t.Fatalf("enumeration: %v", res)
	}
	if attrs[0][AttrAccount] != "a" || attrs[1][AttrAccount] != "b" {
		t.Errorf("enumeration order: %v", attrs)
	}
}

func TestMemoryGenerationsAreDisjoint(t *testing.T) {
	t.Parallel()
	c := NewMemoryClient()

	legacy := addQuery("svc", "acct", "legacy-v")
	if st := c.Add(legacy); st != StatusSuccess {
		t.Fatalf("legacy add: %v", st)
	}

	protected := addQuery("svc", "acct", "protected-v")
	protected[AttrUseDataProtection] = true
	// Same key in the other generation is not a duplicate.
	if st := c.Add(protected); st != StatusSuccess {
		t.Fatalf("protected add: %v", st)
	}

	read := func(dp bool) string {
		q := Query{
			AttrClass:      ClassGenericPassword,
			AttrService:    "svc",
			AttrAccount:    "acct",
			AttrReturnData: true,
			AttrMatchLimit: MatchLimitOne,
		}
		if dp {
			q[AttrUseDataProtection] = true
		}
		res, st := c.CopyMatching(q)
		if st != StatusSuccess {
			t.Fatalf("read dp=%v: %v", dp, st)
		}
		return string(res.([]byte))
	}

	if got := read(false); got != "legacy-v" {
		t.Errorf("legacy read = %q", got)
	}
	if got := read(true); got != "protected-v" {
		t.Errorf("protected read = %q", got)
	}
}

func TestLegacyClientRejectsDataProtectionAttr(t *testing.T) {
	t.Parallel()
	c := NewLegacyMemoryClient()

	if c.SupportsDataProtection() {
		t.Fatal("legacy client must not report data-protection support")
	}

	q := addQuery("svc", "acct", "v")
	q[AttrUseDataProtection] = true
	if st := c.Add(q); st != StatusNoSuchAttr {
		t.Errorf("expected StatusNoSuchAttr for unknown attribute, got %v", st)
	}
}

func TestMemoryRejectsMissingService(t *testing.T) {
	t.Parallel()
	c := NewMemoryClient()

	if st := c.Add(Query{AttrClass: ClassGenericPassword, AttrAccount: "acct"}); st != StatusParam {
		t.Errorf("expected StatusParam, got %v", st)
	}
}

func TestStatusMessages(t *testing.T) {
	t.Parallel()
	if msg := StatusDuplicateItem.String(); msg != "The specified item already exists in the keychain." {
		t.Errorf("duplicate message: %q", msg)
	}
	if msg := Status(-99999).String(); msg != "status -99999" {
		t.Errorf("unknown status message: %q", msg)
	}
}
