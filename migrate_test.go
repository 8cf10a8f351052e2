package lockbox

import (
	"testing"

	"github.com/benaskins/lockbox/secstore"
)

// seedLegacy writes a record directly into the legacy generation, the way
// an older build of a client application would have.
func seedLegacy(t *testing.T, c *secstore.MemoryClient, service, account, value string) {
	t.Helper()
	st := c.Add(secstore.Query{
		secstore.AttrClass:     secstore.ClassGenericPassword,
		secstore.AttrService:   service,
		secstore.AttrAccount:   account,
		secstore.AttrValueData: []byte(value),
	})
	if st != secstore.StatusSuccess {
		t.Fatalf("seeding legacy record: %v", st)
	}
}

// legacyExists probes the legacy generation for a record.
func legacyExists(t *testing.T, c *secstore.MemoryClient, service, account string) bool {
	t.Helper()
	_, st := c.CopyMatching(secstore.Query{
		secstore.AttrClass:      secstore.ClassGenericPassword,
		secstore.AttrService:    service,
		secstore.AttrAccount:    account,
		secstore.AttrMatchLimit: secstore.MatchLimitOne,
	})
	switch st {
	case secstore.StatusSuccess:
		return true
	case secstore.StatusItemNotFound:
		return false
	}
	t.Fatalf("probing legacy record: %v", st)
	return false
}

func TestMigrateMovesLegacyRecords(t *testing.T) {
	mem := secstore.NewMemoryClient()
	s := New(mem)

	seedLegacy(t, mem, "mig", "alpha", "a-val")
	seedLegacy(t, mem, "mig", "beta", "b-val")

	if err := s.MigrateLegacyItems(WithService("mig")); err != nil {
		t.Fatalf("MigrateLegacyItems: %v", err)
	}

	for account, want := range map[string]string{"alpha": "a-val", "beta": "b-val"} {
		data, err := s.GetData(account, WithService("mig"))
		if err != nil {
			t.Fatalf("GetData(%s): %v", account, err)
		}
		if string(data) != want {
			t.Errorf("GetData(%s) = %q, want %q", account, data, want)
		}
		if legacyExists(t, mem, "mig", account) {
			t.Errorf("legacy record %q should be deleted after migration", account)
		}
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	mem := secstore.NewMemoryClient()
	s := New(mem)

	seedLegacy(t, mem, "mig", "alpha", "a-val")

	if err := s.MigrateLegacyItems(WithService("mig")); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := s.MigrateLegacyItems(WithService("mig")); err != nil {
		t.Fatalf("second run: %v", err)
	}

	data, err := s.GetData("alpha", WithService("mig"))
	if err != nil {
		t.Fatalf("GetData: %v", err)
	}
	if string(data) != "a-val" {
		t.Errorf("GetData = %q, want %q", data, "a-val")
	}
	accounts, _ := s.Accounts(WithService("mig"))
	if len(accounts) != 1 {
		t.Errorf("expected a single migrated record, got %v", accounts)
	}
}

func TestMigrateNeverClobbersProtectedRecord(t *testing.T) {
	mem := secstore.NewMemoryClient()
	s := New(mem)

	seedLegacy(t, mem, "mig", "alpha", "old-val")
	// The caller already re-wrote this account under the new generation.
	if err := s.SetData("alpha", []byte("new-val"), WithService("mig")); err != nil {
		t.Fatalf("SetData: %v", err)
	}

	if err := s.MigrateLegacyItems(WithService("mig")); err != nil {
		t.Fatalf("MigrateLegacyItems: %v", err)
	}

	data, err := s.GetData("alpha", WithService("mig"))
	if err != nil {
		t.Fatalf("GetData: %v", err)
	}
	if string(data) != "new-val" {
		t.Errorf("protected record was clobbered: got %q", data)
	}
	if !legacyExists(t, mem, "mig", "alpha") {
		t.Error("legacy record must be left untouched when the insert is blocked")
	}
}

func TestMigrateNoopWithoutDataProtection(t *testing.T) {
	legacy := secstore.NewLegacyMemoryClient()
	s := New(legacy)

	if err := s.SetData("alpha", []byte("v"), WithService("mig")); err != nil {
		t.Fatalf("SetData: %v", err)
	}
	if err := s.MigrateLegacyItems(WithService("mig")); err != nil {
		t.Fatalf("MigrateLegacyItems on single-generation store: %v", err)
	}

	data, err := s.GetData("alpha", WithService("mig"))
	if err != nil {
		t.Fatalf("GetData: %v", err)
	}
	if string(data) != "v" {
		t.Errorf("record disturbed by no-op migration: %q", data)
	}
}
