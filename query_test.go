package lockbox

import (
	"testing"

	"github.com/benaskins/lockbox/secstore"
)

func TestBuildQuerySingleRecord(t *testing.T) {
	t.Parallel()
	q := buildQuery("acct", "svc", "grp", true, true)

	if q[secstore.AttrClass] != secstore.ClassGenericPassword {
		t.Errorf("class = %v", q[secstore.AttrClass])
	}
	if q[secstore.AttrService] != "svc" {
		t.Errorf("service = %v", q[secstore.AttrService])
	}
	if q[secstore.AttrAccount] != "acct" {
		t.Errorf("account = %v", q[secstore.AttrAccount])
	}
	if q[secstore.AttrAccessGroup] != "grp" {
		t.Errorf("access group = %v", q[secstore.AttrAccessGroup])
	}
	if q[secstore.AttrUseDataProtection] != true {
		t.Errorf("data-protection flag = %v", q[secstore.AttrUseDataProtection])
	}
}

func TestBuildQueryEnumerationOmitsAccount(t *testing.T) {
	t.Parallel()
	q := buildQuery("", "svc", "", true, true)

	if _, ok := q[secstore.AttrAccount]; ok {
		t.Error("enumeration query must not carry an account")
	}
	if _, ok := q[secstore.AttrAccessGroup]; ok {
		t.Error("access group must be omitted when not provided")
	}
}

func TestBuildQueryOmitsFlagWithoutSupport(t *testing.T) {
	t.Parallel()
	// On stores without a second generation the attribute must be absent
	// entirely, not false: unknown attributes hard-fail there.
	q := buildQuery("acct", "svc", "", true, false)
	if _, ok := q[secstore.AttrUseDataProtection]; ok {
		t.Error("data-protection flag must be omitted on unsupported stores")
	}
}

func TestBuildQueryLegacyScopeOmitsFlag(t *testing.T) {
	t.Parallel()
	q := buildQuery("acct", "svc", "", false, true)
	if _, ok := q[secstore.AttrUseDataProtection]; ok {
		t.Error("legacy-scope query must not carry the data-protection flag")
	}
}
