package lockbox

import "github.com/benaskins/lockbox/secstore"

// buildQuery constructs the attribute map addressing one record (account
// set) or every record in the scope (account empty). The data-protection
// attribute is set only when the client supports that storage generation and
// the caller asked for the protected scope; on older stores it is omitted
// entirely, never set false, which would hard-fail there.
func buildQuery(account, service, accessGroup string, protected, supportsDP bool) secstore.Query {
	q := secstore.Query{
		secstore.AttrClass:   secstore.ClassGenericPassword,
		secstore.AttrService: service,
	}
	if account != "" {
		q[secstore.AttrAccount] = account
	}
	if accessGroup != "" {
		q[secstore.AttrAccessGroup] = accessGroup
	}
	if protected && supportsDP {
		q[secstore.AttrUseDataProtection] = true
	}
	return q
}
