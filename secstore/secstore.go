// Package secstore defines the wire-level contract with the platform secure
// item store: attribute-map queries, native status codes, and the Client
// interface the credential layer is written against.
//
// Implementations: the macOS Keychain on darwin, the OS keyring elsewhere,
// and an in-memory store for tests.
package secstore

// Attr is an attribute key in a store query. Values mirror the Security
// framework's wire names for generic-password items.
type Attr string

const (
	AttrClass       Attr = "class"
	AttrService     Attr = "svce"
	AttrAccount     Attr = "acct"
	AttrAccessGroup Attr = "agrp"
	AttrAccessible  Attr = "pdmn"
	AttrLabel       Attr = "labl"
	AttrValueData   Attr = "v_Data"

	AttrMatchLimit       Attr = "m_Limit"
	AttrReturnData       Attr = "r_Data"
	AttrReturnAttributes Attr = "r_Attributes"

	// AttrUseDataProtection selects the data-protection storage generation.
	// Queries against a store that predates it must omit the attribute
	// entirely, never set it false: such stores reject unknown attributes.
	AttrUseDataProtection Attr = "useDataProtection"
)

// ClassGenericPassword is the only item class the credential layer stores.
const ClassGenericPassword = "genp"

// Match limits for AttrMatchLimit.
const (
	MatchLimitOne = "m_LimitOne"
	MatchLimitAll = "m_LimitAll"
)

// Accessibility policy wire values (kSecAttrAccessible pdmn codes).
const (
	AccessibleWhenUnlocked                   = "ak"
	AccessibleAfterFirstUnlock               = "ck"
	AccessibleWhenUnlockedThisDeviceOnly     = "aku"
	AccessibleAfterFirstUnlockThisDeviceOnly = "cku"
	AccessibleWhenPasscodeSetThisDeviceOnly  = "akpu"
)

// Query addresses one record, or one service's worth of records when the
// account attribute is absent.
type Query map[Attr]any

// Attributes is the attribute map returned for a matched record.
type Attributes map[Attr]any

// Client is the contract with the underlying secure item store. Every call
// reports a native Status; callers never see backend errors directly.
type Client interface {
	// Add inserts a new record described by attrs. StatusDuplicateItem when
	// a record with the same service, account, and access group exists.
	Add(attrs Query) Status

	// Update rewrites the records matched by match with the attribute values
	// in attrs. StatusItemNotFound when nothing matches.
	Update(match Query, attrs Query) Status

	// Delete removes the records matched by match. StatusItemNotFound when
	// nothing matches.
	Delete(match Query) Status

	// CopyMatching returns the records matched by q. The result shape
	// follows the query: payload bytes under AttrReturnData with
	// MatchLimitOne, []Attributes under AttrReturnAttributes, nil when
	// neither return flag is set (pure existence probe).
	CopyMatching(q Query) (any, Status)

	// SupportsDataProtection reports whether the store distinguishes the
	// data-protection generation from the legacy one. Resolved once at
	// construction; queries must omit AttrUseDataProtection when false.
	SupportsDataProtection() bool
}
