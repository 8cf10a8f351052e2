//go:build darwin

package secstore

import (
	"errors"

	gokeychain "github.com/keybase/go-keychain"
)

// KeychainClient talks to the macOS Keychain through keybase/go-keychain.
// Records are stored as generic passwords; items are never synced to iCloud.
type KeychainClient struct{}

// NewKeychainClient returns a Client backed by the login Keychain.
func NewKeychainClient() *KeychainClient { return &KeychainClient{} }

// DefaultClient returns the platform store client.
func DefaultClient() Client { return NewKeychainClient() }

// SupportsDataProtection reports false: the go-keychain binding does not
// expose kSecUseDataProtectionKeychain, so every item lives in the legacy
// file-based keychain and there is no second generation to address.
// TODO: report true and map AttrUseDataProtection once the binding gains
// kSecUseDataProtectionKeychain support.
func (c *KeychainClient) SupportsDataProtection() bool { return false }

func (c *KeychainClient) Add(attrs Query) Status {
	item := matchItem(attrs)
	if data, ok := attrs[AttrValueData].([]byte); ok {
		item.SetData(data)
	}
	if accessible, ok := attrs[AttrAccessible].(string); ok {
		item.SetAccessible(accessibleFromLabel(accessible))
	}
	item.SetSynchronizable(gokeychain.SynchronizableNo)
	return statusFromError(gokeychain.AddItem(item))
}

func (c *KeychainClient) Update(match Query, attrs Query) Status {
	// The update item carries only the attributes being rewritten; the
	// class cannot appear in it.
	update := gokeychain.NewItem()
	if data, ok := attrs[AttrValueData].([]byte); ok {
		update.SetData(data)
	}
	if accessible, ok := attrs[AttrAccessible].(string); ok {
		update.SetAccessible(accessibleFromLabel(accessible))
	}
	if label, ok := attrs[AttrLabel].(string); ok {
		update.SetLabel(label)
	}
	return statusFromError(gokeychain.UpdateItem(matchItem(match), update))
}

func (c *KeychainClient) Delete(match Query) Status {
	return statusFromError(gokeychain.DeleteItem(matchItem(match)))
}

func (c *KeychainClient) CopyMatching(q Query) (any, Status) {
	item := matchItem(q)
	wantData := q[AttrReturnData] == true
	wantAttrs := q[AttrReturnAttributes] == true

	if q[AttrMatchLimit] == MatchLimitAll {
		item.SetMatchLimit(gokeychain.MatchLimitAll)
	} else {
		item.SetMatchLimit(gokeychain.MatchLimitOne)
	}
	item.SetReturnData(wantData)
	// The Security framework needs at least one return type; attributes
	// also serve the pure existence probe, whose result is discarded.
	item.SetReturnAttributes(!wantData || wantAttrs)

	results, err := gokeychain.QueryItem(item)
	if err != nil {
		if errors.Is(err, gokeychain.ErrorItemNotFound) {
			return nil, StatusItemNotFound
		}
		return nil, statusFromError(err)
	}
	if len(results) == 0 {
		return nil, StatusItemNotFound
	}

	if wantData {
		return results[0].Data, StatusSuccess
	}
	if wantAttrs {
		out := make([]Attributes, 0, len(results))
		for _, r := range results {
			out = append(out, Attributes{
				AttrService:     r.Service,
				AttrAccount:     r.Account,
				AttrAccessGroup: r.AccessGroup,
				AttrLabel:       r.Label,
			})
		}
		return out, StatusSuccess
	}
	return nil, StatusSuccess
}

// matchItem translates the addressing attributes of a query.
func matchItem(q Query) gokeychain.Item {
	item := gokeychain.NewItem()
	item.SetSecClass(gokeychain.SecClassGenericPassword)
	if svc, ok := q[AttrService].(string); ok {
		item.SetService(svc)
	}
	if account, ok := q[AttrAccount].(string); ok {
		item.SetAccount(account)
	}
	if group, ok := q[AttrAccessGroup].(string); ok && group != "" {
		item.SetAccessGroup(group)
	}
	if label, ok := q[AttrLabel].(string); ok {
		item.SetLabel(label)
	}
	return item
}

func accessibleFromLabel(label string) gokeychain.Accessible {
	switch label {
	case AccessibleAfterFirstUnlock:
		return gokeychain.AccessibleAfterFirstUnlock
	case AccessibleWhenUnlockedThisDeviceOnly:
		return gokeychain.AccessibleWhenUnlockedThisDeviceOnly
	case AccessibleAfterFirstUnlockThisDeviceOnly:
		return gokeychain.AccessibleAfterFirstUnlockThisDeviceOnly
	case AccessibleWhenPasscodeSetThisDeviceOnly:
		return gokeychain.AccessibleWhenPasscodeSetThisDeviceOnly
	default:
		return gokeychain.AccessibleWhenUnlocked
	}
}

// statusFromError recovers the native code from a go-keychain error.
func statusFromError(err error) Status {
	if err == nil {
		return StatusSuccess
	}
	var kerr gokeychain.Error
	if errors.As(err, &kerr) {
		return Status(kerr)
	}
	return StatusInternalComponent
}
