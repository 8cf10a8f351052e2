package secstore

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/99designs/keyring"
	"github.com/adrg/xdg"
)

// KeyringClient adapts the OS keyring (Secret Service, wincred, or an
// encrypted file fallback for headless environments) to the Client contract.
// The keyring has no notion of access groups, accessibility policies, or
// storage generations: those attributes are accepted and ignored, and
// SupportsDataProtection reports false.
type KeyringClient struct {
	mu    sync.Mutex
	rings map[string]keyring.Keyring
	open  func(service string) (keyring.Keyring, error)
}

// NewKeyringClient returns a Client backed by the OS keyring. Rings are
// opened lazily, one per service.
func NewKeyringClient() *KeyringClient {
	return &KeyringClient{
		rings: make(map[string]keyring.Keyring),
		open:  openRing,
	}
}

func openRing(service string) (keyring.Keyring, error) {
	return keyring.Open(keyring.Config{
		ServiceName:              service,
		KeychainTrustApplication: true,
		FileDir:                  filepath.Join(xdg.DataHome, "lockbox", "keyring"),
		FilePasswordFunc:         keyring.TerminalPrompt,
	})
}

func (c *KeyringClient) SupportsDataProtection() bool { return false }

func (c *KeyringClient) ring(service string) (keyring.Keyring, Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ring, ok := c.rings[service]; ok {
		return ring, StatusSuccess
	}
	ring, err := c.open(service)
	if err != nil {
		return nil, StatusNotAvailable
	}
	c.rings[service] = ring
	return ring, StatusSuccess
}

// validate mirrors a legacy store's rejection of the data-protection
// attribute and of queries without a service.
func (c *KeyringClient) validate(q Query) (string, Status) {
	if _, ok := q[AttrUseDataProtection]; ok {
		return "", StatusNoSuchAttr
	}
	svc, _ := q[AttrService].(string)
	if svc == "" {
		return "", StatusParam
	}
	return svc, StatusSuccess
}

func (c *KeyringClient) Add(attrs Query) Status {
	svc, st := c.validate(attrs)
	if st != StatusSuccess {
		return st
	}
	account, _ := attrs[AttrAccount].(string)
	if account == "" {
		return StatusParam
	}
	ring, st := c.ring(svc)
	if st != StatusSuccess {
		return st
	}

	if _, err := ring.Get(account); err == nil {
		return StatusDuplicateItem
	} else if !errors.Is(err, keyring.ErrKeyNotFound) {
		return StatusInternalComponent
	}

	data, _ := attrs[AttrValueData].([]byte)
	if err := ring.Set(keyring.Item{Key: account, Data: data}); err != nil {
		return StatusInternalComponent
	}
	return StatusSuccess
}

func (c *KeyringClient) Update(match Query, attrs Query) Status {
	svc, st := c.validate(match)
	if st != StatusSuccess {
		return st
	}
	account, _ := match[AttrAccount].(string)
	if account == "" {
		return StatusParam
	}
	ring, st := c.ring(svc)
	if st != StatusSuccess {
		return st
	}

	if _, err := ring.Get(account); err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return StatusItemNotFound
		}
		return StatusInternalComponent
	}
	data, _ := attrs[AttrValueData].([]byte)
	if err := ring.Set(keyring.Item{Key: account, Data: data}); err != nil {
		return StatusInternalComponent
	}
	return StatusSuccess
}

func (c *KeyringClient) Delete(match Query) Status {
	svc, st := c.validate(match)
	if st != StatusSuccess {
		return st
	}
	ring, st := c.ring(svc)
	if st != StatusSuccess {
		return st
	}

	if account, _ := match[AttrAccount].(string); account != "" {
		if err := ring.Remove(account); err != nil {
			if errors.Is(err, keyring.ErrKeyNotFound) {
				return StatusItemNotFound
			}
			return StatusInternalComponent
		}
		return StatusSuccess
	}

	keys, err := ring.Keys()
	if err != nil {
		return StatusInternalComponent
	}
	if len(keys) == 0 {
		return StatusItemNotFound
	}
	for _, key := range keys {
		if err := ring.Remove(key); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
			return StatusInternalComponent
		}
	}
	return StatusSuccess
}

func (c *KeyringClient) CopyMatching(q Query) (any, Status) {
	svc, st := c.validate(q)
	if st != StatusSuccess {
		return nil, st
	}
	ring, st := c.ring(svc)
	if st != StatusSuccess {
		return nil, st
	}
	wantData := q[AttrReturnData] == true
	wantAttrs := q[AttrReturnAttributes] == true

	if account, _ := q[AttrAccount].(string); account != "" {
		item, err := ring.Get(account)
		if err != nil {
			if errors.Is(err, keyring.ErrKeyNotFound) {
				return nil, StatusItemNotFound
			}
			return nil, StatusInternalComponent
		}
		if wantData && q[AttrMatchLimit] == MatchLimitOne {
			return item.Data, StatusSuccess
		}
		if wantAttrs {
			return []Attributes{{AttrService: svc, AttrAccount: account}}, StatusSuccess
		}
		return nil, StatusSuccess
	}

	keys, err := ring.Keys()
	if err != nil {
		return nil, StatusInternalComponent
	}
	if len(keys) == 0 {
		return nil, StatusItemNotFound
	}
	if wantAttrs {
		out := make([]Attributes, 0, len(keys))
		for _, key := range keys {
			out = append(out, Attributes{AttrService: svc, AttrAccount: key})
		}
		return out, StatusSuccess
	}
	return nil, StatusSuccess
}
