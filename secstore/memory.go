package secstore

import (
	"sort"
	"sync"
)

// MemoryClient is an in-memory Client for tests and non-persistent use. It
// speaks the full native contract, statuses included, and models both
// storage generations so migration paths can be exercised off-platform.
type MemoryClient struct {
	mu             sync.Mutex
	legacy         map[itemKey]*memItem
	protected      map[itemKey]*memItem
	dataProtection bool
}

type itemKey struct {
	service     string
	account     string
	accessGroup string
}

type memItem struct {
	data       []byte
	accessible string
}

// NewMemoryClient returns an empty in-memory store with data-protection
// support.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		legacy:         make(map[itemKey]*memItem),
		protected:      make(map[itemKey]*memItem),
		dataProtection: true,
	}
}

// NewLegacyMemoryClient returns an in-memory store modeling a generation
// that predates the data-protection keychain: it holds a single bucket of
// records and rejects queries carrying the data-protection attribute.
func NewLegacyMemoryClient() *MemoryClient {
	c := NewMemoryClient()
	c.dataProtection = false
	return c
}

func (c *MemoryClient) SupportsDataProtection() bool { return c.dataProtection }

// validate rejects malformed queries the way the platform store would.
func (c *MemoryClient) validate(q Query) Status {
	if !c.dataProtection {
		if _, ok := q[AttrUseDataProtection]; ok {
			return StatusNoSuchAttr
		}
	}
	if cls, ok := q[AttrClass]; ok && cls != ClassGenericPassword {
		return StatusNoSuchClass
	}
	if svc, _ := q[AttrService].(string); svc == "" {
		return StatusParam
	}
	return StatusSuccess
}

// bucket selects the storage generation a query addresses.
func (c *MemoryClient) bucket(q Query) map[itemKey]*memItem {
	if c.dataProtection && q[AttrUseDataProtection] == true {
		return c.protected
	}
	return c.legacy
}

// match returns the keys in b matched by q, ordered by account for
// deterministic enumeration.
func (c *MemoryClient) match(b map[itemKey]*memItem, q Query) []itemKey {
	svc, _ := q[AttrService].(string)
	account, hasAccount := q[AttrAccount].(string)
	group, hasGroup := q[AttrAccessGroup].(string)

	var keys []itemKey
	for k := range b {
		if k.service != svc {
			continue
		}
		if hasAccount && k.account != account {
			continue
		}
		if hasGroup && k.accessGroup != group {
			continue
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].account < keys[j].account })
	return keys
}

func (c *MemoryClient) Add(attrs Query) Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	if st := c.validate(attrs); st != StatusSuccess {
		return st
	}
	svc, _ := attrs[AttrService].(string)
	account, _ := attrs[AttrAccount].(string)
	if account == "" {
		return StatusParam
	}
	group, _ := attrs[AttrAccessGroup].(string)

	b := c.bucket(attrs)
	key := itemKey{service: svc, account: account, accessGroup: group}
	if _, ok := b[key]; ok {
		return StatusDuplicateItem
	}

	data, _ := attrs[AttrValueData].([]byte)
	accessible, _ := attrs[AttrAccessible].(string)
	b[key] = &memItem{data: append([]byte(nil), data...), accessible: accessible}
	return StatusSuccess
}

func (c *MemoryClient) Update(match Query, attrs Query) Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	if st := c.validate(match); st != StatusSuccess {
		return st
	}
	b := c.bucket(match)
	keys := c.match(b, match)
	if len(keys) == 0 {
		return StatusItemNotFound
	}
	for _, k := range keys {
		item := b[k]
		if data, ok := attrs[AttrValueData].([]byte); ok {
			item.data = append([]byte(nil), data...)
		}
		if accessible, ok := attrs[AttrAccessible].(string); ok {
			item.accessible = accessible
		}
	}
	return StatusSuccess
}

func (c *MemoryClient) Delete(match Query) Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	if st := c.validate(match); st != StatusSuccess {
		return st
	}
	b := c.bucket(match)
	keys := c.match(b, match)
	if len(keys) == 0 {
		return StatusItemNotFound
	}
	for _, k := range keys {
		delete(b, k)
	}
	return StatusSuccess
}

func (c *MemoryClient) CopyMatching(q Query) (any, Status) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if st := c.validate(q); st != StatusSuccess {
		return nil, st
	}
	b := c.bucket(q)
	keys := c.match(b, q)
	if len(keys) == 0 {
		return nil, StatusItemNotFound
	}

	if q[AttrReturnData] == true && q[AttrMatchLimit] == MatchLimitOne {
		return append([]byte(nil), b[keys[0]].data...), StatusSuccess
	}
	if q[AttrReturnAttributes] == true {
		out := make([]Attributes, 0, len(keys))
		for _, k := range keys {
			out = append(out, Attributes{
				AttrService:     k.service,
				AttrAccount:     k.account,
				AttrAccessGroup: k.accessGroup,
				AttrAccessible:  b[k].accessible,
			})
		}
		return out, StatusSuccess
	}
	return nil, StatusSuccess
}
