// Package lockbox stores serializable values in the platform
// secure-credential store as generic-password records.
//
// Records are keyed by account within a (service, access group) scope.
// Values round-trip through JSON; the store itself only ever sees opaque
// bytes. Every native status the store returns is translated into the
// package's error taxonomy before reaching a caller: absence surfaces as a
// nil result on reads and as success on deletes, duplicate surfaces as a
// plain false on insert-only writes, and everything else as an *Error.
package lockbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/benaskins/lockbox/secstore"
)

// storeMu serializes the existence-check-then-write sequence in SetData and
// AddData and the delete call. It is process-wide: every Store shares the one
// critical section, so two writers racing on the same account resolve to
// update-versus-duplicate instead of corrupting state. Reads and enumeration
// have no check-then-act race and take no lock.
var storeMu sync.Mutex

// Store coordinates queries against the secure item store.
type Store struct {
	client     secstore.Client
	supportsDP bool
}

// New returns a Store backed by client. Whether the store distinguishes the
// data-protection generation is resolved once, here.
func New(client secstore.Client) *Store {
	return &Store{client: client, supportsDP: client.SupportsDataProtection()}
}

// Open returns a Store backed by the platform default client: the macOS
// Keychain on darwin, the OS keyring elsewhere.
func Open() *Store {
	return New(secstore.DefaultClient())
}

// SetData stores data under account, updating the record in place when one
// already exists.
func (s *Store) SetData(account string, data []byte, opts ...Option) error {
	_, err := s.put(account, data, resolveScope(opts), false)
	return err
}

// AddData stores data under account only when no record exists yet. It
// reports false, with no error, when an existing record blocked the insert.
func (s *Store) AddData(account string, data []byte, opts ...Option) (bool, error) {
	return s.put(account, data, resolveScope(opts), true)
}

// put holds the lock across the existence check and the write that depends
// on it: without that, two concurrent writers can both observe "absent" and
// both add, and the loser would surface an uncaught duplicate.
func (s *Store) put(account string, data []byte, sc scope, insertOnly bool) (bool, error) {
	if account == "" {
		return false, classifyStatus(secstore.StatusParam)
	}
	q := s.query(account, sc, true)

	storeMu.Lock()
	defer storeMu.Unlock()

	probe := maps.Clone(q)
	probe[secstore.AttrMatchLimit] = secstore.MatchLimitOne
	_, st := s.client.CopyMatching(probe)
	switch st {
	case secstore.StatusSuccess, secstore.StatusItemNotFound:
	default:
		return false, classifyStatus(st)
	}
	exists := st == secstore.StatusSuccess

	if exists && !insertOnly {
		update := secstore.Query{
			secstore.AttrValueData:  data,
			secstore.AttrAccessible: sc.accessibility.label(),
		}
		st = s.client.Update(q, update)
	} else {
		attrs := maps.Clone(q)
		attrs[secstore.AttrValueData] = data
		attrs[secstore.AttrAccessible] = sc.accessibility.label()
		st = s.client.Add(attrs)
	}
	if err := classifyStatus(st); err != nil {
		if insertOnly && errors.Is(err, ErrDuplicateItem) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetData returns the payload stored under account, or nil when no record
// exists. Absence is not an error.
func (s *Store) GetData(account string, opts ...Option) ([]byte, error) {
	return s.getData(account, resolveScope(opts), true)
}

func (s *Store) getData(account string, sc scope, protected bool) ([]byte, error) {
	q := s.query(account, sc, protected)
	q[secstore.AttrReturnData] = true
	q[secstore.AttrMatchLimit] = secstore.MatchLimitOne

	res, st := s.client.CopyMatching(q)
	if st == secstore.StatusItemNotFound {
		return nil, nil
	}
	if err := classifyStatus(st); err != nil {
		return nil, err
	}
	data, ok := res.([]byte)
	if !ok {
		return nil, &Error{Kind: KindInvalidQueryResult}
	}
	return data, nil
}

// Attributes returns the attribute maps of every record in the scope. An
// empty scope yields an empty result, not an error.
func (s *Store) Attributes(opts ...Option) ([]secstore.Attributes, error) {
	return s.attributes(resolveScope(opts), true)
}

func (s *Store) attributes(sc scope, protected bool) ([]secstore.Attributes, error) {
	q := s.query("", sc, protected)
	q[secstore.AttrReturnAttributes] = true
	q[secstore.AttrMatchLimit] = secstore.MatchLimitAll

	res, st := s.client.CopyMatching(q)
	if st == secstore.StatusItemNotFound {
		return nil, nil
	}
	if err := classifyStatus(st); err != nil {
		return nil, err
	}
	attrs, ok := res.([]secstore.Attributes)
	if !ok {
		return nil, &Error{Kind: KindInvalidAccountResult}
	}
	return attrs, nil
}

// Accounts returns the account names of every record in the scope, sorted.
func (s *Store) Accounts(opts ...Option) ([]string, error) {
	return s.accounts(resolveScope(opts), true)
}

func (s *Store) accounts(sc scope, protected bool) ([]string, error) {
	attrs, err := s.attributes(sc, protected)
	if err != nil {
		return nil, err
	}
	accounts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		account, ok := a[secstore.AttrAccount].(string)
		if !ok || account == "" {
			// A well-formed record always carries its account; skip rather
			// than fail the whole enumeration.
			continue
		}
		accounts = append(accounts, account)
	}
	sort.Strings(accounts)
	return accounts, nil
}

// Delete removes the record stored under account. Deleting an absent record
// is a no-op, not an error.
func (s *Store) Delete(account string, opts ...Option) error {
	return s.delete(account, resolveScope(opts), true)
}

func (s *Store) delete(account string, sc scope, protected bool) error {
	q := s.query(account, sc, protected)

	storeMu.Lock()
	st := s.client.Delete(q)
	storeMu.Unlock()

	if st == secstore.StatusItemNotFound {
		return nil
	}
	return classifyStatus(st)
}

// Clear deletes every record in the scope, one by one. Not transactional:
// the sweep stops at the first failure, leaving later records intact.
func (s *Store) Clear(opts ...Option) error {
	sc := resolveScope(opts)
	accounts, err := s.accounts(sc, true)
	if err != nil {
		return err
	}
	for _, account := range accounts {
		if err := s.delete(account, sc, true); err != nil {
			return err
		}
	}
	return nil
}

// MigrateLegacyItems moves every record written under the legacy storage
// generation into the data-protection generation. Per account it writes the
// new copy insert-only and deletes the legacy record only once that write is
// confirmed: a record a caller already re-wrote under the new generation is
// never clobbered, and an interrupted run leaves at worst both copies, which
// the next run resolves. No-op on stores without a second generation.
func (s *Store) MigrateLegacyItems(opts ...Option) error {
	if !s.supportsDP {
		return nil
	}
	sc := resolveScope(opts)

	accounts, err := s.accounts(sc, false)
	if err != nil {
		return err
	}
	for _, account := range accounts {
		data, err := s.getData(account, sc, false)
		if err != nil {
			return err
		}
		if data == nil {
			continue // vanished since enumeration
		}
		inserted, err := s.put(account, data, sc, true)
		if err != nil {
			return err
		}
		if !inserted {
			// A protected record already exists; keep the legacy copy.
			continue
		}
		if err := s.delete(account, sc, false); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) query(account string, sc scope, protected bool) secstore.Query {
	return buildQuery(account, sc.service, sc.accessGroup, protected, s.supportsDP)
}

// Set stores v, JSON-encoded, under account, updating any existing record.
func Set[T any](s *Store, account string, v T, opts ...Option) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding payload for %q: %w", account, err)
	}
	return s.SetData(account, data, opts...)
}

// Add stores v under account only when no record exists yet. It reports
// false, with no error, when an existing record blocked the insert.
func Add[T any](s *Store, account string, v T, opts ...Option) (bool, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return false, fmt.Errorf("encoding payload for %q: %w", account, err)
	}
	return s.AddData(account, data, opts...)
}

// Get returns the value stored under account decoded into T. The boolean
// reports presence; absence is not an error. A payload that does not decode
// into T fails with ErrDecodeFailed, distinct from any store failure.
func Get[T any](s *Store, account string, opts ...Option) (T, bool, error) {
	var zero T
	data, err := s.GetData(account, opts...)
	if err != nil || data == nil {
		return zero, false, err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return zero, false, &Error{Kind: KindDecodeFailed, err: err}
	}
	return v, true, nil
}
