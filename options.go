package lockbox

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/benaskins/lockbox/secstore"
)

// Accessibility controls when the underlying store will release a record's
// payload.
type Accessibility int

const (
	AccessibleWhenUnlocked Accessibility = iota
	AccessibleAfterFirstUnlock
	AccessibleWhenUnlockedThisDeviceOnly
	AccessibleAfterFirstUnlockThisDeviceOnly
	AccessibleWhenPasscodeSetThisDeviceOnly
)

// label returns the policy's wire value.
func (a Accessibility) label() string {
	switch a {
	case AccessibleAfterFirstUnlock:
		return secstore.AccessibleAfterFirstUnlock
	case AccessibleWhenUnlockedThisDeviceOnly:
		return secstore.AccessibleWhenUnlockedThisDeviceOnly
	case AccessibleAfterFirstUnlockThisDeviceOnly:
		return secstore.AccessibleAfterFirstUnlockThisDeviceOnly
	case AccessibleWhenPasscodeSetThisDeviceOnly:
		return secstore.AccessibleWhenPasscodeSetThisDeviceOnly
	default:
		return secstore.AccessibleWhenUnlocked
	}
}

func (a Accessibility) String() string {
	switch a {
	case AccessibleAfterFirstUnlock:
		return "after-first-unlock"
	case AccessibleWhenUnlockedThisDeviceOnly:
		return "when-unlocked-this-device-only"
	case AccessibleAfterFirstUnlockThisDeviceOnly:
		return "after-first-unlock-this-device-only"
	case AccessibleWhenPasscodeSetThisDeviceOnly:
		return "when-passcode-set-this-device-only"
	default:
		return "when-unlocked"
	}
}

// ParseAccessibility converts the textual form used in config files and CLI
// flags back to a policy.
func ParseAccessibility(s string) (Accessibility, error) {
	switch s {
	case "when-unlocked":
		return AccessibleWhenUnlocked, nil
	case "after-first-unlock":
		return AccessibleAfterFirstUnlock, nil
	case "when-unlocked-this-device-only":
		return AccessibleWhenUnlockedThisDeviceOnly, nil
	case "after-first-unlock-this-device-only":
		return AccessibleAfterFirstUnlockThisDeviceOnly, nil
	case "when-passcode-set-this-device-only":
		return AccessibleWhenPasscodeSetThisDeviceOnly, nil
	}
	return 0, fmt.Errorf("unknown accessibility %q", s)
}

// scope carries the service, access group, and accessibility an operation
// runs under.
type scope struct {
	service       string
	accessGroup   string
	accessibility Accessibility
}

// Option overrides one scope parameter for a single operation.
type Option func(*scope)

// WithService scopes the operation to a service other than the default.
func WithService(service string) Option {
	return func(sc *scope) { sc.service = service }
}

// WithAccessGroup scopes the operation to an access group shared with
// cooperating processes.
func WithAccessGroup(group string) Option {
	return func(sc *scope) { sc.accessGroup = group }
}

// WithAccessibility sets the access policy written with the record.
func WithAccessibility(a Accessibility) Option {
	return func(sc *scope) { sc.accessibility = a }
}

// Process-wide defaults, read by every operation that omits explicit scope
// options. Mutated only through Configure and ResetDefaults.
var (
	defaultsMu sync.RWMutex
	defaults   = initialDefaults()
)

// initialDefaults derives the default service from the hosting executable's
// name at process start.
func initialDefaults() scope {
	return scope{
		service:       filepath.Base(os.Args[0]),
		accessibility: AccessibleWhenUnlocked,
	}
}

// Configure sets the process-wide default service, access group, and
// accessibility. An empty service keeps the current default.
func Configure(service, accessGroup string, a Accessibility) {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	if service != "" {
		defaults.service = service
	}
	defaults.accessGroup = accessGroup
	defaults.accessibility = a
}

// ResetDefaults restores the defaults captured at process start.
func ResetDefaults() {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	defaults = initialDefaults()
}

func resolveScope(opts []Option) scope {
	defaultsMu.RLock()
	sc := defaults
	defaultsMu.RUnlock()
	for _, opt := range opts {
		opt(&sc)
	}
	return sc
}
