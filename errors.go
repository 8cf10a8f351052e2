package lockbox

import (
	"fmt"

	"github.com/benaskins/lockbox/secstore"
)

// Kind identifies one member of the closed error taxonomy.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindDuplicateItem
	KindAuthenticationFailed
	KindInteractionRequired
	KindInteractionNotAllowed
	KindDecodeFailed
	KindInvalidQueryResult
	KindInvalidAccountResult
	KindUnimplemented
	KindParam
	KindAllocate
	KindUserCanceled
	KindNotAvailable
	KindReadOnly
	KindNoSuchKeychain
	KindInvalidKeychain
	KindDuplicateKeychain
	KindDuplicateCallback
	KindBufferTooSmall
	KindDataTooLarge
	KindNoSuchAttr
	KindInvalidItemRef
	KindInvalidSearchRef
	KindNoSuchClass
	KindNoDefaultKeychain
	KindReadOnlyAttr
	KindWrongVersion
	KindKeySizeNotAllowed
	KindNoStorageModule
	KindNoCertificateModule
	KindNoPolicyModule
	KindDataNotAvailable
	KindDataNotModifiable
	KindCreateChainFailed
	KindInvalidData
	KindMissingEntitlement
	KindInternalError
)

// Error is a classified store failure. Status carries the native code when
// the failure came from the store; zero otherwise (payload decode, malformed
// result shapes).
type Error struct {
	Kind   Kind
	Status secstore.Status
	err    error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.text(), e.err)
	}
	return e.text()
}

func (e *Error) text() string {
	if e.Kind == KindUnknown {
		return fmt.Sprintf("unrecognized keychain status %d", int32(e.Status))
	}
	if e.Status != 0 {
		return e.Status.String()
	}
	if msg, ok := kindText[e.Kind]; ok {
		return msg
	}
	return "keychain error"
}

func (e *Error) Unwrap() error { return e.err }

// Is matches by kind, so comparisons against the package sentinels work
// through errors.Is regardless of the carried status or cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for the taxonomy members callers branch on.
var (
	ErrNotFound             = &Error{Kind: KindNotFound}
	ErrDuplicateItem        = &Error{Kind: KindDuplicateItem}
	ErrAuthenticationFailed = &Error{Kind: KindAuthenticationFailed}
	ErrInteractionRequired  = &Error{Kind: KindInteractionRequired}
	ErrDecodeFailed         = &Error{Kind: KindDecodeFailed}
	ErrInvalidQueryResult   = &Error{Kind: KindInvalidQueryResult}
	ErrInvalidAccountResult = &Error{Kind: KindInvalidAccountResult}
)

// kindText covers the taxonomy members that do not originate from a native
// status; everything else resolves its description through the status table.
var kindText = map[Kind]string{
	KindNotFound:             "The specified item could not be found in the keychain.",
	KindDuplicateItem:        "The specified item already exists in the keychain.",
	KindAuthenticationFailed: "The user name or passphrase you entered is not correct.",
	KindInteractionRequired:  "User interaction is required, but is currently not allowed.",
	KindDecodeFailed:         "unable to decode the stored payload",
	KindInvalidQueryResult:   "unexpected result shape from the secure store",
	KindInvalidAccountResult: "unexpected account enumeration shape from the secure store",
}

var statusKinds = map[secstore.Status]Kind{
	secstore.StatusItemNotFound:          KindNotFound,
	secstore.StatusDuplicateItem:         KindDuplicateItem,
	secstore.StatusAuthFailed:            KindAuthenticationFailed,
	secstore.StatusInteractionRequired:   KindInteractionRequired,
	secstore.StatusInteractionNotAllowed: KindInteractionNotAllowed,
	secstore.StatusUnimplemented:         KindUnimplemented,
	secstore.StatusParam:                 KindParam,
	secstore.StatusAllocate:              KindAllocate,
	secstore.StatusUserCanceled:          KindUserCanceled,
	secstore.StatusNotAvailable:          KindNotAvailable,
	secstore.StatusReadOnly:              KindReadOnly,
	secstore.StatusNoSuchKeychain:        KindNoSuchKeychain,
	secstore.StatusInvalidKeychain:       KindInvalidKeychain,
	secstore.StatusDuplicateKeychain:     KindDuplicateKeychain,
	secstore.StatusDuplicateCallback:     KindDuplicateCallback,
	secstore.StatusBufferTooSmall:        KindBufferTooSmall,
	secstore.StatusDataTooLarge:          KindDataTooLarge,
	secstore.StatusNoSuchAttr:            KindNoSuchAttr,
	secstore.StatusInvalidItemRef:        KindInvalidItemRef,
	secstore.StatusInvalidSearchRef:      KindInvalidSearchRef,
	secstore.StatusNoSuchClass:           KindNoSuchClass,
	secstore.StatusNoDefaultKeychain:     KindNoDefaultKeychain,
	secstore.StatusReadOnlyAttr:          KindReadOnlyAttr,
	secstore.StatusWrongVersion:          KindWrongVersion,
	secstore.StatusKeySizeNotAllowed:     KindKeySizeNotAllowed,
	secstore.StatusNoStorageModule:       KindNoStorageModule,
	secstore.StatusNoCertificateModule:   KindNoCertificateModule,
	secstore.StatusNoPolicyModule:        KindNoPolicyModule,
	secstore.StatusDataNotAvailable:      KindDataNotAvailable,
	secstore.StatusDataNotModifiable:     KindDataNotModifiable,
	secstore.StatusCreateChainFailed:     KindCreateChainFailed,
	secstore.StatusInvalidData:           KindInvalidData,
	secstore.StatusMissingEntitlement:    KindMissingEntitlement,
	secstore.StatusInternalComponent:     KindInternalError,
}

// classifyStatus translates a native status into the taxonomy. Success maps
// to nil; codes outside the taxonomy map to KindUnknown carrying the raw
// code. Every store interaction passes its status through here before
// anything is returned to a caller.
func classifyStatus(st secstore.Status) error {
	if st == secstore.StatusSuccess {
		return nil
	}
	kind, ok := statusKinds[st]
	if !ok {
		kind = KindUnknown
	}
	return &Error{Kind: kind, Status: st}
}
