package secstore

import "fmt"

// Status is the native result code of a store interaction. Values are the
// Security framework OSStatus codes for keychain operations; every client
// implementation translates its backend's failures into these.
type Status int32

const (
	StatusSuccess       Status = 0
	StatusUnimplemented Status = -4
	StatusParam         Status = -50
	StatusAllocate      Status = -108
	StatusUserCanceled  Status = -128

	StatusNotAvailable          Status = -25291
	StatusReadOnly              Status = -25292
	StatusAuthFailed            Status = -25293
	StatusNoSuchKeychain        Status = -25294
	StatusInvalidKeychain       Status = -25295
	StatusDuplicateKeychain     Status = -25296
	StatusDuplicateCallback     Status = -25297
	StatusDuplicateItem         Status = -25299
	StatusItemNotFound          Status = -25300
	StatusBufferTooSmall        Status = -25301
	StatusDataTooLarge          Status = -25302
	StatusNoSuchAttr            Status = -25303
	StatusInvalidItemRef        Status = -25304
	StatusInvalidSearchRef      Status = -25305
	StatusNoSuchClass           Status = -25306
	StatusNoDefaultKeychain     Status = -25307
	StatusInteractionNotAllowed Status = -25308
	StatusReadOnlyAttr          Status = -25309
	StatusWrongVersion          Status = -25310
	StatusKeySizeNotAllowed     Status = -25311
	StatusNoStorageModule       Status = -25312
	StatusNoCertificateModule   Status = -25313
	StatusNoPolicyModule        Status = -25314
	StatusInteractionRequired   Status = -25315
	StatusDataNotAvailable      Status = -25316
	StatusDataNotModifiable     Status = -25317
	StatusCreateChainFailed     Status = -25318

	StatusInvalidData        Status = -26275
	StatusInternalComponent  Status = -2070
	StatusMissingEntitlement Status = -34018
)

// statusText carries the fixed human-readable description per code, matching
// the platform's own wording for each.
var statusText = map[Status]string{
	StatusSuccess:       "No error.",
	StatusUnimplemented: "Function or operation not implemented.",
	StatusParam:         "One or more parameters passed to the function were not valid.",
	StatusAllocate:      "Failed to allocate memory.",
	StatusUserCanceled:  "User canceled the operation.",

	StatusNotAvailable:          "No keychain is available. You may need to restart your computer.",
	StatusReadOnly:              "This keychain cannot be modified.",
	StatusAuthFailed:            "The user name or passphrase you entered is not correct.",
	StatusNoSuchKeychain:        "The specified keychain could not be found.",
	StatusInvalidKeychain:       "The specified keychain is not a valid keychain file.",
	StatusDuplicateKeychain:     "A keychain with the same name already exists.",
	StatusDuplicateCallback:     "The specified callback function is already installed.",
	StatusDuplicateItem:         "The specified item already exists in the keychain.",
	StatusItemNotFound:          "The specified item could not be found in the keychain.",
	StatusBufferTooSmall:        "There is not enough memory available to use the specified item.",
	StatusDataTooLarge:          "This item contains information which is too large or in a format that cannot be displayed.",
	StatusNoSuchAttr:            "The specified attribute does not exist.",
	StatusInvalidItemRef:        "The specified item is no longer valid. It may have been deleted from the keychain.",
	StatusInvalidSearchRef:      "Unable to search the current keychain.",
	StatusNoSuchClass:           "The specified item does not appear to be a valid keychain item.",
	StatusNoDefaultKeychain:     "A default keychain could not be found.",
	StatusInteractionNotAllowed: "User interaction is not allowed.",
	StatusReadOnlyAttr:          "The specified attribute could not be modified.",
	StatusWrongVersion:          "This keychain was created by a different version of the system software and cannot be opened.",
	StatusKeySizeNotAllowed:     "This item specifies a key size which is too large or too small.",
	StatusNoStorageModule:       "A required component (data storage module) could not be loaded.",
	StatusNoCertificateModule:   "A required component (certificate module) could not be loaded.",
	StatusNoPolicyModule:        "A required component (policy module) could not be loaded.",
	StatusInteractionRequired:   "User interaction is required, but is currently not allowed.",
	StatusDataNotAvailable:      "The contents of this item cannot be retrieved.",
	StatusDataNotModifiable:     "The contents of this item cannot be modified.",
	StatusCreateChainFailed:     "One or more certificates required to validate this certificate cannot be found.",

	StatusInvalidData:        "The provided data is in an invalid format.",
	StatusInternalComponent:  "An internal component experienced an error.",
	StatusMissingEntitlement: "A required entitlement is missing.",
}

func (s Status) String() string {
	if msg, ok := statusText[s]; ok {
		return msg
	}
	return fmt.Sprintf("status %d", int32(s))
}
