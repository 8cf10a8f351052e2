//go:build !darwin

package secstore

// DefaultClient returns the OS keyring client. Records keep the same
// contract as on macOS, minus access groups and storage generations.
func DefaultClient() Client {
	return NewKeyringClient()
}
