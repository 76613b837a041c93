package ssh

import (
	"fmt"
	"os"

	"github.com/williamokano/site_pusher/pkg/remote"
)

// ValidateKeyPermissions checks that a private key is not readable by group or others.
// OpenSSH refuses such keys and so do we.
func ValidateKeyPermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: failed to stat SSH key: %v", remote.ErrInvalidConfig, err)
	}

	mode := info.Mode().Perm()
	if mode&0077 != 0 {
		return fmt.Errorf("%w: SSH key %s has permissions %04o, must not be accessible by group or others (chmod 600 %s)",
			remote.ErrInvalidConfig, path, mode, path)
	}

	return nil
}
