package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

const (
	lockPortMin = 20000
	lockPortMax = 39999
)

// InstanceGuard holds the single-instance lock for one lock name.
type InstanceGuard struct {
	listener net.Listener
	name     string
}

// AcquireSingleInstance binds a loopback port derived from name. A second
// process asking for the same name gets ErrAlreadyRunning until Release.
func AcquireSingleInstance(name string) (*InstanceGuard, error) {
	address := lockAddress(name)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s holds %s", ErrAlreadyRunning, name, address)
	}
	return &InstanceGuard{listener: listener, name: name}, nil
}

// Release frees the lock. Releasing a nil guard is a no-op.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	err := guard.listener.Close()
	guard.listener = nil
	return err
}

// Name returns the lock name.
func (guard *InstanceGuard) Name() string {
	if guard == nil {
		return ""
	}
	return guard.name
}

func lockAddress(name string) string {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(name))
	span := uint32(lockPortMax - lockPortMin + 1)
	return fmt.Sprintf("127.0.0.1:%d", lockPortMin+int(hash.Sum32()%span))
}
