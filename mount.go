package husk

import "fmt"

// MountSpec is one bind mount attached to a session container. Sessions use a
// single one of these: the invoking directory at WorkTarget.
type MountSpec struct {
	Source   string
	Target   string
	ReadOnly bool
}

// String renders the mount in the engine's --mount syntax.
func (m MountSpec) String() string {
	s := fmt.Sprintf("type=bind,source=%s,target=%s", m.Source, m.Target)
	if m.ReadOnly {
		s += ",readonly"
	}
	return s
}
