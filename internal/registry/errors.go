package registry

import "fmt"

// LoadError reports an invalid registry entry with its file position
type LoadError struct {
	Path string
	Line int
	Key  string
	Msg  string
}

func (e *LoadError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("registry %s:%d: %s", e.Path, e.Line, e.Msg)
	}
	return fmt.Sprintf("registry %s:%d: %s: %s", e.Path, e.Line, e.Key, e.Msg)
}
