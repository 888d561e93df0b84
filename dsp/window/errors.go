package window

import "fmt"

func errUnknownType(name string) error {
	return fmt.Errorf("unknown window type %q", name)
}
