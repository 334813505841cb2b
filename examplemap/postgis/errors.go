package postgis

import "fmt"

// ErrLineNotFound is returned by GetLinesByIDs when one or more requested
// ids had no matching row. GetLine/GetNode report the same condition
// through their bool return instead, matching maps.MapReader's contract.
type ErrLineNotFound struct {
	LineIDs []int64
}

func (e *ErrLineNotFound) Error() string {
	return fmt.Sprintf("postgis: %d of the requested line ids do not exist", len(e.LineIDs))
}
