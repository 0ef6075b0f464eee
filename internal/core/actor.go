// AngelaMos | 2026
// actor.go

package core

// Actor is the resolved identity performing an operation. Services take
// it explicitly instead of reading ambient session state, so role checks
// sit next to the state transitions they guard.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == "admin"
}
