package planner

// NameSet is the read side of UsedNames that the parser consults.
type NameSet interface {
	Contains(name string) bool
}

// UsedNames records every activity name shown in a session. Names compare by
// exact, case-sensitive match. It is not safe for concurrent use; Session
// guards it with its own lock.
type UsedNames struct {
	order []string
	set   map[string]struct{}
}

func NewUsedNames() *UsedNames {
	return &UsedNames{set: make(map[string]struct{})}
}

func (u *UsedNames) Contains(name string) bool {
	_, ok := u.set[name]
	return ok
}

// Add records name and reports whether it was new.
func (u *UsedNames) Add(name string) bool {
	if u.Contains(name) {
		return false
	}
	u.set[name] = struct{}{}
	u.order = append(u.order, name)
	return true
}

func (u *UsedNames) Len() int {
	return len(u.order)
}

// Except returns the names in insertion order, leaving out skip.
func (u *UsedNames) Except(skip string) []string {
	out := make([]string, 0, len(u.order))
	for _, n := range u.order {
		if n != skip {
			out = append(out, n)
		}
	}
	return out
}

// Names returns a copy of the names in insertion order.
func (u *UsedNames) Names() []string {
	return u.Except("")
}

func (u *UsedNames) Clear() {
	u.order = nil
	u.set = make(map[string]struct{})
}
