package assembler

import "fmt"

// label tracks one assembly-time jump target: its resolved address once
// known, and every code-buffer site that referenced it before that.
type label struct {
	name         string
	address      int
	defined      bool
	pendingSites []int
}

// LabelTable resolves jump-target identifiers to code addresses, supporting
// forward references: a label may be used before it is defined, so long as
// it is defined somewhere before assembly finishes.
type LabelTable struct {
	labels map[string]*label
}

// NewLabelTable returns an empty table.
func NewLabelTable() *LabelTable {
	return &LabelTable{labels: map[string]*label{}}
}

// AddressOf returns the address bound to name if it is already defined.
// Otherwise it registers site as a pending patch location and returns 0,
// the placeholder the caller should emit in the meantime.
func (lt *LabelTable) AddressOf(name string, site int) int {
	l, ok := lt.labels[name]
	if !ok {
		l = &label{name: name}
		lt.labels[name] = l
	}
	if l.defined {
		return l.address
	}
	l.pendingSites = append(l.pendingSites, site)
	return 0
}

// Define binds name to address, back-patching every pending site recorded
// for it (in code) with the now-known address.
func (lt *LabelTable) Define(name string, address int, code *CodeBuffer) {
	l, ok := lt.labels[name]
	if !ok {
		l = &label{name: name}
		lt.labels[name] = l
	}
	l.address = address
	l.defined = true
	for _, site := range l.pendingSites {
		code.PatchInt32(site, int32(address))
	}
	l.pendingSites = nil
}

// UndefinedNames returns the labels that were referenced but never defined,
// in no particular order — a non-empty result is an assembly error.
func (lt *LabelTable) UndefinedNames() []string {
	var names []string
	for name, l := range lt.labels {
		if !l.defined {
			names = append(names, name)
		}
	}
	return names
}

// Error reports an assembly fault raised by the assembler itself: an
// unknown mnemonic, or a forward label still undefined at end of assembly.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

func errorf(format string, args ...any) error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}
