package mock

import "github.com/fwojciec/unhtml"

var _ unhtml.Visitor = (*Visitor)(nil)

// Visitor is a mock implementation of unhtml.Visitor.
type Visitor struct {
	EnterElementFn func(tag string) bool
	LeaveElementFn func(tag string)
	TextFn         func(kind unhtml.NodeKind, data string)
}

func (v *Visitor) EnterElement(tag string) bool {
	return v.EnterElementFn(tag)
}

func (v *Visitor) LeaveElement(tag string) {
	v.LeaveElementFn(tag)
}

func (v *Visitor) Text(kind unhtml.NodeKind, data string) {
	v.TextFn(kind, data)
}
