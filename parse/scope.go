package parse

import "fmt"

// scope records, for each name declared in it, whether the name is a
// typedef name.
type scope struct {
	parent *scope
	kv     map[string]bool
}

// isType reports whether k names a type. The innermost scope that knows
// about k wins, unknown names are ordinary identifiers.
func (s *scope) isType(k string) bool {
	isType, ok := s.kv[k]
	if ok {
		return isType
	}
	if s.parent != nil {
		return s.parent.isType(k)
	}
	return false
}

func (s *scope) addTypedefName(k string) error {
	isType, ok := s.kv[k]
	if ok && !isType {
		return fmt.Errorf("Typedef '%s' previously declared as non-typedef in this scope", k)
	}
	s.kv[k] = true
	return nil
}

func (s *scope) addIdentifier(k string) error {
	isType, ok := s.kv[k]
	if ok && isType {
		return fmt.Errorf("Non-typedef '%s' previously declared as typedef in this scope", k)
	}
	s.kv[k] = false
	return nil
}

func newScope(parent *scope) *scope {
	ret := &scope{}
	ret.parent = parent
	ret.kv = make(map[string]bool)
	return ret
}

// scopeStack is shared by the parser and its token source. The source
// pushes and pops at braces, the parser registers declared names.
type scopeStack struct {
	cur *scope
}

func newScopeStack() *scopeStack {
	return &scopeStack{cur: newScope(nil)}
}

func (ss *scopeStack) push() {
	ss.cur = newScope(ss.cur)
}

// pop fails when only the file scope is left.
func (ss *scopeStack) pop() bool {
	if ss.cur.parent == nil {
		return false
	}
	ss.cur = ss.cur.parent
	return true
}

func (ss *scopeStack) isType(name string) bool {
	return ss.cur.isType(name)
}
