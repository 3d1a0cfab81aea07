package ast

// FixSwitchCases flattens the body of a switch so that every Case and
// Default is a direct child of the body Compound.
//
// The parser builds `case 1: case 2: x = 1; y = 2;` as
//
//	Case 1 -> [Case 2 -> [x = 1]], y = 2
//
// and this rewrites it to
//
//	Case 1 -> [], Case 2 -> [x = 1, y = 2]
//
// Statements are appended to the closest preceding label. Statements that
// come before the first label stay where they are. A body that is not a
// Compound is left alone.
func FixSwitchCases(sw *Switch) *Switch {
	body, ok := sw.Body.(*Compound)
	if !ok {
		return sw
	}
	fixed := &Compound{Pos: body.Pos}
	var lastCase Node
	for _, child := range body.BlockItems {
		switch child.(type) {
		case *Case, *Default:
			fixed.BlockItems = append(fixed.BlockItems, child)
			fixed.BlockItems = extractNestedCase(child, fixed.BlockItems)
			lastCase = fixed.BlockItems[len(fixed.BlockItems)-1]
		default:
			if lastCase == nil {
				fixed.BlockItems = append(fixed.BlockItems, child)
			} else {
				appendCaseStmt(lastCase, child)
			}
		}
	}
	sw.Body = fixed
	return sw
}

// extractNestedCase moves a label sitting directly under another label up
// into items, recursively.
func extractNestedCase(label Node, items []Node) []Node {
	stmts := caseStmts(label)
	if len(stmts) == 0 {
		return items
	}
	last := stmts[len(stmts)-1]
	switch stmts[0].(type) {
	case *Case, *Default:
	default:
		return items
	}
	setCaseStmts(label, stmts[:len(stmts)-1])
	items = append(items, last)
	return extractNestedCase(last, items)
}

func caseStmts(n Node) []Node {
	switch n := n.(type) {
	case *Case:
		return n.Stmts
	case *Default:
		return n.Stmts
	}
	return nil
}

func setCaseStmts(n Node, stmts []Node) {
	if len(stmts) == 0 {
		stmts = nil
	}
	switch n := n.(type) {
	case *Case:
		n.Stmts = stmts
	case *Default:
		n.Stmts = stmts
	}
}

func appendCaseStmt(n Node, stmt Node) {
	setCaseStmts(n, append(caseStmts(n), stmt))
}
