package example

import "gcarena"

type Node struct {
	Next gcarena.Gc[Node]
	Safe gcarena.GcCell[Node]
}

// badDirectWrite assigns straight into a Gc-typed field, skipping the write
// barrier GcCell.Write would have armed.
func badDirectWrite(n *Node, next gcarena.Gc[Node]) {
	n.Next = next // want "direct write to Gc-typed field Next bypasses the write barrier; wrap it in a GcCell and use Write\\(mc\\) instead"
}

// goodCellWrite is not reported: the field it stores into is a GcCell,
// which the analyzer excludes, since the cell's contents change only
// through the guard its Write returns.
func goodCellWrite(n *Node, next gcarena.GcCell[Node]) {
	n.Safe = next
}
