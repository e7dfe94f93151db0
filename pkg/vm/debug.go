package vm

import "fmt"

// traceOp prints one op as "OPNAME[ operand…]", one line per
// dispatched op, the format the `debug` built-in turns on.
func traceOp(op *Op) {
	fmt.Println(op.Trace())
}
