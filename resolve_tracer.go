package preninja

// resolveTracer tracks the rules being resolved, so errors can say where
// in the action tree they happened.
type resolveTracer struct {
	trace []string
}

func (t *resolveTracer) push(name string) {
	t.trace = append(t.trace, name)
}

func (t *resolveTracer) pop() {
	n := len(t.trace)
	if n == 0 {
		return
	}
	t.trace = t.trace[:n-1]
}

func (t *resolveTracer) stack() []string {
	return append([]string(nil), t.trace...)
}
