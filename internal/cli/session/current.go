package session

var current *Context

// Install makes ctx the process-wide session context. It is called once
// during command setup, before any operation needs the session.
func Install(ctx *Context) {
	current = ctx
}

// Current returns the installed session context. Using it before
// Install is a wiring bug, not a runtime condition, so it panics rather
// than returning a silently empty session.
func Current() *Context {
	if current == nil {
		panic("session: Current called before Install — construct the session context during command setup")
	}
	return current
}
