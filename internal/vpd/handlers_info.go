package vpd

// cmdStatus handles the 'status' command.
func cmdStatus(e *Engine, args []string) Response {
	return ok(renderStatus(e))
}

// cmdClose handles the 'close' command: the sentinel "goodbye" ACK,
// followed by the session dispatcher closing the connection once it has
// been fully written.
func cmdClose(e *Engine, args []string) Response {
	return Response{Err: newAckError("close", KindGoodbye), CloseAfter: true}
}
