package membership

import "github.com/etaskify/server/internal/model"

// ensureProcessable guards the shared pending-to-terminal transition.
// Both state machines only move a row out of pending once; a row that is
// already accepted or rejected stays as it is and the caller gets
// notProcessable back.
func ensureProcessable(status model.RequestStatus, notProcessable error) error {
	if status.IsTerminal() {
		return notProcessable
	}
	if status != model.RequestStatusPending {
		return notProcessable
	}
	return nil
}
