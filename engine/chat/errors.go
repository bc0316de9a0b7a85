package chat

import "errors"

// ErrBusy is returned when Send is called while a previous reply is still
// streaming. The transcript is strictly ordered, so only one reply may be
// in flight.
var ErrBusy = errors.New("chat: reply already streaming")
