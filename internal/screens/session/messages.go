package session

import "time"

// sessionReadyMsg is sent when the prompt fetch (fresh start or resumed
// snapshot) has completed.
type sessionReadyMsg struct {
	Err error
}

// timerTickMsg is sent every second while a timed item is running.
type timerTickMsg time.Time

// submitResultMsg is sent when a submission attempt (with its automatic
// retries) has finished.
type submitResultMsg struct {
	SessionID string
	Err       error
}
