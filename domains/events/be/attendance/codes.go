// Package attendance defines the closed attendance and event-status code sets
// and their Spanish display labels.
package attendance

// Code is a stored attendance status code.
type Code string

const (
	// CodePending is the snapshot sentinel: attendance not yet recorded.
	CodePending Code = "I"
	// CodePresent marks a person present and training.
	CodePresent Code = "P"
	// CodePresentNoTraining marks a person present but not training.
	CodePresentNoTraining Code = "PN"
	// CodeAbsentNotified marks an absence announced in advance.
	CodeAbsentNotified Code = "A"
	// CodeAbsentUnnotified marks an absence without notice.
	CodeAbsentUnnotified Code = "AA"
)

// Known reports whether the code is one this system writes. Reads stay
// lenient: unknown stored codes still label as "Desconocido".
func (c Code) Known() bool {
	switch c {
	case CodePending, CodePresent, CodePresentNoTraining, CodeAbsentNotified, CodeAbsentUnnotified:
		return true
	}
	return false
}

// Label translates the code to its display label. Total: every input maps to
// a non-empty string; the sentinel and unrecognized codes both read as
// "Desconocido".
func (c Code) Label() string {
	switch c {
	case CodePresent:
		return "Presente"
	case CodePresentNoTraining:
		return "Presente no entrena"
	case CodeAbsentNotified:
		return "Ausente con aviso"
	case CodeAbsentUnnotified:
		return "Ausente sin aviso"
	default:
		return "Desconocido"
	}
}

// EventStatus is a stored event lifecycle status code.
type EventStatus string

const (
	EventActive    EventStatus = "A"
	EventCancelled EventStatus = "B"
	EventFinished  EventStatus = "F"
	EventSuspended EventStatus = "S"
)

// Known reports whether the status is part of the event lifecycle.
func (s EventStatus) Known() bool {
	switch s {
	case EventActive, EventCancelled, EventFinished, EventSuspended:
		return true
	}
	return false
}

// Label translates the status to its display label; unrecognized codes read
// as empty.
func (s EventStatus) Label() string {
	switch s {
	case EventActive:
		return "ACTIVO"
	case EventCancelled:
		return "BAJA"
	case EventFinished:
		return "FINALIZADO"
	case EventSuspended:
		return "SUSPENDIDO"
	default:
		return ""
	}
}
