package domain

import "time"

// EventKind classifies a document change
type EventKind int

const (
	EventCreated EventKind = iota
	EventModified
	EventDeleted
	EventRenamed
)

func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventModified:
		return "modified"
	case EventDeleted:
		return "deleted"
	case EventRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// DocumentEvent is one entry of the document-change feed
type DocumentEvent struct {
	Kind    EventKind
	Path    string
	OldPath string // set for EventRenamed
}

// SyncStats holds statistics from a sync operation
type SyncStats struct {
	DocumentsAdded   int
	DocumentsUpdated int
	DocumentsDeleted int
	LinksAdded       int
	FilesScanned     int
	Duration         time.Duration
}
