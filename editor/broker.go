// Package editor mediates between a user interface and the document model:
// it owns the centralized selection state, maps user intents to piece
// mutations, and coordinates the background generation worker.
package editor

import "time"

type (
	// Broker carries the messages between the model, the generation worker
	// and the UI. The model is owned by the UI goroutine; the worker only
	// ever talks back through ToModel, which the UI loop drains and feeds to
	// Model.ProcessMessage, so every document and selection mutation happens
	// on the UI goroutine.
	//
	// CloseUI has capacity 1 so requesting a close never blocks; FinishedUI
	// is closed (never sent to) when the UI loop has wound down.
	Broker struct {
		ToModel chan MsgToModel
		ToUI    chan any

		CloseUI    chan struct{}
		FinishedUI chan struct{}
	}

	// MsgToModel is a message for the model, drained on the UI goroutine.
	MsgToModel struct {
		Data any
	}

	// MsgSelectionChanged tells the UI the selection or edit mode moved.
	MsgSelectionChanged struct{}

	// MsgPieceChanged tells the UI the document tree changed shape.
	MsgPieceChanged struct{}

	// MsgStatusChanged tells the UI the generation status fields changed.
	MsgStatusChanged struct{}
)

func NewBroker() *Broker {
	return &Broker{
		ToModel:    make(chan MsgToModel, 1024),
		ToUI:       make(chan any, 1024),
		CloseUI:    make(chan struct{}, 1),
		FinishedUI: make(chan struct{}),
	}
}

// TrySend sends a value to a channel if it is not full. Guaranteed to be
// non-blocking; returns false if the value was dropped.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive blocks until a value is received or the timeout elapses;
// ok is false on timeout or when the channel is closed.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}
