package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/eiannone/keyboard"
)

//////////////////////////////////////////////////

// UIKeySubject matches a key press: either a special Key, or a Rune (with
// Key zero).
type UIKeySubject struct {
	Key  keyboard.Key
	Rune rune
}

type UIKeyEvent struct {
	Subject UIKeySubject

	stopped bool
}

// StopPropagation ends the key listener after the current handler.
func (e *UIKeyEvent) StopPropagation() {
	e.stopped = true
}

type UIKeyHandler func(ui *UI, e *UIKeyEvent) error

// UI dispatches terminal key presses to bound handlers.
type UI struct {
	mu       sync.Mutex
	bindings map[UIKeySubject]UIKeyHandler

	closeOnce sync.Once
	done      chan struct{}
}

func NewUI() *UI {
	return &UI{
		bindings: map[UIKeySubject]UIKeyHandler{},
		done:     make(chan struct{}),
	}
}

func (ui *UI) BindKey(subject UIKeySubject, handler UIKeyHandler) {
	ui.mu.Lock()
	defer ui.mu.Unlock()

	ui.bindings[subject] = handler
}

func (ui *UI) handler(subject UIKeySubject) (UIKeyHandler, bool) {
	ui.mu.Lock()
	defer ui.mu.Unlock()

	h, ok := ui.bindings[subject]
	return h, ok
}

// Dispatch runs the handler bound to subject. It reports whether listening
// should stop.
func (ui *UI) Dispatch(subject UIKeySubject) (bool, error) {
	h, ok := ui.handler(subject)
	if !ok {
		return false, nil
	}

	e := &UIKeyEvent{Subject: subject}
	err := h(ui, e)

	return e.stopped, err
}

// Listen reads key presses until ctx is done, the UI is closed or a handler
// stops propagation.
func (ui *UI) Listen(ctx context.Context) error {
	events, err := keyboard.GetKeys(10)
	if err != nil {
		return fmt.Errorf("keyboard.GetKeys: %w", err)
	}
	defer keyboard.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ui.done:
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			if event.Err != nil {
				return event.Err
			}

			subject := UIKeySubject{Key: event.Key}
			if event.Key == 0 {
				subject.Rune = event.Rune
			}

			stop, err := ui.Dispatch(subject)
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
		}
	}
}

func (ui *UI) Close() {
	ui.closeOnce.Do(func() {
		close(ui.done)
	})
}
