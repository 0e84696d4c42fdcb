// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package feed

import (
	"fmt"
	"sync"

	"github.com/zhangyunhao116/skipmap"
)

// RealtimeChanMap hands out one buffered channel per subscribed symbol.
// When the buffer overflows, the oldest entry is dropped: new realtime
// data always matters more than stale data.
type RealtimeChanMap[T any] struct {
	sm                    *skipmap.StringMap[chan T]
	pendingCloseList      []chan T
	pendingCloseListMutex *sync.Mutex
}

func NewRealtimeChanMap[T any]() *RealtimeChanMap[T] {
	return &RealtimeChanMap[T]{
		sm:                    skipmap.NewString[chan T](),
		pendingCloseListMutex: new(sync.Mutex),
	}
}

func (m *RealtimeChanMap[T]) AddPendingClose(c chan T) {
	m.pendingCloseListMutex.Lock()
	m.pendingCloseList = append(m.pendingCloseList, c)
	m.pendingCloseListMutex.Unlock()
}

// ClearPendingClose closes channels of recent unsubscriptions. It is
// called by the receive loop between messages, so that a channel is never
// closed while data for it is being delivered.
func (m *RealtimeChanMap[T]) ClearPendingClose() {
	m.pendingCloseListMutex.Lock()
	for _, c := range m.pendingCloseList {
		close(c)
	}
	m.pendingCloseList = nil
	m.pendingCloseListMutex.Unlock()
}

func (m *RealtimeChanMap[T]) Clear() {
	m.sm.Range(
		func(k string, c chan T) bool {
			close(c)
			return true
		},
	)
	m.sm = skipmap.NewString[chan T]()
}

func (m *RealtimeChanMap[T]) Subscribe(symbol string) (chan T, error) {
	// Buffered so that old data can be removed when processing is slow.
	c := make(chan T, 1024)
	var err error
	_, exists := m.sm.LoadOrStore(symbol, c)
	if exists {
		err = fmt.Errorf("already subscribed to %s", symbol)
		c = nil
	}
	return c, err
}

func (m *RealtimeChanMap[T]) Unsubscribe(symbol string) error {
	var err error
	if c, exists := m.sm.LoadAndDelete(symbol); exists {
		// closing here could race with a concurrent delivery,
		// defer to the receive loop instead.
		m.AddPendingClose(c)
	} else {
		err = fmt.Errorf("cannot unsubscribe %s: not subscribed", symbol)
	}
	return err
}

func (m *RealtimeChanMap[T]) AddNewData(symbol string, data T) error {
	c, exists := m.sm.Load(symbol)
	var err error
	if exists {
		select {
		case c <- data:
		default:
			// Buffer is full. Instead of dropping the new entry, remove
			// the oldest entry and retry, both without blocking.
			select {
			case <-c:
				select {
				case c <- data:
					err = fmt.Errorf("Symbol %s: Buffer overflow. Old realtime data is being removed.", symbol)
				default:
					err = fmt.Errorf("Symbol %s: Buffer overflow. New realtime data is being dropped.", symbol)
				}
			default:
				err = fmt.Errorf("Symbol %s: Buffer cannot be read from or written to.", symbol)
			}
		}
	}
	// silently ignore if entry does not exist, as this may happen while unsubscribing
	return err
}
