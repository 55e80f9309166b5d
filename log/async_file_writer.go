// Copyright 2023 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package log

import (
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// AsyncFileWriter decouples producers (the handlers formatting log lines)
// from the cost of a file write by buffering entries on a channel and
// draining them from a single background goroutine. Rotation itself is
// delegated to lumberjack so the node never has to manage rolled files
// by hand.
type AsyncFileWriter struct {
	path    string
	lj      *lumberjack.Logger
	queue   chan []byte
	done    chan struct{}
	wg      sync.WaitGroup
	started bool
	mu      sync.Mutex
}

// NewAsyncFileWriter returns a writer targeting path, buffering up to
// bufSize pending entries before Write blocks.
func NewAsyncFileWriter(path string, bufSize int) *AsyncFileWriter {
	if bufSize <= 0 {
		bufSize = 1
	}
	return &AsyncFileWriter{
		path: path,
		lj: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    100, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   false,
		},
		queue: make(chan []byte, bufSize),
		done:  make(chan struct{}),
	}
}

// Start launches the draining goroutine. It is a no-op if already started.
func (w *AsyncFileWriter) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true
	w.wg.Add(1)
	go w.loop()
}

func (w *AsyncFileWriter) loop() {
	defer w.wg.Done()
	for {
		select {
		case b := <-w.queue:
			_, _ = w.lj.Write(b)
		case <-w.done:
			// drain whatever is left before exiting.
			for {
				select {
				case b := <-w.queue:
					_, _ = w.lj.Write(b)
				default:
					return
				}
			}
		}
	}
}

// Write enqueues p for asynchronous writing. It implements io.Writer.
func (w *AsyncFileWriter) Write(p []byte) (int, error) {
	b := make([]byte, len(p))
	copy(b, p)
	w.queue <- b
	return len(p), nil
}

// Stop drains the queue and closes the underlying file.
func (w *AsyncFileWriter) Stop() error {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return nil
	}
	w.started = false
	w.mu.Unlock()

	close(w.done)
	w.wg.Wait()
	return w.lj.Close()
}
