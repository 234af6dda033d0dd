package logger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

const flushInterval = 2 * time.Second

// AsyncFileWriter queues log lines and writes them from a single goroutine.
// When the queue is full the line is dropped and counted.
type AsyncFileWriter struct {
	writer  *bufio.Writer
	file    *os.File
	mu      sync.Mutex
	logChan chan []byte
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
	dropped atomic.Uint64
}

func NewAsyncFileWriter(logFile string, bufferSize int) (*AsyncFileWriter, error) {
	file, err := os.OpenFile(filepath.Clean(logFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, err
	}

	aw := &AsyncFileWriter{
		writer:  bufio.NewWriterSize(file, bufferSize),
		file:    file,
		logChan: make(chan []byte, 1000),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go aw.processLogs()

	return aw, nil
}

func (aw *AsyncFileWriter) Write(p []byte) (int, error) {
	select {
	case aw.logChan <- append([]byte(nil), p...):
	default:
		aw.dropped.Add(1)
	}
	return len(p), nil
}

// Dropped reports how many lines were discarded because the queue was full.
func (aw *AsyncFileWriter) Dropped() uint64 {
	return aw.dropped.Load()
}

func (aw *AsyncFileWriter) processLogs() {
	defer close(aw.stopped)
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()
	for {
		select {
		case line := <-aw.logChan:
			aw.write(line)
		case <-ticker.C:
			aw.flush()
		case <-aw.done:
			for {
				select {
				case line := <-aw.logChan:
					aw.write(line)
				default:
					aw.flush()
					return
				}
			}
		}
	}
}

func (aw *AsyncFileWriter) write(line []byte) {
	aw.mu.Lock()
	defer aw.mu.Unlock()
	if _, err := aw.writer.Write(line); err != nil {
		fmt.Fprintln(os.Stderr, "error writing log data to file", err)
	}
}

func (aw *AsyncFileWriter) flush() {
	aw.mu.Lock()
	defer aw.mu.Unlock()
	_ = aw.writer.Flush()
}

func (aw *AsyncFileWriter) Close() {
	aw.once.Do(func() {
		close(aw.done)
		<-aw.stopped
		_ = aw.file.Close()
	})
}
