package pages

import (
	"fmt"
	"io"
	"sync"
)

// Notifier shows transient notifications to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

// Level of a notification
type Level string

// Notification levels
const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// WriterNotifier prints notifications to the Writer
type WriterNotifier struct {
	Out io.Writer

	lock sync.Mutex
}

// NewWriterNotifier returns a notifier printing to w
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{Out: w}
}

func (n *WriterNotifier) Success(msg string) { n.print(LevelSuccess, msg) }
func (n *WriterNotifier) Error(msg string)   { n.print(LevelError, msg) }
func (n *WriterNotifier) Info(msg string)    { n.print(LevelInfo, msg) }

func (n *WriterNotifier) print(level Level, msg string) {
	n.lock.Lock()
	defer n.lock.Unlock()
	fmt.Fprintf(n.Out, "[%s] %s\n", level, msg)
}
