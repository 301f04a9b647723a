package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Notifier delivers best-effort mail: failures are logged and never
// returned to the caller.
type Notifier struct {
	sender Sender
	logger logrus.FieldLogger
}

func NewNotifier(sender Sender, logger logrus.FieldLogger) *Notifier {
	return &Notifier{sender: sender, logger: logger}
}

// Notify reports whether the message was handed off successfully.
func (n *Notifier) Notify(ctx context.Context, msg Message) bool {
	if err := n.sender.Send(ctx, msg); err != nil {
		n.logger.WithError(err).WithFields(logrus.Fields{
			"to":      msg.To,
			"subject": msg.Subject,
		}).Error("failed to send e-mail")
		return false
	}
	return true
}

// Retry runs f up to attempts times with exponential backoff, stopping early
// when ctx is done.
func Retry(ctx context.Context, attempts int, sleep time.Duration, f func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = f(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(sleep):
		}
		sleep *= 2
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, err)
}
