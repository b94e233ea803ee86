package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-account-api/internal/domain"
)

const reminderSubject = "Account Verification Reminder"

type accountStore interface {
	CountPendingApproval(ctx context.Context) (int, error)
	GetAdmin(ctx context.Context) (*domain.Account, error)
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

// Reminder periodically notifies the administrator about accounts awaiting
// approval. Every tick is independent: failures are logged and swallowed,
// and the next tick starts clean.
type Reminder struct {
	repo     accountStore
	mailer   mailer
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func NewReminder(repo accountStore, m mailer, interval time.Duration) *Reminder {
	return &Reminder{
		repo:     repo,
		mailer:   m,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the background ticker. It returns immediately.
func (r *Reminder) Start(ctx context.Context) {
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.Tick(ctx)
			case <-r.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the ticker and waits for the loop to exit.
func (r *Reminder) Stop() {
	close(r.stop)
	<-r.done
}

// Tick runs a single reminder pass. It never returns an error: the job must
// outlive any transient store or mail failure.
func (r *Reminder) Tick(ctx context.Context) {
	pending, err := r.repo.CountPendingApproval(ctx)
	if err != nil {
		slog.Error("reminder: count pending accounts", "err", err)
		return
	}
	if pending == 0 {
		slog.Info("reminder: no accounts awaiting approval")
		return
	}
	admin, err := r.repo.GetAdmin(ctx)
	if err != nil {
		slog.Error("reminder: resolve admin account", "err", err)
		return
	}
	if err := r.mailer.SendEmail(admin.Email, reminderSubject, reminderBody(pending)); err != nil {
		slog.Error("reminder: send email", "admin", admin.Email, "err", err)
		return
	}
	slog.Info("reminder: emailed admin", "pending", pending)
}

func reminderBody(pending int) string {
	who := fmt.Sprintf("there are %d users", pending)
	if pending == 1 {
		who = "there is 1 user"
	}
	return fmt.Sprintf("This is to notify you that %s awaiting approval for their accounts. "+
		"Please take necessary action to review and approve their accounts promptly.", who)
}
