package notify

import (
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/dori/tally/internal/model"
)

// Urgency levels for notifications
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
	Icon    string // Optional icon name
}

// Runner executes an external command
type Runner func(name string, args ...string) error

func execRunner(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// Notifier handles sending desktop notifications
type Notifier struct {
	enabled bool
	run     Runner
}

// NewNotifier creates a new notifier
func NewNotifier() *Notifier {
	return &Notifier{
		enabled: true,
		run:     execRunner,
	}
}

// SetEnabled enables or disables notifications
func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// IsEnabled returns whether notifications are enabled
func (n *Notifier) IsEnabled() bool {
	return n.enabled
}

// SetRunner replaces the command runner, nil restores the default
func (n *Notifier) SetRunner(run Runner) {
	if run == nil {
		run = execRunner
	}
	n.run = run
}

// Send sends a desktop notification using notify-send
func (n *Notifier) Send(notification Notification) error {
	if !n.enabled {
		return nil
	}

	args := []string{}

	// Add urgency
	switch notification.Urgency {
	case UrgencyLow:
		args = append(args, "-u", "low")
	case UrgencyCritical:
		args = append(args, "-u", "critical")
	default:
		args = append(args, "-u", "normal")
	}

	// Add timeout (in milliseconds)
	if notification.Timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(notification.Timeout.Milliseconds())))
	}

	if notification.Icon != "" {
		args = append(args, "-i", notification.Icon)
	}

	args = append(args, "-a", "tally")

	args = append(args, notification.Title)
	if notification.Body != "" {
		args = append(args, notification.Body)
	}

	if err := n.run("notify-send", args...); err != nil {
		return fmt.Errorf("notify-send: %w", err)
	}
	return nil
}

// SendSimple sends a simple notification with title and body
func (n *Notifier) SendSimple(title, body string) error {
	return n.Send(Notification{
		Title:   title,
		Body:    body,
		Urgency: UrgencyNormal,
		Timeout: 5 * time.Second,
	})
}

// SendDueReminder sends a reminder for a task due on or before today.
// Overdue tasks are sent as critical.
func (n *Notifier) SendDueReminder(task model.Task, today time.Time) error {
	body := "Task is due today"
	urgency := UrgencyNormal
	if task.IsOverdue(today) {
		days := int(model.DateOf(today).Sub(model.DateOf(*task.DueDate)).Hours() / 24)
		if days == 1 {
			body = "Task is overdue by 1 day"
		} else {
			body = fmt.Sprintf("Task is overdue by %d days", days)
		}
		urgency = UrgencyCritical
	}

	return n.Send(Notification{
		Title:   task.Subject,
		Body:    body,
		Urgency: urgency,
		Timeout: 15 * time.Second,
		Icon:    "emblem-important-symbolic",
	})
}

// Remind sends one reminder per unfinished task that is due today or
// overdue. It keeps going after a failure and returns the number of
// reminders sent and the first error.
func (n *Notifier) Remind(tasks []model.Task, today time.Time) (int, error) {
	var (
		sent     int
		firstErr error
	)
	for _, t := range tasks {
		if t.Finished || t.DueDate == nil {
			continue
		}
		if !t.IsOverdue(today) && !t.IsDueOn(today) {
			continue
		}
		if err := n.SendDueReminder(t, today); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		sent++
	}
	return sent, firstErr
}
