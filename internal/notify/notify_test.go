package notify

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/dori/tally/internal/model"
)

type call struct {
	name string
	args []string
}

func recorder(calls *[]call, err error) Runner {
	return func(name string, args ...string) error {
		*calls = append(*calls, call{name, args})
		return err
	}
}

func dueTask(subject string, due time.Time) model.Task {
	t := model.NewTask()
	t.Subject = subject
	t.DueDate = &due
	return t
}

func TestSendArgs(t *testing.T) {
	var calls []call
	n := NewNotifier()
	n.SetRunner(recorder(&calls, nil))

	err := n.Send(Notification{
		Title:   "Title",
		Body:    "Body",
		Urgency: UrgencyCritical,
		Timeout: 2 * time.Second,
		Icon:    "icon",
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	want := []string{"-u", "critical", "-t", "2000", "-i", "icon", "-a", "tally", "Title", "Body"}
	if len(calls) != 1 || calls[0].name != "notify-send" || !slices.Equal(calls[0].args, want) {
		t.Errorf("got %+v, want notify-send %q", calls, want)
	}
}

func TestDisabledSendsNothing(t *testing.T) {
	var calls []call
	n := NewNotifier()
	n.SetRunner(recorder(&calls, nil))
	n.SetEnabled(false)

	if err := n.SendSimple("a", "b"); err != nil {
		t.Fatalf("SendSimple failed: %v", err)
	}
	if len(calls) != 0 {
		t.Errorf("disabled notifier ran %d commands", len(calls))
	}
}

func TestSendDueReminder(t *testing.T) {
	today := model.Day(2024, time.March, 5)

	tests := []struct {
		name    string
		due     time.Time
		body    string
		urgency string
	}{
		{"due today", today, "Task is due today", "normal"},
		{"one day late", model.Day(2024, time.March, 4), "Task is overdue by 1 day", "critical"},
		{"several days late", model.Day(2024, time.February, 28), "Task is overdue by 6 days", "critical"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []call
			n := NewNotifier()
			n.SetRunner(recorder(&calls, nil))

			if err := n.SendDueReminder(dueTask("pay rent", tt.due), today); err != nil {
				t.Fatalf("SendDueReminder failed: %v", err)
			}
			args := calls[0].args
			if args[1] != tt.urgency {
				t.Errorf("urgency: got %q, want %q", args[1], tt.urgency)
			}
			if got := args[len(args)-1]; got != tt.body {
				t.Errorf("body: got %q, want %q", got, tt.body)
			}
			if got := args[len(args)-2]; got != "pay rent" {
				t.Errorf("title: got %q", got)
			}
		})
	}
}

func TestRemind(t *testing.T) {
	today := model.Day(2024, time.March, 5)

	finished := dueTask("finished", today)
	finished.Finished = true

	tasks := []model.Task{
		dueTask("today", today),
		dueTask("late", model.Day(2024, time.March, 1)),
		dueTask("later", model.Day(2024, time.March, 6)),
		finished,
		model.NewTask(),
	}

	var calls []call
	n := NewNotifier()
	n.SetRunner(recorder(&calls, nil))

	sent, err := n.Remind(tasks, today)
	if err != nil {
		t.Fatalf("Remind failed: %v", err)
	}
	if sent != 2 || len(calls) != 2 {
		t.Errorf("sent %d with %d calls, want 2", sent, len(calls))
	}
}

func TestRemindReportsFirstError(t *testing.T) {
	today := model.Day(2024, time.March, 5)
	boom := errors.New("no display")

	var calls []call
	n := NewNotifier()
	n.SetRunner(recorder(&calls, boom))

	sent, err := n.Remind([]model.Task{dueTask("a", today), dueTask("b", today)}, today)
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want %v", err, boom)
	}
	if sent != 0 {
		t.Errorf("sent %d, want 0", sent)
	}
	if len(calls) != 2 {
		t.Errorf("stopped after %d attempts, want 2", len(calls))
	}
}
