package ui

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func TestMain(m *testing.M) {
	// Plain text so assertions can match across styled segments
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func TestHeader_Render(t *testing.T) {
	out := NewHeader("Router reboot", "archerctl reboot", map[string]string{
		"Router":  "http://192.168.0.1",
		"Profile": "home",
	}).SetWidth(80).Render()

	for _, want := range []string{"ROUTER REBOOT", "archerctl reboot", "Router: http://192.168.0.1", "Profile: home"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Profile") > strings.Index(out, "Router:") {
		t.Error("params should be sorted by key")
	}
}

func TestResult_Render(t *testing.T) {
	tests := []struct {
		name   string
		result *Result
		want   []string
	}{
		{
			name:   "success",
			result: NewSuccessResult("Reboot requested", map[string]string{"Router": "192.168.0.1"}),
			want:   []string{"SUCCESS", "Reboot requested", "Router:", "192.168.0.1"},
		},
		{
			name:   "warning",
			result: NewWarningResult("No routers found", nil),
			want:   []string{"WARNING", "No routers found"},
		},
		{
			name:   "failure",
			result: NewFailureResult("Status failed", errors.New("boom"), []string{"Check the password"}),
			want:   []string{"FAILED", "Status failed", "Error: boom", "Troubleshooting:", "Check the password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.result.SetWidth(80).Render()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("Render() missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestResult_DetailsSorted(t *testing.T) {
	r := NewSuccessResult("done", nil).SetWidth(80)
	r.AddDetail("Zone", "z").AddDetail("Address", "a")

	out := r.Render()
	if strings.Index(out, "Address") > strings.Index(out, "Zone") {
		t.Errorf("details should be sorted:\n%s", out)
	}
}

func TestConfirmDangerousOperation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"agreed", "I AGREE\n", true},
		{"agreed without newline", "I AGREE", true},
		{"surrounding spaces", "  I AGREE  \n", true},
		{"lower case", "i agree\n", false},
		{"declined", "no\n", false},
		{"empty input", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := ConfirmDangerousOperation(strings.NewReader(tt.input), &out, "TEST", []string{"warning one"}, "disclaimer")
			if got != tt.want {
				t.Errorf("ConfirmDangerousOperation() = %v, want %v", got, tt.want)
			}
			if !strings.Contains(out.String(), "warning one") {
				t.Error("warnings should be printed")
			}
			if !tt.want && tt.input != "" && !strings.Contains(out.String(), "Operation cancelled.") {
				t.Error("declining should print a cancellation note")
			}
		})
	}
}

func TestRebootConfirmation(t *testing.T) {
	var out bytes.Buffer
	if !RebootConfirmation(strings.NewReader("I AGREE\n"), &out, "http://192.168.0.1") {
		t.Error("RebootConfirmation() = false, want true")
	}
	if !strings.Contains(out.String(), "http://192.168.0.1") {
		t.Errorf("output should name the router:\n%s", out.String())
	}
}

func TestProgress_UpdateStep(t *testing.T) {
	p := NewProgress("one", "two", "three", "four")

	p.UpdateStep(1, StepRunning, "")
	if p.Current != 1 || p.Percent != 0 {
		t.Errorf("Current = %d, Percent = %v", p.Current, p.Percent)
	}

	p.UpdateStep(1, StepComplete, "")
	p.UpdateStep(2, StepSkipped, "")
	p.UpdateStep(3, StepFailed, "")
	if p.Percent != 0.5 {
		t.Errorf("Percent = %v, want 0.5", p.Percent)
	}

	p.UpdateStep(0, StepComplete, "")
	p.UpdateStep(5, StepComplete, "")
	if p.Percent != 0.5 {
		t.Errorf("out-of-range updates should be ignored, Percent = %v", p.Percent)
	}
}

func TestProgress_Render(t *testing.T) {
	p := NewProgress("Authenticating", "Requesting reboot")
	p.UpdateStep(1, StepComplete, "stok issued")

	out := p.Render()
	for _, want := range []string{"[1/2] Authenticating", StepMarkerComplete, "(stok issued)", "[2/2] Requesting reboot", StepMarkerPending} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q:\n%s", want, out)
		}
	}
}

func TestTaskRunner_Run(t *testing.T) {
	var out bytes.Buffer
	runner := NewTaskRunner(TaskConfig{
		Title:   "Router Reboot",
		Command: "archerctl reboot",
		Steps:   []string{"Authenticating", "Requesting reboot"},
		Output:  &out,
	})

	err := runner.Run(context.Background(), func(ctx context.Context, onStep StepCallback) (map[string]string, error) {
		onStep(1, "", StepRunning, "")
		onStep(1, "", StepComplete, "")
		onStep(2, "Reboot requested", StepComplete, "")
		onStep(9, "ignored", StepComplete, "")
		return map[string]string{"Router": "192.168.0.1"}, nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, want := range []string{"ROUTER REBOOT", "Authenticating", "Reboot requested", "Router Reboot complete", "Duration:"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
	if runner.Progress().Percent != 1 {
		t.Errorf("Percent = %v, want 1", runner.Progress().Percent)
	}
}

func TestTaskRunner_RunFailure(t *testing.T) {
	var out bytes.Buffer
	wantErr := errors.New("router said no")
	var hinted error

	runner := NewTaskRunner(TaskConfig{
		Title:  "Logout",
		Steps:  []string{"Authenticating"},
		Output: &out,
		Hints: func(err error) []string {
			hinted = err
			return []string{"Try again later"}
		},
	})

	err := runner.Run(context.Background(), func(ctx context.Context, onStep StepCallback) (map[string]string, error) {
		onStep(1, "", StepFailed, "")
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Run() error = %v, want %v", err, wantErr)
	}
	if !errors.Is(hinted, wantErr) {
		t.Errorf("Hints called with %v", hinted)
	}
	for _, want := range []string{"Logout failed", "router said no", "Try again later"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestPrinter(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out)

	p.Println("plain")
	p.PrintSuccess("Saved", map[string]string{"Profile": "home"})
	p.PrintError("Failed", errors.New("nope"), nil)

	for _, want := range []string{"plain\n", "Saved", "home", "Error: nope"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
	if p.Writer() != &out {
		t.Error("Writer() should return the configured writer")
	}
}
