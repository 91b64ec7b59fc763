package color

import (
	"strings"
	"sync"
	"testing"
)

func saveState(t *testing.T) {
	origEnabled := state.enabled.Load()
	origOverridden := state.overridden.Load()
	t.Cleanup(func() {
		state.enabled.Store(origEnabled)
		state.overridden.Store(origOverridden)
	})
}

func TestEnableDisable(t *testing.T) {
	saveState(t)

	Enable()
	if !Enabled() {
		t.Error("expected colors to be enabled after Enable()")
	}

	Disable()
	if Enabled() {
		t.Error("expected colors to be disabled after Disable()")
	}
}

func TestColorFuncs(t *testing.T) {
	saveState(t)
	Enable()

	tests := []struct {
		name     string
		fn       func(string) string
		contains string
	}{
		{"Redf", Redf, Red},
		{"Greenf", Greenf, Green},
		{"Yellowf", Yellowf, Yellow},
		{"Bluef", Bluef, Blue},
		{"Cyanf", Cyanf, Cyan},
		{"Boldf", Boldf, Bold},
		{"Dimf", Dimf, DimCode},
		{"Success", Success, Green},
		{"Error", Error, Red},
		{"Warning", Warning, Yellow},
		{"Path", Path, Cyan},
		{"Header", Header, Bold},
		{"Dim", Dim, DimCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn("test")
			if !strings.HasPrefix(got, tt.contains) {
				t.Errorf("%s(test) = %q, want prefix %q", tt.name, got, tt.contains)
			}
			if !strings.HasSuffix(got, Reset) {
				t.Errorf("%s(test) = %q, want reset suffix", tt.name, got)
			}
		})
	}
}

func TestColorFuncs_Disabled(t *testing.T) {
	saveState(t)
	Disable()

	for _, fn := range []func(string) string{Redf, Success, Error, Warning, Path, Dir, Header, Dim} {
		if got := fn("plain"); got != "plain" {
			t.Errorf("expected plain text when disabled, got %q", got)
		}
	}
	if got := Successf("%d files", 3); got != "3 files" {
		t.Errorf("Successf = %q", got)
	}
}

func TestDir(t *testing.T) {
	saveState(t)
	Enable()

	if got := Dir("src/"); got != Bold+Blue+"src/"+Reset {
		t.Errorf("Dir(src/) = %q", got)
	}
}

func TestCode(t *testing.T) {
	saveState(t)
	Enable()
	if got := Code("snaptyx tree"); got != Bold+DimCode+"snaptyx tree"+Reset {
		t.Errorf("Code() = %q", got)
	}
	Disable()
	if got := Code("snaptyx tree"); got != "snaptyx tree" {
		t.Errorf("Code() disabled = %q", got)
	}
}

func TestEnabled_Concurrent(t *testing.T) {
	saveState(t)
	Enable()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = Enabled()
			_ = Path("x")
		}()
	}
	wg.Wait()
}
