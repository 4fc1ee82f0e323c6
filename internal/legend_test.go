package internal

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintLegend(t *testing.T) {
	res := testResult()
	var buf bytes.Buffer
	PrintLegend(&buf, res, SelectAll(res).TogglePlayer("B").ToggleRound(0))
	out := buf.String()

	for _, expected := range []string{"de_inferno (64 tick)", "Team NaVi", "Team Vitality", "Rounds"} {
		if !strings.Contains(out, expected) {
			t.Errorf("Got legend %q, expected it to contain %q", out, expected)
		}
	}

	lines := strings.Split(out, "\n")
	hidden := 0
	for _, line := range lines {
		if strings.Contains(line, "(hidden)") {
			hidden++
			if !strings.Contains(line, "B") && !strings.Contains(line, "#0") {
				t.Errorf("Got hidden line %q, expected only B and round 0 to be hidden", line)
			}
		}
	}
	if hidden != 2 {
		t.Errorf("Got %d hidden lines, expected 2", hidden)
	}
}

func TestPrintLegendNoRounds(t *testing.T) {
	res := testResult()
	res.Rounds = []Round{}
	var buf bytes.Buffer
	PrintLegend(&buf, res, SelectAll(res))

	if !strings.Contains(buf.String(), "No rounds recorded") {
		t.Errorf("Got legend %q, expected it to note the missing rounds", buf.String())
	}
}

func TestReporter(t *testing.T) {
	var buf bytes.Buffer
	quiet := NewReporter(&buf, false)

	quiet.Infof("decoding %s", "match.dem")
	if buf.Len() != 0 {
		t.Errorf("Got output %q, expected info to be dropped when not verbose", buf.String())
	}

	quiet.Warnf("player '%s' is not part of this demo", "nobody")
	quiet.Errorf("broken")
	out := buf.String()
	if !strings.Contains(out, "WARNING:") || !strings.Contains(out, "'nobody'") {
		t.Errorf("Got output %q, expected a warning", out)
	}
	if !strings.Contains(out, "ERROR:") || !strings.Contains(out, "broken") {
		t.Errorf("Got output %q, expected an error", out)
	}

	buf.Reset()
	NewReporter(&buf, true).Infof("decoding %s", "match.dem")
	if buf.String() != "decoding match.dem\n" {
		t.Errorf("Got output %q, expected the info message", buf.String())
	}
}
