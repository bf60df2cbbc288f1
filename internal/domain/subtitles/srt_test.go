package subtitles

import "testing"

func TestParseSRT_SingleCue(t *testing.T) {
	got := FormatTranscript(ParseSRT("1\n00:00:01,000 --> 00:00:02,000\nHello <i>world</i>\n"))
	want := "[00:00:01,000] Hello world"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestParseSRT_MultiLineCues(t *testing.T) {
	in := "1\r\n00:00:01,000 --> 00:00:03,500\r\nSo my wife says\r\nto me\r\n\r\n" +
		"2\r\n00:01:05,250 --> 00:01:07,000\r\n[Laughter]\r\n"
	lines := ParseSRT(in)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %+v", len(lines), lines)
	}
	if lines[1].Timestamp != "00:00:01,000" || lines[1].Text != "to me" {
		t.Fatalf("continuation line must keep the cue timestamp, got %+v", lines[1])
	}
	if lines[2].Timestamp != "00:01:05,250" || lines[2].Text != "[Laughter]" {
		t.Fatalf("unexpected last line: %+v", lines[2])
	}
}

func TestParseSRT_IgnoresTextBeforeFirstTimestamp(t *testing.T) {
	lines := ParseSRT("WEBVTT\n\n00:00:00.000 --> 00:00:01.000\nhi\n")
	if len(lines) != 1 || lines[0].Text != "hi" || lines[0].Timestamp != "00:00:00.000" {
		t.Fatalf("unexpected lines: %+v", lines)
	}
}

func TestParseSRT_Empty(t *testing.T) {
	if got := FormatTranscript(ParseSRT("")); got != "" {
		t.Fatalf("expected empty transcript, got %q", got)
	}
}

func TestTimestampSeconds(t *testing.T) {
	tests := map[string]int{
		"00:00:01,000": 1,
		"00:01:05,250": 65,
		"01:00:00.999": 3600,
		"02:03":        123,
	}
	for in, want := range tests {
		got, ok := TimestampSeconds(in)
		if !ok || got != want {
			t.Fatalf("TimestampSeconds(%q) = %d,%v want %d", in, got, ok, want)
		}
	}
	if _, ok := TimestampSeconds("nope"); ok {
		t.Fatalf("expected failure on malformed timestamp")
	}
}
