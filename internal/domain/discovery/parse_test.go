package discovery

import "testing"

func TestParseDuration(t *testing.T) {
	tests := map[string]int{
		"5:30":    330,
		"1:23:45": 5025,
		"0:00":    0,
		"12:05":   725,
		"garbage": 0,
		"":        0,
		"1:2:3:4": 0,
		"a:30":    0,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			if got := ParseDuration(in); got != want {
				t.Fatalf("ParseDuration(%q) = %d, want %d", in, got, want)
			}
		})
	}
}

func TestParseViewCount(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"1.2M views", 1_200_000},
		{"500K views", 500_000},
		{"42 views", 42},
		{"1,234,567 views", 1_234_567},
		{"3m", 3_000_000},
		{"No views", 0},
		{"", 0},
		{"lots", 0},
		{"infm", 0},
		{"Infinitym views", 0},
		{"nanm", 0},
		{"nank", 0},
		{"-5k", 0},
		{"1e300m", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseViewCount(tt.in); got != tt.want {
				t.Fatalf("ParseViewCount(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := FormatDuration(0); got != "Unknown" {
		t.Fatalf("FormatDuration(0) = %q", got)
	}
	if got := FormatDuration(330); got != "5:30" {
		t.Fatalf("FormatDuration(330) = %q", got)
	}
	if got := FormatDuration(5025); got != "1:23:45" {
		t.Fatalf("FormatDuration(5025) = %q", got)
	}
	if got := FormatViews(1_200_000); got != "1.2M views" {
		t.Fatalf("FormatViews = %q", got)
	}
	if got := FormatViews(3_400); got != "3.4K views" {
		t.Fatalf("FormatViews = %q", got)
	}
	if got := FormatViews(0); got != "Unknown views" {
		t.Fatalf("FormatViews = %q", got)
	}
	if got := FormatTimestamp(75); got != "01:15" {
		t.Fatalf("FormatTimestamp(75) = %q", got)
	}
	if got := FormatTimestamp(3725); got != "01:02:05" {
		t.Fatalf("FormatTimestamp(3725) = %q", got)
	}
}
