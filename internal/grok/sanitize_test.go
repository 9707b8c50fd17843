package grok

import "testing"

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text untouched",
			in:   "Market created! 65% chance YES.",
			want: "Market created! 65% chance YES.",
		},
		{
			name: "link placeholder removed",
			in:   "Check the odds [link] for details",
			want: "Check the oddsfor details",
		},
		{
			name: "trailing more details",
			in:   "New market is live. More details:",
			want: "New market is live.",
		},
		{
			name: "trailing click here",
			in:   "Booked your table! Click here",
			want: "Booked your table!",
		},
		{
			name: "hallucinated url stripped",
			in:   "See https://example.com/market/abc for the market",
			want: "See  for the market",
		},
		{
			name: "tco url stripped",
			in:   "Odds here t.co/Xy12Z now",
			want: "Odds here  now",
		},
		{
			name: "whitespace trimmed",
			in:   "  answer  ",
			want: "answer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitize(tt.in); got != tt.want {
				t.Fatalf("sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
