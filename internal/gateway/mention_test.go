package gateway

import "testing"

func TestStripMentions(t *testing.T) {
	cases := []struct {
		name      string
		text      string
		mentioned bool
		stripped  string
	}{
		{"platform mention", "<@bot-1> hello", true, "hello"},
		{"name mention", "@MintyBot hello", true, "hello"},
		{"mention in the middle", "hey <@bot-1> what's up", true, "hey  what's up"},
		{"both forms", "<@bot-1> @MintyBot hi", true, "hi"},
		{"no mention", "just chatting", false, "just chatting"},
		{"other user mention", "<@user-2> hello", false, "<@user-2> hello"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mentioned, stripped := StripMentions(tc.text, "bot-1", "MintyBot")
			if mentioned != tc.mentioned {
				t.Fatalf("mentioned: got %v want %v", mentioned, tc.mentioned)
			}
			if stripped != tc.stripped {
				t.Fatalf("stripped: got %q want %q", stripped, tc.stripped)
			}
		})
	}
}

func TestStripMentionsWithEmptyIdentity(t *testing.T) {
	mentioned, stripped := StripMentions("<@bot-1> hello", "", "")
	if mentioned {
		t.Fatalf("no identity configured, nothing should match")
	}
	if stripped != "<@bot-1> hello" {
		t.Fatalf("text must be untouched: %q", stripped)
	}
}
