package matcher

import "testing"

func TestResolve(t *testing.T) {
	tc := []struct {
		name       string
		query      string
		candidates []string
		want       string
		kind       Kind
	}{
		{
			name:       "exact match keeps candidate casing",
			query:      "radiohead",
			candidates: []string{"Radiohead", "Radiohead Tribute"},
			want:       "Radiohead",
			kind:       Exact,
		},
		{
			name:       "exact match beats better fuzzy order",
			query:      "the national",
			candidates: []string{"The Nationals", "The National"},
			want:       "The National",
			kind:       Exact,
		},
		{
			name:       "first exact candidate wins",
			query:      "muse",
			candidates: []string{"MUSE", "Muse"},
			want:       "MUSE",
			kind:       Exact,
		},
		{
			name:       "typo resolves fuzzily",
			query:      "Led Zepplin",
			candidates: []string{"Led Zeppelin", "Zeppelin Tribute"},
			want:       "Led Zeppelin",
			kind:       Fuzzy,
		},
		{
			name:       "diacritics are ignored for scoring",
			query:      "Bjork",
			candidates: []string{"Björk"},
			want:       "Björk",
			kind:       Fuzzy,
		},
		{
			name:       "ties keep the earliest candidate",
			query:      "abcd",
			candidates: []string{"abcx", "abcy"},
			want:       "abcx",
			kind:       Fuzzy,
		},
		{
			name:       "folded case counts as exact",
			query:      "STRASSE",
			candidates: []string{"Straße"},
			want:       "Straße",
			kind:       Exact,
		},
		{
			name:       "no candidates falls back",
			query:      "Phish",
			candidates: nil,
			want:       "Phish",
			kind:       Fallback,
		},
		{
			name:       "nothing above cutoff falls back",
			query:      "Metallica",
			candidates: []string{"Taylor Swift", "Drake"},
			want:       "Metallica",
			kind:       Fallback,
		},
		{
			name:       "empty query falls back",
			query:      "",
			candidates: []string{"Anything"},
			want:       "",
			kind:       Fallback,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.query, tt.candidates)
			if got.Value != tt.want {
				t.Errorf("Resolve() value = %q, want %q", got.Value, tt.want)
			}
			if got.Kind != tt.kind {
				t.Errorf("Resolve() kind = %v, want %v", got.Kind, tt.kind)
			}
		})
	}
}

func TestResolveTies(t *testing.T) {
	got := Resolve("abcd", []string{"abce", "abcf"})
	if got.Value != "abce" {
		t.Errorf("ties should keep the earliest candidate, got %q", got.Value)
	}
	if got.Score < 0.74 || got.Score > 0.76 {
		t.Errorf("expected score 0.75, got %v", got.Score)
	}
}

func TestMatcherCutoff(t *testing.T) {
	candidates := []string{"Pearl Jam"}

	if got := New(0.95).Resolve("Pearl Jan", candidates); got.Kind != Fallback {
		t.Errorf("strict cutoff should fall back, got %+v", got)
	}
	if got := New(0.5).Resolve("Pearl Jan", candidates); got.Value != "Pearl Jam" {
		t.Errorf("lenient cutoff should match, got %+v", got)
	}
	if m := New(0); m.Cutoff != DefaultCutoff {
		t.Errorf("zero cutoff should use default, got %v", m.Cutoff)
	}
}

func TestSimilarity(t *testing.T) {
	if s := Similarity("", "abc"); s != 0 {
		t.Errorf("empty input should score 0, got %v", s)
	}
	if s := Similarity("abc", "abc"); s != 1 {
		t.Errorf("identical strings should score 1, got %v", s)
	}
}

func TestOutcomeString(t *testing.T) {
	o := Resolve("coldplay", []string{"Coldplay"})
	if o.String() != "Coldplay" || !o.Matched() || o.Kind.String() != "exact" {
		t.Errorf("unexpected outcome %+v", o)
	}
	if o := Resolve("x", nil); o.String() != "x" || o.Matched() {
		t.Errorf("fallback should return the query, got %+v", o)
	}
}
