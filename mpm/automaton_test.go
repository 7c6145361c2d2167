package mpm

import (
	"testing"
)

// recordingAgent is a minimal mpm.Agent whose BuildTree just returns the
// pattern's user pointer as the TreeHandle, so tests can assert on it
// directly without a real detect.Node.
type recordingAgent struct {
	freedTrees []TreeHandle
	freedUsers []interface{}
}

func (a *recordingAgent) BuildTree(user interface{}, acc TreeHandle) (TreeHandle, error) {
	if user == nil {
		return acc, nil
	}
	return user, nil
}

func (a *recordingAgent) NegateList(user interface{}) (NegateList, error) {
	return nil, nil
}

func (a *recordingAgent) TreeFree(tree TreeHandle) {
	a.freedTrees = append(a.freedTrees, tree)
}

func (a *recordingAgent) ListFree(list NegateList) {}

func (a *recordingAgent) UserFree(user interface{}) {
	a.freedUsers = append(a.freedUsers, user)
}

type recordedMatch struct {
	user interface{}
	offset int
}

func scanAll(t *testing.T, auto *Automaton, input string) []recordedMatch {
	t.Helper()
	var got []recordedMatch
	var state uint32
	auto.Scan([]byte(input), func(user interface{}, tree TreeHandle, offset int, ctx interface{}, neg NegateList) int {
		got = append(got, recordedMatch{user: user, offset: offset})
		return 0
	}, nil, &state)
	return got
}

// TestOverlappingSuffixMatches runs the classic he/she/his/hers pattern
// set over "ushers". she and he end at the same byte (the automaton
// inherits he's match onto she's state via the failure link), hers ends
// later, and his never matches.
func TestOverlappingSuffixMatches(t *testing.T) {
	store := NewStore()
	pHe := store.AddPattern([]byte("he"), false, false, "he")
	pShe := store.AddPattern([]byte("she"), false, false, "she")
	pHis := store.AddPattern([]byte("his"), false, false, "his")
	pHers := store.AddPattern([]byte("hers"), false, false, "hers")
	_ = pHis

	auto, err := NewBuilder(store, &recordingAgent{}).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	got := scanAll(t, auto, "ushers")

	want := []recordedMatch{
		{user: pShe.User(), offset: 4},
		{user: pHe.User(), offset: 4},
		{user: pHers.User(), offset: 6},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d matches, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("match[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

// TestNocaseScan checks that a case-insensitive pattern matches
// regardless of the haystack's casing, reporting one match at the end of
// the matched span.
func TestNocaseScan(t *testing.T) {
	store := NewStore()
	p := store.AddPattern([]byte("AB"), true, false, "AB")

	auto, err := NewBuilder(store, &recordingAgent{}).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	got := scanAll(t, auto, "xxaBxx")
	if len(got) != 1 {
		t.Fatalf("got %d matches, want 1: %+v", len(got), got)
	}
	if got[0].offset != 4 {
		t.Errorf("offset = %d, want 4", got[0].offset)
	}
	if got[0].user != p.User() {
		t.Errorf("user = %v, want %v", got[0].user, p.User())
	}
}

// TestSoundness checks that every reported match's bytes (case-folded if
// nocase) equal the pattern.
func TestSoundness(t *testing.T) {
	store := NewStore()
	store.AddPattern([]byte("cat"), false, false, "cat")
	store.AddPattern([]byte("dog"), false, false, "dog")
	store.AddPattern([]byte("CATALOG"), true, false, "CATALOG")

	auto, err := NewBuilder(store, &recordingAgent{}).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	haystack := "the catalog had a dog and a cat in it"
	var state uint32
	auto.Scan([]byte(haystack), func(user interface{}, tree TreeHandle, offset int, ctx interface{}, neg NegateList) int {
		pat := user.(string)
		n := len(pat)
		if offset-n < 0 || offset > len(haystack) {
			t.Fatalf("match %q at offset %d out of range", pat, offset)
		}
		got := haystack[offset-n: offset]
		if !equalFold(got, pat) {
			t.Errorf("match %q at offset %d, haystack slice is %q", pat, offset, got)
		}
		return 0
	}, nil, &state)
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'a' && ca <= 'z' {
			ca -= 'a' - 'A'
		}
		if cb >= 'a' && cb <= 'z' {
			cb -= 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// TestCompleteness checks that every occurrence of every pattern is
// reported exactly once, including overlapping occurrences.
func TestCompleteness(t *testing.T) {
	store := NewStore()
	store.AddPattern([]byte("ab"), false, false, "ab")

	auto, err := NewBuilder(store, &recordingAgent{}).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	haystack := "ababab"
	got := scanAll(t, auto, haystack)
	// overlapping occurrences at offsets 2, 4, 6 (end positions for ab at
	// 0-1, 2-3, 4-5)
	wantOffsets := []int{2, 4, 6}
	if len(got) != len(wantOffsets) {
		t.Fatalf("got %d matches, want %d: %+v", len(got), len(wantOffsets), got)
	}
	for i, w := range wantOffsets {
		if got[i].offset != w {
			t.Errorf("match[%d].offset = %d, want %d", i, got[i].offset, w)
		}
	}
}

// TestBuildDeterminism checks that two independent builds over the same
// ordered pattern list produce automata that report matches identically.
func TestBuildDeterminism(t *testing.T) {
	build := func() *Automaton {
		store := NewStore()
		store.AddPattern([]byte("he"), false, false, "he")
		store.AddPattern([]byte("she"), false, false, "she")
		store.AddPattern([]byte("his"), false, false, "his")
		store.AddPattern([]byte("hers"), false, false, "hers")
		auto, err := NewBuilder(store, &recordingAgent{}).Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		return auto
	}

	a1 := build()
	a2 := build()

	if a1.StateCount() != a2.StateCount() {
		t.Fatalf("state counts differ: %d vs %d", a1.StateCount(), a2.StateCount())
	}

	for _, hay := range []string{"ushers", "this is his", "nothing here"} {
		g1 := scanAll(t, a1, hay)
		g2 := scanAll(t, a2, hay)
		if len(g1) != len(g2) {
			t.Fatalf("%q: match counts differ: %d vs %d", hay, len(g1), len(g2))
		}
		for i := range g1 {
			if g1[i] != g2[i] {
				t.Errorf("%q: match[%d] differs: %+v vs %+v", hay, i, g1[i], g2[i])
			}
		}
	}
}

func TestScanResumption(t *testing.T) {
	store := NewStore()
	store.AddPattern([]byte("abc"), false, false, "abc")
	auto, err := NewBuilder(store, &recordingAgent{}).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var state uint32
	var got []recordedMatch
	cb := func(user interface{}, tree TreeHandle, offset int, ctx interface{}, neg NegateList) int {
		got = append(got, recordedMatch{user: user, offset: offset})
		return 0
	}

	auto.Scan([]byte("xxa"), cb, nil, &state)
	auto.Scan([]byte("bcxx"), cb, nil, &state)

	if len(got) != 1 || got[0].offset != 2 {
		t.Fatalf("streaming scan = %+v, want one match at offset 2 of the second chunk", got)
	}
}

func TestAutomatonCloseFreesResources(t *testing.T) {
	store := NewStore()
	store.AddPattern([]byte("ab"), false, false, "ab")
	agent := &recordingAgent{}
	auto, err := NewBuilder(store, agent).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	auto.Close()
	if len(agent.freedUsers) != 1 {
		t.Fatalf("expected 1 freed user, got %d", len(agent.freedUsers))
	}
}

func TestBuildRejectsEmptyStore(t *testing.T) {
	store := NewStore()
	_, err := NewBuilder(store, &recordingAgent{}).Build()
	if err != ErrNoPatterns {
		t.Fatalf("err = %v, want ErrNoPatterns", err)
	}
}

func TestBuildRejectsMissingAgent(t *testing.T) {
	store := NewStore()
	store.AddPattern([]byte("x"), false, false, "x")
	_, err := NewBuilder(store, nil).Build()
	if err != ErrAgentRequired {
		t.Fatalf("err = %v, want ErrAgentRequired", err)
	}
}

func TestBuildRejectsEmptyPattern(t *testing.T) {
	store := NewStore()
	store.AddPattern([]byte(""), false, false, "x")
	_, err := NewBuilder(store, &recordingAgent{}).Build()
	if err == nil {
		t.Fatal("expected error for empty pattern")
	}
}
