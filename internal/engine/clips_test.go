package engine

import "testing"

func TestImportClipDeduplicatesByPath(t *testing.T) {
	e := Empty(testConfig())
	path := writeMonoWAV(t, 4410, 1000, 44100)

	k1, err := e.ImportClip(path)
	if err != nil {
		t.Fatalf("first ImportClip: %v", err)
	}
	k2, err := e.ImportClip(path)
	if err != nil {
		t.Fatalf("second ImportClip: %v", err)
	}
	if k1 != k2 {
		t.Errorf("expected re-import of the same path to return the same key, got %v and %v", k1, k2)
	}

	info, err := e.StoredClip(k1)
	if err != nil {
		t.Fatalf("StoredClip: %v", err)
	}
	if info.Path != path {
		t.Errorf("expected stored path %q, got %q", path, info.Path)
	}
	if info.SampleRate != 44100 {
		t.Errorf("expected sample rate 44100, got %v", info.SampleRate)
	}
	if info.Length != 4410 {
		t.Errorf("expected 4410 frames, got %v", info.Length)
	}
}

func TestAllStoredClipsListsImports(t *testing.T) {
	e := Empty(testConfig())
	pathA := writeMonoWAV(t, 100, 0, 44100)
	pathB := writeMonoWAV(t, 100, 0, 44100)

	ka, err := e.ImportClip(pathA)
	if err != nil {
		t.Fatalf("import A: %v", err)
	}
	kb, err := e.ImportClip(pathB)
	if err != nil {
		t.Fatalf("import B: %v", err)
	}

	all := e.AllStoredClips()
	seen := map[uint32]bool{}
	for _, k := range all {
		seen[k] = true
	}
	if !seen[ka] || !seen[kb] {
		t.Errorf("expected both imported clips in AllStoredClips, got %v", all)
	}
}
