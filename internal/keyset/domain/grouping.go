package domain

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// FileKind classifies a key directory file by its name.
type FileKind int

const (
	FileKindUnknown FileKind = iota
	FileKindWrappedKey
	FileKindPublicKey
	FileKindPrivateKey
)

var (
	wrappedKeyPattern = regexp.MustCompile(`^[A-Za-z0-9]{8}\.der$`)
	publicKeyPattern  = regexp.MustCompile(`^[A-Za-z0-9]{8}\.public\.pem$`)
	privateKeyPattern = regexp.MustCompile(`^[A-Za-z0-9]{8}\.private\.pem$`)
)

// ClassifyFile applies the strict naming rules used to recognise staged files.
func ClassifyFile(name string) FileKind {
	switch {
	case wrappedKeyPattern.MatchString(name):
		return FileKindWrappedKey
	case publicKeyPattern.MatchString(name):
		return FileKindPublicKey
	case privateKeyPattern.MatchString(name):
		return FileKindPrivateKey
	default:
		return FileKindUnknown
	}
}

// KeyFileKind classifies by extension only. It is used in the active directory,
// where leftovers of any shape must still be recognised as key files.
func KeyFileKind(name string) FileKind {
	switch {
	case strings.HasSuffix(name, PublicKeySuffix):
		return FileKindPublicKey
	case strings.HasSuffix(name, PrivateKeySuffix):
		return FileKindPrivateKey
	case strings.HasSuffix(name, WrappedKeyExtension):
		return FileKindWrappedKey
	default:
		return FileKindUnknown
	}
}

// GroupToken returns the part of a file name before its first ".".
func GroupToken(name string) string {
	token, _, _ := strings.Cut(name, ".")
	return token
}

// RejectedGroup is a staging group that did not form a complete key set. Its
// files stay in staging untouched.
type RejectedGroup struct {
	Token  string   `json:"token"`
	Files  []string `json:"files"`
	Reason string   `json:"reason"`
}

// GroupCandidates groups entries by GroupToken and returns the complete key sets
// sorted by creation time ascending, plus every group that was not complete.
//
// A group is complete when exactly one file matches each of the three naming
// rules and all three carry the same identifier. The wrapped key file's
// modification time becomes the key set's creation time.
func GroupCandidates(stage Stage, dir string, entries []FileEntry) ([]KeySet, []RejectedGroup) {
	groups := make(map[string][]FileEntry)
	for _, entry := range entries {
		token := GroupToken(entry.Name)
		groups[token] = append(groups[token], entry)
	}

	tokens := make([]string, 0, len(groups))
	for token := range groups {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)

	var candidates []KeySet
	var rejected []RejectedGroup

	for _, token := range tokens {
		files := groups[token]
		keySet, reason := buildKeySet(stage, dir, token, files)
		if reason != "" {
			rejected = append(rejected, RejectedGroup{
				Token:  token,
				Files:  entryNames(files),
				Reason: reason,
			})
			continue
		}
		candidates = append(candidates, keySet)
	}

	SortByCreation(candidates)
	return candidates, rejected
}

func buildKeySet(stage Stage, dir, token string, files []FileEntry) (KeySet, string) {
	var wrapped, public, private []FileEntry
	for _, f := range files {
		switch ClassifyFile(f.Name) {
		case FileKindWrappedKey:
			wrapped = append(wrapped, f)
		case FileKindPublicKey:
			public = append(public, f)
		case FileKindPrivateKey:
			private = append(private, f)
		}
	}

	if len(wrapped) != 1 || len(public) != 1 || len(private) != 1 {
		return KeySet{}, "incomplete key set"
	}

	if GroupToken(wrapped[0].Name) != token ||
		!strings.HasPrefix(public[0].Name, token) ||
		!strings.HasPrefix(private[0].Name, token) {
		return KeySet{}, "inconsistent key set naming"
	}

	return KeySet{
		ID:             token,
		Stage:          stage,
		Dir:            dir,
		WrappedKeyFile: wrapped[0].Name,
		PublicKeyFile:  public[0].Name,
		PrivateKeyFile: private[0].Name,
		CreatedAt:      wrapped[0].ModTime,
	}, ""
}

// MatchKeySet looks up the key set named id among entries of one stage
// directory. The wrapped key must be named exactly {id}.der; the PEM files
// must start with id and end in the public/private suffixes. A canonical
// {id}.public.pem / {id}.private.pem wins over other prefixed names.
//
// A zero ModTime on the wrapped key entry is replaced with now.
func MatchKeySet(stage Stage, dir, id string, entries []FileEntry, now time.Time) (KeySet, bool) {
	wantWrapped, wantPublic, wantPrivate := CanonicalFiles(id)

	var wrapped *FileEntry
	var public, private string

	sorted := make([]FileEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	for i := range sorted {
		name := sorted[i].Name
		switch {
		case name == wantWrapped:
			wrapped = &sorted[i]
		case strings.HasPrefix(name, id) && strings.HasSuffix(name, PublicKeySuffix):
			if public == "" || name == wantPublic {
				public = name
			}
		case strings.HasPrefix(name, id) && strings.HasSuffix(name, PrivateKeySuffix):
			if private == "" || name == wantPrivate {
				private = name
			}
		}
	}

	if wrapped == nil || public == "" || private == "" {
		return KeySet{}, false
	}

	createdAt := wrapped.ModTime
	if createdAt.IsZero() {
		createdAt = now
	}

	return KeySet{
		ID:             id,
		Stage:          stage,
		Dir:            dir,
		WrappedKeyFile: wrapped.Name,
		PublicKeyFile:  public,
		PrivateKeyFile: private,
		CreatedAt:      createdAt,
	}, true
}

// Latest returns the key set with the newest creation time.
func Latest(keySets []KeySet) (KeySet, bool) {
	if len(keySets) == 0 {
		return KeySet{}, false
	}
	sorted := make([]KeySet, len(keySets))
	copy(sorted, keySets)
	SortByCreation(sorted)
	return sorted[len(sorted)-1], true
}

// SortByCreation orders key sets by creation time ascending, then identifier.
func SortByCreation(keySets []KeySet) {
	sort.SliceStable(keySets, func(i, j int) bool {
		if keySets[i].CreatedAt.Equal(keySets[j].CreatedAt) {
			return keySets[i].ID < keySets[j].ID
		}
		return keySets[i].CreatedAt.Before(keySets[j].CreatedAt)
	})
}

func entryNames(entries []FileEntry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}
