package changelog

// MergeMap redirects a rule key to the canonical key that shares its title.
type MergeMap map[string]string

// ruleTitle returns the display title configured for a rule, or "" when the
// rule is suppressed or has no title.
func ruleTitle(r Rule) string {
	if r.IsSuppressed() {
		return ""
	}
	return r.Title
}

// DetectMerge finds keys whose rules render the same non-empty title.
// The last declared key with a given title is canonical; every earlier key
// with that title is redirected to it.
func DetectMerge(rules Rules) MergeMap {
	canonical := make(map[string]string)
	for _, e := range rules {
		if title := ruleTitle(e.Rule); title != "" {
			canonical[title] = e.Key
		}
	}

	merge := make(MergeMap)
	for _, e := range rules {
		title := ruleTitle(e.Rule)
		if title == "" {
			continue
		}
		if target := canonical[title]; target != e.Key {
			merge[e.Key] = target
		}
	}
	return merge
}

// Resolve returns the canonical key for key.
func (m MergeMap) Resolve(key string) string {
	if target, ok := m[key]; ok {
		return target
	}
	return key
}

// bucket is one group of commits under a key, kept in discovery order.
type bucket struct {
	key     string
	commits []Commit
}

// buckets is an insertion-ordered partition of commits.
type buckets struct {
	order []string
	byKey map[string]*bucket
}

func newBuckets() *buckets {
	return &buckets{byKey: make(map[string]*bucket)}
}

func (b *buckets) add(key string, commits ...Commit) {
	bk, ok := b.byKey[key]
	if !ok {
		bk = &bucket{key: key}
		b.byKey[key] = bk
		b.order = append(b.order, key)
	}
	bk.commits = append(bk.commits, commits...)
}

func (b *buckets) get(key string) []Commit {
	if bk, ok := b.byKey[key]; ok {
		return bk.commits
	}
	return nil
}

func (b *buckets) keys() []string {
	return b.order
}

// partition groups commits by keyOf in discovery order.
func partition(commits []Commit, keyOf func(Commit) string) *buckets {
	b := newBuckets()
	for _, c := range commits {
		b.add(keyOf(c), c)
	}
	return b
}

// MergeBuckets folds the buckets of redirected keys into their canonical
// bucket. Canonical commits come first, followed by redirected ones in the
// order their keys were first seen.
func MergeBuckets(groups map[string][]Commit, order []string, merge MergeMap) (map[string][]Commit, []string) {
	b := newBuckets()
	for _, key := range order {
		b.add(key, groups[key]...)
	}
	merged := mergeBuckets(b, merge)

	out := make(map[string][]Commit, len(merged.order))
	for _, key := range merged.order {
		out[key] = merged.get(key)
	}
	return out, merged.order
}

func mergeBuckets(b *buckets, merge MergeMap) *buckets {
	if len(merge) == 0 {
		return b
	}

	out := newBuckets()
	var redirected []string
	for _, key := range b.keys() {
		if _, ok := merge[key]; ok {
			redirected = append(redirected, key)
			continue
		}
		out.add(key, b.get(key)...)
	}
	for _, key := range redirected {
		out.add(merge.Resolve(key), b.get(key)...)
	}
	return out
}
