package caption

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"
)

const (
	// RotatingSampleSize is how many rotating tags each caption draws
	RotatingSampleSize = 10
	// AITagCount is how many model-suggested tags each caption carries after padding
	AITagCount = 5
)

// FixedHashtags appear on every caption
var FixedHashtags = []string{
	"#art", "#painting", "#originalart", "#artcollectors", "#artfromaustria",
}

// RotatingHashtags is the pool sampled per caption and used to pad short AI tag lists
var RotatingHashtags = []string{
	"#acrylicpainting", "#modernart", "#contemporaryart", "#abstractart", "#creativeexpression",
	"#austrianartist", "#viennaartist", "#grazartist", "#artgalleryonline", "#artforsale",
	"#emergingartist", "#cityscapeart", "#natureart", "#surrealart", "#colorfulart",
}

// Assembler merges fixed, sampled and model-suggested hashtags
type Assembler struct {
	fixed []string
	pool  []string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewAssembler creates an assembler. rng may be nil, in which case a time-seeded source is used.
func NewAssembler(fixed, pool []string, rng *rand.Rand) *Assembler {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return &Assembler{
		fixed: fixed,
		pool:  pool,
		rng:   rng,
	}
}

// NewDefaultAssembler uses the gallery's fixed and rotating tag pools
func NewDefaultAssembler(rng *rand.Rand) *Assembler {
	return NewAssembler(FixedHashtags, RotatingHashtags, rng)
}

// Assemble returns fixed tags, a random rotating sample, then up to five AI tags
// taken from tagLine and padded from the pool. No two entries are equal ignoring case.
func (a *Assembler) Assemble(tagLine string) []string {
	sample := a.sample(min(RotatingSampleSize, len(a.pool)))

	tags := make([]string, 0, len(a.fixed)+len(sample)+AITagCount)
	tags = append(tags, a.fixed...)
	tags = append(tags, sample...)

	seen := make(map[string]struct{}, cap(tags))
	for _, t := range tags {
		seen[strings.ToLower(t)] = struct{}{}
	}

	ai := make([]string, 0, AITagCount)
	add := func(tag string) {
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		ai = append(ai, tag)
	}

	for _, token := range strings.Fields(tagLine) {
		if len(ai) == AITagCount {
			break
		}
		if strings.HasPrefix(token, "#") {
			add(token)
		}
	}
	for _, tag := range a.pool {
		if len(ai) == AITagCount {
			break
		}
		add(tag)
	}

	return append(tags, ai...)
}

// sample draws n pool entries without replacement
func (a *Assembler) sample(n int) []string {
	a.mu.Lock()
	perm := a.rng.Perm(len(a.pool))
	a.mu.Unlock()

	out := make([]string, n)
	for i := range n {
		out[i] = a.pool[perm[i]]
	}
	return out
}
