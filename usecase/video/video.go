package video

import (
	"math/rand/v2"

	"github.com/fastygo/breaks/internal/observability"
)

// DefaultURLs is the fixed distraction catalog.
var DefaultURLs = []string{
	"https://www.youtube.com/watch?v=video1",
	"https://www.youtube.com/watch?v=video2",
	"https://www.youtube.com/watch?v=video3",
}

type UseCase struct {
	urls []string
	intn func(n int) int
}

// New returns a picker over urls, falling back to DefaultURLs when empty.
func New(urls []string) *UseCase {
	if len(urls) == 0 {
		urls = DefaultURLs
	}
	catalog := make([]string, len(urls))
	copy(catalog, urls)
	return &UseCase{urls: catalog, intn: rand.IntN}
}

// Random returns one catalog URL chosen uniformly at random.
func (uc *UseCase) Random() string {
	url := uc.urls[uc.intn(len(uc.urls))]
	observability.RecordVideoServed()
	return url
}
