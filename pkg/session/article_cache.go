package session

import (
	"sync"
	"time"

	"github.com/anonto42/kickoff/backend/pkg/client"
)

// ArticleCache hands article payloads from a list view to the detail view.
// Entries are read once, expire after ttl, and are dropped on Navigate.
type ArticleCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]cachedArticle
}

type cachedArticle struct {
	article client.Article
	expires time.Time
}

func NewArticleCache(ttl time.Duration) *ArticleCache {
	return &ArticleCache{ttl: ttl, now: time.Now, entries: map[string]cachedArticle{}}
}

func (a *ArticleCache) Put(article client.Article) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries[article.ID] = cachedArticle{article: article, expires: a.now().Add(a.ttl)}
}

// Take returns and removes the article for id.
func (a *ArticleCache) Take(id string) (client.Article, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	e, ok := a.entries[id]
	if !ok {
		return client.Article{}, false
	}
	delete(a.entries, id)
	if !a.now().Before(e.expires) {
		return client.Article{}, false
	}
	return e.article, true
}

// Navigate evicts everything.
func (a *ArticleCache) Navigate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	clear(a.entries)
}

func (a *ArticleCache) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}
