package jokes

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	errs "jokesdk/pkg/errors"
	"jokesdk/pkg/httpclient"
	"jokesdk/pkg/logger"
)

// goodJokesPath is the only listing endpoint the service exposes
const goodJokesPath = "/jokes/goodJokes"

// Client exposes the jokes resource of the Sample APIs service. The service
// only serves full listings, so lookups and filters run client-side.
type Client struct {
	http *httpclient.Client
	log  logger.Logger
	// pick selects a random index; injectable so Random is testable
	pick func(n int) int
}

// New creates a jokes client on top of an HTTP client
func New(http *httpclient.Client, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Client{http: http, log: log, pick: rand.Intn}
}

// WithPick returns a Client using pick as its random index source
func (c *Client) WithPick(pick func(n int) int) *Client {
	return &Client{http: c.http, log: c.log, pick: pick}
}

// List fetches jokes. A positive limit truncates the result client-side;
// zero or negative means no limit.
func (c *Client) List(ctx context.Context, limit int) ([]Joke, error) {
	resp, err := c.http.Get(ctx, goodJokesPath, nil)
	if err != nil {
		return nil, err
	}

	var list []Joke
	if err := resp.JSON(&list); err != nil {
		return nil, err
	}

	kept := list[:0]
	for _, joke := range list {
		if err := joke.Validate(); err != nil {
			c.log.WarnWithFields("dropping malformed joke", map[string]interface{}{
				"joke_id": joke.ID,
				"error":   err.Error(),
			})
			continue
		}
		kept = append(kept, joke)
	}
	list = kept

	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}

	c.log.DebugWithFields("fetched jokes", map[string]interface{}{
		"count": len(list),
	})
	return list, nil
}

// GetByID fetches the joke with the given id. The service has no by-id
// endpoint, so this lists and scans.
func (c *Client) GetByID(ctx context.Context, id int) (*Joke, error) {
	list, err := c.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}

	return nil, errs.NewNotFound(fmt.Sprintf("joke %d", id))
}

// Random returns one joke picked at random from the collection
func (c *Client) Random(ctx context.Context) (*Joke, error) {
	list, err := c.List(ctx, 0)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, errs.NewAPI(0, "", "no jokes available")
	}

	joke := list[c.pick(len(list))]
	return &joke, nil
}

// Search returns jokes whose setup or punchline contains query,
// case-insensitively. A positive limit truncates the result.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Joke, error) {
	list, err := c.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	var matches []Joke
	for _, joke := range list {
		if strings.Contains(strings.ToLower(joke.Setup), needle) ||
			strings.Contains(strings.ToLower(joke.Punchline), needle) {
			matches = append(matches, joke)
		}
	}

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Clean returns only family-friendly jokes. A positive limit truncates
// the result.
func (c *Client) Clean(ctx context.Context, limit int) ([]Joke, error) {
	list, err := c.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	clean := FilterClean(list)
	if limit > 0 && len(clean) > limit {
		clean = clean[:limit]
	}
	return clean, nil
}
