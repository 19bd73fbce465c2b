package portal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-jobportal-client/internal/utils"
)

// ArticleFilter narrows the career-advice list
type ArticleFilter struct {
	Category string
	Search   string
}

func (f ArticleFilter) query() url.Values {
	return utils.QueryValues(map[string]string{
		"category": f.Category,
		"search":   f.Search,
	})
}

func (c *Client) Articles(ctx context.Context, filter ArticleFilter) ([]Article, error) {
	return getList[Article](ctx, c, "/career-advice", "articles", filter.query())
}

func (c *Client) Article(ctx context.Context, id ID) (*Article, error) {
	return getObject[Article](ctx, c, path("/career-advice", id.String()), "article")
}

func (c *Client) ArticleCategories(ctx context.Context) ([]string, error) {
	return getList[string](ctx, c, "/career-advice/categories/list", "categories", nil)
}

func (c *Client) FeaturedArticles(ctx context.Context) ([]Article, error) {
	return getList[Article](ctx, c, "/career-advice/featured/list", "articles", nil)
}

// Plans lists the recruitment pricing plans
func (c *Client) Plans(ctx context.Context) ([]Plan, error) {
	return getList[Plan](ctx, c, "/recruitment/plans", "plans", nil)
}

// Solutions returns the recruitment solutions content as sent by the backend
func (c *Client) Solutions(ctx context.Context) (json.RawMessage, error) {
	return getJSON[json.RawMessage](ctx, c, "/recruitment/solutions", nil)
}

// Contact submits the contact form
func (c *Client) Contact(ctx context.Context, msg ContactMessage) (*Message, error) {
	ack, err := sendJSON[Message](ctx, c, http.MethodPost, "/contact", msg)
	if err != nil {
		return nil, err
	}
	return &ack, nil
}
