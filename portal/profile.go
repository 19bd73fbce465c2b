package portal

import (
	"context"
	"io"
	"net/http"

	"github.com/jrsteele09/go-jobportal-client/apiclient"
)

const enhancedProfile = "/enhanced-profile"

// Profile returns the logged-in user's enhanced profile
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	return getObject[Profile](ctx, c, enhancedProfile, "profile")
}

// UpdateProfile sends the non-empty fields of profile
func (c *Client) UpdateProfile(ctx context.Context, profile Profile) error {
	return send(ctx, c, http.MethodPut, enhancedProfile, profile)
}

func (c *Client) AddExperience(ctx context.Context, exp Experience) error {
	return send(ctx, c, http.MethodPost, enhancedProfile+"/experience", exp)
}

func (c *Client) DeleteExperience(ctx context.Context, id ID) error {
	return send(ctx, c, http.MethodDelete, path(enhancedProfile+"/experience", id.String()), nil)
}

func (c *Client) AddEducation(ctx context.Context, edu Education) error {
	return send(ctx, c, http.MethodPost, enhancedProfile+"/education", edu)
}

func (c *Client) DeleteEducation(ctx context.Context, id ID) error {
	return send(ctx, c, http.MethodDelete, path(enhancedProfile+"/education", id.String()), nil)
}

// UpdateSkills replaces the profile's skill list
func (c *Client) UpdateSkills(ctx context.Context, skills []string) error {
	return send(ctx, c, http.MethodPut, enhancedProfile+"/skills", map[string][]string{"skills": skills})
}

// CompletionTips suggests what to fill in next
func (c *Client) CompletionTips(ctx context.Context) ([]string, error) {
	return getList[string](ctx, c, enhancedProfile+"/completion-tips", "tips", nil)
}

// UploadResume stores a resume file; the returned URL can be set on the profile
func (c *Client) UploadResume(ctx context.Context, filename string, content io.Reader) (*UploadResult, error) {
	return c.upload(ctx, "/upload/resume", "resume", filename, content)
}

// UploadPhoto stores a profile photo
func (c *Client) UploadPhoto(ctx context.Context, filename string, content io.Reader) (*UploadResult, error) {
	return c.upload(ctx, "/upload/photo", "photo", filename, content)
}

func (c *Client) DeleteResume(ctx context.Context, filename string) error {
	return send(ctx, c, http.MethodDelete, path("/upload/resume", filename), nil)
}

func (c *Client) DeletePhoto(ctx context.Context, filename string) error {
	return send(ctx, c, http.MethodDelete, path("/upload/photo", filename), nil)
}

func (c *Client) upload(ctx context.Context, p, field, filename string, content io.Reader) (*UploadResult, error) {
	var out UploadResult
	err := c.api.DoJSON(ctx, &apiclient.Request{
		Method: http.MethodPost,
		Path:   p,
		Form: &apiclient.Multipart{Files: []apiclient.File{
			{Field: field, Name: filename, Content: content},
		}},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
