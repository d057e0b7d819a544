package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path"

	"github.com/vistara-fest/backend/internal/models"
	"github.com/vistara-fest/backend/pkg/storage"
)

// Login exchanges the admin password for a token and keeps it for later requests.
func (c *Client) Login(ctx context.Context, password string) (string, error) {
	env, err := c.postJSON(ctx, "/admin/login", map[string]string{"password": password}, nil)
	if err != nil {
		return "", err
	}
	if env.Token == "" {
		return "", fmt.Errorf("login response has no token")
	}
	c.SetToken(env.Token)
	return env.Token, nil
}

func (c *Client) GetContent(ctx context.Context) (models.Content, error) {
	var content models.Content
	err := c.getJSON(ctx, "/content", &content)
	return content, err
}

func (c *Client) SaveContent(ctx context.Context, content models.Content) error {
	_, err := c.postJSON(ctx, "/content/update", map[string]interface{}{"content": content}, nil)
	return err
}

func (c *Client) ListEvents(ctx context.Context) ([]models.Event, error) {
	var list []models.Event
	err := c.getJSON(ctx, "/events", &list)
	return list, err
}

func (c *Client) SaveEvents(ctx context.Context, events []models.Event) error {
	if events == nil {
		events = []models.Event{}
	}
	_, err := c.postJSON(ctx, "/events/update", map[string]interface{}{"events": events}, nil)
	return err
}

func (c *Client) ListTeam(ctx context.Context) ([]models.TeamMember, error) {
	var list []models.TeamMember
	err := c.getJSON(ctx, "/team", &list)
	return list, err
}

func (c *Client) SaveTeam(ctx context.Context, members []models.TeamMember) error {
	if members == nil {
		members = []models.TeamMember{}
	}
	_, err := c.postJSON(ctx, "/team/update", map[string]interface{}{"teamMembers": members}, nil)
	return err
}

func (c *Client) ListRegistrations(ctx context.Context) ([]models.Registration, error) {
	var list []models.Registration
	err := c.getJSON(ctx, "/admin/registrations", &list)
	return list, err
}

func (c *Client) GetRegistration(ctx context.Context, id string) (models.Registration, error) {
	var reg models.Registration
	err := c.getJSON(ctx, "/admin/registrations/"+id, &reg)
	return reg, err
}

func (c *Client) VerifyRegistration(ctx context.Context, id string, active bool) error {
	body := map[string]interface{}{"registrationId": id, "isActive": active}
	_, err := c.postJSON(ctx, "/admin/verify-registration", body, nil)
	return err
}

// Upload sends one file to POST /upload and returns the stored asset.
func (c *Client) Upload(ctx context.Context, folder, filename string, r io.Reader) (models.MediaAsset, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("folder", folder); err != nil {
		return models.MediaAsset{}, fmt.Errorf("write folder field: %w", err)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, path.Base(filename)))
	h.Set("Content-Type", storage.ContentTypeForExtension(path.Ext(filename)))
	part, err := w.CreatePart(h)
	if err != nil {
		return models.MediaAsset{}, fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return models.MediaAsset{}, fmt.Errorf("copy file: %w", err)
	}
	if err := w.Close(); err != nil {
		return models.MediaAsset{}, fmt.Errorf("close multipart: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/upload", &buf, w.FormDataContentType())
	if err != nil {
		return models.MediaAsset{}, err
	}
	var asset models.MediaAsset
	if _, err := c.do(req, &asset); err != nil {
		return models.MediaAsset{}, err
	}
	return asset.Normalize(), nil
}
