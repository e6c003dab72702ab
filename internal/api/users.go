package api

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"strconv"
)

type User struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Image    *string `json:"image"`
}

type UserPage struct {
	Content    []User `json:"content"`
	Page       int    `json:"page"`
	Size       int    `json:"size"`
	TotalPages int    `json:"totalPages"`
}

// Message is the body of endpoints that only report an outcome.
type Message struct {
	Message string `json:"message"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest carries the new username and, optionally, raw image bytes.
type UpdateUserRequest struct {
	Username string
	Image    []byte
}

type updateUserBody struct {
	Username string `json:"username"`
	Image    string `json:"image,omitempty"`
}

// UserUpdate is the PUT response: the fields the server accepted.
type UserUpdate struct {
	Username string  `json:"username"`
	Image    *string `json:"image"`
}

type passwordResetBody struct {
	Email string `json:"email"`
}

const usersPath = "/api/v1/users"

func (c *Client) Login(ctx context.Context, creds Credentials) (User, error) {
	var out User
	err := c.Do(ctx, http.MethodPost, "/api/v1/auth", nil, creds, &out)
	return out, err
}

func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (Message, error) {
	var out Message
	err := c.Do(ctx, http.MethodPost, usersPath, nil, req, &out)
	return out, err
}

func (c *Client) Activate(ctx context.Context, token string) (Message, error) {
	var out Message
	err := c.Do(ctx, http.MethodPatch, usersPath+"/"+url.PathEscape(token)+"/active", nil, nil, &out)
	return out, err
}

func (c *Client) ListUsers(ctx context.Context, page, size int) (UserPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	var out UserPage
	err := c.Do(ctx, http.MethodGet, usersPath, q, nil, &out)
	return out, err
}

func (c *Client) GetUser(ctx context.Context, id string) (User, error) {
	var out User
	err := c.Do(ctx, http.MethodGet, usersPath+"/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

func (c *Client) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (UserUpdate, error) {
	body := updateUserBody{Username: req.Username}
	if len(req.Image) > 0 {
		body.Image = base64.StdEncoding.EncodeToString(req.Image)
	}
	var out UserUpdate
	err := c.Do(ctx, http.MethodPut, usersPath+"/"+url.PathEscape(id), nil, body, &out)
	return out, err
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.Do(ctx, http.MethodDelete, usersPath+"/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) RequestPasswordReset(ctx context.Context, email string) (Message, error) {
	var out Message
	err := c.Do(ctx, http.MethodPost, usersPath+"/password-reset", nil, passwordResetBody{Email: email}, &out)
	return out, err
}
