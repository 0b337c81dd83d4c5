package auth

import (
	"time"

	"golang.org/x/oauth2"
)

// Tokens is the payload of a successful login. Nothing here is persisted.
type Tokens struct {
	AccessToken string
	IDToken     string

	// Optional fields, set when the server returned them.
	TokenType    string
	RefreshToken string
	Scope        string
	ExpiresIn    int

	// ObtainedAt is when the token response was received.
	ObtainedAt time.Time
}

// OAuth2Token converts t for use with golang.org/x/oauth2 consumers. The ID
// token is available as Extra("id_token").
func (t *Tokens) OAuth2Token() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
	}
	if t.ExpiresIn > 0 {
		tok.Expiry = t.ObtainedAt.Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	extra := map[string]any{"id_token": t.IDToken}
	if t.Scope != "" {
		extra["scope"] = t.Scope
	}
	return tok.WithExtra(extra)
}

// Result is delivered exactly once per login: either Tokens or Err is set.
type Result struct {
	Tokens *Tokens
	Err    error
}

// Succeeded reports whether the flow reached LoggedIn.
func (r Result) Succeeded() bool {
	return r.Err == nil && r.Tokens != nil
}

// Callback receives the terminal result of a login.
type Callback func(Result)

// Executor runs the result callback. It decides which goroutine the callback
// observes, e.g. a UI loop.
type Executor func(fn func())

// InlineExecutor runs the callback on the session's flow goroutine.
func InlineExecutor(fn func()) {
	fn()
}

// ChannelExecutor posts callbacks to ch; whoever drains ch runs them.
func ChannelExecutor(ch chan<- func()) Executor {
	return func(fn func()) {
		ch <- fn
	}
}
