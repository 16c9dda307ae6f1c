// Package gmail uploads prepared emails into the Gmail drafts folder so an
// operator can review and send them by hand.
package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/dmitrymomot/mailmerge/pkg/transport"
)

const user = "me"

// Config locates the OAuth client credentials and the cached token.
type Config struct {
	// CredentialsFile is the OAuth client secret JSON downloaded from the
	// Google Cloud console.
	CredentialsFile string `yaml:"credentials_file"`
	// TokenFile caches the user token between runs. Created on first auth.
	TokenFile string `yaml:"token_file"`
}

// Uploader implements transport.DraftUploader against the Gmail API.
type Uploader struct {
	srv *gmailapi.Service
}

// New authenticates against Gmail and returns an Uploader. On first run the
// operator is sent through the OAuth consent flow; afterwards the cached
// token is reused.
func New(ctx context.Context, cfg Config) (*Uploader, error) {
	b, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(b, gmailapi.GmailComposeScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	httpClient, err := oauthClient(ctx, oauthConfig, cfg.TokenFile)
	if err != nil {
		return nil, err
	}
	srv, err := gmailapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}
	return &Uploader{srv: srv}, nil
}

// UploadDraft implements transport.DraftUploader.
func (u *Uploader) UploadDraft(ctx context.Context, email *transport.Email) error {
	if len(email.To) == 0 {
		return transport.ErrNoRecipient
	}

	raw, err := transport.BuildMessage(email)
	if err != nil {
		return fmt.Errorf("%w: %v", transport.ErrSendFailed, err)
	}

	draft := &gmailapi.Draft{
		Message: &gmailapi.Message{
			Raw: base64.RawURLEncoding.EncodeToString(raw),
		},
	}
	if _, err := u.srv.Users.Drafts.Create(user, draft).Context(ctx).Do(); err != nil {
		return fmt.Errorf("%w: gmail drafts.create: %v", transport.ErrSendFailed, err)
	}
	return nil
}

func oauthClient(ctx context.Context, config *oauth2.Config, tokenFile string) (*http.Client, error) {
	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		tok, err = tokenFromWeb(ctx, config)
		if err != nil {
			return nil, err
		}
		if err := saveToken(tokenFile, tok); err != nil {
			return nil, err
		}
	}
	return config.Client(ctx, tok), nil
}

// tokenFromWeb walks the operator through the OAuth consent flow on the
// terminal.
func tokenFromWeb(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Go to the following link in your browser then type the authorization code:\n%v\n", authURL)

	var authCode string
	if _, err := fmt.Scan(&authCode); err != nil {
		return nil, fmt.Errorf("unable to read authorization code: %w", err)
	}
	tok, err := config.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token from web: %w", err)
	}
	return tok, nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("unable to cache oauth token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}
