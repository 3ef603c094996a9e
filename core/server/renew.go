package server

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Renewer asks an external authority to refresh certificates on disk.
// The cache picks up the new files on the next reload.
type Renewer interface {
	Renew(ctx context.Context) error
}

// RenewerFunc adapts a function to Renewer.
type RenewerFunc func(ctx context.Context) error

// Renew implements Renewer.
func (f RenewerFunc) Renew(ctx context.Context) error {
	return f(ctx)
}

// CommandRenewer runs an executable, by default "certbot renew".
type CommandRenewer struct {
	Name string
	Args []string
}

// DefaultRenewer returns the certbot renewer.
func DefaultRenewer() CommandRenewer {
	return CommandRenewer{Name: "certbot", Args: []string{"renew"}}
}

// Renew runs the command and waits for it. A non-zero exit status is
// reported together with the command's stderr.
func (r CommandRenewer) Renew(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, r.Name, r.Args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s: %w: %s", ErrRenewFailed, r.String(), err, msg)
		}
		return fmt.Errorf("%w: %s: %w", ErrRenewFailed, r.String(), err)
	}
	return nil
}

// String returns the command line.
func (r CommandRenewer) String() string {
	return strings.TrimSpace(r.Name + " " + strings.Join(r.Args, " "))
}
