// Package cli provides CLI commands for the rota application.
package cli

import (
	gocontext "context"
	"os"

	"github.com/example/rota/internal/ctxutil"
)

// globalActorID stores the acting user ID for the current CLI
// invocation. Set once at startup by DetectAndStoreActor().
var globalActorID string

// DetectAndStoreActor resolves the acting user: the --as flag when
// given, else the ROTA_USER environment variable, else "admin".
// Should be called once at CLI startup in PersistentPreRun.
func DetectAndStoreActor(asFlag string) {
	if asFlag != "" {
		globalActorID = asFlag
		return
	}
	if u := os.Getenv("ROTA_USER"); u != "" {
		globalActorID = u
		return
	}
	globalActorID = "admin"
}

// GetActorID returns the stored actor ID from CLI startup.
func GetActorID() string {
	return globalActorID
}

// NewContext creates a context.Background() with the acting user ID
// embedded. CLI commands should use this instead of
// context.Background() directly.
func NewContext() gocontext.Context {
	ctx := gocontext.Background()
	if globalActorID != "" {
		return ctxutil.WithActorID(ctx, globalActorID)
	}
	return ctx
}
