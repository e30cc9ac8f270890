package middleware

import (
	"net/http"
	"strings"

	"github.com/iho/exchangeledger/internal/usecase"
)

// ActorHeader names the caller on whose behalf a request runs. Identity is
// established upstream; the value is only recorded on emitted events.
const ActorHeader = "X-Actor"

// maxActorLength bounds what is copied from the header into event payloads.
const maxActorLength = 128

// Actor attaches the X-Actor header value to the request context.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := strings.TrimSpace(r.Header.Get(ActorHeader))
		if len(actor) > maxActorLength {
			actor = actor[:maxActorLength]
		}
		if actor != "" {
			r = r.WithContext(usecase.WithActor(r.Context(), actor))
		}
		next.ServeHTTP(w, r)
	})
}
