package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/sheetview/internal/logging"
	"github.com/JonMunkholm/sheetview/internal/session"
)

const sessionIDValue = "sid"

type stateKey struct{}

// withSession resolves the browser's session state from its cookie,
// creating a new session when the cookie is missing, tampered or expired.
// The cookie is re-issued on every request so its expiry slides with the
// server-side idle timeout.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A decode error still yields a fresh session.
		sess, _ := s.cookies.Get(r, s.cfg.Session.CookieName)

		id, _ := sess.Values[sessionIDValue].(string)
		st := s.store.Get(id)

		sess.Values[sessionIDValue] = st.ID()
		if err := sess.Save(r, w); err != nil {
			logging.FromContext(r.Context()).Warn("save session cookie", "error", err)
		}

		ctx := logging.ContextWithSession(r.Context(), st.ID())
		ctx = context.WithValue(ctx, stateKey{}, st)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// stateFrom returns the session state attached by withSession.
func stateFrom(ctx context.Context) *session.State {
	st, _ := ctx.Value(stateKey{}).(*session.State)
	return st
}
