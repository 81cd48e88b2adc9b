package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig configures cross-origin access to the GraphQL endpoint and
// the artifact download route.
type CORSConfig struct {
	Enabled          bool
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           int
}

// corsPolicy is the precomputed form of a CORSConfig: the origin set is
// resolved once and the list-valued headers are joined once, at wrap time.
type corsPolicy struct {
	allowAll bool
	origins  map[string]struct{}
	methods  string
	headers  string
	expose   string
	maxAge   string
	creds    bool
}

func newCORSPolicy(cfg CORSConfig) corsPolicy {
	p := corsPolicy{
		origins: make(map[string]struct{}),
		methods: strings.Join(cfg.AllowedMethods, ", "),
		headers: strings.Join(cfg.AllowedHeaders, ", "),
		expose:  strings.Join(cfg.ExposeHeaders, ", "),
		creds:   cfg.AllowCredentials,
	}
	if cfg.MaxAge > 0 {
		p.maxAge = strconv.Itoa(cfg.MaxAge)
	}
	for _, origin := range cfg.AllowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			p.allowAll = true
		} else if origin != "" {
			p.origins[origin] = struct{}{}
		}
	}
	return p
}

func (p corsPolicy) allows(origin string) bool {
	if p.allowAll {
		return true
	}
	_, ok := p.origins[origin]
	return ok
}

func (p corsPolicy) writePreflight(w http.ResponseWriter) {
	if p.methods != "" {
		w.Header().Set("Access-Control-Allow-Methods", p.methods)
	}
	if p.headers != "" {
		w.Header().Set("Access-Control-Allow-Headers", p.headers)
	}
	if p.maxAge != "" {
		w.Header().Set("Access-Control-Max-Age", p.maxAge)
	}
}

// CORSMiddleware answers preflight requests and stamps allow headers on
// cross-origin responses. Browser clients usually serve their UI from a
// different origin than this API, so the expose list typically carries
// the request id header.
func CORSMiddleware(cfg CORSConfig) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	policy := newCORSPolicy(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowed := policy.allows(origin)
			if allowed {
				if policy.allowAll {
					w.Header().Set("Access-Control-Allow-Origin", "*")
				} else {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Add("Vary", "Origin")
					if policy.creds {
						w.Header().Set("Access-Control-Allow-Credentials", "true")
					}
				}
				if policy.expose != "" {
					w.Header().Set("Access-Control-Expose-Headers", policy.expose)
				}
			}

			if r.Method == http.MethodOptions {
				if allowed {
					policy.writePreflight(w)
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
