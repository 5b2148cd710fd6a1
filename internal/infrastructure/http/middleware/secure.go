package middleware

import (
	"net/http"

	"github.com/unrolled/secure"
)

// SecureHeaders hardens API responses. The service is a JSON API that also
// streams attachment downloads, so nosniff is the header that matters most;
// the deny-everything CSP stops a hosted attachment from scripting if a
// browser ever renders one inline. HSTS and host checking are skipped in
// development so plain-HTTP localhost keeps working.
func SecureHeaders(isDevelopment bool, trustedHosts []string) func(next http.Handler) http.Handler {
	s := secure.New(secure.Options{
		IsDevelopment:         isDevelopment,
		AllowedHosts:          trustedHosts,
		ContentTypeNosniff:    true,
		FrameDeny:             true,
		STSSeconds:            31536000,
		STSIncludeSubdomains:  true,
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		ReferrerPolicy:        "no-referrer",
	})
	return s.Handler
}
