package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// TrustProxies limits which peers may set X-Forwarded-For and X-Real-IP.
// An empty list trusts nobody, so ClientIP is the socket address. gin keeps
// its trust-everyone default when the list does not parse, so an invalid
// list also falls back to trusting nobody.
func TrustProxies(r *gin.Engine, proxies []string) {
	if err := r.SetTrustedProxies(proxies); err != nil {
		log.Error().Err(err).Strs("proxies", proxies).Msg("Invalid trusted proxies, trusting none")
		r.SetTrustedProxies(nil) //nolint:errcheck // a nil list always parses
	}
}
