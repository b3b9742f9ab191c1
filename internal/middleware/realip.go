package middleware

import (
	"net"

	"github.com/labstack/echo/v4"
)

// ClientIPExtractor decides which address identifies a caller. Without trusted
// proxies the socket peer address is used and forwarding headers are ignored.
// With trusted proxies X-Forwarded-For is walked from the right and the first
// address outside the trusted ranges wins.
func ClientIPExtractor(trustedProxies []*net.IPNet) echo.IPExtractor {
	if len(trustedProxies) == 0 {
		return echo.ExtractIPDirect()
	}

	options := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, network := range trustedProxies {
		options = append(options, echo.TrustIPRange(network))
	}
	return echo.ExtractIPFromXFFHeader(options...)
}
