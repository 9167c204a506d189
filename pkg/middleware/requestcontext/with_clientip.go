package requestcontext

import (
	"context"
	"net"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/pkg/logger"
	"github.com/gaze-network/ton20-indexer/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type clientIPKey struct{}

type WithClientIPConfig struct {
	// TrustedProxiesIP lists the CIDR ranges of every proxy between the server and the client.
	// The client IP is the last X-Forwarded-For entry outside those ranges.
	TrustedProxiesIP []string `mapstructure:"trusted_proxies_ip"`

	// TrustedHeader names a header holding the client IP (e.g. X-Real-IP, CF-Connecting-IP).
	// A valid IP in this header wins over everything else.
	TrustedHeader string `mapstructure:"trusted_proxies_header"`

	// EnableRejectMalformedRequest answers 403 when a proxied request has no usable client IP.
	EnableRejectMalformedRequest bool `mapstructure:"enable_reject_malformed_request"`
}

// WithClientIP resolves the client IP with X-Forwarded-For spoofing protection.
func WithClientIP(config WithClientIPConfig) Option {
	trusted, err := parseCIDRs(config.TrustedProxiesIP)
	if err != nil {
		logger.Panic("Failed to parse trusted proxies", slogx.Error(err))
	}

	return func(ctx context.Context, c *fiber.Ctx) (context.Context, error) {
		if config.TrustedHeader != "" {
			if ip := c.Get(config.TrustedHeader); net.ParseIP(ip) != nil {
				return context.WithValue(ctx, clientIPKey{}, ip), nil
			}
		}

		rawIPs := c.IPs()
		if len(rawIPs) == 0 {
			return context.WithValue(ctx, clientIPKey{}, c.IP()), nil
		}

		if len(trusted) > 0 {
			ips := lo.Map(rawIPs, func(ip string, _ int) net.IP { return net.ParseIP(ip) })
			for i := len(ips) - 1; i >= 0; i-- {
				if !isTrusted(trusted, ips[i]) {
					return context.WithValue(ctx, clientIPKey{}, ips[i].String()), nil
				}
			}
			return context.WithValue(ctx, clientIPKey{}, rawIPs[0]), nil
		}

		if config.EnableRejectMalformedRequest {
			logger.WarnContext(ctx, "IP spoofing detected, rejecting request",
				slogx.String("event", "requestcontext_ip_spoofing"),
				slogx.String("ip", c.IP()),
				slogx.Any("ips", rawIPs),
			)
			return nil, rejectError{status: fiber.StatusForbidden, message: "not allowed to access"}
		}
		return context.WithValue(ctx, clientIPKey{}, rawIPs[0]), nil
	}
}

// GetClientIP returns the client IP, or an empty string outside a request set up by WithClientIP.
func GetClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

func isTrusted(trusted []*net.IPNet, ip net.IP) bool {
	if ip == nil {
		return false
	}
	return lo.ContainsBy(trusted, func(n *net.IPNet) bool { return n.Contains(ip) })
}

func parseCIDRs(ranges []string) ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(ranges))
	for _, r := range ranges {
		_, ipnet, err := net.ParseCIDR(r)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse CIDR %q", r)
		}
		nets = append(nets, ipnet)
	}
	return nets, nil
}
