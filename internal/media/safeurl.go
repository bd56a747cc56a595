package media

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
)

const maxRedirects = 10

var (
	errRestrictedAddress = errors.New("restricted network address")
	errSchemeNotAllowed  = errors.New("scheme not allowed")
)

// AddressPolicy reports whether a resolved address may be dialed
type AddressPolicy func(addr netip.AddrPort) bool

// PublicOnly allows globally routable unicast addresses only
func PublicOnly(addr netip.AddrPort) bool {
	ip := addr.Addr().Unmap()
	if !ip.IsValid() {
		return false
	}
	return !(ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsInterfaceLocalMulticast() ||
		ip.IsMulticast() || ip.IsUnspecified())
}

// dialControl runs after name resolution for every connection, redirects included
func dialControl(allow AddressPolicy) func(network, address string, _ syscall.RawConn) error {
	return func(_, address string, _ syscall.RawConn) error {
		addr, err := netip.ParseAddrPort(address)
		if err != nil || !allow(addr) {
			return fmt.Errorf("%w: %s", errRestrictedAddress, address)
		}
		return nil
	}
}

// guardedTransport dials only addresses the policy allows. Proxies are bypassed so the
// policy sees the real destination.
func guardedTransport(allow AddressPolicy) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
		Control:   dialControl(allow),
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext
	return transport
}

func checkScheme(scheme string) error {
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("%w: %s", errSchemeNotAllowed, scheme)
	}
	return nil
}

var httpOnlyRedirects = resty.RedirectPolicyFunc(func(req *http.Request, _ []*http.Request) error {
	return checkScheme(req.URL.Scheme)
})

func isRestricted(err error) bool {
	return errors.Is(err, errRestrictedAddress) || errors.Is(err, errSchemeNotAllowed)
}
