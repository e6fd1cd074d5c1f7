package request

import "strings"

type ClientType string

const (
	ClientWeb     ClientType = "WEB"
	ClientMobile  ClientType = "MOBILE"
	ClientUnknown ClientType = "UNKNOWN"

	HeaderClientType = "X-Client-Type"
)

// ResolveClientType prefers the explicit X-Client-Type header and falls back
// to sniffing the user agent.
func ResolveClientType(header, userAgent string) ClientType {
	switch ClientType(strings.ToUpper(strings.TrimSpace(header))) {
	case ClientWeb:
		return ClientWeb
	case ClientMobile:
		return ClientMobile
	}

	ua := strings.ToLower(userAgent)
	switch {
	case ua == "":
		return ClientUnknown
	case strings.Contains(ua, "okhttp"), strings.Contains(ua, "dart"), strings.Contains(ua, "cfnetwork"):
		return ClientMobile
	case strings.Contains(ua, "mozilla"):
		return ClientWeb
	}
	return ClientUnknown
}

func IsWebClient(t ClientType) bool {
	return t == ClientWeb
}
