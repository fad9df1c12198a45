package main

import (
	"strings"

	"github.com/mileusna/useragent"
)

type deviceInfo struct {
	Type    string
	OS      string
	Browser string
}

// parseDeviceInfo turns the raw User-Agent header into the triple shown in
// the login notification email.
func parseDeviceInfo(uaString string) deviceInfo {
	ua := useragent.Parse(uaString)

	info := deviceInfo{Type: "web"}
	switch {
	case ua.Mobile:
		info.Type = "mobile"
	case ua.Tablet:
		info.Type = "tablet"
	case ua.Desktop:
		info.Type = "desktop"
	}

	if ua.Name != "" {
		info.Browser = strings.TrimSpace(ua.Name + " " + ua.Version)
	} else {
		info.Browser = "Unknown browser"
	}
	if ua.OS != "" {
		info.OS = strings.TrimSpace(ua.OS + " " + ua.OSVersion)
	} else {
		info.OS = "Unknown OS"
	}
	return info
}
