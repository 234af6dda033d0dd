package utils

import (
	"fmt"
	"strings"

	"github.com/avct/uasurfer"
)

type UserAgentInfo struct {
	Device  string
	OS      string
	Browser string
	Locale  string
}

// ParseUserAgent returns nil when the device family cannot be recognised.
func ParseUserAgent(uaString string, acceptLanguage string) *UserAgentInfo {
	if strings.TrimSpace(uaString) == "" {
		return nil
	}
	ua := uasurfer.Parse(uaString)

	var device string
	switch ua.DeviceType {
	case uasurfer.DeviceComputer:
		device = "Computer"
	case uasurfer.DeviceTablet:
		device = "Tablet"
	case uasurfer.DevicePhone:
		device = "Phone"
	case uasurfer.DeviceConsole:
		device = "Console"
	case uasurfer.DeviceWearable:
		device = "Wearable"
	case uasurfer.DeviceTV:
		device = "TV"
	default:
		return nil
	}

	os := fmt.Sprintf("%s %d.%d", ua.OS.Name.StringTrimPrefix(), ua.OS.Version.Major, ua.OS.Version.Minor)
	browser := fmt.Sprintf("%s %d.%d", ua.Browser.Name.StringTrimPrefix(), ua.Browser.Version.Major, ua.Browser.Version.Minor)

	locale, _, _ := strings.Cut(acceptLanguage, ",")

	return &UserAgentInfo{
		Device:  device,
		OS:      os,
		Browser: browser,
		Locale:  strings.TrimSpace(locale),
	}
}

// ClientDevice is the short label stored with an answer, e.g. "Phone (iOS 17.2)".
func ClientDevice(uaString string) string {
	info := ParseUserAgent(uaString, "")
	if info == nil {
		return ""
	}
	return fmt.Sprintf("%s (%s)", info.Device, info.OS)
}
